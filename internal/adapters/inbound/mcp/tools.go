package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shopspring/decimal"

	"github.com/laundrydesk/laundrydesk/internal/application"
	"github.com/laundrydesk/laundrydesk/internal/domain"
	"github.com/laundrydesk/laundrydesk/internal/domain/search"
)

const itemsDescription = `JSON array of line items, e.g. [{"name":"Shirt","price":"7.99","quantity":2}]. quantity defaults to 1.`

// registerTools registers all laundrydesk MCP tools on the given server.
func registerTools(s *server.MCPServer, deps Deps) {
	s.AddTool(
		mcplib.NewTool("laundry_list_orders",
			mcplib.WithDescription("List orders, filtered by a case-insensitive customer name query and a status"),
			mcplib.WithString("query", mcplib.Description("Substring of the customer name")),
			mcplib.WithString("status", mcplib.Description("all, pending, in_progress or completed (default: all)")),
		),
		handleListOrders(deps),
	)

	s.AddTool(
		mcplib.NewTool("laundry_get_order",
			mcplib.WithDescription("Returns one order by id"),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("Order id")),
		),
		handleGetOrder(deps),
	)

	s.AddTool(
		mcplib.NewTool("laundry_create_order",
			mcplib.WithDescription("Create a pending order. The total is computed from the items."),
			mcplib.WithString("customer_name", mcplib.Description("Customer name (required unless customer_id is given)")),
			mcplib.WithString("customer_phone", mcplib.Description("Customer phone, digits only are kept")),
			mcplib.WithString("customer_address", mcplib.Description("Customer address")),
			mcplib.WithString("customer_id", mcplib.Description("Saved customer id to copy onto the order")),
			mcplib.WithString("items_json", mcplib.Required(), mcplib.Description(itemsDescription)),
			mcplib.WithString("notes", mcplib.Description("Free-text notes")),
		),
		handleCreateOrder(deps),
	)

	s.AddTool(
		mcplib.NewTool("laundry_update_order",
			mcplib.WithDescription("Change the items, notes or status of an order. Omitted fields are left untouched."),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("Order id")),
			mcplib.WithString("items_json", mcplib.Description("Replacement items. "+itemsDescription)),
			mcplib.WithString("notes", mcplib.Description("Replacement notes")),
			mcplib.WithString("status", mcplib.Description("pending, in_progress or completed")),
		),
		handleUpdateOrder(deps),
	)

	s.AddTool(
		mcplib.NewTool("laundry_update_status",
			mcplib.WithDescription("Set the status of one order"),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("Order id")),
			mcplib.WithString("status", mcplib.Required(), mcplib.Description("pending, in_progress or completed")),
		),
		handleUpdateStatus(deps),
	)

	s.AddTool(
		mcplib.NewTool("laundry_bulk_set_status",
			mcplib.WithDescription("Set the status of every order at once"),
			mcplib.WithString("status", mcplib.Required(), mcplib.Description("pending, in_progress or completed")),
		),
		handleBulkSetStatus(deps),
	)

	s.AddTool(
		mcplib.NewTool("laundry_delete_order",
			mcplib.WithDescription("Delete an order. Deleting an unknown id does nothing."),
			mcplib.WithString("id", mcplib.Required(), mcplib.Description("Order id")),
		),
		handleDeleteOrder(deps),
	)

	s.AddTool(
		mcplib.NewTool("laundry_dashboard",
			mcplib.WithDescription("Returns order counts and revenue with the change since the last snapshot before today"),
		),
		handleDashboard(deps),
	)

	s.AddTool(
		mcplib.NewTool("laundry_report",
			mcplib.WithDescription("Returns status distribution, revenue by day, top customers and top items"),
			mcplib.WithNumber("top", mcplib.Description("Length of the top customer and item lists (default 5)")),
		),
		handleReport(deps),
	)

	s.AddTool(
		mcplib.NewTool("laundry_list_customers",
			mcplib.WithDescription("List saved customers"),
		),
		handleListCustomers(deps),
	)

	s.AddTool(
		mcplib.NewTool("laundry_add_customer",
			mcplib.WithDescription("Save a customer for reuse in new orders"),
			mcplib.WithString("name", mcplib.Required(), mcplib.Description("Customer name")),
			mcplib.WithString("phone", mcplib.Description("Phone, digits only are kept")),
			mcplib.WithString("address", mcplib.Description("Address")),
		),
		handleAddCustomer(deps),
	)
}

func handleListOrders(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		filter, err := search.ParseStatusFilter(request.GetString("status", string(search.All)))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(deps.Dashboard.Search(request.GetString("query", ""), filter))
	}
}

func handleGetOrder(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		order, err := deps.Orders.Get(id)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(order)
	}
}

func handleCreateOrder(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if err := deps.Session.Require(); err != nil {
			return errorResult(err.Error()), nil
		}
		raw, err := request.RequireString("items_json")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		items, err := parseItems(raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		draft := domain.OrderDraft{
			Customer: domain.CustomerDraft{
				Name:    request.GetString("customer_name", ""),
				Phone:   request.GetString("customer_phone", ""),
				Address: request.GetString("customer_address", ""),
			},
			Items: items,
			Notes: request.GetString("notes", ""),
		}
		if id := request.GetString("customer_id", ""); id != "" {
			fromBook, err := deps.Customers.Draft(id)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			fromBook.Items, fromBook.Notes = draft.Items, draft.Notes
			draft = fromBook
		}

		order, err := deps.Orders.Create(draft)
		if err != nil {
			return errorResult(fmt.Sprintf("create failed: %v", err)), nil
		}
		return jsonResult(order)
	}
}

func handleUpdateOrder(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if err := deps.Session.Require(); err != nil {
			return errorResult(err.Error()), nil
		}
		id, err := request.RequireString("id")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		var patch domain.OrderPatch
		args := request.GetArguments()
		if raw, ok := args["items_json"].(string); ok && raw != "" {
			items, err := parseItems(raw)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			patch.Items = &items
		}
		if notes, ok := args["notes"].(string); ok {
			patch.Notes = &notes
		}
		if raw, ok := args["status"].(string); ok && raw != "" {
			status, err := domain.ParseStatus(raw)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			patch.Status = &status
		}
		if patch.Empty() {
			return errorResult("nothing to update: give items_json, notes or status"), nil
		}

		order, err := deps.Orders.Update(id, patch)
		if err != nil {
			return errorResult(fmt.Sprintf("update failed: %v", err)), nil
		}
		return jsonResult(order)
	}
}

func handleUpdateStatus(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if err := deps.Session.Require(); err != nil {
			return errorResult(err.Error()), nil
		}
		id, err := request.RequireString("id")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		raw, err := request.RequireString("status")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		order, err := deps.Orders.SetStatus(id, status)
		if err != nil {
			return errorResult(fmt.Sprintf("status change failed: %v", err)), nil
		}
		return jsonResult(order)
	}
}

func handleBulkSetStatus(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if err := deps.Session.Require(); err != nil {
			return errorResult(err.Error()), nil
		}
		raw, err := request.RequireString("status")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		orders, err := deps.Orders.BulkSetStatus(status)
		if err != nil {
			return errorResult(fmt.Sprintf("bulk status change failed: %v", err)), nil
		}
		return jsonResult(orders)
	}
}

func handleDeleteOrder(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if err := deps.Session.Require(); err != nil {
			return errorResult(err.Error()), nil
		}
		id, err := request.RequireString("id")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if err := deps.Orders.Remove(id); err != nil {
			return errorResult(fmt.Sprintf("delete failed: %v", err)), nil
		}
		return textResult(fmt.Sprintf("order %s deleted", id)), nil
	}
}

func handleDashboard(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(deps.Dashboard.Dashboard(ctx))
	}
}

func handleReport(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		top := request.GetInt("top", application.DefaultTopLimit)
		return jsonResult(deps.Dashboard.Report(top))
	}
}

func handleListCustomers(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(deps.Customers.List())
	}
}

func handleAddCustomer(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if err := deps.Session.Require(); err != nil {
			return errorResult(err.Error()), nil
		}
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		c, err := deps.Customers.Add(domain.CustomerDraft{
			Name:    name,
			Phone:   request.GetString("phone", ""),
			Address: request.GetString("address", ""),
		})
		if err != nil {
			return errorResult(fmt.Sprintf("add customer failed: %v", err)), nil
		}
		return jsonResult(c)
	}
}

type itemArg struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity *int            `json:"quantity"`
}

func parseItems(raw string) ([]domain.LineItemDraft, error) {
	var args []itemArg
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("items_json: %w", err)
	}
	items := make([]domain.LineItemDraft, len(args))
	for i, a := range args {
		qty := 1
		if a.Quantity != nil {
			qty = *a.Quantity
		}
		items[i] = domain.LineItemDraft{Name: a.Name, Price: a.Price, Quantity: qty}
	}
	return items, nil
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
