package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/laundrydesk/laundrydesk/internal/application"
)

// registerResources registers all laundrydesk MCP resources on the given server.
func registerResources(s *server.MCPServer, deps Deps) {
	s.AddResource(
		mcplib.NewResource(
			"laundry://dashboard",
			"Dashboard",
			mcplib.WithResourceDescription("Order counts and revenue with day-over-day change"),
			mcplib.WithMIMEType("application/json"),
		),
		func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
			return jsonResource("laundry://dashboard", deps.Dashboard.Dashboard(ctx))
		},
	)

	s.AddResource(
		mcplib.NewResource(
			"laundry://report",
			"Report",
			mcplib.WithResourceDescription("Status distribution, revenue by day, top customers and top items"),
			mcplib.WithMIMEType("application/json"),
		),
		func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
			return jsonResource("laundry://report", deps.Dashboard.Report(application.DefaultTopLimit))
		},
	)

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"laundry://orders/{id}",
			"Order",
			mcplib.WithTemplateDescription("A single order by id"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleOrderResource(deps),
	)
}

func handleOrderResource(deps Deps) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		id := templateArg(request.Params.Arguments["id"])
		if id == "" {
			return nil, fmt.Errorf("order id is required")
		}
		order, err := deps.Orders.Get(id)
		if err != nil {
			return nil, err
		}
		return jsonResource(request.Params.URI, order)
	}
}

// templateArg reads a URI template variable, which the server may hand over
// as a string or a one-element slice.
func templateArg(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func jsonResource(uri string, v interface{}) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
