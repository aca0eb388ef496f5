package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

const shortIDLen = 8

// ShortID is the prefix shown in tables. The CLI accepts it back.
func ShortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// RenderOrders renders the order list as a table.
func RenderOrders(orders []domain.Order, symbol string, loc *time.Location) string {
	var b strings.Builder

	if len(orders) == 0 {
		b.WriteString("  " + dimStyle.Render("No orders match.") + "\n")
		return b.String()
	}

	header := fmt.Sprintf("  %-8s  %-20s  %-11s  %5s  %10s  %s", "ID", "CUSTOMER", "STATUS", "ITEMS", "TOTAL", "CREATED")
	b.WriteString(titleStyle.Render(header) + "\n")
	b.WriteString("  " + separatorLine + "\n")

	for _, o := range orders {
		name := o.Customer.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(&b, "  %-8s  %-20s  %s  %5d  %10s  %s\n",
			ShortID(o.ID),
			truncate(name, 20),
			padRight(StatusBadge(o.Status), 11),
			itemCount(o),
			Money(symbol, o.Total),
			dimStyle.Render(o.CreatedAt.In(loc).Format("2006-01-02 15:04")),
		)
	}
	b.WriteString("\n  " + dimStyle.Render(fmt.Sprintf("%d orders", len(orders))) + "\n")
	return b.String()
}

// RenderOrder renders the order detail screen.
func RenderOrder(o domain.Order, symbol string, loc *time.Location) string {
	var b strings.Builder

	title := headerStyle.Render("Order " + ShortID(o.ID))
	b.WriteString(boxStyle.Render(title + "\n" + StatusBadge(o.Status) + "\n\n" + valueStyle.Render(Money(symbol, o.Total))))
	b.WriteString("\n\n")

	b.WriteString("  " + titleStyle.Render("Customer") + "\n")
	fmt.Fprintf(&b, "    %s\n", o.Customer.Name)
	if o.Customer.Phone != "" {
		fmt.Fprintf(&b, "    %s\n", dimStyle.Render(o.Customer.Phone))
	}
	if o.Customer.Address != "" {
		fmt.Fprintf(&b, "    %s\n", dimStyle.Render(o.Customer.Address))
	}

	b.WriteString("\n  " + titleStyle.Render("Items") + "\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "    %-30s %3d × %9s  %10s\n", truncate(it.Name, 30), it.Quantity, Money(symbol, it.Price), Money(symbol, it.Subtotal()))
	}

	if o.Notes != "" {
		b.WriteString("\n  " + titleStyle.Render("Notes") + "\n")
		fmt.Fprintf(&b, "    %s\n", o.Notes)
	}

	b.WriteString("\n  " + separatorLine + "\n")
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("id"), o.ID)
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("created"), o.CreatedAt.In(loc).Format(time.RFC1123))
	return b.String()
}

// RenderReceipt renders a plain printable receipt. No colors are used so
// the output can be piped to a printer.
func RenderReceipt(o domain.Order, shop, symbol string, loc *time.Location) string {
	const width = 40
	var b strings.Builder
	line := strings.Repeat("-", width)

	b.WriteString(center(shop, width) + "\n")
	b.WriteString(center("RECEIPT", width) + "\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Order:    %s\n", ShortID(o.ID))
	fmt.Fprintf(&b, "Date:     %s\n", o.CreatedAt.In(loc).Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Customer: %s\n", o.Customer.Name)
	if o.Customer.Phone != "" {
		fmt.Fprintf(&b, "Phone:    %s\n", o.Customer.Phone)
	}
	if o.Customer.Address != "" {
		fmt.Fprintf(&b, "Address:  %s\n", o.Customer.Address)
	}
	b.WriteString(line + "\n")
	for _, it := range o.Items {
		left := fmt.Sprintf("%d x %s", it.Quantity, truncate(it.Name, 24))
		right := Money(symbol, it.Subtotal())
		b.WriteString(left + strings.Repeat(" ", max(1, width-len([]rune(left))-len([]rune(right)))) + right + "\n")
	}
	b.WriteString(line + "\n")
	total := Money(symbol, o.Total)
	b.WriteString("TOTAL" + strings.Repeat(" ", max(1, width-5-len([]rune(total)))) + total + "\n")
	fmt.Fprintf(&b, "Status:   %s\n", o.Status.Label())
	if o.Notes != "" {
		fmt.Fprintf(&b, "Notes:    %s\n", o.Notes)
	}
	b.WriteString(line + "\n")
	b.WriteString(center("Thank you!", width) + "\n")
	return b.String()
}

// RenderCustomers renders the saved customer list.
func RenderCustomers(customers []domain.Customer) string {
	var b strings.Builder
	if len(customers) == 0 {
		b.WriteString("  " + dimStyle.Render("No saved customers.") + "\n")
		return b.String()
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("  %-8s  %-24s  %-10s  %s", "ID", "NAME", "PHONE", "ADDRESS")) + "\n")
	b.WriteString("  " + separatorLine + "\n")
	for _, c := range customers {
		fmt.Fprintf(&b, "  %-8s  %-24s  %-10s  %s\n", ShortID(c.ID), truncate(c.Name, 24), c.Phone, dimStyle.Render(c.Address))
	}
	return b.String()
}

func itemCount(o domain.Order) int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// padRight pads a styled string to n visible cells.
func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}
