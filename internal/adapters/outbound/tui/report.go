package tui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/laundrydesk/laundrydesk/internal/domain/metrics"
)

const barWidth = 30

// RenderReport renders the reports screen: status distribution, revenue
// by day and the top lists.
func RenderReport(r metrics.Report, symbol string) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("Reports")
	summary := fmt.Sprintf("%d orders · %s revenue · %s avg", r.TotalOrders, Money(symbol, r.Revenue), Money(symbol, r.AverageOrderValue))
	b.WriteString(boxStyle.Render(title + "\n" + dimStyle.Render(summary)))
	b.WriteString("\n\n")

	// ── Status distribution ──
	b.WriteString("  " + titleStyle.Render("Status distribution") + "\n")
	for _, sc := range r.StatusBreakdown {
		pct := 0
		if r.TotalOrders > 0 {
			pct = sc.Count * 100 / r.TotalOrders
		}
		fmt.Fprintf(&b, "    %s %4d  %s\n", padRight(StatusBadge(sc.Status), 12), sc.Count, bar(pct, 100))
	}

	// ── Revenue by day ──
	b.WriteString("\n  " + titleStyle.Render("Revenue by day") + "\n")
	if len(r.RevenueByDay) == 0 {
		b.WriteString("    " + dimStyle.Render("no revenue yet") + "\n")
	}
	peak := decimal.Zero
	for _, d := range r.RevenueByDay {
		if d.Revenue.GreaterThan(peak) {
			peak = d.Revenue
		}
	}
	for _, d := range r.RevenueByDay {
		filled := 0
		if peak.IsPositive() {
			filled = int(d.Revenue.Div(peak).Mul(decimal.NewFromInt(100)).IntPart())
		}
		fmt.Fprintf(&b, "    %s  %10s  %s\n", d.Day, Money(symbol, d.Revenue), bar(filled, 100))
	}

	// ── Top lists ──
	if len(r.TopCustomers) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Top customers") + "\n")
		for i, c := range r.TopCustomers {
			fmt.Fprintf(&b, "    %d. %-24s %3d orders  %10s\n", i+1, truncate(c.Name, 24), c.Orders, Money(symbol, c.Spent))
		}
	}
	if len(r.TopItems) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Top items") + "\n")
		for i, it := range r.TopItems {
			fmt.Fprintf(&b, "    %d. %-24s %3d pcs     %10s\n", i+1, truncate(it.Name, 24), it.Quantity, Money(symbol, it.Revenue))
		}
	}

	b.WriteString("\n  " + separatorLine + "\n")
	b.WriteString("  " + dimStyle.Render("generated "+r.GeneratedAt.Format("2006-01-02 15:04")) + "\n")
	return b.String()
}

func bar(value, total int) string {
	filled := 0
	if total > 0 {
		filled = value * barWidth / total
	}
	if filled > barWidth {
		filled = barWidth
	}
	return passStyle.Render(strings.Repeat("█", filled)) + faintStyle.Render(strings.Repeat("░", barWidth-filled))
}
