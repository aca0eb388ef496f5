package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/laundrydesk/laundrydesk/internal/domain"
	"github.com/laundrydesk/laundrydesk/internal/domain/metrics"
)

// ── palette ──
var (
	accent  = lipgloss.Color("#0EA5E9") // sky
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	statusColors = map[domain.Status]lipgloss.Color{
		domain.StatusPending:    warning,
		domain.StatusInProgress: accent,
		domain.StatusCompleted:  success,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	infoStyle     = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	valueStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// Money formats an amount with two decimals.
func Money(symbol string, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + symbol + d.Neg().StringFixed(2)
	}
	return symbol + d.StringFixed(2)
}

// StatusBadge renders a status in its color.
func StatusBadge(s domain.Status) string {
	c, ok := statusColors[s]
	if !ok {
		c = info
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(s.Label())
}

// RenderDashboard renders the home screen summary.
func RenderDashboard(d metrics.Dashboard, symbol string) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("laundrydesk")
	subtitle := dimStyle.Render("Today at the counter")
	revenue := valueStyle.Render(Money(symbol, d.Revenue))
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + revenue + "  " + renderDelta(d.RevenueDelta)))
	b.WriteString("\n\n")

	// ── Cards ──
	renderMetricLine(&b, "Total orders", fmt.Sprintf("%d", d.TotalOrders), d.TotalDelta)
	renderMetricLine(&b, "Pending", fmt.Sprintf("%d", d.PendingOrders), d.PendingDelta)
	renderMetricLine(&b, "In progress", fmt.Sprintf("%d", d.InProgressOrders), metrics.Delta{})
	renderMetricLine(&b, "Completed", fmt.Sprintf("%d", d.CompletedOrders), metrics.Delta{})

	b.WriteString("\n  " + separatorLine + "\n")
	if d.Previous != nil {
		b.WriteString("  " + dimStyle.Render("compared with snapshot of "+d.Previous.TakenAt.Format("2006-01-02 15:04")) + "\n")
	} else {
		b.WriteString("  " + dimStyle.Render("no earlier snapshot yet") + "\n")
	}
	return b.String()
}

func renderMetricLine(b *strings.Builder, label, value string, delta metrics.Delta) {
	fmt.Fprintf(b, "  %-14s %8s", titleStyle.Render(label), valueStyle.Render(value))
	if delta.HasPrior() {
		b.WriteString("  " + renderDelta(delta))
	}
	b.WriteString("\n")
}

func renderDelta(d metrics.Delta) string {
	switch {
	case !d.HasPrior():
		return dimStyle.Render(d.String())
	case *d.Percent > 0:
		return passStyle.Render("▲ " + d.String())
	case *d.Percent < 0:
		return failStyle.Render("▼ " + d.String())
	}
	return infoStyle.Render(d.String())
}
