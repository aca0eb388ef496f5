package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// CustomerStat aggregates the orders of one customer.
type CustomerStat struct {
	Name   string          `json:"name"`
	Phone  string          `json:"phone,omitempty"`
	Orders int             `json:"orders"`
	Spent  decimal.Decimal `json:"spent"`
}

// ItemStat aggregates one garment or service across all orders.
type ItemStat struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// Report is the reports screen.
type Report struct {
	GeneratedAt       time.Time       `json:"generated_at"`
	TotalOrders       int             `json:"total_orders"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	StatusBreakdown   []StatusCount   `json:"status_breakdown"`
	RevenueByDay      []DayRevenue    `json:"revenue_by_day"`
	TopCustomers      []CustomerStat  `json:"top_customers"`
	TopItems          []ItemStat      `json:"top_items"`
}

// BuildReport assembles every report section. limit caps the top lists.
func BuildReport(orders []domain.Order, loc *time.Location, now time.Time, limit int) Report {
	return Report{
		GeneratedAt:       now,
		TotalOrders:       CountTotal(orders),
		Revenue:           SumRevenue(orders),
		AverageOrderValue: AverageOrderValue(orders),
		StatusBreakdown:   StatusBreakdown(orders),
		RevenueByDay:      RevenueByDay(orders, loc),
		TopCustomers:      TopCustomers(orders, limit),
		TopItems:          TopItems(orders, limit),
	}
}

// TopCustomers ranks customers by amount spent, then by order count.
// Embedded copies are grouped by customer id, or by name and phone when
// the order was not created from a saved customer.
func TopCustomers(orders []domain.Order, limit int) []CustomerStat {
	byKey := make(map[string]*CustomerStat)
	var keys []string
	for _, o := range orders {
		key := o.Customer.ID
		if key == "" {
			key = strings.ToLower(strings.TrimSpace(o.Customer.Name)) + "|" + o.Customer.Phone
		}
		st, ok := byKey[key]
		if !ok {
			st = &CustomerStat{Name: o.Customer.Name, Phone: o.Customer.Phone, Spent: decimal.Zero}
			byKey[key] = st
			keys = append(keys, key)
		}
		st.Orders++
		st.Spent = st.Spent.Add(o.Total)
	}

	out := make([]CustomerStat, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Spent.Cmp(out[j].Spent); c != 0 {
			return c > 0
		}
		if out[i].Orders != out[j].Orders {
			return out[i].Orders > out[j].Orders
		}
		return out[i].Name < out[j].Name
	})
	return truncate(out, limit)
}

// TopItems ranks line items by revenue, then by quantity. Names are
// matched case-insensitively.
func TopItems(orders []domain.Order, limit int) []ItemStat {
	byName := make(map[string]*ItemStat)
	var keys []string
	for _, o := range orders {
		for _, it := range o.Items {
			key := strings.ToLower(strings.TrimSpace(it.Name))
			st, ok := byName[key]
			if !ok {
				st = &ItemStat{Name: it.Name, Revenue: decimal.Zero}
				byName[key] = st
				keys = append(keys, key)
			}
			st.Quantity += it.Quantity
			st.Revenue = st.Revenue.Add(it.Subtotal())
		}
	}

	out := make([]ItemStat, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byName[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	return truncate(out, limit)
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
