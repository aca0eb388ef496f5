// Package metrics derives read-only aggregates from an order collection.
// Every function is pure and recomputed from the current collection.
package metrics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// DayKeyLayout is the stable key used for per-day buckets.
const DayKeyLayout = "2006-01-02"

// StatusCount is one row of the status distribution.
type StatusCount struct {
	Status domain.Status `json:"status"`
	Count  int           `json:"count"`
}

// DayRevenue is the revenue of one calendar day.
type DayRevenue struct {
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// CountTotal returns the number of orders.
func CountTotal(orders []domain.Order) int {
	return len(orders)
}

// CountByStatus returns the number of orders in status s.
func CountByStatus(orders []domain.Order, s domain.Status) int {
	n := 0
	for _, o := range orders {
		if o.Status == s {
			n++
		}
	}
	return n
}

// StatusBreakdown returns a count for every status, including zeros, in
// workflow order.
func StatusBreakdown(orders []domain.Order) []StatusCount {
	out := make([]StatusCount, 0, len(domain.ValidStatuses))
	for _, s := range domain.ValidStatuses {
		out = append(out, StatusCount{Status: s, Count: CountByStatus(orders, s)})
	}
	return out
}

// SumRevenue sums order totals regardless of status.
func SumRevenue(orders []domain.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.Total)
	}
	return sum
}

// AverageOrderValue is revenue divided by order count, zero when empty.
func AverageOrderValue(orders []domain.Order) decimal.Decimal {
	if len(orders) == 0 {
		return decimal.Zero
	}
	return SumRevenue(orders).Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
}

// RevenueByDay buckets revenue by the calendar day of CreatedAt in loc,
// ascending by day.
func RevenueByDay(orders []domain.Order, loc *time.Location) []DayRevenue {
	if loc == nil {
		loc = time.Local
	}
	buckets := make(map[string]*DayRevenue)
	for _, o := range orders {
		key := o.CreatedAt.In(loc).Format(DayKeyLayout)
		b, ok := buckets[key]
		if !ok {
			b = &DayRevenue{Day: key, Revenue: decimal.Zero}
			buckets[key] = b
		}
		b.Revenue = b.Revenue.Add(o.Total)
		b.Orders++
	}

	out := make([]DayRevenue, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
