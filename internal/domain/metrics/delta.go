package metrics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Delta is a period-over-period change. Percent is nil when there is no
// usable previous value.
type Delta struct {
	Percent *int `json:"percent"`
}

// HasPrior reports whether a percentage could be computed.
func (d Delta) HasPrior() bool { return d.Percent != nil }

func (d Delta) String() string {
	if d.Percent == nil {
		return "no prior data"
	}
	return fmt.Sprintf("%+d%%", *d.Percent)
}

// PercentChange returns (current-previous)/previous*100 rounded half away
// from zero. A missing or zero previous value yields an empty Delta.
func PercentChange(current, previous decimal.Decimal, hasPrevious bool) Delta {
	if !hasPrevious || previous.IsZero() {
		return Delta{}
	}
	pct := current.Sub(previous).Div(previous).Mul(hundred).Round(0)
	v := int(pct.IntPart())
	return Delta{Percent: &v}
}

// PercentChangeCount is PercentChange over integer counts.
func PercentChangeCount(current, previous int, hasPrevious bool) Delta {
	return PercentChange(decimal.NewFromInt(int64(current)), decimal.NewFromInt(int64(previous)), hasPrevious)
}

// Capture takes a snapshot of the headline metrics.
func Capture(orders []domain.Order, at time.Time) domain.MetricsSnapshot {
	return domain.MetricsSnapshot{
		TakenAt:       at,
		TotalOrders:   CountTotal(orders),
		PendingOrders: CountByStatus(orders, domain.StatusPending),
		Revenue:       SumRevenue(orders),
	}
}

// Dashboard is the home screen summary.
type Dashboard struct {
	TotalOrders      int                     `json:"total_orders"`
	PendingOrders    int                     `json:"pending_orders"`
	InProgressOrders int                     `json:"in_progress_orders"`
	CompletedOrders  int                     `json:"completed_orders"`
	Revenue          decimal.Decimal         `json:"revenue"`
	TotalDelta       Delta                   `json:"total_delta"`
	PendingDelta     Delta                   `json:"pending_delta"`
	RevenueDelta     Delta                   `json:"revenue_delta"`
	Previous         *domain.MetricsSnapshot `json:"previous,omitempty"`
}

// BuildDashboard computes current metrics and their change against
// previous, which may be nil.
func BuildDashboard(orders []domain.Order, previous *domain.MetricsSnapshot) Dashboard {
	d := Dashboard{
		TotalOrders:      CountTotal(orders),
		PendingOrders:    CountByStatus(orders, domain.StatusPending),
		InProgressOrders: CountByStatus(orders, domain.StatusInProgress),
		CompletedOrders:  CountByStatus(orders, domain.StatusCompleted),
		Revenue:          SumRevenue(orders),
		Previous:         previous,
	}
	has := previous != nil
	var prev domain.MetricsSnapshot
	if has {
		prev = *previous
	}
	d.TotalDelta = PercentChangeCount(d.TotalOrders, prev.TotalOrders, has)
	d.PendingDelta = PercentChangeCount(d.PendingOrders, prev.PendingOrders, has)
	d.RevenueDelta = PercentChange(d.Revenue, prev.Revenue, has)
	return d
}
