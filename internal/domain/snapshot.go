package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricsSnapshot is a point-in-time copy of the headline metrics. The most
// recent snapshot is the "previous period" for dashboard deltas.
type MetricsSnapshot struct {
	TakenAt       time.Time       `json:"taken_at"`
	TotalOrders   int             `json:"total_orders"`
	PendingOrders int             `json:"pending_orders"`
	Revenue       decimal.Decimal `json:"revenue"`
}
