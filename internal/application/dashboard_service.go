package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/laundrydesk/laundrydesk/internal/domain"
	"github.com/laundrydesk/laundrydesk/internal/domain/metrics"
	"github.com/laundrydesk/laundrydesk/internal/domain/search"
)

// DefaultTopLimit caps the top customer and top item lists.
const DefaultTopLimit = 5

// DashboardService derives the read-only views from the current order
// collection. Nothing here is cached.
type DashboardService struct {
	orders  *OrderStore
	history domain.SnapshotHistory
	opts    options
	log     logrus.FieldLogger
}

func NewDashboardService(orders *OrderStore, history domain.SnapshotHistory, opts ...Option) *DashboardService {
	o := buildOptions(opts)
	return &DashboardService{
		orders:  orders,
		history: history,
		opts:    o,
		log:     o.log.WithField("component", "dashboard"),
	}
}

// Dashboard compares current metrics with the latest snapshot taken before
// today. A missing history only removes the deltas.
func (s *DashboardService) Dashboard(ctx context.Context) metrics.Dashboard {
	prev, err := s.previous(ctx)
	if err != nil {
		s.log.WithError(err).Warn("snapshot history unavailable")
	}
	return metrics.BuildDashboard(s.orders.List(), prev)
}

func (s *DashboardService) previous(ctx context.Context) (*domain.MetricsSnapshot, error) {
	if s.history == nil {
		return nil, nil
	}
	snaps, err := s.history.Load(ctx)
	if err != nil {
		return nil, err
	}
	today := beginningOfDay(s.opts.now(), s.opts.loc)
	var latest *domain.MetricsSnapshot
	for i := range snaps {
		snap := snaps[i]
		if !snap.TakenAt.Before(today) {
			continue
		}
		if latest == nil || snap.TakenAt.After(latest.TakenAt) {
			latest = &snap
		}
	}
	return latest, nil
}

// Snapshot captures the current metrics into the history.
func (s *DashboardService) Snapshot(ctx context.Context) (domain.MetricsSnapshot, error) {
	snap := metrics.Capture(s.orders.List(), s.opts.now())
	if s.history == nil {
		return snap, fmt.Errorf("no snapshot history configured")
	}
	if err := s.history.Save(ctx, snap); err != nil {
		return snap, fmt.Errorf("saving snapshot: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"total_orders": snap.TotalOrders,
		"revenue":      snap.Revenue.StringFixed(2),
	}).Info("metrics snapshot saved")
	return snap, nil
}

// Report builds the reports screen.
func (s *DashboardService) Report(limit int) metrics.Report {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	return metrics.BuildReport(s.orders.List(), s.opts.loc, s.opts.now(), limit)
}

// Search filters the current collection.
func (s *DashboardService) Search(query string, status search.StatusFilter) []domain.Order {
	return search.Filter(s.orders.List(), query, status)
}

func beginningOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
