// Package search narrows an order collection by customer name and status.
package search

import (
	"strings"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// StatusFilter is either All or one order status.
type StatusFilter string

// All matches every status.
const All StatusFilter = "all"

// ParseStatusFilter accepts "all" (or empty) and anything ParseStatus accepts.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, string(All)) {
		return All, nil
	}
	s, err := domain.ParseStatus(trimmed)
	if err != nil {
		return "", err
	}
	return StatusFilter(s), nil
}

// Matches reports whether o passes the status filter.
func (f StatusFilter) Matches(o domain.Order) bool {
	return f == All || f == "" || domain.Status(f) == o.Status
}

// Filter returns the orders whose customer name contains query
// (case-insensitive) and whose status matches status. Input order is kept.
// A customer without a name only matches the empty query.
func Filter(orders []domain.Order, query string, status StatusFilter) []domain.Order {
	q := strings.ToLower(query)
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if !status.Matches(o) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(o.Customer.Name), q) {
			continue
		}
		out = append(out, o)
	}
	return out
}
