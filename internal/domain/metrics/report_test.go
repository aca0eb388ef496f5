package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundrydesk/laundrydesk/internal/domain"
	"github.com/laundrydesk/laundrydesk/internal/domain/metrics"
)

func TestTopCustomers(t *testing.T) {
	orders := sampleOrders()
	orders = append(orders, order("Ann", domain.StatusPending, day1, item("Coat", "1", 1)))

	top := metrics.TopCustomers(orders, 0)
	require.Len(t, top, 2, "Jo and jo share a name and an empty phone")
	assert.Equal(t, "Jo", top[0].Name)
	assert.Equal(t, 2, top[0].Orders)
	assert.True(t, top[0].Spent.Equal(dec("26.97")))
	assert.Equal(t, "Ann", top[1].Name)
	assert.True(t, top[1].Spent.Equal(dec("21")))
}

func TestTopCustomers_GroupsByCustomerID(t *testing.T) {
	a := order("Jo", domain.StatusPending, day1, item("Shirt", "5", 1))
	a.Customer.ID = "c1"
	b := order("Joanna", domain.StatusPending, day1, item("Shirt", "5", 1))
	b.Customer.ID = "c1"

	top := metrics.TopCustomers([]domain.Order{a, b}, 5)
	require.Len(t, top, 1)
	assert.Equal(t, 2, top[0].Orders)
	assert.Equal(t, "Jo", top[0].Name, "first embedded copy names the group")
}

func TestTopItems(t *testing.T) {
	top := metrics.TopItems(sampleOrders(), 2)
	require.Len(t, top, 2)
	assert.Equal(t, "Shirt", top[0].Name)
	assert.Equal(t, 3, top[0].Quantity)
	assert.True(t, top[0].Revenue.Equal(dec("23.97")))
	assert.Equal(t, "Suit", top[1].Name)
}

func TestBuildReport(t *testing.T) {
	now := day1.Add(48 * time.Hour)
	r := metrics.BuildReport(sampleOrders(), time.UTC, now, 5)

	assert.Equal(t, now, r.GeneratedAt)
	assert.Equal(t, 3, r.TotalOrders)
	assert.Len(t, r.StatusBreakdown, 3)
	assert.Len(t, r.RevenueByDay, 2)
	assert.NotEmpty(t, r.TopCustomers)
	assert.NotEmpty(t, r.TopItems)
	assert.True(t, r.Revenue.Equal(dec("46.97")))
}
