package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

func TestOrders_RoundTrip(t *testing.T) {
	first, err := domain.NewOrder(domain.OrderDraft{
		Customer: domain.CustomerDraft{Name: "Zoë Ñúñez 王", Phone: "5550001", Address: "12 Rue Čapek"},
		Items: []domain.LineItemDraft{
			{Name: "Duvet", Price: dec("24"), Quantity: 1},
			{Name: "Shirt", Price: dec("7.99"), Quantity: 3},
		},
		Notes: "no starch",
	}, fixedNow)
	require.NoError(t, err)
	second, err := domain.NewOrder(shirtDraft(), fixedNow)
	require.NoError(t, err)

	payload, err := domain.EncodeOrders([]domain.Order{first, second}, fixedNow)
	require.NoError(t, err)
	assert.Contains(t, payload, `"schema_version": 1`)

	decoded, err := domain.DecodeOrders(payload)
	require.NoError(t, err)
	assert.Equal(t, domain.SchemaVersion, decoded.Version)
	assert.Empty(t, decoded.Repairs)
	assert.Equal(t, []domain.Order{first, second}, decoded.Orders)
}

func TestDecodeOrders_Empty(t *testing.T) {
	decoded, err := domain.DecodeOrders("   ")
	require.NoError(t, err)
	assert.Empty(t, decoded.Orders)
}

func TestDecodeOrders_LegacyArrayIsNormalised(t *testing.T) {
	legacy := `[
	  {"id":"a","customer":{"name":"Jo"},"items":[{"name":"Shirt","price":5}],"status":"In Progress","total":99,"createdAt":"2024-01-02T10:00:00Z"},
	  {"id":"a","customer":{"name":"Ann"},"items":[{"id":"i1","name":"Coat","price":"10.5","quantity":2}],"status":"weird"}
	]`
	decoded, err := domain.DecodeOrders(legacy)
	require.NoError(t, err)
	require.Len(t, decoded.Orders, 2)
	assert.Equal(t, 0, decoded.Version)

	first := decoded.Orders[0]
	assert.Equal(t, domain.StatusInProgress, first.Status)
	assert.Equal(t, 1, first.Items[0].Quantity, "missing quantity means one")
	assert.True(t, first.Total.Equal(dec("5")), "stored total is never trusted")
	assert.Equal(t, 2024, first.CreatedAt.Year())
	assert.NotEmpty(t, first.Items[0].ID)

	second := decoded.Orders[1]
	assert.NotEqual(t, "a", second.ID, "duplicate id is reassigned")
	assert.Equal(t, domain.StatusPending, second.Status)
	assert.True(t, second.Total.Equal(dec("21")))

	joined := strings.Join(decoded.Repairs, "\n")
	assert.Contains(t, joined, "unknown status")
	assert.Contains(t, joined, "duplicate")
	assert.Contains(t, joined, "stored total")
}

func TestDecodeOrders_Corrupt(t *testing.T) {
	_, err := domain.DecodeOrders(`{"orders": [`)
	assert.Error(t, err)
}

func TestDecodeOrders_NewerSchemaRejected(t *testing.T) {
	_, err := domain.DecodeOrders(`{"schema_version": 9, "orders": []}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestCustomers_RoundTrip(t *testing.T) {
	c, err := domain.NewCustomer(domain.NewID(), domain.CustomerDraft{Name: "Émile", Phone: "(555) 123-4567"})
	require.NoError(t, err)

	payload, err := domain.EncodeCustomers([]domain.Customer{c}, fixedNow)
	require.NoError(t, err)

	got, err := domain.DecodeCustomers(payload)
	require.NoError(t, err)
	assert.Equal(t, []domain.Customer{c}, got)
}

func TestDecodeCustomers_Legacy(t *testing.T) {
	got, err := domain.DecodeCustomers(`[{"name":"Jo","phone":"555-000"},{"id":"x","name":"Al"}]`)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "555000", got[0].Phone)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "x", got[1].ID)
}
