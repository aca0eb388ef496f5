package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SchemaVersion is written into every persisted payload. Version 0 is the
// bare JSON array written by the first releases.
const SchemaVersion = 1

type orderEnvelope struct {
	SchemaVersion int         `json:"schema_version"`
	SavedAt       time.Time   `json:"saved_at"`
	Orders        []wireOrder `json:"orders"`
}

type customerEnvelope struct {
	SchemaVersion int        `json:"schema_version"`
	SavedAt       time.Time  `json:"saved_at"`
	Customers     []Customer `json:"customers"`
}

// wireOrder accepts both the current snake_case layout and the camelCase
// keys of version 0 payloads.
type wireOrder struct {
	ID              string          `json:"id"`
	Customer        *Customer       `json:"customer"`
	Items           []wireItem      `json:"items"`
	Status          string          `json:"status"`
	Total           decimal.Decimal `json:"total"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at,omitempty"`
	LegacyCreatedAt *time.Time      `json:"createdAt,omitempty"`
}

type wireItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity *int            `json:"quantity,omitempty"`
}

// DecodedOrders is the result of parsing a persisted order payload.
type DecodedOrders struct {
	Orders  []Order
	Version int
	// Repairs lists every normalisation applied while loading.
	Repairs []string
}

// EncodeOrders serialises the collection as a versioned JSON document.
func EncodeOrders(orders []Order, savedAt time.Time) (string, error) {
	env := orderEnvelope{
		SchemaVersion: SchemaVersion,
		SavedAt:       savedAt,
		Orders:        make([]wireOrder, 0, len(orders)),
	}
	for _, o := range orders {
		env.Orders = append(env.Orders, toWire(o))
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding orders: %w", err)
	}
	return string(data), nil
}

// DecodeOrders parses a payload written by EncodeOrders or by a version 0
// release and restores every model invariant.
func DecodeOrders(payload string) (DecodedOrders, error) {
	var (
		wire    []wireOrder
		version int
	)
	trimmed := bytes.TrimSpace([]byte(payload))
	switch {
	case len(trimmed) == 0:
		return DecodedOrders{Version: SchemaVersion}, nil
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return DecodedOrders{}, fmt.Errorf("parsing legacy orders: %w", err)
		}
	default:
		var env orderEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return DecodedOrders{}, fmt.Errorf("parsing orders: %w", err)
		}
		if env.SchemaVersion > SchemaVersion {
			return DecodedOrders{}, fmt.Errorf("orders schema_version %d is newer than supported %d", env.SchemaVersion, SchemaVersion)
		}
		wire, version = env.Orders, env.SchemaVersion
	}

	out := DecodedOrders{Orders: make([]Order, 0, len(wire)), Version: version}
	seen := make(map[string]bool, len(wire))
	for i, w := range wire {
		o := fromWire(w, &out.Repairs)
		if o.ID == "" || seen[o.ID] {
			old := o.ID
			o.ID = NewID()
			out.Repairs = append(out.Repairs, fmt.Sprintf("order #%d: duplicate or empty id %q reassigned to %s", i, old, o.ID))
		}
		seen[o.ID] = true
		out.Orders = append(out.Orders, o)
	}
	return out, nil
}

func toWire(o Order) wireOrder {
	items := make([]wireItem, 0, len(o.Items))
	for _, it := range o.Items {
		q := it.Quantity
		items = append(items, wireItem{ID: it.ID, Name: it.Name, Price: it.Price, Quantity: &q})
	}
	c := o.Customer
	return wireOrder{
		ID:        o.ID,
		Customer:  &c,
		Items:     items,
		Status:    string(o.Status),
		Total:     o.Total,
		Notes:     o.Notes,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func fromWire(w wireOrder, repairs *[]string) Order {
	o := Order{
		ID:        w.ID,
		Notes:     w.Notes,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if w.Customer != nil {
		o.Customer = *w.Customer
	}
	if o.CreatedAt.IsZero() && w.LegacyCreatedAt != nil {
		o.CreatedAt = *w.LegacyCreatedAt
	}

	status, err := ParseStatus(w.Status)
	if err != nil {
		*repairs = append(*repairs, fmt.Sprintf("order %s: unknown status %q reset to pending", w.ID, w.Status))
		status = StatusPending
	}
	o.Status = status

	for _, wi := range w.Items {
		it := LineItem{ID: wi.ID, Name: wi.Name, Price: wi.Price, Quantity: 1}
		if wi.Quantity != nil && *wi.Quantity >= 1 {
			it.Quantity = *wi.Quantity
		} else if wi.Quantity != nil {
			*repairs = append(*repairs, fmt.Sprintf("order %s: item %q quantity %d raised to 1", w.ID, wi.Name, *wi.Quantity))
		}
		if it.Price.IsNegative() {
			*repairs = append(*repairs, fmt.Sprintf("order %s: item %q negative price cleared", w.ID, wi.Name))
			it.Price = decimal.Zero
		}
		if it.ID == "" {
			it.ID = NewID()
		}
		o.Items = append(o.Items, it)
	}

	o.Recalculate()
	if !w.Total.IsZero() && !w.Total.Equal(o.Total) {
		*repairs = append(*repairs, fmt.Sprintf("order %s: stored total %s replaced by %s", w.ID, w.Total, o.Total))
	}
	return o
}

// EncodeCustomers serialises the customer book.
func EncodeCustomers(customers []Customer, savedAt time.Time) (string, error) {
	env := customerEnvelope{SchemaVersion: SchemaVersion, SavedAt: savedAt, Customers: customers}
	if env.Customers == nil {
		env.Customers = []Customer{}
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding customers: %w", err)
	}
	return string(data), nil
}

// DecodeCustomers parses a customer payload. Phones are re-sanitised and
// records without an id get one.
func DecodeCustomers(payload string) ([]Customer, error) {
	var customers []Customer
	trimmed := bytes.TrimSpace([]byte(payload))
	switch {
	case len(trimmed) == 0:
		return nil, nil
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &customers); err != nil {
			return nil, fmt.Errorf("parsing legacy customers: %w", err)
		}
	default:
		var env customerEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("parsing customers: %w", err)
		}
		if env.SchemaVersion > SchemaVersion {
			return nil, fmt.Errorf("customers schema_version %d is newer than supported %d", env.SchemaVersion, SchemaVersion)
		}
		customers = env.Customers
	}

	seen := make(map[string]bool, len(customers))
	for i := range customers {
		customers[i].Phone = SanitizePhone(customers[i].Phone)
		if customers[i].ID == "" || seen[customers[i].ID] {
			customers[i].ID = NewID()
		}
		seen[customers[i].ID] = true
	}
	return customers, nil
}
