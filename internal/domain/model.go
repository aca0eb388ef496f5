package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the processing state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ValidStatuses enumerates all order statuses in workflow order.
var ValidStatuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
}

// Valid reports whether s is one of ValidStatuses.
func (s Status) Valid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns the human-readable form used on screens and receipts.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// ParseStatus accepts "in_progress", "In Progress" and "in-progress" alike.
func ParseStatus(raw string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	s := Status(norm)
	if !s.Valid() {
		return "", NewValidationError("status", "must be one of pending, in_progress, completed")
	}
	return s, nil
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// Customer is a saved customer record. Orders embed a copy of it by value.
type Customer struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// CustomerDraft is the input for creating or overwriting a customer. Phone
// is free text; NewCustomer keeps only its digits.
type CustomerDraft struct {
	Name    string `validate:"required"`
	Phone   string
	Address string
}

// SanitizePhone strips non-digit characters and keeps at most 10 digits.
func SanitizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 10 {
				break
			}
		}
	}
	return b.String()
}

// NewCustomer validates d and builds a customer with the given id. An empty
// id is allowed for copies embedded in orders that never came from the book.
func NewCustomer(id string, d CustomerDraft) (Customer, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = SanitizePhone(d.Phone)
	d.Address = strings.TrimSpace(d.Address)
	if err := validateStruct("customer", d); err != nil {
		return Customer{}, err
	}
	return Customer{ID: id, Name: d.Name, Phone: d.Phone, Address: d.Address}, nil
}

// LineItem is one garment or service entry within an order.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price × quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// LineItemDraft is the input for one line item.
type LineItemDraft struct {
	Name     string          `validate:"required"`
	Price    decimal.Decimal `validate:"gte=0"`
	Quantity int             `validate:"min=1"`
}

// NewLineItem validates d and assigns a fresh id.
func NewLineItem(d LineItemDraft) (LineItem, error) {
	d.Name = strings.TrimSpace(d.Name)
	if err := validateStruct("item", d); err != nil {
		return LineItem{}, err
	}
	return LineItem{ID: NewID(), Name: d.Name, Price: d.Price, Quantity: d.Quantity}, nil
}

// Order is a laundry ticket.
type Order struct {
	ID        string          `json:"id"`
	Customer  Customer        `json:"customer"`
	Items     []LineItem      `json:"items"`
	Status    Status          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
}

// OrderDraft is the input for creating an order.
type OrderDraft struct {
	Customer CustomerDraft
	// CustomerID links the embedded copy to a saved customer record.
	CustomerID string
	Items      []LineItemDraft
	Notes      string
}

// OrderPatch holds optional changes. Nil fields are left untouched.
type OrderPatch struct {
	Customer *CustomerDraft
	Items    *[]LineItemDraft
	Status   *Status
	Notes    *string
}

// Empty reports whether the patch changes nothing.
func (p OrderPatch) Empty() bool {
	return p.Customer == nil && p.Items == nil && p.Status == nil && p.Notes == nil
}

// NewOrder validates d and builds a pending order created at now.
func NewOrder(d OrderDraft, now time.Time) (Order, error) {
	customer, err := NewCustomer(d.CustomerID, d.Customer)
	if err != nil {
		return Order{}, err
	}
	items, err := buildItems(d.Items)
	if err != nil {
		return Order{}, err
	}
	o := Order{
		ID:        NewID(),
		Customer:  customer,
		Items:     items,
		Status:    StatusPending,
		Notes:     strings.TrimSpace(d.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.Recalculate()
	return o, nil
}

// Apply returns a copy of o with p applied. ID and CreatedAt never change.
func (o Order) Apply(p OrderPatch, now time.Time) (Order, error) {
	next := o.Clone()
	if p.Customer != nil {
		// Keep the link to the saved record while replacing the copy.
		c, err := NewCustomer(o.Customer.ID, *p.Customer)
		if err != nil {
			return Order{}, err
		}
		next.Customer = c
	}
	if p.Items != nil {
		items, err := buildItems(*p.Items)
		if err != nil {
			return Order{}, err
		}
		next.Items = items
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return Order{}, NewValidationError("status", "must be one of pending, in_progress, completed")
		}
		next.Status = *p.Status
	}
	if p.Notes != nil {
		next.Notes = strings.TrimSpace(*p.Notes)
	}
	next.Recalculate()
	next.UpdatedAt = now
	return next, nil
}

// Recalculate sets Total to the sum of item subtotals.
func (o *Order) Recalculate() {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	o.Total = total
}

// Clone returns a deep copy so callers cannot alias the item slice.
func (o Order) Clone() Order {
	c := o
	c.Items = append([]LineItem(nil), o.Items...)
	return c
}

func buildItems(drafts []LineItemDraft) ([]LineItem, error) {
	if len(drafts) == 0 {
		return nil, NewValidationError("items", "at least one item is required")
	}
	items := make([]LineItem, 0, len(drafts))
	for _, d := range drafts {
		it, err := NewLineItem(d)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
