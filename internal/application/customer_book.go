package application

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// CustomerBook holds saved customers. There is no delete path; a record
// can only be overwritten through an edit. Orders keep their own copies,
// so editing a customer never rewrites existing orders.
type CustomerBook struct {
	kv     domain.KVStore
	opts   options
	log    logrus.FieldLogger
	writer *snapshotWriter

	mu        sync.RWMutex
	customers []domain.Customer
}

func NewCustomerBook(kv domain.KVStore, opts ...Option) *CustomerBook {
	o := buildOptions(opts)
	return &CustomerBook{
		kv:        kv,
		opts:      o,
		log:       o.log.WithField("component", "customer_book"),
		writer:    newSnapshotWriter(domain.KeyCustomers, kv, o),
		customers: []domain.Customer{},
	}
}

// Load reads the saved customers. Like OrderStore.Load it never fails, and
// an unreadable payload is backed up before the book starts empty.
func (b *CustomerBook) Load(ctx context.Context) []domain.Customer {
	customers := []domain.Customer{}
	raw, ok, err := b.kv.Get(ctx, domain.KeyCustomers)
	switch {
	case err != nil:
		b.report(&domain.PersistenceError{Op: "load", Key: domain.KeyCustomers, Err: err})
	case ok:
		decoded, err := domain.DecodeCustomers(raw)
		if err != nil {
			backupCorrupt(ctx, b.kv, b.log, domain.CorruptBackupKey(domain.KeyCustomers, b.opts.now()), raw)
			b.report(&domain.PersistenceError{Op: "load", Key: domain.KeyCustomers, Err: err})
			break
		}
		customers = append(customers, decoded...)
	}

	b.mu.Lock()
	b.customers = customers
	b.mu.Unlock()

	b.log.WithField("customers", len(customers)).Info("customers loaded")
	return b.List()
}

// Add saves a new customer.
func (b *CustomerBook) Add(draft domain.CustomerDraft) (domain.Customer, error) {
	c, err := domain.NewCustomer(domain.NewID(), draft)
	if err != nil {
		return domain.Customer{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.customers = append(b.customers, c)
	b.persistLocked()

	b.log.WithField("customer_id", c.ID).Info("customer added")
	return c, nil
}

// Overwrite replaces every field of an existing customer except its id.
func (b *CustomerBook) Overwrite(id string, draft domain.CustomerDraft) (domain.Customer, error) {
	c, err := domain.NewCustomer(id, draft)
	if err != nil {
		return domain.Customer{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(id)
	if i < 0 {
		return domain.Customer{}, domain.NewNotFoundError("customer", id)
	}
	b.customers[i] = c
	b.persistLocked()

	b.log.WithField("customer_id", id).Info("customer overwritten")
	return c, nil
}

// Get returns one customer.
func (b *CustomerBook) Get(id string) (domain.Customer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := b.indexLocked(id)
	if i < 0 {
		return domain.Customer{}, domain.NewNotFoundError("customer", id)
	}
	return b.customers[i], nil
}

// List returns customers sorted by name.
func (b *CustomerBook) List() []domain.Customer {
	b.mu.RLock()
	out := append([]domain.Customer{}, b.customers...)
	b.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Draft returns an order draft pre-filled from a saved customer.
func (b *CustomerBook) Draft(id string) (domain.OrderDraft, error) {
	c, err := b.Get(id)
	if err != nil {
		return domain.OrderDraft{}, err
	}
	return domain.OrderDraft{
		CustomerID: c.ID,
		Customer:   domain.CustomerDraft{Name: c.Name, Phone: c.Phone, Address: c.Address},
	}, nil
}

// Flush waits for scheduled writes.
func (b *CustomerBook) Flush(ctx context.Context) error {
	return b.writer.Wait(ctx)
}

func (b *CustomerBook) indexLocked(id string) int {
	for i := range b.customers {
		if b.customers[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *CustomerBook) persistLocked() {
	payload, err := domain.EncodeCustomers(b.customers, b.opts.now())
	if err != nil {
		b.report(&domain.PersistenceError{Op: "save", Key: domain.KeyCustomers, Err: err})
		return
	}
	b.writer.Schedule(payload)
}

func (b *CustomerBook) report(err *domain.PersistenceError) {
	b.log.WithError(err.Err).WithField("op", err.Op).Warn("persistence problem")
	if b.opts.warn != nil {
		b.opts.warn.Warn(err)
	}
}
