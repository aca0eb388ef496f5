package application

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// OrderStore owns the order collection for a session. All mutations go
// through it; readers get copies.
type OrderStore struct {
	kv     domain.KVStore
	opts   options
	log    logrus.FieldLogger
	writer *snapshotWriter

	mu     sync.RWMutex
	orders []domain.Order
}

// NewOrderStore creates an empty store backed by kv. Call Load to read the
// persisted collection.
func NewOrderStore(kv domain.KVStore, opts ...Option) *OrderStore {
	o := buildOptions(opts)
	return &OrderStore{
		kv:     kv,
		opts:   o,
		log:    o.log.WithField("component", "order_store"),
		writer: newSnapshotWriter(domain.KeyOrders, kv, o),
		orders: []domain.Order{},
	}
}

// Load replaces the in-memory collection with the persisted one. It never
// fails: unreadable data yields an empty collection and a warning.
func (s *OrderStore) Load(ctx context.Context) []domain.Order {
	orders := s.read(ctx)

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()

	s.log.WithField("orders", len(orders)).Info("orders loaded")
	return s.List()
}

func (s *OrderStore) read(ctx context.Context) []domain.Order {
	raw, ok, err := s.kv.Get(ctx, domain.KeyOrders)
	if err != nil {
		s.report(&domain.PersistenceError{Op: "load", Key: domain.KeyOrders, Err: err})
		return []domain.Order{}
	}
	if !ok {
		return []domain.Order{}
	}

	decoded, err := domain.DecodeOrders(raw)
	if err != nil {
		backupCorrupt(ctx, s.kv, s.log, domain.CorruptBackupKey(domain.KeyOrders, s.opts.now()), raw)
		s.report(&domain.PersistenceError{Op: "load", Key: domain.KeyOrders, Err: err})
		return []domain.Order{}
	}

	for _, r := range decoded.Repairs {
		s.log.WithField("repair", r).Warn("stored order normalised")
	}
	if len(decoded.Repairs) > 0 || decoded.Version < domain.SchemaVersion {
		// Persist the normalised form so the repairs only happen once.
		s.schedule(decoded.Orders)
	}
	return decoded.Orders
}

// Create validates the draft, appends a new pending order and schedules a
// write.
func (s *OrderStore) Create(draft domain.OrderDraft) (domain.Order, error) {
	o, err := domain.NewOrder(draft, s.opts.now())
	if err != nil {
		return domain.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for s.indexLocked(o.ID) >= 0 {
		o.ID = domain.NewID()
	}
	s.orders = append(s.orders, o)
	s.persistLocked()

	s.log.WithFields(logrus.Fields{"order_id": o.ID, "total": o.Total.StringFixed(2)}).Info("order created")
	return o.Clone(), nil
}

// Update applies patch to the order with the given id.
func (s *OrderStore) Update(id string, patch domain.OrderPatch) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return domain.Order{}, domain.NewNotFoundError("order", id)
	}
	next, err := s.orders[i].Apply(patch, s.opts.now())
	if err != nil {
		return domain.Order{}, err
	}
	s.orders[i] = next
	s.persistLocked()

	s.log.WithField("order_id", id).Info("order updated")
	return next.Clone(), nil
}

// SetStatus changes the status of one order.
func (s *OrderStore) SetStatus(id string, status domain.Status) (domain.Order, error) {
	return s.Update(id, domain.OrderPatch{Status: &status})
}

// Remove deletes the order with the given id. Removing an absent id is a
// no-op so repeated delete requests are absorbed.
func (s *OrderStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		s.log.WithField("order_id", id).Debug("remove: already absent")
		return nil
	}
	s.orders = append(s.orders[:i:i], s.orders[i+1:]...)
	s.persistLocked()

	s.log.WithField("order_id", id).Info("order removed")
	return nil
}

// BulkSetStatus sets status on every order in one step and schedules a
// single write for the whole collection.
func (s *OrderStore) BulkSetStatus(status domain.Status) ([]domain.Order, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "must be one of pending, in_progress, completed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.now()
	changed := 0
	for i := range s.orders {
		if s.orders[i].Status != status {
			s.orders[i].Status = status
			s.orders[i].UpdatedAt = now
			changed++
		}
	}
	s.persistLocked()

	s.log.WithFields(logrus.Fields{"status": status, "changed": changed}).Info("bulk status update")
	return cloneAll(s.orders), nil
}

// List returns a copy of the collection in insertion order.
func (s *OrderStore) List() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.orders)
}

// Get returns a copy of one order.
func (s *OrderStore) Get(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return domain.Order{}, domain.NewNotFoundError("order", id)
	}
	return s.orders[i].Clone(), nil
}

// Flush waits for scheduled writes and returns the last write error.
func (s *OrderStore) Flush(ctx context.Context) error {
	return s.writer.Wait(ctx)
}

// ScheduledWrites reports how many writes have been scheduled so far.
func (s *OrderStore) ScheduledWrites() int {
	return s.writer.Scheduled()
}

func (s *OrderStore) indexLocked(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *OrderStore) persistLocked() {
	s.schedule(s.orders)
}

func (s *OrderStore) schedule(orders []domain.Order) {
	payload, err := domain.EncodeOrders(orders, s.opts.now())
	if err != nil {
		s.report(&domain.PersistenceError{Op: "save", Key: domain.KeyOrders, Err: err})
		return
	}
	s.writer.Schedule(payload)
}

func (s *OrderStore) report(err *domain.PersistenceError) {
	s.log.WithError(err.Err).WithField("op", err.Op).Warn("persistence problem")
	if s.opts.warn != nil {
		s.opts.warn.Warn(err)
	}
}

func cloneAll(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Clone())
	}
	return out
}
