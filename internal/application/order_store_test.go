package application_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundrydesk/laundrydesk/internal/application"
	"github.com/laundrydesk/laundrydesk/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func draft(name string, items ...domain.LineItemDraft) domain.OrderDraft {
	if len(items) == 0 {
		items = []domain.LineItemDraft{{Name: "Shirt", Price: dec("7.99"), Quantity: 2}}
	}
	return domain.OrderDraft{
		Customer: domain.CustomerDraft{Name: name, Phone: "5551234"},
		Items:    items,
	}
}

func newStore(t *testing.T) (*application.OrderStore, *memKV, *warnings) {
	t.Helper()
	kv := newMemKV()
	w := &warnings{}
	s := application.NewOrderStore(kv, testOptions(w)...)
	s.Load(context.Background())
	return s, kv, w
}

func TestOrderStore_CreateThenList(t *testing.T) {
	s, kv, _ := newStore(t)

	created, err := s.Create(draft("Jane Doe"))
	require.NoError(t, err)
	require.NoError(t, s.Flush(context.Background()))

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.True(t, list[0].Total.Equal(dec("15.98")), "total = %s", list[0].Total)
	assert.Equal(t, domain.StatusPending, list[0].Status)
	assert.Equal(t, testNow, list[0].CreatedAt)

	// A fresh session over the same storage sees the same order.
	reloaded := application.NewOrderStore(kv, testOptions(&warnings{})...).Load(context.Background())
	require.Len(t, reloaded, 1)
	assert.Equal(t, list[0], reloaded[0])
}

func TestOrderStore_CreateValidation(t *testing.T) {
	s, _, _ := newStore(t)

	_, err := s.Create(draft(""))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Create(domain.OrderDraft{Customer: domain.CustomerDraft{Name: "Jo"}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, s.List(), "rejected drafts leave the collection unchanged")
	assert.Equal(t, 0, s.ScheduledWrites())
}

func TestOrderStore_IDsAreUnique(t *testing.T) {
	s, _, _ := newStore(t)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		o, err := s.Create(draft("Jo"))
		require.NoError(t, err)
		assert.False(t, seen[o.ID], "duplicate id %s", o.ID)
		seen[o.ID] = true
	}
	assert.Len(t, s.List(), 100)
}

func TestOrderStore_UpdateRecomputesTotal(t *testing.T) {
	s, _, _ := newStore(t)
	o, err := s.Create(draft("Jo"))
	require.NoError(t, err)

	items := []domain.LineItemDraft{
		{Name: "Blanket", Price: dec("15"), Quantity: 2},
		{Name: "Pillow", Price: dec("4.5"), Quantity: 1},
	}
	notes := "fragile"
	updated, err := s.Update(o.ID, domain.OrderPatch{Items: &items, Notes: &notes})
	require.NoError(t, err)

	assert.True(t, updated.Total.Equal(dec("34.5")))
	assert.Equal(t, o.ID, updated.ID)
	assert.Equal(t, o.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "fragile", updated.Notes)

	got, err := s.Get(o.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(dec("34.5")))
}

func TestOrderStore_UpdateMissing(t *testing.T) {
	s, _, _ := newStore(t)
	notes := "x"
	_, err := s.Update("nope", domain.OrderPatch{Notes: &notes})

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nope", nf.ID)
}

func TestOrderStore_UpdateInvalidLeavesOrderUntouched(t *testing.T) {
	s, _, _ := newStore(t)
	o, err := s.Create(draft("Jo"))
	require.NoError(t, err)

	empty := []domain.LineItemDraft{}
	_, err = s.Update(o.ID, domain.OrderPatch{Items: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.Get(o.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestOrderStore_SetStatus(t *testing.T) {
	s, _, _ := newStore(t)
	o, err := s.Create(draft("Jo"))
	require.NoError(t, err)

	updated, err := s.SetStatus(o.ID, domain.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
}

func TestOrderStore_RemoveTwice(t *testing.T) {
	s, _, _ := newStore(t)
	o, err := s.Create(draft("Jo"))
	require.NoError(t, err)
	before := s.ScheduledWrites()

	require.NoError(t, s.Remove(o.ID))
	require.NoError(t, s.Remove(o.ID))

	assert.Empty(t, s.List())
	assert.Equal(t, before+1, s.ScheduledWrites(), "absent id schedules nothing")
}

func TestOrderStore_RemoveKeepsOrder(t *testing.T) {
	s, _, _ := newStore(t)
	a, _ := s.Create(draft("A"))
	b, _ := s.Create(draft("B"))
	c, _ := s.Create(draft("C"))

	require.NoError(t, s.Remove(b.ID))
	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, c.ID, list[1].ID)
}

func TestOrderStore_BulkSetStatus(t *testing.T) {
	s, _, _ := newStore(t)
	for _, st := range []domain.Status{domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted} {
		o, err := s.Create(draft("Jo"))
		require.NoError(t, err)
		_, err = s.SetStatus(o.ID, st)
		require.NoError(t, err)
	}
	before := s.ScheduledWrites()

	out, err := s.BulkSetStatus(domain.StatusCompleted)
	require.NoError(t, err)

	require.Len(t, out, 3)
	for _, o := range s.List() {
		assert.Equal(t, domain.StatusCompleted, o.Status)
	}
	assert.Equal(t, before+1, s.ScheduledWrites(), "one write for the whole collection")
}

func TestOrderStore_BulkSetStatusRejectsUnknown(t *testing.T) {
	s, _, _ := newStore(t)
	_, err := s.BulkSetStatus(domain.Status("archived"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, s.ScheduledWrites())
}

func TestOrderStore_ListReturnsCopies(t *testing.T) {
	s, _, _ := newStore(t)
	_, err := s.Create(draft("Jo"))
	require.NoError(t, err)

	list := s.List()
	list[0].Status = domain.StatusCompleted
	list[0].Items[0].Quantity = 99

	fresh := s.List()
	assert.Equal(t, domain.StatusPending, fresh[0].Status)
	assert.Equal(t, 2, fresh[0].Items[0].Quantity)
}

func TestOrderStore_LoadMissingIsSilent(t *testing.T) {
	_, _, w := newStore(t)
	assert.Empty(t, w.all())
}

func TestOrderStore_LoadReadFailure(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("io error")
	w := &warnings{}

	orders := application.NewOrderStore(kv, testOptions(w)...).Load(context.Background())
	assert.Empty(t, orders)
	require.Len(t, w.all(), 1)
	assert.ErrorIs(t, w.all()[0], domain.ErrPersistence)
}

func TestOrderStore_LoadCorruptBacksUp(t *testing.T) {
	kv := newMemKV()
	kv.data[domain.KeyOrders] = `{"orders": [`
	w := &warnings{}
	s := application.NewOrderStore(kv, testOptions(w)...)

	assert.Empty(t, s.Load(context.Background()))
	require.Len(t, w.all(), 1)

	var backup string
	for _, k := range kv.keys() {
		if strings.HasPrefix(k, "orders.corrupt.") {
			backup = k
		}
	}
	require.NotEmpty(t, backup)
	v, _ := kv.value(backup)
	assert.Equal(t, `{"orders": [`, v)

	// The session keeps working.
	_, err := s.Create(draft("Jo"))
	require.NoError(t, err)
	require.NoError(t, s.Flush(context.Background()))
}

func TestOrderStore_LoadLegacyRewritesNormalised(t *testing.T) {
	kv := newMemKV()
	kv.data[domain.KeyOrders] = `[{"id":"a","customer":{"name":"Jo"},"items":[{"name":"Shirt","price":5}],"status":"lost","total":5}]`
	log, hook := newTestLogger()
	s := application.NewOrderStore(kv, application.WithLogger(log), application.WithClock(fixedClock()))

	orders := s.Load(context.Background())
	require.Len(t, orders, 1)
	assert.Equal(t, domain.StatusPending, orders[0].Status)
	require.NoError(t, s.Flush(context.Background()))

	v, _ := kv.value(domain.KeyOrders)
	assert.Contains(t, v, `"schema_version": 1`)
	assert.Equal(t, 1, s.ScheduledWrites())

	var repaired bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "stored order normalised" {
			repaired = true
		}
	}
	assert.True(t, repaired)
}

func TestOrderStore_WriteRetriedThenSucceeds(t *testing.T) {
	s, kv, w := newStore(t)
	kv.failSets = 2

	_, err := s.Create(draft("Jo"))
	require.NoError(t, err)
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, 3, kv.calls(domain.KeyOrders))
	assert.Empty(t, w.all())
}

func TestOrderStore_WriteFailureIsReportedNotFatal(t *testing.T) {
	s, kv, w := newStore(t)
	kv.failSets = 100

	o, err := s.Create(draft("Jo"))
	require.NoError(t, err, "the mutation itself succeeds")

	err = s.Flush(context.Background())
	var pe *domain.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "save", pe.Op)
	assert.ErrorIs(t, err, errDiskFull)
	require.Len(t, w.all(), 1)

	got, err := s.Get(o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID, "in-memory state stays authoritative")
}

func TestOrderStore_WritesCoalesceToLatest(t *testing.T) {
	s, kv, _ := newStore(t)
	kv.gate = make(chan struct{})
	kv.entered = make(chan struct{}, 10)

	_, err := s.Create(draft("first"))
	require.NoError(t, err)
	<-kv.entered // first write is in flight

	for _, name := range []string{"second", "third", "fourth"} {
		_, err := s.Create(draft(name))
		require.NoError(t, err)
	}
	close(kv.gate)
	require.NoError(t, s.Flush(context.Background()))

	assert.Equal(t, 4, s.ScheduledWrites())
	assert.Equal(t, 2, kv.calls(domain.KeyOrders), "queued snapshots collapse into the newest")

	v, _ := kv.value(domain.KeyOrders)
	decoded, err := domain.DecodeOrders(v)
	require.NoError(t, err)
	assert.Len(t, decoded.Orders, 4)
}

func TestOrderStore_ConcurrentCreates(t *testing.T) {
	s, kv, _ := newStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(draft("Jo"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	require.NoError(t, s.Flush(context.Background()))

	v, _ := kv.value(domain.KeyOrders)
	decoded, err := domain.DecodeOrders(v)
	require.NoError(t, err)
	assert.Len(t, decoded.Orders, 20, "the last write carries the full collection")
}

func TestOrderStore_FlushHonoursContext(t *testing.T) {
	s, kv, _ := newStore(t)
	kv.gate = make(chan struct{})
	kv.entered = make(chan struct{}, 1)
	defer close(kv.gate)

	_, err := s.Create(draft("Jo"))
	require.NoError(t, err)
	<-kv.entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Flush(ctx), context.Canceled)
}
