package history_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/filestore"
	"github.com/laundrydesk/laundrydesk/internal/adapters/outbound/history"
	"github.com/laundrydesk/laundrydesk/internal/domain"
)

var t0 = time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)

func TestHistory_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	h := history.New(filestore.New(t.TempDir()))

	snap := domain.MetricsSnapshot{
		TakenAt:       t0,
		TotalOrders:   47,
		PendingOrders: 3,
		Revenue:       decimal.RequireFromString("312.5"),
	}
	require.NoError(t, h.Save(ctx, snap))

	snaps, err := h.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 47, snaps[0].TotalOrders)
	assert.True(t, snaps[0].Revenue.Equal(snap.Revenue))
	assert.True(t, snaps[0].TakenAt.Equal(t0))
}

func TestHistory_AppendMultiple(t *testing.T) {
	ctx := context.Background()
	h := history.New(filestore.New(t.TempDir()))

	require.NoError(t, h.Save(ctx, domain.MetricsSnapshot{TakenAt: t0, TotalOrders: 47}))
	require.NoError(t, h.Save(ctx, domain.MetricsSnapshot{TakenAt: t0.AddDate(0, 0, 1), TotalOrders: 62}))
	require.NoError(t, h.Save(ctx, domain.MetricsSnapshot{TakenAt: t0.AddDate(0, 0, 2), TotalOrders: 85}))

	snaps, err := h.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, 47, snaps[0].TotalOrders)
	assert.Equal(t, 85, snaps[2].TotalOrders)
}

func TestHistory_LoadEmpty(t *testing.T) {
	h := history.New(filestore.New(t.TempDir()))

	snaps, err := h.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestHistory_Retention(t *testing.T) {
	ctx := context.Background()
	h := history.New(filestore.New(t.TempDir())).WithRetention(2)

	for i := 1; i <= 4; i++ {
		require.NoError(t, h.Save(ctx, domain.MetricsSnapshot{TakenAt: t0, TotalOrders: i}))
	}

	snaps, err := h.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, 3, snaps[0].TotalOrders)
	assert.Equal(t, 4, snaps[1].TotalOrders)
}

func TestHistory_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	kv := filestore.New(t.TempDir())
	require.NoError(t, kv.Set(ctx, domain.KeySnapshots, "{{"))

	_, err := history.New(kv).Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing metrics_snapshots")
}

func TestHistory_SaveRecoversFromCorruptPayload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	kv := filestore.New(dir)
	require.NoError(t, kv.Set(ctx, domain.KeySnapshots, "[{"))
	h := history.New(kv)

	require.NoError(t, h.Save(ctx, domain.MetricsSnapshot{TakenAt: t0, TotalOrders: 5}))
	require.NoError(t, h.Save(ctx, domain.MetricsSnapshot{TakenAt: t0.AddDate(0, 0, 1), TotalOrders: 6}))

	snaps, err := h.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, 5, snaps[0].TotalOrders)

	backups, err := filepath.Glob(filepath.Join(dir, "metrics_snapshots.corrupt.*.json"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	data, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, "[{", string(data))
}
