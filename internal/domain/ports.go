package domain

import (
	"context"
	"fmt"
	"time"
)

// Fixed storage keys.
const (
	KeyOrders    = "orders"
	KeyCustomers = "customers"
	KeySnapshots = "metrics_snapshots"
)

// CorruptBackupKey names the side key an unreadable payload for key is kept
// under, for example "customers.corrupt.1767225600".
func CorruptBackupKey(key string, at time.Time) string {
	return fmt.Sprintf("%s.corrupt.%d", key, at.Unix())
}

// KVStore is the durable key-value storage behind every collection.
// Get reports ok=false for a key that was never written.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// WarningSink receives non-fatal persistence problems.
type WarningSink interface {
	Warn(err error)
}

// WarningFunc adapts a plain function to WarningSink.
type WarningFunc func(err error)

func (f WarningFunc) Warn(err error) { f(err) }

// SnapshotHistory stores metric snapshots used for period-over-period deltas.
type SnapshotHistory interface {
	Save(ctx context.Context, snap MetricsSnapshot) error
	Load(ctx context.Context) ([]MetricsSnapshot, error)
}

// Authenticator checks operator credentials and opens a session.
type Authenticator interface {
	Login(username, password string) (Session, error)
}

// Clock returns the current time. Tests pin it.
type Clock func() time.Time
