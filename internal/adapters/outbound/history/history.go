package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// DefaultRetention is how many snapshots are kept.
const DefaultRetention = 90

// KVHistory implements domain.SnapshotHistory as a JSON array stored under
// domain.KeySnapshots.
type KVHistory struct {
	kv        domain.KVStore
	retention int
	now       func() time.Time
}

func New(kv domain.KVStore) *KVHistory {
	return &KVHistory{kv: kv, retention: DefaultRetention, now: time.Now}
}

// WithRetention returns a copy that keeps at most n snapshots. Zero keeps
// everything.
func (h *KVHistory) WithRetention(n int) *KVHistory {
	return &KVHistory{kv: h.kv, retention: n, now: h.now}
}

// Save appends snap. An unreadable history is backed up and restarted
// rather than blocking every later snapshot.
func (h *KVHistory) Save(ctx context.Context, snap domain.MetricsSnapshot) error {
	raw, ok, err := h.kv.Get(ctx, domain.KeySnapshots)
	if err != nil {
		return err
	}

	var snaps []domain.MetricsSnapshot
	if ok {
		snaps, err = decode(raw)
		if err != nil {
			backupKey := domain.CorruptBackupKey(domain.KeySnapshots, h.now())
			if err := h.kv.Set(ctx, backupKey, raw); err != nil {
				return fmt.Errorf("backing up unreadable %s: %w", domain.KeySnapshots, err)
			}
			snaps = nil
		}
	}

	snaps = append(snaps, snap)
	if h.retention > 0 && len(snaps) > h.retention {
		snaps = snaps[len(snaps)-h.retention:]
	}

	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return err
	}
	return h.kv.Set(ctx, domain.KeySnapshots, string(data))
}

func (h *KVHistory) Load(ctx context.Context) ([]domain.MetricsSnapshot, error) {
	raw, ok, err := h.kv.Get(ctx, domain.KeySnapshots)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decode(raw)
}

func decode(raw string) ([]domain.MetricsSnapshot, error) {
	var snaps []domain.MetricsSnapshot
	if err := json.Unmarshal([]byte(raw), &snaps); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", domain.KeySnapshots, err)
	}
	return snaps, nil
}
