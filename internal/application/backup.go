package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// backupCorrupt keeps an unreadable payload under backupKey so the next
// save does not destroy the only copy.
func backupCorrupt(ctx context.Context, kv domain.KVStore, log logrus.FieldLogger, backupKey, raw string) {
	if err := kv.Set(ctx, backupKey, raw); err != nil {
		log.WithError(err).WithField("backup_key", backupKey).Error("could not back up unreadable data")
		return
	}
	log.WithField("backup_key", backupKey).Warn("unreadable data backed up")
}
