package store

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/models"
)

const systemLogBatchSize = 50

// WriteSystemLogs inserts a batch of persisted log records.
func (s *GormStore) WriteSystemLogs(ctx context.Context, logs []models.SystemLog) error {
	if len(logs) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(logs, systemLogBatchSize).Error; err != nil {
		return translate(err, "write system logs")
	}
	return nil
}

// PurgeSystemLogs deletes log records older than the cutoff.
func (s *GormStore) PurgeSystemLogs(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, translate(result.Error, "purge system logs")
	}
	return result.RowsAffected, nil
}
