package reconcile

import (
	"context"
	"time"

	"schema-sync/core/database"

	"go.uber.org/zap"
)

// SyncRecord is one row of the reconciler's bookkeeping table. It lets the
// status surfaces report the last-sync timestamp without the engine owning
// any state outside the target database.
type SyncRecord struct {
	ID                  uint      `gorm:"primaryKey"`
	RanAt               time.Time `gorm:"index"`
	Success             bool
	DryRun              bool
	DifferencesFound    int
	DifferencesResolved int
	TablesCreated       int
	ColumnsAdded        int
	IndexesCreated      int
}

// TableName maps the record to the bookkeeping table the inspector excludes
// from listings.
func (SyncRecord) TableName() string {
	return database.HistoryTable
}

// recordHistory persists the outcome of a pass. Bookkeeping failures are
// logged but never fail the pass itself.
func (s *Service) recordHistory(ctx context.Context, result *SyncResult, opts Options) {
	if err := s.db.WithContext(ctx).AutoMigrate(&SyncRecord{}); err != nil {
		s.logger.Warn("Failed to ensure sync history table", zap.Error(err))
		return
	}

	record := SyncRecord{
		RanAt:               result.Timestamp,
		Success:             result.Success,
		DryRun:              opts.DryRun,
		DifferencesFound:    result.DifferencesFound,
		DifferencesResolved: result.DifferencesResolved,
		TablesCreated:       len(result.TablesCreated),
		ColumnsAdded:        len(result.ColumnsAdded),
		IndexesCreated:      len(result.IndexesCreated),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		s.logger.Warn("Failed to record sync history", zap.Error(err))
	}
}

// lastSync returns the timestamp of the most recent recorded pass, or nil
// when no pass has been recorded yet.
func (s *Service) lastSync(ctx context.Context) *time.Time {
	exists, err := s.inspector.TableExists(ctx, database.HistoryTable)
	if err != nil || !exists {
		return nil
	}

	var record SyncRecord
	if err := s.db.WithContext(ctx).Order("ran_at DESC").First(&record).Error; err != nil {
		return nil
	}
	return &record.RanAt
}
