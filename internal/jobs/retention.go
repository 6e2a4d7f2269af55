package jobs

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/netpulse/netpulse/internal/database"
)

// RetentionSweeper hard-deletes resolved and closed alerts whose last
// update is older than the configured retention period. Open and
// acknowledged alerts are never touched regardless of age.
type RetentionSweeper struct {
	db *gorm.DB
}

// NewRetentionSweeper creates a new retention sweeper
func NewRetentionSweeper(db *gorm.DB) *RetentionSweeper {
	return &RetentionSweeper{db: db}
}

// Sweep deletes expired terminal alerts and returns how many were removed.
// The sweep is a no-op when disabled in engine settings.
func (s *RetentionSweeper) Sweep(now time.Time) (int, error) {
	settings, err := database.GetOrCreateEngineSettings(s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to load engine settings: %w", err)
	}
	if !settings.SweepEnabled {
		return 0, nil
	}

	cutoff := now.AddDate(0, 0, -settings.RetentionDays)
	result := s.db.
		Where("status IN ?", []database.AlertStatus{database.AlertStatusResolved, database.AlertStatusClosed}).
		Where("updated_at < ?", cutoff).
		Delete(&database.Alert{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sweep expired alerts: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}
