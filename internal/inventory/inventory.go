package inventory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/netpulse/netpulse/internal/database"
)

// Directory serves asset records from the shared inventory tables
type Directory struct {
	db *gorm.DB
}

// NewDirectory creates a directory over the given database
func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// ListMonitoredAssets returns all assets of the given types
func (d *Directory) ListMonitoredAssets(ctx context.Context, types []database.AssetType) ([]database.Asset, error) {
	var assets []database.Asset
	err := d.db.WithContext(ctx).
		Where("type IN ?", types).
		Order("id").
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

// HealthStore serves device telemetry from the shared metrics table
type HealthStore struct {
	db *gorm.DB
}

// NewHealthStore creates a health store over the given database
func NewHealthStore(db *gorm.DB) *HealthStore {
	return &HealthStore{db: db}
}

// LatestSample returns the most recent health sample for an asset, or nil
// when the asset has no telemetry yet
func (h *HealthStore) LatestSample(ctx context.Context, assetID uint) (*database.HealthMetric, error) {
	var sample database.HealthMetric
	err := h.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("recorded_at DESC").
		First(&sample).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest sample for asset %d: %w", assetID, err)
	}
	return &sample, nil
}
