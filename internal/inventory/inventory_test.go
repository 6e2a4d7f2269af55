package inventory

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/netpulse/netpulse/internal/database"
	"github.com/netpulse/netpulse/internal/testhelpers"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&database.Asset{}, &database.HealthMetric{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func TestListMonitoredAssets(t *testing.T) {
	db := setupTestDB(t)

	router := testhelpers.NewAssetBuilder().WithName("router-1").WithType(database.AssetTypeRouter).Build()
	sw := testhelpers.NewAssetBuilder().WithName("switch-1").WithType(database.AssetTypeSwitch).Build()
	server := testhelpers.NewAssetBuilder().WithName("app-1").WithType(database.AssetTypeServer).Build()
	for _, a := range []*database.Asset{&router, &sw, &server} {
		testhelpers.AssertNoError(t, db.Create(a).Error, "create asset")
	}

	dir := NewDirectory(db)
	assets, err := dir.ListMonitoredAssets(context.Background(), []database.AssetType{
		database.AssetTypeRouter,
		database.AssetTypeSwitch,
		database.AssetTypeFirewall,
	})
	testhelpers.AssertNoError(t, err, "list assets")
	testhelpers.AssertEqual(t, 2, len(assets), "servers excluded")

	names := map[string]bool{}
	for _, a := range assets {
		names[a.Name] = true
	}
	testhelpers.AssertTrue(t, names["router-1"] && names["switch-1"], "network devices returned")
}

func TestLatestSample(t *testing.T) {
	db := setupTestDB(t)

	asset := testhelpers.NewAssetBuilder().Build()
	testhelpers.AssertNoError(t, db.Create(&asset).Error, "create asset")

	older := testhelpers.NewHealthMetricBuilder(asset.ID).
		WithCPU(10).RecordedAt(time.Now().Add(-2 * time.Minute)).Build()
	newer := testhelpers.NewHealthMetricBuilder(asset.ID).
		WithCPU(90).RecordedAt(time.Now()).Build()
	testhelpers.AssertNoError(t, db.Create(&older).Error, "create older sample")
	testhelpers.AssertNoError(t, db.Create(&newer).Error, "create newer sample")

	store := NewHealthStore(db)
	sample, err := store.LatestSample(context.Background(), asset.ID)
	testhelpers.AssertNoError(t, err, "latest sample")
	testhelpers.AssertEqual(t, 90.0, sample.CPUUtilization, "newest sample returned")
}

func TestLatestSampleNoTelemetry(t *testing.T) {
	db := setupTestDB(t)
	store := NewHealthStore(db)

	sample, err := store.LatestSample(context.Background(), 42)
	testhelpers.AssertNoError(t, err, "missing telemetry is not an error")
	testhelpers.AssertTrue(t, sample == nil, "nil sample for silent asset")
}
