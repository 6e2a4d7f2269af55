package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/netpulse/netpulse/internal/database"
	"github.com/netpulse/netpulse/internal/services"
	"github.com/netpulse/netpulse/internal/testhelpers"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&database.Event{},
		&database.Alert{},
		&database.EngineSettings{},
		&database.Asset{},
		&database.HealthMetric{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// fakeDirectory serves a fixed asset list, optionally failing
type fakeDirectory struct {
	assets []database.Asset
	err    error
}

func (f *fakeDirectory) ListMonitoredAssets(ctx context.Context, types []database.AssetType) ([]database.Asset, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.assets, nil
}

// fakeHealthStore serves samples keyed by asset, with per-asset failures
type fakeHealthStore struct {
	samples map[uint]*database.HealthMetric
	fail    map[uint]error
}

func (f *fakeHealthStore) LatestSample(ctx context.Context, assetID uint) (*database.HealthMetric, error) {
	if err, ok := f.fail[assetID]; ok {
		return nil, err
	}
	return f.samples[assetID], nil
}

func newTestMonitor(t *testing.T, db *gorm.DB, dir *fakeDirectory, health *fakeHealthStore) *MonitorJob {
	t.Helper()
	return NewMonitorJob(
		dir,
		health,
		services.NewEvaluator(services.DefaultThresholds()),
		services.NewDedupWindow(5*time.Minute),
		services.NewEventService(db),
		services.NewAlertService(db),
		NewRetentionSweeper(db),
		5*time.Second,
	)
}

func router1(id uint) database.Asset {
	asset := testhelpers.NewAssetBuilder().WithTier(1).Build()
	asset.ID = id
	return asset
}

func TestRunCreatesAlertFromBreach(t *testing.T) {
	db := setupTestDB(t)

	asset := router1(1)
	sample := testhelpers.NewHealthMetricBuilder(1).WithCPU(50).Build()

	monitor := newTestMonitor(t, db,
		&fakeDirectory{assets: []database.Asset{asset}},
		&fakeHealthStore{samples: map[uint]*database.HealthMetric{1: &sample}},
	)

	before := time.Now()
	created, err := monitor.Run()
	testhelpers.AssertNoError(t, err, "run cycle")
	testhelpers.AssertEqual(t, 1, created, "one alert created")

	var alert database.Alert
	testhelpers.AssertNoError(t, db.First(&alert).Error, "alert persisted")
	testhelpers.AssertEqual(t, database.AlertStatusOpen, alert.Status, "alert open")
	testhelpers.AssertEqual(t, database.SeverityCritical, alert.Severity, "50% cpu is critical")
	testhelpers.AssertEqual(t, "Critical CPU Usage", alert.Title, "title")
	testhelpers.AssertEqual(t, uint(1), *alert.AssetID, "asset linked")
	testhelpers.AssertTimeWithin(t, alert.SLADeadline, before.Add(4*time.Hour), 2*time.Second, "critical SLA")

	var event database.Event
	testhelpers.AssertNoError(t, db.First(&event, alert.EventID).Error, "event persisted")
	testhelpers.AssertEqual(t, 1, event.OccurrenceCount, "single occurrence")
}

func TestRunSuppressesRepeatWithinWindow(t *testing.T) {
	db := setupTestDB(t)

	asset := router1(1)
	sample := testhelpers.NewHealthMetricBuilder(1).WithCPU(50).Build()

	monitor := newTestMonitor(t, db,
		&fakeDirectory{assets: []database.Asset{asset}},
		&fakeHealthStore{samples: map[uint]*database.HealthMetric{1: &sample}},
	)

	created, err := monitor.Run()
	testhelpers.AssertNoError(t, err, "first cycle")
	testhelpers.AssertEqual(t, 1, created, "first cycle creates")

	created, err = monitor.Run()
	testhelpers.AssertNoError(t, err, "second cycle")
	testhelpers.AssertEqual(t, 0, created, "second cycle suppressed")

	var alerts int64
	db.Model(&database.Alert{}).Count(&alerts)
	testhelpers.AssertEqual(t, int64(1), alerts, "one alert total")

	// The suppressed cycle also skips event recording; the raw signal can
	// still be recorded out of band and correlates to the same row
	var events int64
	db.Model(&database.Event{}).Count(&events)
	testhelpers.AssertEqual(t, int64(1), events, "one event total")

	eventSvc := services.NewEventService(db)
	assetID := uint(1)
	merged, err := eventSvc.RecordEvent(services.EventCandidate{
		Source:   database.EventSourceNMS,
		Severity: database.SeverityCritical,
		Category: database.CategoryPerformance,
		Title:    "Critical CPU Usage",
		Message:  "repeat signal",
		AssetID:  &assetID,
	})
	testhelpers.AssertNoError(t, err, "out-of-band record")
	testhelpers.AssertEqual(t, 2, merged.OccurrenceCount, "occurrence merged onto existing event")
}

func TestRunSkipsAssetsWithoutTelemetry(t *testing.T) {
	db := setupTestDB(t)

	monitor := newTestMonitor(t, db,
		&fakeDirectory{assets: []database.Asset{router1(1)}},
		&fakeHealthStore{samples: map[uint]*database.HealthMetric{}},
	)

	created, err := monitor.Run()
	testhelpers.AssertNoError(t, err, "run cycle")
	testhelpers.AssertEqual(t, 0, created, "no telemetry, no alerts")

	var events int64
	db.Model(&database.Event{}).Count(&events)
	testhelpers.AssertEqual(t, int64(0), events, "no events recorded")
}

func TestRunIsolatesPerAssetFailures(t *testing.T) {
	db := setupTestDB(t)

	healthy := router1(2)
	healthy.Name = "router-2"
	sample := testhelpers.NewHealthMetricBuilder(2).WithCPU(50).Build()

	monitor := newTestMonitor(t, db,
		&fakeDirectory{assets: []database.Asset{router1(1), healthy}},
		&fakeHealthStore{
			samples: map[uint]*database.HealthMetric{2: &sample},
			fail:    map[uint]error{1: errors.New("telemetry backend timeout")},
		},
	)

	created, err := monitor.Run()
	testhelpers.AssertNoError(t, err, "cycle survives one failing asset")
	testhelpers.AssertEqual(t, 1, created, "healthy asset still evaluated")
}

func TestRunFailsWhenDirectoryUnavailable(t *testing.T) {
	db := setupTestDB(t)

	monitor := newTestMonitor(t, db,
		&fakeDirectory{err: errors.New("inventory unavailable")},
		&fakeHealthStore{},
	)

	_, err := monitor.Run()
	testhelpers.AssertError(t, err, "directory failure propagates")
}

func TestRunSweepsExpiredAlerts(t *testing.T) {
	db := setupTestDB(t)

	expired := testhelpers.NewAlertBuilder().WithStatus(database.AlertStatusClosed).Build()
	testhelpers.AssertNoError(t, db.Create(&expired).Error, "create expired alert")
	err := db.Model(&database.Alert{}).Where("id = ?", expired.ID).
		UpdateColumn("updated_at", time.Now().AddDate(0, 0, -8)).Error
	testhelpers.AssertNoError(t, err, "backdate alert")

	monitor := newTestMonitor(t, db, &fakeDirectory{}, &fakeHealthStore{})

	_, err = monitor.Run()
	testhelpers.AssertNoError(t, err, "run cycle")

	var remaining int64
	db.Model(&database.Alert{}).Count(&remaining)
	testhelpers.AssertEqual(t, int64(0), remaining, "expired alert swept during cycle")
}

func TestStartStops(t *testing.T) {
	db := setupTestDB(t)

	monitor := newTestMonitor(t, db, &fakeDirectory{}, &fakeHealthStore{})

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		monitor.Start(10*time.Millisecond, stop)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}
