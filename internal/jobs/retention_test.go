package jobs

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/netpulse/netpulse/internal/database"
	"github.com/netpulse/netpulse/internal/testhelpers"
)

func createAlertAgedDays(t *testing.T, db *gorm.DB, status database.AlertStatus, ageDays int) database.Alert {
	t.Helper()
	alert := testhelpers.NewAlertBuilder().WithStatus(status).Build()
	if err := db.Create(&alert).Error; err != nil {
		t.Fatalf("failed to create alert: %v", err)
	}
	// Bypass GORM's automatic timestamp to simulate age
	err := db.Model(&database.Alert{}).Where("id = ?", alert.ID).
		UpdateColumn("updated_at", time.Now().AddDate(0, 0, -ageDays)).Error
	if err != nil {
		t.Fatalf("failed to age alert: %v", err)
	}
	return alert
}

func TestSweepDeletesExpiredTerminalAlerts(t *testing.T) {
	db := setupTestDB(t)
	sweeper := NewRetentionSweeper(db)

	createAlertAgedDays(t, db, database.AlertStatusClosed, 8)
	createAlertAgedDays(t, db, database.AlertStatusResolved, 10)
	fresh := createAlertAgedDays(t, db, database.AlertStatusClosed, 6)

	deleted, err := sweeper.Sweep(time.Now())
	testhelpers.AssertNoError(t, err, "sweep")
	testhelpers.AssertEqual(t, 2, deleted, "two expired alerts deleted")

	var remaining []database.Alert
	testhelpers.AssertNoError(t, db.Find(&remaining).Error, "list remaining")
	testhelpers.AssertEqual(t, 1, len(remaining), "fresh alert kept")
	testhelpers.AssertEqual(t, fresh.ID, remaining[0].ID, "kept the 6-day-old alert")
}

func TestSweepNeverTouchesActiveAlerts(t *testing.T) {
	db := setupTestDB(t)
	sweeper := NewRetentionSweeper(db)

	createAlertAgedDays(t, db, database.AlertStatusOpen, 30)
	createAlertAgedDays(t, db, database.AlertStatusAcknowledged, 30)

	deleted, err := sweeper.Sweep(time.Now())
	testhelpers.AssertNoError(t, err, "sweep")
	testhelpers.AssertEqual(t, 0, deleted, "active alerts survive regardless of age")

	var remaining int64
	db.Model(&database.Alert{}).Count(&remaining)
	testhelpers.AssertEqual(t, int64(2), remaining, "both alerts kept")
}

func TestSweepDisabled(t *testing.T) {
	db := setupTestDB(t)
	sweeper := NewRetentionSweeper(db)

	settings, err := database.GetOrCreateEngineSettings(db)
	testhelpers.AssertNoError(t, err, "settings")
	settings.SweepEnabled = false
	testhelpers.AssertNoError(t, database.UpdateEngineSettings(db, settings), "disable sweep")

	createAlertAgedDays(t, db, database.AlertStatusClosed, 30)

	deleted, err := sweeper.Sweep(time.Now())
	testhelpers.AssertNoError(t, err, "sweep")
	testhelpers.AssertEqual(t, 0, deleted, "disabled sweep is a no-op")
}

func TestSweepHonorsConfiguredRetention(t *testing.T) {
	db := setupTestDB(t)
	sweeper := NewRetentionSweeper(db)

	settings, err := database.GetOrCreateEngineSettings(db)
	testhelpers.AssertNoError(t, err, "settings")
	settings.RetentionDays = 30
	testhelpers.AssertNoError(t, database.UpdateEngineSettings(db, settings), "extend retention")

	createAlertAgedDays(t, db, database.AlertStatusClosed, 10)
	createAlertAgedDays(t, db, database.AlertStatusClosed, 31)

	deleted, err := sweeper.Sweep(time.Now())
	testhelpers.AssertNoError(t, err, "sweep")
	testhelpers.AssertEqual(t, 1, deleted, "only the 31-day-old alert expired")
}
