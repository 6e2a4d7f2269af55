package services

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/netpulse/netpulse/internal/database"
)

type dedupKey struct {
	assetID uint // 0 when the candidate carries no asset reference
	title   string
}

// DedupWindow suppresses re-creation of semantically identical alerts for
// the same (asset, title) pair within a rolling time window. The map is
// process-local and owned exclusively by this component; the persistent
// store stays authoritative. Keys are per title, not per severity, so an
// escalation from warning to critical still surfaces inside the window.
type DedupWindow struct {
	mu          sync.Mutex
	window      time.Duration
	lastCreated map[dedupKey]time.Time
}

// NewDedupWindow creates a window with the given suppression duration
func NewDedupWindow(window time.Duration) *DedupWindow {
	return &DedupWindow{
		window:      window,
		lastCreated: make(map[dedupKey]time.Time),
	}
}

// ShouldSuppress reports whether an alert for (assetID, title) was already
// created within the window. When it was, the stored timestamp is left
// untouched; otherwise now is recorded and the candidate may proceed. The
// read-check-then-write is atomic per key.
func (w *DedupWindow) ShouldSuppress(assetID *uint, title string, now time.Time) bool {
	key := dedupKey{title: title}
	if assetID != nil {
		key.assetID = *assetID
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if last, ok := w.lastCreated[key]; ok && now.Sub(last) < w.window {
		return true
	}
	w.lastCreated[key] = now
	return false
}

// Seed rebuilds the window from the store after a restart, using the most
// recent alert creation time per (asset, title) inside the window. Without
// this a deploy would reset the window and permit a burst of duplicates.
func (w *DedupWindow) Seed(db *gorm.DB, now time.Time) error {
	cutoff := now.Add(-w.window)

	var rows []struct {
		AssetID *uint
		Title   string
		Last    time.Time
	}
	err := db.Model(&database.Alert{}).
		Select("asset_id, title, MAX(created_at) AS last").
		Where("created_at > ?", cutoff).
		Group("asset_id").Group("title").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range rows {
		key := dedupKey{title: r.Title}
		if r.AssetID != nil {
			key.assetID = *r.AssetID
		}
		w.lastCreated[key] = r.Last
	}
	return nil
}

// Prune drops entries older than the window and returns how many were
// removed. Called once per tick to keep the map bounded.
func (w *DedupWindow) Prune(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	pruned := 0
	for key, last := range w.lastCreated {
		if now.Sub(last) >= w.window {
			delete(w.lastCreated, key)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of tracked keys
func (w *DedupWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.lastCreated)
}
