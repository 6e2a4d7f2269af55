package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/netpulse/netpulse/internal/database"
	"github.com/netpulse/netpulse/internal/services"
)

// AssetDirectory lists the devices the monitor should poll
type AssetDirectory interface {
	ListMonitoredAssets(ctx context.Context, types []database.AssetType) ([]database.Asset, error)
}

// HealthStore serves the latest telemetry sample per asset. A nil sample
// with a nil error means no telemetry exists yet.
type HealthStore interface {
	LatestSample(ctx context.Context, assetID uint) (*database.HealthMetric, error)
}

// Network devices only; servers are covered by their own agents.
var monitoredAssetTypes = []database.AssetType{
	database.AssetTypeRouter,
	database.AssetTypeSwitch,
	database.AssetTypeFirewall,
}

// MonitorJob drives one evaluation cycle: list assets, evaluate their
// latest samples, dedup, record events, open alerts, then run maintenance.
// Ticks are serialized by Start, so a slow cycle delays the next one
// rather than overlapping it.
type MonitorJob struct {
	assets    AssetDirectory
	health    HealthStore
	evaluator *services.Evaluator
	window    *services.DedupWindow
	events    *services.EventService
	alerts    *services.AlertService
	sweeper   *RetentionSweeper

	fetchTimeout time.Duration
}

// NewMonitorJob wires a monitor cycle from its collaborators
func NewMonitorJob(
	assets AssetDirectory,
	health HealthStore,
	evaluator *services.Evaluator,
	window *services.DedupWindow,
	events *services.EventService,
	alerts *services.AlertService,
	sweeper *RetentionSweeper,
	fetchTimeout time.Duration,
) *MonitorJob {
	return &MonitorJob{
		assets:       assets,
		health:       health,
		evaluator:    evaluator,
		window:       window,
		events:       events,
		alerts:       alerts,
		sweeper:      sweeper,
		fetchTimeout: fetchTimeout,
	}
}

// Run executes one monitoring cycle and returns the number of alerts
// created. A failure on one asset is logged and does not stop the cycle
// for the others.
func (j *MonitorJob) Run() (int, error) {
	now := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), j.fetchTimeout)
	assets, err := j.assets.ListMonitoredAssets(ctx, monitoredAssetTypes)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("failed to list monitored assets: %w", err)
	}

	created := 0
	for i := range assets {
		n, err := j.evaluateAsset(&assets[i], now)
		if err != nil {
			log.Printf("Monitoring failed for asset %s: %v", assets[i].Name, err)
			continue
		}
		created += n
	}

	j.window.Prune(now)

	if j.sweeper != nil {
		if n, err := j.sweeper.Sweep(now); err != nil {
			log.Printf("Retention sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("Retention sweep removed %d expired alerts", n)
		}
	}

	if created > 0 {
		log.Printf("Monitoring cycle created %d alerts across %d assets", created, len(assets))
	}
	return created, nil
}

func (j *MonitorJob) evaluateAsset(asset *database.Asset, now time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), j.fetchTimeout)
	defer cancel()

	sample, err := j.health.LatestSample(ctx, asset.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch latest sample: %w", err)
	}

	created := 0
	for _, candidate := range j.evaluator.Evaluate(asset, sample) {
		if j.window.ShouldSuppress(candidate.AssetID, candidate.Title, now) {
			continue
		}

		candidate.Timestamp = now
		event, err := j.events.RecordEvent(candidate)
		if err != nil {
			return created, fmt.Errorf("failed to record event %q: %w", candidate.Title, err)
		}

		if _, err := j.alerts.CreateFromEvent(event, asset.Tier); err != nil {
			return created, fmt.Errorf("failed to create alert for event %s: %w", event.UUID, err)
		}
		created++
	}
	return created, nil
}

// Start runs the monitor on a fixed interval until stop is closed. Cycles
// run on the caller's goroutine and never overlap.
func (j *MonitorJob) Start(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Monitor started with %v interval", interval)
	for {
		select {
		case <-ticker.C:
			if _, err := j.Run(); err != nil {
				log.Printf("Monitoring cycle failed: %v", err)
			}
		case <-stop:
			log.Println("Monitor stopped")
			return
		}
	}
}
