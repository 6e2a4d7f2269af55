package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/netpulse/netpulse/internal/database"
)

// Band holds the inclusive warning and critical bounds for one metric.
// Both comparisons use >=, so the warning band is [warning, critical).
type Band struct {
	Warning  float64 `yaml:"warning"`
	Critical float64 `yaml:"critical"`
}

// Thresholds is the static evaluation policy. It is passed into the
// evaluator at construction rather than kept as a mutable package-level
// table, so tests can exercise boundary values directly.
type Thresholds struct {
	CPU        Band `yaml:"cpu"`
	Memory     Band `yaml:"memory"`
	PacketLoss Band `yaml:"packet_loss"`
	Latency    Band `yaml:"latency"`
}

// DefaultThresholds returns the stock policy for network devices
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPU:        Band{Warning: 40, Critical: 45},
		Memory:     Band{Warning: 50, Critical: 60},
		PacketLoss: Band{Warning: 0.1, Critical: 0.3},
		Latency:    Band{Warning: 15, Critical: 25},
	}
}

// LoadThresholds reads a YAML policy file, filling unset metrics from the
// defaults
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read thresholds file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return DefaultThresholds(), fmt.Errorf("failed to parse thresholds file: %w", err)
	}
	return t, nil
}

// classify returns the severity for a value against a band
func (b Band) classify(value float64) (database.Severity, bool) {
	switch {
	case value >= b.Critical:
		return database.SeverityCritical, true
	case value >= b.Warning:
		return database.SeverityWarning, true
	default:
		return "", false
	}
}

// bound returns the threshold that was breached for the given severity
func (b Band) bound(sev database.Severity) float64 {
	if sev == database.SeverityCritical {
		return b.Critical
	}
	return b.Warning
}

// Evaluator compares device-health samples against static thresholds and
// produces alert candidates. Metrics are evaluated independently, so one
// asset can fire several candidates in a single tick.
type Evaluator struct {
	thresholds Thresholds
}

// NewEvaluator creates an evaluator with the given policy
func NewEvaluator(t Thresholds) *Evaluator {
	return &Evaluator{thresholds: t}
}

// Evaluate classifies the latest health sample for one asset. A nil
// sample yields no candidates; an asset without telemetry is skipped, not
// defaulted to zero.
func (e *Evaluator) Evaluate(asset *database.Asset, sample *database.HealthMetric) []EventCandidate {
	if sample == nil {
		return nil
	}

	var candidates []EventCandidate
	assetID := asset.ID

	if asset.Status == database.AssetStatusOffline {
		candidates = append(candidates, EventCandidate{
			Source:   database.EventSourceNMS,
			Severity: database.SeverityCritical,
			Category: database.CategoryConnectivity,
			Title:    "Device Down",
			Message:  fmt.Sprintf("Device %s (%s) is unreachable", asset.Name, asset.IPAddress),
			AssetID:  &assetID,
		})
	}

	if sev, ok := e.thresholds.CPU.classify(sample.CPUUtilization); ok {
		title := "High CPU Usage"
		if sev == database.SeverityCritical {
			title = "Critical CPU Usage"
		}
		candidates = append(candidates, EventCandidate{
			Source:   database.EventSourceNMS,
			Severity: sev,
			Category: database.CategoryPerformance,
			Title:    title,
			Message: fmt.Sprintf("CPU utilization on %s (%s) is %.1f%% (threshold %.1f%%)",
				asset.Name, asset.IPAddress, sample.CPUUtilization, e.thresholds.CPU.bound(sev)),
			AssetID: &assetID,
		})
	}

	if sev, ok := e.thresholds.Memory.classify(sample.MemoryUtilization); ok {
		title := "High Memory Usage"
		if sev == database.SeverityCritical {
			title = "Critical Memory Usage"
		}
		candidates = append(candidates, EventCandidate{
			Source:   database.EventSourceNMS,
			Severity: sev,
			Category: database.CategoryPerformance,
			Title:    title,
			Message: fmt.Sprintf("Memory utilization on %s (%s) is %.1f%% (threshold %.1f%%)",
				asset.Name, asset.IPAddress, sample.MemoryUtilization, e.thresholds.Memory.bound(sev)),
			AssetID: &assetID,
		})
	}

	if sev, ok := e.thresholds.PacketLoss.classify(sample.PacketLossPercent); ok {
		title := "High Packet Loss"
		if sev == database.SeverityCritical {
			title = "Critical Packet Loss"
		}
		candidates = append(candidates, EventCandidate{
			Source:   database.EventSourceNMS,
			Severity: sev,
			Category: database.CategoryConnectivity,
			Title:    title,
			Message: fmt.Sprintf("Packet loss on %s (%s) is %.2f%% (threshold %.2f%%)",
				asset.Name, asset.IPAddress, sample.PacketLossPercent, e.thresholds.PacketLoss.bound(sev)),
			AssetID: &assetID,
		})
	}

	if sev, ok := e.thresholds.Latency.classify(sample.LatencyMs); ok {
		title := "High Network Latency"
		if sev == database.SeverityCritical {
			title = "Critical Network Latency"
		}
		candidates = append(candidates, EventCandidate{
			Source:   database.EventSourceNMS,
			Severity: sev,
			Category: database.CategoryConnectivity,
			Title:    title,
			Message: fmt.Sprintf("Latency on %s (%s) is %.1fms (threshold %.1fms)",
				asset.Name, asset.IPAddress, sample.LatencyMs, e.thresholds.Latency.bound(sev)),
			AssetID: &assetID,
		})
	}

	return candidates
}
