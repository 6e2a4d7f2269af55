// Package testhelpers provides additional data builders for testing
package testhelpers

import (
	"time"

	"github.com/google/uuid"

	"github.com/netpulse/netpulse/internal/database"
)

// ========================================
// Event Builder
// ========================================

// EventBuilder builds Event instances for testing
type EventBuilder struct {
	event database.Event
}

// NewEventBuilder creates a new event builder with defaults
func NewEventBuilder() *EventBuilder {
	now := time.Now()
	return &EventBuilder{
		event: database.Event{
			UUID:            uuid.New().String(),
			Fingerprint:     uuid.New().String(),
			Source:          database.EventSourceNMS,
			Severity:        database.SeverityWarning,
			Category:        database.CategoryPerformance,
			Title:           "High CPU Usage",
			Message:         "CPU utilization is elevated",
			Timestamp:       now,
			FirstOccurrence: now,
			LastOccurrence:  now,
			OccurrenceCount: 1,
		},
	}
}

// WithSeverity sets the severity
func (b *EventBuilder) WithSeverity(sev database.Severity) *EventBuilder {
	b.event.Severity = sev
	return b
}

// WithCategory sets the category
func (b *EventBuilder) WithCategory(cat database.AlertCategory) *EventBuilder {
	b.event.Category = cat
	return b
}

// WithTitle sets the title
func (b *EventBuilder) WithTitle(title string) *EventBuilder {
	b.event.Title = title
	return b
}

// WithAssetID sets the asset reference
func (b *EventBuilder) WithAssetID(id uint) *EventBuilder {
	b.event.AssetID = &id
	return b
}

// WithOccurrenceCount sets the occurrence counter
func (b *EventBuilder) WithOccurrenceCount(n int) *EventBuilder {
	b.event.OccurrenceCount = n
	return b
}

// Build returns the constructed event
func (b *EventBuilder) Build() database.Event {
	return b.event
}

// ========================================
// Alert Builder
// ========================================

// AlertBuilder builds Alert instances for testing
type AlertBuilder struct {
	alert database.Alert
}

// NewAlertBuilder creates a new alert builder with defaults
func NewAlertBuilder() *AlertBuilder {
	return &AlertBuilder{
		alert: database.Alert{
			UUID:        uuid.New().String(),
			Status:      database.AlertStatusOpen,
			Severity:    database.SeverityWarning,
			Category:    database.CategoryPerformance,
			Title:       "High CPU Usage",
			Message:     "CPU utilization is elevated",
			SLADeadline: time.Now().Add(24 * time.Hour),
		},
	}
}

// WithEventID sets the originating event
func (b *AlertBuilder) WithEventID(id uint) *AlertBuilder {
	b.alert.EventID = id
	return b
}

// WithStatus sets the lifecycle status
func (b *AlertBuilder) WithStatus(status database.AlertStatus) *AlertBuilder {
	b.alert.Status = status
	return b
}

// WithSeverity sets the severity
func (b *AlertBuilder) WithSeverity(sev database.Severity) *AlertBuilder {
	b.alert.Severity = sev
	return b
}

// WithTitle sets the title
func (b *AlertBuilder) WithTitle(title string) *AlertBuilder {
	b.alert.Title = title
	return b
}

// WithAssetID sets the asset reference
func (b *AlertBuilder) WithAssetID(id uint) *AlertBuilder {
	b.alert.AssetID = &id
	return b
}

// WithOwner sets the owner
func (b *AlertBuilder) WithOwner(owner string) *AlertBuilder {
	b.alert.Owner = owner
	return b
}

// WithTeam sets the team
func (b *AlertBuilder) WithTeam(team string) *AlertBuilder {
	b.alert.Team = team
	return b
}

// WithSLADeadline sets the SLA deadline
func (b *AlertBuilder) WithSLADeadline(deadline time.Time) *AlertBuilder {
	b.alert.SLADeadline = deadline
	return b
}

// Resolved marks the alert resolved at the given time
func (b *AlertBuilder) Resolved(at time.Time) *AlertBuilder {
	b.alert.Status = database.AlertStatusResolved
	b.alert.ResolvedAt = &at
	return b
}

// Build returns the constructed alert
func (b *AlertBuilder) Build() database.Alert {
	return b.alert
}

// ========================================
// Asset Builder
// ========================================

// AssetBuilder builds Asset instances for testing
type AssetBuilder struct {
	asset database.Asset
}

// NewAssetBuilder creates a new asset builder with defaults
func NewAssetBuilder() *AssetBuilder {
	return &AssetBuilder{
		asset: database.Asset{
			Name:      "router-1",
			IPAddress: "10.0.0.1",
			Location:  "dc-east",
			Tier:      3,
			Type:      database.AssetTypeRouter,
			Status:    database.AssetStatusOnline,
		},
	}
}

// WithName sets the asset name
func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.asset.Name = name
	return b
}

// WithType sets the asset type
func (b *AssetBuilder) WithType(t database.AssetType) *AssetBuilder {
	b.asset.Type = t
	return b
}

// WithTier sets the criticality tier
func (b *AssetBuilder) WithTier(tier int) *AssetBuilder {
	b.asset.Tier = tier
	return b
}

// Offline marks the asset as unreachable
func (b *AssetBuilder) Offline() *AssetBuilder {
	b.asset.Status = database.AssetStatusOffline
	return b
}

// Build returns the constructed asset
func (b *AssetBuilder) Build() database.Asset {
	return b.asset
}

// ========================================
// Health Metric Builder
// ========================================

// HealthMetricBuilder builds HealthMetric samples for testing
type HealthMetricBuilder struct {
	sample database.HealthMetric
}

// NewHealthMetricBuilder creates a builder with healthy baseline values
func NewHealthMetricBuilder(assetID uint) *HealthMetricBuilder {
	return &HealthMetricBuilder{
		sample: database.HealthMetric{
			AssetID:           assetID,
			CPUUtilization:    10,
			MemoryUtilization: 20,
			PacketLossPercent: 0,
			LatencyMs:         2,
			RecordedAt:        time.Now(),
		},
	}
}

// WithCPU sets CPU utilization percent
func (b *HealthMetricBuilder) WithCPU(v float64) *HealthMetricBuilder {
	b.sample.CPUUtilization = v
	return b
}

// WithMemory sets memory utilization percent
func (b *HealthMetricBuilder) WithMemory(v float64) *HealthMetricBuilder {
	b.sample.MemoryUtilization = v
	return b
}

// WithPacketLoss sets packet loss percent
func (b *HealthMetricBuilder) WithPacketLoss(v float64) *HealthMetricBuilder {
	b.sample.PacketLossPercent = v
	return b
}

// WithLatency sets latency in milliseconds
func (b *HealthMetricBuilder) WithLatency(v float64) *HealthMetricBuilder {
	b.sample.LatencyMs = v
	return b
}

// RecordedAt sets the sample time
func (b *HealthMetricBuilder) RecordedAt(at time.Time) *HealthMetricBuilder {
	b.sample.RecordedAt = at
	return b
}

// Build returns the constructed sample
func (b *HealthMetricBuilder) Build() database.HealthMetric {
	return b.sample
}
