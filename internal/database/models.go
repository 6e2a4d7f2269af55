package database

import (
	"fmt"
	"time"
)

// EventSource identifies the monitoring domain a raw signal originated from.
type EventSource string

const (
	EventSourceNMS    EventSource = "nms"
	EventSourceCloud  EventSource = "cloud"
	EventSourceAPM    EventSource = "apm"
	EventSourceServer EventSource = "server"
	EventSourceSIEM   EventSource = "siem"
	EventSourceITSM   EventSource = "itsm"
)

// Severity represents normalized severity levels
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// AlertStatus represents the lifecycle state of an alert
type AlertStatus string

const (
	AlertStatusOpen         AlertStatus = "open"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
	AlertStatusClosed       AlertStatus = "closed"
)

// IsTerminal returns true for states that permit no further transitions
func (s AlertStatus) IsTerminal() bool {
	return s == AlertStatusClosed
}

// AlertCategory is the closed set of alert classifications. Free-text
// categories from upstream signals are validated through ParseCategory
// rather than stored verbatim.
type AlertCategory string

const (
	CategoryPerformance   AlertCategory = "performance"
	CategoryConnectivity  AlertCategory = "connectivity"
	CategorySecurity      AlertCategory = "security"
	CategoryAvailability  AlertCategory = "availability"
	CategoryCapacity      AlertCategory = "capacity"
	CategoryConfiguration AlertCategory = "configuration"
	CategoryMaintenance   AlertCategory = "maintenance"
	CategoryScaling       AlertCategory = "scaling"
)

// ValidCategories returns all recognized alert categories
func ValidCategories() []AlertCategory {
	return []AlertCategory{
		CategoryPerformance,
		CategoryConnectivity,
		CategorySecurity,
		CategoryAvailability,
		CategoryCapacity,
		CategoryConfiguration,
		CategoryMaintenance,
		CategoryScaling,
	}
}

// ParseCategory validates a category string against the closed set
func ParseCategory(s string) (AlertCategory, error) {
	for _, c := range ValidCategories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unrecognized alert category: %q", s)
}

// Event is a deduplicated occurrence of a detected condition. Re-detection
// of the same fingerprint updates the existing row in place; events are
// never deleted by the engine.
type Event struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UUID            string        `gorm:"uniqueIndex;size:36;not null" json:"uuid"`
	Fingerprint     string        `gorm:"uniqueIndex;size:64;not null" json:"fingerprint"`
	Source          EventSource   `gorm:"type:varchar(20);not null;index" json:"source"`
	Severity        Severity      `gorm:"type:varchar(20);not null" json:"severity"`
	Category        AlertCategory `gorm:"type:varchar(30);not null" json:"category"`
	Title           string        `gorm:"type:varchar(255);not null" json:"title"`
	Message         string        `gorm:"type:text" json:"message"`
	AssetID         *uint         `gorm:"index" json:"asset_id,omitempty"`
	Timestamp       time.Time     `gorm:"not null" json:"timestamp"`
	FirstOccurrence time.Time     `gorm:"not null" json:"first_occurrence"`
	LastOccurrence  time.Time     `gorm:"not null" json:"last_occurrence"`
	OccurrenceCount int           `gorm:"not null;default:1" json:"occurrence_count"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// Alert is the operator-facing lifecycle object derived from exactly one
// Event. Severity, category, title and asset reference are copied from the
// originating event so listings and stats never need a join.
type Alert struct {
	ID      uint        `gorm:"primaryKey" json:"id"`
	UUID    string      `gorm:"uniqueIndex;size:36;not null" json:"uuid"`
	EventID uint        `gorm:"not null;index" json:"event_id"`
	Status  AlertStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`

	Severity Severity      `gorm:"type:varchar(20);not null" json:"severity"`
	Category AlertCategory `gorm:"type:varchar(30);not null" json:"category"`
	Title    string        `gorm:"type:varchar(255);not null" json:"title"`
	Message  string        `gorm:"type:text" json:"message"`
	AssetID  *uint         `gorm:"index" json:"asset_id,omitempty"`

	Owner            string `gorm:"type:varchar(255);index" json:"owner"`
	Team             string `gorm:"type:varchar(255);index" json:"team"`
	RootCauseAssetID *uint  `json:"root_cause_asset_id,omitempty"`

	// Optional enrichment from the external business-impact scorer.
	// Absence never blocks alert creation.
	BusinessImpactScore *int     `json:"business_impact_score,omitempty"`
	AffectedUsers       *int     `json:"affected_users,omitempty"`
	RevenueAtRisk       *float64 `json:"revenue_at_risk,omitempty"`

	SLADeadline time.Time `gorm:"column:sla_deadline;not null" json:"sla_deadline"`
	SLABreached bool      `gorm:"column:sla_breached;default:false" json:"sla_breached"`

	AcknowledgedAt     *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
	ClosedAt           *time.Time `json:"closed_at,omitempty"`
	ResolutionNotes    string     `gorm:"type:text" json:"resolution_notes"`
	ResolutionCategory string     `gorm:"type:varchar(100)" json:"resolution_category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Belongs to Event
	Event Event `gorm:"foreignKey:EventID" json:"-"`
}

func (Alert) TableName() string {
	return "alerts"
}

// BreachedAsOf reports whether the alert exceeded its SLA deadline as of
// the given instant: resolution time when resolved, the current time
// otherwise. Breaching never forces a state change, it only flags the
// alert for reporting.
func (a *Alert) BreachedAsOf(now time.Time) bool {
	ref := now
	if a.ResolvedAt != nil {
		ref = *a.ResolvedAt
	}
	return ref.After(a.SLADeadline)
}

// AssetType classifies a monitored device
type AssetType string

const (
	AssetTypeRouter   AssetType = "router"
	AssetTypeSwitch   AssetType = "switch"
	AssetTypeFirewall AssetType = "firewall"
	AssetTypeServer   AssetType = "server"
)

// AssetStatus is the connectivity status reported by the asset directory
type AssetStatus string

const (
	AssetStatusOnline  AssetStatus = "online"
	AssetStatusOffline AssetStatus = "offline"
)

// Asset mirrors the platform's asset inventory table. The engine only
// reads it; ownership (CRUD, validation) lives with the inventory service.
type Asset struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Name      string      `gorm:"type:varchar(255);not null" json:"name"`
	IPAddress string      `gorm:"type:varchar(45)" json:"ip_address"`
	Location  string      `gorm:"type:varchar(255)" json:"location"`
	Tier      int         `gorm:"default:3" json:"tier"` // 1=critical, 2=important, 3=standard
	Type      AssetType   `gorm:"type:varchar(30);not null;index" json:"type"`
	Status    AssetStatus `gorm:"type:varchar(20);not null;default:'online'" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (Asset) TableName() string {
	return "assets"
}

// HealthMetric is one device-health sample. The newest row per asset is
// the "latest sample" the evaluator sees; an asset with no rows is skipped.
type HealthMetric struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	AssetID           uint      `gorm:"not null;index" json:"asset_id"`
	CPUUtilization    float64   `gorm:"column:cpu_utilization" json:"cpu_utilization"`
	MemoryUtilization float64   `gorm:"column:memory_utilization" json:"memory_utilization"`
	PacketLossPercent float64   `gorm:"column:packet_loss_percent" json:"packet_loss_percent"`
	LatencyMs         float64   `gorm:"column:latency_ms" json:"latency_ms"`
	RecordedAt        time.Time `gorm:"not null;index" json:"recorded_at"`
}

func (HealthMetric) TableName() string {
	return "device_health_metrics"
}
