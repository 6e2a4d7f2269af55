package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/netpulse/netpulse/internal/database"
)

// State machine rejections. These surface synchronously to the caller with
// the required prior state; they are operator errors, never retried here.
var (
	ErrAlertNotFound      = errors.New("alert not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrAcknowledgeNotOpen = errors.New("alert must be OPEN to acknowledge")
	ErrCloseNotResolved   = errors.New("alert must be RESOLVED before closing")
	ErrResolveClosed      = errors.New("cannot resolve a closed alert")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	scorerTimeout = 10 * time.Second
)

// AlertService owns the alert lifecycle state machine: creation in OPEN
// with an SLA deadline, the acknowledge/resolve/close transitions, impact
// enrichment, listing and stats. Transitions never move backward; CLOSED
// is terminal.
type AlertService struct {
	db     *gorm.DB
	scorer ImpactScorer // optional, best-effort
}

// NewAlertService creates a new alert service
func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{db: db}
}

// SetScorer injects the optional business-impact scorer
func (s *AlertService) SetScorer(scorer ImpactScorer) {
	s.scorer = scorer
}

// CreateFromEvent creates an OPEN alert for the event and computes its SLA
// deadline from the originating severity. Impact enrichment is attempted
// when a scorer is available but never blocks creation.
func (s *AlertService) CreateFromEvent(event *database.Event, assetTier int) (*database.Alert, error) {
	settings, err := database.GetOrCreateEngineSettings(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine settings: %w", err)
	}

	now := time.Now()
	slaHours := settings.SLADefaultHours
	if event.Severity == database.SeverityCritical {
		slaHours = settings.SLACriticalHours
	}

	alert := &database.Alert{
		UUID:        uuid.New().String(),
		EventID:     event.ID,
		Status:      database.AlertStatusOpen,
		Severity:    event.Severity,
		Category:    event.Category,
		Title:       event.Title,
		Message:     event.Message,
		AssetID:     event.AssetID,
		SLADeadline: now.Add(time.Duration(slaHours) * time.Hour),
		SLABreached: false,
	}
	if err := s.db.Create(alert).Error; err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	s.enrichBusinessImpact(alert, event, assetTier)

	return alert, nil
}

// enrichBusinessImpact asks the external scorer for impact values. Any
// failure is logged and swallowed; the alert stands without enrichment.
func (s *AlertService) enrichBusinessImpact(alert *database.Alert, event *database.Event, assetTier int) {
	if s.scorer == nil || !s.scorer.Available() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), scorerTimeout)
	defer cancel()

	score, err := s.scorer.Score(ctx, event, assetTier, event.OccurrenceCount-1)
	if err != nil {
		log.Printf("Business impact scoring failed for alert %s: %v", alert.UUID, err)
		return
	}

	updates := map[string]interface{}{
		"business_impact_score": score.BusinessImpactScore,
		"affected_users":        score.AffectedUsers,
		"revenue_at_risk":       score.RevenueAtRisk,
	}
	if err := s.db.Model(alert).Updates(updates).Error; err != nil {
		log.Printf("Failed to store impact values for alert %s: %v", alert.UUID, err)
		return
	}
	alert.BusinessImpactScore = &score.BusinessImpactScore
	alert.AffectedUsers = &score.AffectedUsers
	alert.RevenueAtRisk = &score.RevenueAtRisk
}

// Get retrieves an alert by ID with the SLA flag recomputed as of now
func (s *AlertService) Get(id uint) (*database.Alert, error) {
	alert, err := s.find(id)
	if err != nil {
		return nil, err
	}
	alert.SLABreached = alert.BreachedAsOf(time.Now())
	return alert, nil
}

func (s *AlertService) find(id uint) (*database.Alert, error) {
	var alert database.Alert
	if err := s.db.First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// Acknowledge moves an OPEN alert to ACKNOWLEDGED and records the owner
func (s *AlertService) Acknowledge(id uint, owner string) (*database.Alert, error) {
	alert, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if alert.Status != database.AlertStatusOpen {
		return nil, ErrAcknowledgeNotOpen
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":          database.AlertStatusAcknowledged,
		"owner":           owner,
		"acknowledged_at": now,
	}
	if err := s.db.Model(alert).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to acknowledge alert %d: %w", id, err)
	}

	alert.Status = database.AlertStatusAcknowledged
	alert.Owner = owner
	alert.AcknowledgedAt = &now
	return alert, nil
}

// Resolve moves any non-CLOSED alert to RESOLVED. Notes are optional; the
// SLA flag is fixed at resolution time.
func (s *AlertService) Resolve(id uint, notes, category string) (*database.Alert, error) {
	alert, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if alert.Status == database.AlertStatusClosed {
		return nil, ErrResolveClosed
	}

	now := time.Now()
	breached := now.After(alert.SLADeadline)
	updates := map[string]interface{}{
		"status":              database.AlertStatusResolved,
		"resolved_at":         now,
		"resolution_notes":    notes,
		"resolution_category": category,
		"sla_breached":        breached,
	}
	if err := s.db.Model(alert).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve alert %d: %w", id, err)
	}

	alert.Status = database.AlertStatusResolved
	alert.ResolvedAt = &now
	alert.ResolutionNotes = notes
	alert.ResolutionCategory = category
	alert.SLABreached = breached
	return alert, nil
}

// Close moves a RESOLVED alert to CLOSED, the terminal state
func (s *AlertService) Close(id uint) (*database.Alert, error) {
	alert, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if alert.Status != database.AlertStatusResolved {
		return nil, ErrCloseNotResolved
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":    database.AlertStatusClosed,
		"closed_at": now,
	}
	if err := s.db.Model(alert).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to close alert %d: %w", id, err)
	}

	alert.Status = database.AlertStatusClosed
	alert.ClosedAt = &now
	return alert, nil
}

// UpdateBusinessImpact sets enrichment values supplied by an operator or
// an out-of-band scoring run
func (s *AlertService) UpdateBusinessImpact(id uint, score int, affectedUsers *int, revenueAtRisk *float64) (*database.Alert, error) {
	alert, err := s.find(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"business_impact_score": score,
	}
	if affectedUsers != nil {
		updates["affected_users"] = *affectedUsers
	}
	if revenueAtRisk != nil {
		updates["revenue_at_risk"] = *revenueAtRisk
	}
	if err := s.db.Model(alert).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update business impact for alert %d: %w", id, err)
	}

	alert.BusinessImpactScore = &score
	if affectedUsers != nil {
		alert.AffectedUsers = affectedUsers
	}
	if revenueAtRisk != nil {
		alert.RevenueAtRisk = revenueAtRisk
	}
	return alert, nil
}

// AlertFilters narrows List results. Nil/empty fields are ignored.
type AlertFilters struct {
	Status      *database.AlertStatus
	Owner       string
	Team        string
	SLABreached *bool
	Limit       int
	Offset      int
}

// slaBreachedCond matches alerts past their deadline: against resolution
// time when resolved, against now otherwise.
const slaBreachedCond = "(resolved_at IS NOT NULL AND resolved_at > sla_deadline) OR (resolved_at IS NULL AND sla_deadline < ?)"

// List returns alerts matching the filters, newest first, plus the total
// match count before pagination. SLA flags are recomputed as of query
// time.
func (s *AlertService) List(f AlertFilters) ([]database.Alert, int64, error) {
	now := time.Now()

	q := s.db.Model(&database.Alert{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Owner != "" {
		q = q.Where("owner = ?", f.Owner)
	}
	if f.Team != "" {
		q = q.Where("team = ?", f.Team)
	}
	if f.SLABreached != nil {
		if *f.SLABreached {
			q = q.Where(slaBreachedCond, now)
		} else {
			q = q.Not(slaBreachedCond, now)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var alerts []database.Alert
	err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&alerts).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range alerts {
		alerts[i].SLABreached = alerts[i].BreachedAsOf(now)
	}
	return alerts, total, nil
}

// AlertStats summarizes the alert population for dashboards
type AlertStats struct {
	Total        int64 `json:"total"`
	Critical     int64 `json:"critical"`
	Warning      int64 `json:"warning"`
	Open         int64 `json:"open"`
	Acknowledged int64 `json:"acknowledged"`
	Resolved     int64 `json:"resolved"`
}

// Stats counts alerts by severity and status. Resolved is derived as
// total - open - acknowledged so the identity holds exactly.
func (s *AlertService) Stats() (*AlertStats, error) {
	stats := &AlertStats{}

	counts := []struct {
		dest  *int64
		field string
		value interface{}
	}{
		{&stats.Critical, "severity = ?", database.SeverityCritical},
		{&stats.Warning, "severity = ?", database.SeverityWarning},
		{&stats.Open, "status = ?", database.AlertStatusOpen},
		{&stats.Acknowledged, "status = ?", database.AlertStatusAcknowledged},
	}

	if err := s.db.Model(&database.Alert{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		if err := s.db.Model(&database.Alert{}).Where(c.field, c.value).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	stats.Resolved = stats.Total - stats.Open - stats.Acknowledged
	return stats, nil
}
