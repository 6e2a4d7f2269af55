package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/netpulse/netpulse/internal/database"
)

// EventCandidate is a raw detected condition before deduplication
type EventCandidate struct {
	Source   database.EventSource
	Severity database.Severity
	Category database.AlertCategory
	Title    string
	Message  string
	AssetID  *uint
	// Timestamp is the detection time; zero means "now"
	Timestamp time.Time
}

// EventService merges repeated raw signals with the same fingerprint into
// a single Event row
type EventService struct {
	db *gorm.DB
}

// NewEventService creates a new event service
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// RecordEvent finds or creates the Event for the candidate's fingerprint.
// An existing event gets its occurrence count bumped and last-occurrence
// refreshed in place; otherwise a new row is created with count 1. Exactly
// one row is touched per call. Store errors propagate to the caller, which
// retries naturally on the next scheduler tick.
func (s *EventService) RecordEvent(c EventCandidate) (*database.Event, error) {
	fp := Fingerprint(c.Source, c.AssetID, c.Category, c.Title)

	ts := c.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var event database.Event
	err := s.db.Where("fingerprint = ?", fp).First(&event).Error
	if err == nil {
		updates := map[string]interface{}{
			"occurrence_count": gorm.Expr("occurrence_count + 1"),
			"last_occurrence":  ts,
		}
		if err := s.db.Model(&event).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update event %s: %w", event.UUID, err)
		}
		// Reload to pick up the incremented counter
		if err := s.db.First(&event, event.ID).Error; err != nil {
			return nil, err
		}
		return &event, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up event by fingerprint: %w", err)
	}

	event = database.Event{
		UUID:            uuid.New().String(),
		Fingerprint:     fp,
		Source:          c.Source,
		Severity:        c.Severity,
		Category:        c.Category,
		Title:           c.Title,
		Message:         c.Message,
		AssetID:         c.AssetID,
		Timestamp:       ts,
		FirstOccurrence: ts,
		LastOccurrence:  ts,
		OccurrenceCount: 1,
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &event, nil
}

// GetByFingerprint retrieves an event by its correlation key
func (s *EventService) GetByFingerprint(fingerprint string) (*database.Event, error) {
	var event database.Event
	if err := s.db.Where("fingerprint = ?", fingerprint).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(id uint) (*database.Event, error) {
	var event database.Event
	if err := s.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}
