package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/netpulse/netpulse/internal/database"
)

// ImpactScore holds the enrichment values returned by the external
// business-impact scorer
type ImpactScore struct {
	BusinessImpactScore int     `json:"business_impact_score"`
	AffectedUsers       int     `json:"affected_users"`
	RevenueAtRisk       float64 `json:"revenue_at_risk"`
}

// ImpactScorer scores the business impact of an event. It is a capability
// the engine may or may not have: implementations are best-effort and
// callers must tolerate unavailability. The scorer is injected explicitly
// so tests can simulate both presence and absence deterministically.
type ImpactScorer interface {
	// Available probes whether the scorer can currently serve requests
	Available() bool
	// Score computes enrichment values for an event on an asset of the
	// given tier with relatedCount correlated occurrences
	Score(ctx context.Context, event *database.Event, assetTier, relatedCount int) (*ImpactScore, error)
}

// HTTPImpactScorer calls the platform's ML service over HTTP
type HTTPImpactScorer struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPImpactScorer creates a scorer client for the given base URL
func NewHTTPImpactScorer(baseURL string) *HTTPImpactScorer {
	return &HTTPImpactScorer{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type businessImpactRequest struct {
	Event              map[string]interface{} `json:"event"`
	AssetTier          int                    `json:"asset_tier"`
	RelatedEventsCount int                    `json:"related_events_count"`
}

// Available checks the ML service health endpoint
func (s *HTTPImpactScorer) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Score calls the ML service's business-impact endpoint
func (s *HTTPImpactScorer) Score(ctx context.Context, event *database.Event, assetTier, relatedCount int) (*ImpactScore, error) {
	payload := businessImpactRequest{
		Event: map[string]interface{}{
			"severity": string(event.Severity),
			"category": string(event.Category),
			"title":    event.Title,
		},
		AssetTier:          assetTier,
		RelatedEventsCount: relatedCount,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal impact request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/ml/calculate-business-impact", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("impact scorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("impact scorer returned status %d", resp.StatusCode)
	}

	var score ImpactScore
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return nil, fmt.Errorf("failed to decode impact response: %w", err)
	}
	return &score, nil
}
