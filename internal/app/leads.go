package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"lead_finder/internal/domain"
)

// LeadService persists aggregation output and drives per-lead enrichment
// through the agent platform.
type LeadService struct {
	store  domain.LeadStore
	agents domain.AgentInvoker
	log    zerolog.Logger
}

func NewLeadService(store domain.LeadStore, agents domain.AgentInvoker, log zerolog.Logger) *LeadService {
	return &LeadService{store: store, agents: agents, log: log}
}

// SaveSearch records the run and persists its results. Offline catalog data
// is never written; only live hits reach the store.
func (l *LeadService) SaveSearch(ctx context.Context, res domain.SearchResult, took time.Duration) (int, error) {
	run := domain.SearchRun{
		City:         res.Metadata.City,
		BusinessType: res.Metadata.BusinessType,
		Found:        res.TotalResults,
		APIAvailable: res.Metadata.APIAvailable,
		Duration:     took,
	}
	if err := l.store.LogRun(ctx, run); err != nil {
		l.log.Warn().Err(err).Str("city", run.City).Msg("search run not recorded")
	}
	if !res.Metadata.APIAvailable {
		l.log.Info().Str("city", run.City).Msg("offline catalog results not persisted")
		return 0, nil
	}
	n, err := l.store.UpsertLeads(ctx, res.Metadata.City, res.Results)
	if err != nil {
		return 0, fmt.Errorf("save leads for %s: %w", res.Metadata.City, err)
	}
	l.log.Info().Str("city", run.City).Int("saved", n).Msg("leads persisted")
	return n, nil
}

func (l *LeadService) List(ctx context.Context, f domain.LeadFilter) ([]domain.StoredLead, error) {
	return l.store.ListLeads(ctx, f)
}

func (l *LeadService) Get(ctx context.Context, placeID string) (domain.StoredLead, error) {
	return l.store.GetLead(ctx, placeID)
}

// Enrich runs a stored lead through the enrichment agent and keeps the
// returned payload on the row. The payload is mock-flagged when the platform
// is not configured.
func (l *LeadService) Enrich(ctx context.Context, placeID string) (map[string]any, error) {
	lead, err := l.store.GetLead(ctx, placeID)
	if err != nil {
		return nil, err
	}
	payload, err := l.agents.EnrichLead(ctx, lead.Name, websiteDomain(lead.Website), lead.Address)
	if err != nil {
		return nil, fmt.Errorf("enrich %s: %w", placeID, err)
	}
	blob, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode enrichment for %s: %w", placeID, err)
	}
	if err := l.store.SetEnrichment(ctx, placeID, blob); err != nil {
		return nil, err
	}
	return payload, nil
}

// websiteDomain reduces a website URL to its host for the enrichment agent.
func websiteDomain(website string) string {
	if website == "" {
		return ""
	}
	if u, err := url.Parse(website); err == nil && u.Host != "" {
		return u.Host
	}
	return website
}
