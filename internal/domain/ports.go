package domain

import "context"

// PlacesClient is the outbound place-search capability the aggregator
// consumes. Implementations must be safe for sequential reuse across calls.
type PlacesClient interface {
	Geocode(ctx context.Context, city string) (Coords, error)
	TextSearch(ctx context.Context, query string, loc Coords, radiusM int, pageToken string) (PlacesPage, error)
	NearbySearch(ctx context.Context, loc Coords, radiusM int, placeType, pageToken string) (PlacesPage, error)
	PlaceDetails(ctx context.Context, placeID string) (PlaceDetails, error)
}

// AgentInvoker is the slice of the agent-platform client the services use.
type AgentInvoker interface {
	Enabled() bool
	EnrichLead(ctx context.Context, companyName, domain, location string) (map[string]any, error)
	ValidateData(ctx context.Context, data map[string]any, rules []string) (map[string]any, error)
}

// LeadStore persists discovered leads and the per-city search audit trail.
type LeadStore interface {
	UpsertLeads(ctx context.Context, city string, leads []Lead) (int, error)
	ListLeads(ctx context.Context, f LeadFilter) ([]StoredLead, error)
	GetLead(ctx context.Context, placeID string) (StoredLead, error)
	SetEnrichment(ctx context.Context, placeID string, payload []byte) error
	LogRun(ctx context.Context, run SearchRun) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models for the places capability.

type PlacesPage struct {
	Results       []PlaceSummary
	NextPageToken string
}

// PlaceSummary is one search hit before the detail lookup. Address holds
// the formatted address when the search variant provides one.
type PlaceSummary struct {
	ID       string
	Name     string
	Address  string
	Rating   float64
	Types    []string
	Location *Coords
}

type PlaceDetails struct {
	Name        string
	Address     string
	Phone       string
	Website     string
	Rating      float64
	RatingCount int
	Types       []string
	PriceLevel  int
	OpenNow     bool
}
