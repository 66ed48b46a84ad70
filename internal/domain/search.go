package domain

import (
	"encoding/json"
	"time"
)

const (
	DefaultRadiusMeters = 50000
	DefaultMaxResults   = 500
)

// SearchQuery is the per-call input of the aggregator. It is never stored.
type SearchQuery struct {
	City            string
	BusinessType    string
	RadiusMeters    int
	MinRating       float64
	MaxResults      int
	ExcludeWebsites bool
}

// Normalize fills the zero-value knobs with the catalog defaults so that
// library callers can leave them unset.
func (q SearchQuery) Normalize() SearchQuery {
	if q.RadiusMeters <= 0 {
		q.RadiusMeters = DefaultRadiusMeters
	}
	if q.MaxResults <= 0 {
		q.MaxResults = DefaultMaxResults
	}
	return q
}

func (q SearchQuery) Validate() error {
	if q.City == "" {
		return ErrEmptyCity
	}
	if q.MinRating < 0 || q.MinRating > 5 {
		return ErrBadMinRating
	}
	return nil
}

// SearchResult is the envelope every search call returns, live or synthetic.
type SearchResult struct {
	Status       string         `json:"status"`
	Message      string         `json:"message,omitempty"`
	TotalResults int            `json:"total_results"`
	Results      []Lead         `json:"results"`
	Metadata     SearchMetadata `json:"search_metadata"`
}

type SearchMetadata struct {
	City            string  `json:"city"`
	BusinessType    string  `json:"business_type,omitempty"`
	MinRating       float64 `json:"min_rating"`
	MaxResults      int     `json:"max_results"`
	APIAvailable    bool    `json:"api_available"`
	ExcludeWebsites bool    `json:"exclude_websites"`
}

// StoredLead is the read model for a persisted lead.
type StoredLead struct {
	Lead
	City       string          `json:"city"`
	Enrichment json.RawMessage `json:"enrichment,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// LeadFilter narrows ListLeads. Zero values mean "no constraint".
type LeadFilter struct {
	City           string
	Category       string
	MinRating      float64
	WithoutWebsite bool
	Limit          int
}

// SearchRun is one audit row per aggregation, for prospecting history.
type SearchRun struct {
	City         string
	BusinessType string
	Found        int
	APIAvailable bool
	Duration     time.Duration
}
