package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"lead_finder/internal/adapters/observability"
	"lead_finder/internal/domain"
)

// SearchService runs the business discovery pipeline for one city: geocode,
// sweep the category keywords through text and typed nearby queries, then
// hydrate the deduplicated hits into filtered leads. Calls are strictly
// sequential and share no state beyond the injected client.
type SearchService struct {
	places    domain.PlacesClient
	pageDelay time.Duration
	wait      func(ctx context.Context, d time.Duration) error
	log       zerolog.Logger
}

// NewSearchService wires the aggregator. A nil places client is allowed and
// routes every search to the offline catalog. pageDelay is the pause before
// each next-page fetch; the places API rejects tokens used too early.
func NewSearchService(places domain.PlacesClient, pageDelay time.Duration, log zerolog.Logger) *SearchService {
	return &SearchService{
		places:    places,
		pageDelay: pageDelay,
		wait:      sleepCtx,
		log:       log,
	}
}

type outcome struct {
	leads []domain.Lead
	live  bool
}

// Search always returns a well-formed envelope. Precondition violations come
// back as an error-status envelope; upstream failures degrade to the offline
// catalog and are never propagated.
func (s *SearchService) Search(ctx context.Context, q domain.SearchQuery) domain.SearchResult {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		observability.ObserveSearch("error")
		return domain.SearchResult{
			Status:   "error",
			Message:  err.Error(),
			Results:  []domain.Lead{},
			Metadata: metadataFor(q, false),
		}
	}

	start := time.Now()
	out := s.run(ctx, q)

	mode := "fallback"
	if out.live {
		mode = "live"
	}
	observability.ObserveSearch(mode)
	s.log.Info().
		Str("city", q.City).
		Str("business_type", q.BusinessType).
		Int("found", len(out.leads)).
		Bool("live", out.live).
		Dur("took", time.Since(start)).
		Msg("business search complete")

	return domain.SearchResult{
		Status:       "success",
		TotalResults: len(out.leads),
		Results:      out.leads,
		Metadata:     metadataFor(q, out.live),
	}
}

func (s *SearchService) run(ctx context.Context, q domain.SearchQuery) outcome {
	if s.places == nil {
		s.log.Warn().Str("city", q.City).Msg("places client not configured, serving offline catalog")
		return outcome{leads: fallbackLeads(q.City, q.BusinessType, q.MaxResults)}
	}

	loc, err := s.places.Geocode(ctx, q.City)
	if err != nil {
		s.log.Warn().Err(err).Str("city", q.City).Msg("geocode failed, serving offline catalog")
		return outcome{leads: fallbackLeads(q.City, q.BusinessType, q.MaxResults)}
	}

	raw := s.collect(ctx, q, loc)
	leads := s.hydrate(ctx, q, raw)
	if ctx.Err() != nil {
		s.log.Warn().Err(ctx.Err()).Str("city", q.City).Msg("live search aborted, serving offline catalog")
		return outcome{leads: fallbackLeads(q.City, q.BusinessType, q.MaxResults)}
	}
	return outcome{leads: leads, live: true}
}

// collect sweeps every term through a text search plus, for recognized type
// codes, a typed nearby search, deduplicating by place ID in first-seen
// order. Raw hits may overshoot MaxResults; hydrate enforces the final cap.
func (s *SearchService) collect(ctx context.Context, q domain.SearchQuery, loc domain.Coords) []domain.PlaceSummary {
	terms := categoryKeywords
	if q.BusinessType != "" {
		terms = []string{q.BusinessType}
	}

	var raw []domain.PlaceSummary
	seen := make(map[string]struct{})
	for _, term := range terms {
		if ctx.Err() != nil || len(raw) >= q.MaxResults {
			break
		}
		query := fmt.Sprintf("%s in %s", term, q.City)

		units := []func(token string) (domain.PlacesPage, error){
			func(token string) (domain.PlacesPage, error) {
				return s.places.TextSearch(ctx, query, loc, q.RadiusMeters, token)
			},
		}
		if _, ok := nearbyPlaceTypes[term]; ok {
			placeType := term
			units = append(units, func(token string) (domain.PlacesPage, error) {
				return s.places.NearbySearch(ctx, loc, q.RadiusMeters, placeType, token)
			})
		}

		for _, fetch := range units {
			var err error
			raw, err = s.drain(ctx, fetch, q.MaxResults, seen, raw)
			if err != nil {
				s.log.Warn().Err(err).Str("term", term).Msg("search unit failed")
			}
		}
	}
	return raw
}

// drain follows one unit's pages until the token runs out or enough raw hits
// are in hand, pausing before every next-page fetch.
func (s *SearchService) drain(ctx context.Context, fetch func(token string) (domain.PlacesPage, error), max int, seen map[string]struct{}, raw []domain.PlaceSummary) ([]domain.PlaceSummary, error) {
	page, err := fetch("")
	if err != nil {
		return raw, err
	}
	raw = mergeHits(raw, page.Results, seen)

	for page.NextPageToken != "" && len(raw) < max {
		if err := s.wait(ctx, s.pageDelay); err != nil {
			return raw, err
		}
		page, err = fetch(page.NextPageToken)
		if err != nil {
			return raw, err
		}
		raw = mergeHits(raw, page.Results, seen)
	}
	return raw, nil
}

func mergeHits(raw []domain.PlaceSummary, hits []domain.PlaceSummary, seen map[string]struct{}) []domain.PlaceSummary {
	for _, h := range hits {
		if h.ID == "" {
			continue
		}
		if _, dup := seen[h.ID]; dup {
			continue
		}
		seen[h.ID] = struct{}{}
		raw = append(raw, h)
	}
	return raw
}

// hydrate resolves details for raw hits in first-seen order, applies the
// rating and website filters, and stops once MaxResults leads are accepted.
func (s *SearchService) hydrate(ctx context.Context, q domain.SearchQuery, raw []domain.PlaceSummary) []domain.Lead {
	leads := make([]domain.Lead, 0, len(raw))
	for _, sum := range raw {
		if ctx.Err() != nil || len(leads) >= q.MaxResults {
			break
		}
		det, err := s.places.PlaceDetails(ctx, sum.ID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.log.Warn().Err(err).Str("place_id", sum.ID).Msg("details lookup failed")
			}
			continue
		}
		rating := effectiveRating(sum, det)
		if rating < q.MinRating {
			continue
		}
		if q.ExcludeWebsites && looksRealWebsite(det.Website) {
			continue
		}
		lead, err := leadFromPlace(sum, det, rating)
		if err != nil {
			continue
		}
		leads = append(leads, lead)
	}
	return leads
}

func metadataFor(q domain.SearchQuery, live bool) domain.SearchMetadata {
	return domain.SearchMetadata{
		City:            q.City,
		BusinessType:    q.BusinessType,
		MinRating:       q.MinRating,
		MaxResults:      q.MaxResults,
		APIAvailable:    live,
		ExcludeWebsites: q.ExcludeWebsites,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
