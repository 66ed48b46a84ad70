package googlemaps

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"lead_finder/internal/adapters/observability"
	"lead_finder/internal/domain"
)

const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusOverQueryLimit = "OVER_QUERY_LIMIT"
	statusUnknownError   = "UNKNOWN_ERROR"
	statusNotFound       = "NOT_FOUND"
)

// Client talks to the Geocoding and Places web APIs. One instance is safe
// to share across calls; the rate limiter serializes bursts client-side.
type Client struct {
	base  string
	key   string
	hc    *http.Client
	rl    *rate.Limiter
	cache domain.Cache // optional, geocode results only
	ttl   time.Duration
	log   zerolog.Logger
}

// New builds the places client. cache may be nil; the geocode TTL is only
// consulted when it is not.
func New(base, key string, timeout time.Duration, rps int, cache domain.Cache, geocodeTTL time.Duration, log zerolog.Logger) (*Client, error) {
	if key == "" {
		return nil, domain.ErrUnavailable
	}
	if rps <= 0 {
		rps = 10
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		key:   key,
		hc:    &http.Client{Timeout: timeout},
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
		cache: cache,
		ttl:   geocodeTTL,
		log:   log.With().Str("adapter", "googlemaps").Logger(),
	}, nil
}

func (c *Client) Geocode(ctx context.Context, city string) (domain.Coords, error) {
	key := "maps:geo:" + strings.ToLower(strings.TrimSpace(city))
	if c.cache != nil {
		var pt domain.Coords
		ok, err := c.cache.Get(ctx, key, &pt)
		if err != nil {
			c.log.Warn().Err(err).Str("city", city).Msg("geocode cache read failed")
		} else if ok {
			return pt, nil
		}
	}

	q := url.Values{}
	q.Set("address", city)
	var resp geocodeResponse
	if err := c.get(ctx, "geocode", "/geocode/json", q, &resp); err != nil {
		return domain.Coords{}, err
	}
	switch resp.Status {
	case statusOK:
	case statusZeroResults:
		return domain.Coords{}, domain.ErrNoGeocode
	default:
		return domain.Coords{}, statusError("geocode", resp.Status, resp.ErrorMessage)
	}
	if len(resp.Results) == 0 {
		return domain.Coords{}, domain.ErrNoGeocode
	}
	loc := resp.Results[0].Geometry.Location
	pt := domain.Coords{Lat: loc.Lat, Lng: loc.Lng}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, pt, int(c.ttl.Seconds())); err != nil {
			c.log.Warn().Err(err).Str("city", city).Msg("geocode cache write failed")
		}
	}
	return pt, nil
}

func (c *Client) TextSearch(ctx context.Context, query string, loc domain.Coords, radiusM int, pageToken string) (domain.PlacesPage, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("location", fmt.Sprintf("%.6f,%.6f", loc.Lat, loc.Lng))
	q.Set("radius", strconv.Itoa(radiusM))
	if pageToken != "" {
		q.Set("pagetoken", pageToken)
	}
	var resp searchResponse
	if err := c.get(ctx, "textsearch", "/place/textsearch/json", q, &resp); err != nil {
		return domain.PlacesPage{}, err
	}
	return pageFrom("textsearch", resp)
}

func (c *Client) NearbySearch(ctx context.Context, loc domain.Coords, radiusM int, placeType, pageToken string) (domain.PlacesPage, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%.6f,%.6f", loc.Lat, loc.Lng))
	q.Set("radius", strconv.Itoa(radiusM))
	if placeType != "" {
		q.Set("type", placeType)
	}
	if pageToken != "" {
		q.Set("pagetoken", pageToken)
	}
	var resp searchResponse
	if err := c.get(ctx, "nearbysearch", "/place/nearbysearch/json", q, &resp); err != nil {
		return domain.PlacesPage{}, err
	}
	return pageFrom("nearbysearch", resp)
}

func (c *Client) PlaceDetails(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	if placeID == "" {
		return domain.PlaceDetails{}, domain.ErrNotFound
	}
	q := url.Values{}
	q.Set("place_id", placeID)
	var resp detailsResponse
	if err := c.get(ctx, "details", "/place/details/json", q, &resp); err != nil {
		return domain.PlaceDetails{}, err
	}
	switch resp.Status {
	case statusOK:
		return resp.Result.details(), nil
	case statusNotFound, statusZeroResults:
		return domain.PlaceDetails{}, domain.ErrNotFound
	default:
		return domain.PlaceDetails{}, statusError("details", resp.Status, resp.ErrorMessage)
	}
}

func pageFrom(endpoint string, resp searchResponse) (domain.PlacesPage, error) {
	switch resp.Status {
	case statusOK:
	case statusZeroResults:
		return domain.PlacesPage{}, nil
	default:
		return domain.PlacesPage{}, statusError(endpoint, resp.Status, resp.ErrorMessage)
	}
	page := domain.PlacesPage{
		Results:       make([]domain.PlaceSummary, 0, len(resp.Results)),
		NextPageToken: resp.NextPageToken,
	}
	for _, r := range resp.Results {
		page.Results = append(page.Results, r.summary())
	}
	return page, nil
}

func statusError(endpoint, status, message string) error {
	if message != "" {
		return fmt.Errorf("%s %s: %s: %w", endpoint, status, message, domain.ErrRequestFailed)
	}
	return fmt.Errorf("%s %s: %w", endpoint, status, domain.ErrRequestFailed)
}

// get performs a GET with client-side rate limiting and bounded retries,
// decoding the JSON body into out. Retries cover transport errors, HTTP
// 429/5xx (honoring Retry-After), and the body-level throttling statuses.
func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values, out apiResponse) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	q.Set("key", c.key)
	u := c.base + path + "?" + q.Encode()

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "lead-finder/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("maps", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%s: %v: %w", endpoint, err, domain.ErrRequestFailed)
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("maps", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%s decode: %v: %w", endpoint, err, domain.ErrRequestFailed)
			}
			if st, msg := out.apiStatus(); st == statusOverQueryLimit || st == statusUnknownError {
				lastErr = statusError(endpoint, st, msg)
				if i < 3 && sleepCtx(ctx, backoff(i)) {
					continue
				}
				return lastErr
			}
			return nil

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%s remote %d: %w", endpoint, resp.StatusCode, domain.ErrRequestFailed)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%s bad status %d: %s: %w",
				endpoint, resp.StatusCode, strings.TrimSpace(string(b)), domain.ErrRequestFailed)
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter from crypto/rand so concurrent prospector workers spread out.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
