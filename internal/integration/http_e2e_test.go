//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lead_finder/internal/a2a"
	server "lead_finder/internal/adapters/http_server"
	"lead_finder/internal/adapters/ondemand"
	"lead_finder/internal/app"
	"lead_finder/internal/domain"
)

// ---------- fakes behind the real router ----------

// fakePlaces serves two Pune businesses for every query, neither with a
// website, so the default filters keep both.
type fakePlaces struct{}

func (fakePlaces) Geocode(_ context.Context, _ string) (domain.Coords, error) {
	return domain.Coords{Lat: 18.5204, Lng: 73.8567}, nil
}

func (fakePlaces) TextSearch(_ context.Context, _ string, _ domain.Coords, _ int, pageToken string) (domain.PlacesPage, error) {
	if pageToken != "" {
		return domain.PlacesPage{}, nil
	}
	return domain.PlacesPage{Results: []domain.PlaceSummary{
		{ID: "pl_spice", Name: "Spice Garden", Address: "12 FC Road", Rating: 4.6, Types: []string{"restaurant"}, Location: &domain.Coords{Lat: 18.52, Lng: 73.85}},
		{ID: "pl_cup", Name: "Crafted Cup", Address: "3 Law College Road", Rating: 4.2, Types: []string{"cafe"}, Location: &domain.Coords{Lat: 18.51, Lng: 73.84}},
	}}, nil
}

func (fakePlaces) NearbySearch(_ context.Context, _ domain.Coords, _ int, _, _ string) (domain.PlacesPage, error) {
	return domain.PlacesPage{}, nil
}

func (fakePlaces) PlaceDetails(_ context.Context, placeID string) (domain.PlaceDetails, error) {
	switch placeID {
	case "pl_spice":
		return domain.PlaceDetails{Name: "Spice Garden", Address: "12 FC Road, Pune", Phone: "+91-2025501234", Rating: 4.6, RatingCount: 320, Types: []string{"restaurant"}, PriceLevel: 2, OpenNow: true}, nil
	case "pl_cup":
		return domain.PlaceDetails{Name: "Crafted Cup", Address: "3 Law College Road, Pune", Phone: "+91-2025505678", Rating: 4.2, RatingCount: 150, Types: []string{"cafe"}, PriceLevel: 1, OpenNow: true}, nil
	}
	return domain.PlaceDetails{}, domain.ErrNotFound
}

type memStore struct {
	mu   sync.Mutex
	rows map[string]domain.StoredLead
	runs []domain.SearchRun
}

func newMemStore() *memStore { return &memStore{rows: map[string]domain.StoredLead{}} }

func (m *memStore) UpsertLeads(_ context.Context, city string, leads []domain.Lead) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, l := range leads {
		sl := domain.StoredLead{Lead: l, City: city, CreatedAt: now, UpdatedAt: now}
		if prev, ok := m.rows[l.PlaceID]; ok {
			sl.Enrichment = prev.Enrichment
			sl.CreatedAt = prev.CreatedAt
		}
		m.rows[l.PlaceID] = sl
	}
	return len(leads), nil
}

func (m *memStore) ListLeads(_ context.Context, f domain.LeadFilter) ([]domain.StoredLead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StoredLead
	for _, sl := range m.rows {
		if f.City != "" && sl.City != f.City {
			continue
		}
		if f.Category != "" && sl.Category != f.Category {
			continue
		}
		if sl.Rating < f.MinRating {
			continue
		}
		if f.WithoutWebsite && sl.Website != "" {
			continue
		}
		out = append(out, sl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlaceID < out[j].PlaceID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) GetLead(_ context.Context, placeID string) (domain.StoredLead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl, ok := m.rows[placeID]
	if !ok {
		return domain.StoredLead{}, domain.ErrNotFound
	}
	return sl, nil
}

func (m *memStore) SetEnrichment(_ context.Context, placeID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl, ok := m.rows[placeID]
	if !ok {
		return domain.ErrNotFound
	}
	sl.Enrichment = append([]byte(nil), payload...)
	sl.UpdatedAt = time.Now()
	m.rows[placeID] = sl
	return nil
}

func (m *memStore) LogRun(_ context.Context, run domain.SearchRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

// ---------- wiring ----------

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	logger := zerolog.Nop()

	search := app.NewSearchService(fakePlaces{}, 0, logger)
	store := newMemStore()
	agents := ondemand.New(ondemand.Config{}, logger) // no creds: mock payloads
	leads := app.NewLeadService(store, agents, logger)

	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Search: search,
		Leads:  leads,
		Card:   server.AgentCardFor("http://localhost:8080"),
		Tasks:  a2a.NewStore(),
	})

	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return res
}

func decodeInto(t *testing.T, res *http.Response, dst any) {
	t.Helper()
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// ---------- the tests ----------

func TestHTTP_EndToEnd_CardAndSimpleSearch(t *testing.T) {
	ts, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/.well-known/agent.json")
	if err != nil {
		t.Fatalf("GET card: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("card status %d", res.StatusCode)
	}
	var card a2a.AgentCard
	decodeInto(t, res, &card)
	if card.Name != "Lead Finder" || card.Version != "1.0.0" || len(card.Skills) != 2 {
		t.Fatalf("unexpected card: %+v", card)
	}
	if card.Skills[0].ID != "process_search" || card.Skills[1].ID != "save_leads" {
		t.Fatalf("unexpected skills: %+v", card.Skills)
	}

	res = postJSON(t, ts.URL+"/search", map[string]any{"city": "Pune", "business_type": "cafe"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("search status %d", res.StatusCode)
	}
	var got struct {
		Success    bool          `json:"success"`
		City       string        `json:"city"`
		Businesses []domain.Lead `json:"businesses"`
		Count      int           `json:"count"`
	}
	decodeInto(t, res, &got)
	if !got.Success || got.City != "Pune" || got.Count != 2 || len(got.Businesses) != 2 {
		t.Fatalf("unexpected search response: %+v", got)
	}
	if got.Businesses[0].PlaceID != "pl_spice" || got.Businesses[0].Phone != "+91-2025501234" {
		t.Fatalf("unexpected first business: %+v", got.Businesses[0])
	}

	res = postJSON(t, ts.URL+"/search", map[string]any{})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty city status %d", res.StatusCode)
	}
	var fail struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decodeInto(t, res, &fail)
	if fail.Success || fail.Error != "City is required" {
		t.Fatalf("unexpected error body: %+v", fail)
	}
}

func TestHTTP_EndToEnd_TaskLifecycleAndLeads(t *testing.T) {
	ts, store := newTestServer(t)

	res := postJSON(t, ts.URL+"/a2a/message/send", map[string]any{
		"message": map[string]any{
			"role":  "user",
			"parts": []map[string]any{{"kind": "text", "text": "Pune"}},
		},
	})
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("message/send status %d", res.StatusCode)
	}
	var task a2a.Task
	decodeInto(t, res, &task)
	if task.ID == "" || task.Status.State.Terminal() {
		t.Fatalf("unexpected accepted task: %+v", task)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		r, err := http.Get(fmt.Sprintf("%s/a2a/tasks/%s", ts.URL, task.ID))
		if err != nil {
			t.Fatalf("GET task: %v", err)
		}
		decodeInto(t, r, &task)
		if task.Status.State.Terminal() {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("task still %s after deadline", task.Status.State)
		}
		time.Sleep(20 * time.Millisecond)
	}
	if task.Status.State != a2a.TaskCompleted {
		t.Fatalf("task finished as %s (%s)", task.Status.State, task.Status.Reason)
	}
	if len(task.Artifacts) != 1 || task.Artifacts[0].Name != "search_result" {
		t.Fatalf("unexpected artifacts: %+v", task.Artifacts)
	}
	data := task.Artifacts[0].Parts[0].Data
	if data["status"] != "success" || data["total_results"] != float64(2) {
		t.Fatalf("unexpected artifact payload: %+v", data)
	}

	// The executor persisted the live results.
	store.mu.Lock()
	persisted, runs := len(store.rows), len(store.runs)
	store.mu.Unlock()
	if persisted != 2 || runs != 1 {
		t.Fatalf("persisted=%d runs=%d, want 2 and 1", persisted, runs)
	}

	res, err := http.Get(ts.URL + "/leads?city=Pune&without_website=true")
	if err != nil {
		t.Fatalf("GET leads: %v", err)
	}
	etag := res.Header.Get("ETag")
	if res.StatusCode != http.StatusOK || etag == "" {
		t.Fatalf("leads status %d etag %q", res.StatusCode, etag)
	}
	var page struct {
		Items []domain.StoredLead `json:"items"`
		Count int                 `json:"count"`
	}
	decodeInto(t, res, &page)
	if page.Count != 2 || len(page.Items) != 2 {
		t.Fatalf("unexpected leads page: %+v", page)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/leads?city=Pune&without_website=true", nil)
	req.Header.Set("If-None-Match", etag)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET leads: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotModified {
		t.Fatalf("conditional status %d, want 304", res.StatusCode)
	}

	res = postJSON(t, ts.URL+"/leads/pl_spice/enrich", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("enrich status %d", res.StatusCode)
	}
	var enriched map[string]any
	decodeInto(t, res, &enriched)
	if enriched["mock"] != true {
		t.Fatalf("expected mock enrichment payload, got %+v", enriched)
	}
	stored, err := store.GetLead(context.Background(), "pl_spice")
	if err != nil || !strings.Contains(string(stored.Enrichment), "mock") {
		t.Fatalf("enrichment not persisted: %v %q", err, stored.Enrichment)
	}

	res, err = http.Get(ts.URL + "/leads/pl_spice")
	if err != nil {
		t.Fatalf("GET lead: %v", err)
	}
	if res.StatusCode != http.StatusOK || res.Header.Get("ETag") == "" {
		t.Fatalf("lead status %d", res.StatusCode)
	}
	var one domain.StoredLead
	decodeInto(t, res, &one)
	if one.PlaceID != "pl_spice" || !strings.Contains(string(one.Enrichment), "mock") {
		t.Fatalf("unexpected stored lead body: %+v", one)
	}

	for _, probe := range []struct {
		method, path string
	}{
		{http.MethodGet, "/a2a/tasks/nope"},
		{http.MethodPost, "/a2a/tasks/nope/cancel"},
	} {
		req, _ := http.NewRequest(probe.method, ts.URL+probe.path, nil)
		r, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", probe.method, probe.path, err)
		}
		r.Body.Close()
		if r.StatusCode != http.StatusNotFound {
			t.Fatalf("%s %s status %d, want 404", probe.method, probe.path, r.StatusCode)
		}
	}
}
