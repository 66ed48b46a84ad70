// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lead_finder/internal/a2a"
	"lead_finder/internal/app"
	"lead_finder/internal/domain"
)

// Handlers wires the agent surface. Leads is nil when no database is
// configured; the storage routes answer 503 in that case, while search and
// the task endpoints keep working.
type Handlers struct {
	Search *app.SearchService
	Leads  *app.LeadService
	Card   a2a.AgentCard
	Tasks  *a2a.Store
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/.well-known/agent.json", h.agentCard)
	s.mux.Post("/search", h.simpleSearch)
	s.mux.Post("/a2a/message/send", h.sendMessage)
	s.mux.Get("/a2a/tasks/{id}", h.getTask)
	s.mux.Post("/a2a/tasks/{id}/cancel", h.cancelTask)
	s.mux.Get("/leads", h.listLeads)
	s.mux.Get("/leads/{placeID}", h.getLead)
	s.mux.Post("/leads/{placeID}/enrich", h.enrichLead)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) agentCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Card)
}

// ---- simple search (pre-A2A compatibility endpoint) ----

type searchRequest struct {
	City            string  `json:"city"`
	BusinessType    string  `json:"business_type"`
	RadiusMeters    int     `json:"radius_meters"`
	MinRating       float64 `json:"min_rating"`
	MaxResults      int     `json:"max_results"`
	ExcludeWebsites *bool   `json:"exclude_websites"`
}

type searchErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type searchResponse struct {
	Success    bool          `json:"success"`
	City       string        `json:"city"`
	Businesses []domain.Lead `json:"businesses"`
	Count      int           `json:"count"`
}

func (h *Handlers) simpleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, searchErrorResponse{Error: "invalid request body"})
		return
	}
	req.City = strings.TrimSpace(req.City)
	if req.City == "" {
		writeJSON(w, http.StatusBadRequest, searchErrorResponse{Error: "City is required"})
		return
	}

	q := domain.SearchQuery{
		City:            req.City,
		BusinessType:    strings.TrimSpace(req.BusinessType),
		RadiusMeters:    req.RadiusMeters,
		MinRating:       req.MinRating,
		MaxResults:      req.MaxResults,
		ExcludeWebsites: true,
	}
	if q.MaxResults <= 0 {
		q.MaxResults = 50
	}
	if req.ExcludeWebsites != nil {
		q.ExcludeWebsites = *req.ExcludeWebsites
	}

	res := h.Search.Search(r.Context(), q)
	if res.Status != "success" {
		writeJSON(w, http.StatusBadRequest, searchErrorResponse{Error: res.Message})
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Success:    true,
		City:       q.City,
		Businesses: res.Results,
		Count:      res.TotalResults,
	})
}

// ---- A2A task surface ----

func (h *Handlers) sendMessage(w http.ResponseWriter, r *http.Request) {
	var params a2a.MessageSendParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed message/send payload")
		return
	}
	if len(params.Message.Parts) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "message has no parts")
		return
	}

	task := h.Tasks.Create(params.Message)
	task, _ = h.Tasks.SetState(task.ID, a2a.TaskWorking, "")
	go h.runSearchTask(task.ID, params.Message)

	writeJSON(w, http.StatusAccepted, task)
}

// runSearchTask drives one submitted search to a terminal state. It runs
// detached from the request; clients follow progress through the task
// endpoints.
func (h *Handlers) runSearchTask(taskID string, msg a2a.Message) {
	ctx := context.Background()

	city := a2a.CityFromMessage(msg)
	if city == "" {
		h.Tasks.SetState(taskID, a2a.TaskFailed, "City is required")
		return
	}

	start := time.Now()
	res := h.Search.Search(ctx, domain.SearchQuery{
		City:            city,
		MaxResults:      50,
		ExcludeWebsites: true,
	})
	if res.Status != "success" {
		h.Tasks.SetState(taskID, a2a.TaskFailed, res.Message)
		return
	}
	if h.Leads != nil {
		if _, err := h.Leads.SaveSearch(ctx, res, time.Since(start)); err != nil {
			log.Warn().Err(err).Str("task", taskID).Msg("saving task results failed")
		}
	}
	h.Tasks.Complete(taskID, a2a.Artifact{
		ID:    uuid.New().String(),
		Name:  "search_result",
		Parts: []a2a.Part{{Kind: a2a.PartKindData, Data: resultData(res)}},
	})
}

// resultData re-encodes the envelope as the generic map a data part carries.
func resultData(res domain.SearchResult) map[string]any {
	raw, err := json.Marshal(res)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode search artifact")
		return map[string]any{"status": "error"}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Error().Err(err).Msg("failed to decode search artifact")
		return map[string]any{"status": "error"}
	}
	return out
}

func (h *Handlers) getTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.Tasks.Get(chi.URLParam(r, "id"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handlers) cancelTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.Tasks.SetState(chi.URLParam(r, "id"), a2a.TaskCanceled, "canceled by client")
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ---- stored leads ----

type leadsPage struct {
	Items []domain.StoredLead `json:"items"`
	Count int                 `json:"count"`
}

func (h *Handlers) listLeads(w http.ResponseWriter, r *http.Request) {
	if h.Leads == nil {
		writeProblem(w, http.StatusServiceUnavailable, "Storage Unavailable", "lead storage is not configured")
		return
	}

	f := domain.LeadFilter{
		City:     strings.TrimSpace(r.URL.Query().Get("city")),
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}
	if v := r.URL.Query().Get("min_rating"); v != "" {
		mr, err := strconv.ParseFloat(v, 64)
		if err != nil || mr < 0 || mr > 5 {
			writeProblem(w, http.StatusBadRequest, "Invalid min_rating", "min_rating must be a number between 0 and 5")
			return
		}
		f.MinRating = mr
	}
	if v := r.URL.Query().Get("without_website"); v != "" {
		f.WithoutWebsite = v == "true" || v == "1"
	}
	limit := 100
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 500 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 500")
			return
		}
		limit = l
	}
	f.Limit = limit

	out, err := h.Leads.List(r.Context(), f)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Listing Failed", "could not list stored leads")
		return
	}
	if out == nil {
		out = []domain.StoredLead{}
	}

	etag, body := calcETagAndBody(leadsPage{Items: out, Count: len(out)})
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listLeads body")
	}
}

func (h *Handlers) getLead(w http.ResponseWriter, r *http.Request) {
	if h.Leads == nil {
		writeProblem(w, http.StatusServiceUnavailable, "Storage Unavailable", "lead storage is not configured")
		return
	}
	sl, err := h.Leads.Get(r.Context(), chi.URLParam(r, "placeID"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown lead")
		return
	}

	etag, body := calcETagAndBody(sl)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getLead body")
	}
}

func (h *Handlers) enrichLead(w http.ResponseWriter, r *http.Request) {
	if h.Leads == nil {
		writeProblem(w, http.StatusServiceUnavailable, "Storage Unavailable", "lead storage is not configured")
		return
	}
	placeID := chi.URLParam(r, "placeID")

	payload, err := h.Leads.Enrich(r.Context(), placeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "unknown lead")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Enrichment Failed", "could not enrich lead")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
