package ondemand

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lead_finder/internal/adapters/observability"
	"lead_finder/internal/domain"
)

// Config carries the agent-platform settings. Zero values for the tuning
// knobs fall back to the platform defaults.
type Config struct {
	APIKey      string
	BaseURL     string
	WorkspaceID string

	EnrichAgent     string
	QualifierAgent  string
	ComposerAgent   string
	CallScriptAgent string
	ValidatorAgent  string

	Timeout       time.Duration
	MaxRetries    int
	EnableCaching bool
}

// Client invokes task agents on the orchestration platform. When the
// integration is not configured, or a request ultimately fails, every
// invocation degrades to a structured mock payload instead of erroring, so
// the rest of the pipeline keeps moving.
type Client struct {
	cfg Config
	hc  *http.Client
	log zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.ondemand.io/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 3
	}
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: cfg.Timeout},
		log: log.With().Str("adapter", "ondemand").Logger(),
	}
}

// Enabled reports whether real invocations are possible.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != "" && c.cfg.WorkspaceID != ""
}

// Invoke posts input to one agent and returns its response payload.
func (c *Client) Invoke(ctx context.Context, agentID string, input map[string]any, async bool) (map[string]any, error) {
	if !c.Enabled() {
		observability.ObserveAgent(agentID, "mock")
		return c.mockPayload(agentID, input), nil
	}
	out, err := c.post(ctx, agentID, input, async)
	if err != nil {
		observability.ObserveAgent(agentID, "error")
		c.log.Error().Err(err).Str("agent", agentID).Msg("agent invocation failed, serving mock payload")
		return c.mockPayload(agentID, input), nil
	}
	observability.ObserveAgent(agentID, "ok")
	return out, nil
}

func (c *Client) EnrichLead(ctx context.Context, companyName, domain, location string) (map[string]any, error) {
	return c.Invoke(ctx, c.cfg.EnrichAgent, map[string]any{
		"company_name": companyName,
		"domain":       domain,
		"location":     location,
	}, false)
}

func (c *Client) QualifyLead(ctx context.Context, leadData, icpCriteria map[string]any) (map[string]any, error) {
	return c.Invoke(ctx, c.cfg.QualifierAgent, map[string]any{
		"lead_data":    leadData,
		"icp_criteria": icpCriteria,
	}, false)
}

func (c *Client) ComposeEmail(ctx context.Context, leadProfile map[string]any, campaignType, tone string) (map[string]any, error) {
	if tone == "" {
		tone = "professional"
	}
	return c.Invoke(ctx, c.cfg.ComposerAgent, map[string]any{
		"lead_profile":  leadProfile,
		"campaign_type": campaignType,
		"tone":          tone,
	}, false)
}

func (c *Client) GenerateCallScript(ctx context.Context, leadContext map[string]any, callObjective string) (map[string]any, error) {
	return c.Invoke(ctx, c.cfg.CallScriptAgent, map[string]any{
		"lead_context":   leadContext,
		"call_objective": callObjective,
	}, false)
}

func (c *Client) ValidateData(ctx context.Context, data map[string]any, rules []string) (map[string]any, error) {
	return c.Invoke(ctx, c.cfg.ValidatorAgent, map[string]any{
		"data":             data,
		"validation_rules": rules,
	}, false)
}

func (c *Client) post(ctx context.Context, agentID string, input map[string]any, async bool) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/workspaces/%s/agents/%s/invoke", c.cfg.BaseURL, c.cfg.WorkspaceID, agentID)
	body, err := json.Marshal(map[string]any{
		"input":         input,
		"async":         async,
		"cache_enabled": c.cfg.EnableCaching,
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i <= c.cfg.MaxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-OnDemand-Workspace", c.cfg.WorkspaceID)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("ondemand", agentID, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("invoke %s: %v: %w", agentID, err, domain.ErrRequestFailed)
			if i < c.cfg.MaxRetries && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return nil, lastErr
		}
		observability.ObserveExternal("ondemand", agentID, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			var out map[string]any
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("invoke %s decode: %v: %w", agentID, err, domain.ErrRequestFailed)
			}
			return out, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("invoke %s: remote %d: %w", agentID, resp.StatusCode, domain.ErrRequestFailed)
			if i < c.cfg.MaxRetries && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("invoke %s: bad status %d: %s: %w",
				agentID, resp.StatusCode, strings.TrimSpace(string(b)), domain.ErrRequestFailed)
		}
	}
	return nil, lastErr
}

// mockPayload mirrors the platform response shape closely enough for
// downstream consumers; input keys are sorted for determinism.
func (c *Client) mockPayload(agentID string, input map[string]any) map[string]any {
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return map[string]any{
		"status":   "success",
		"agent_id": agentID,
		"mock":     true,
		"message":  "agent platform not configured - using mock data",
		"result": map[string]any{
			"processed":      true,
			"input_received": keys,
			"note":           "set ONDEMAND_API_KEY and ONDEMAND_WORKSPACE_ID to invoke real agents",
		},
	}
}

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

func backoff(i int) time.Duration {
	return time.Duration(1<<i) * 250 * time.Millisecond
}
