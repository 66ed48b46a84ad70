package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv    string
	HTTPAddr  string
	PublicURL string

	// Place-search upstream.
	MapsKey        string
	MapsBase       string
	MapsTimeout    time.Duration
	MapsRPS        int
	PageDelay      time.Duration
	GeocodeTTL     time.Duration
	SearchRadiusM  int
	SearchMaxLeads int

	// Agent-platform upstream.
	OnDemandKey       string
	OnDemandBase      string
	OnDemandWorkspace string
	EnrichAgent       string
	QualifierAgent    string
	ComposerAgent     string
	CallScriptAgent   string
	ValidatorAgent    string
	OnDemandTimeout   time.Duration
	OnDemandRetries   int
	OnDemandCaching   bool

	// Optional backing services.
	MySQLDSN  string
	RedisAddr string
	RedisDB   int
	RedisPass string

	Workers int
}

// Load reads the whole configuration from the environment, after loading a
// local .env file when one exists. Missing credentials are tolerated and
// only downgrade the features that need them.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env load failed")
	}
	c := Config{
		AppEnv:    env("APP_ENV", "dev"),
		HTTPAddr:  env("HTTP_ADDR", ":8080"),
		PublicURL: env("PUBLIC_URL", "http://localhost:8080"),

		MapsKey:        env("GOOGLE_MAPS_API_KEY", ""),
		MapsBase:       env("MAPS_BASE_URL", "https://maps.googleapis.com/maps/api"),
		MapsTimeout:    dur("MAPS_TIMEOUT_SECONDS", 10*time.Second),
		MapsRPS:        atoi("MAPS_RPS", 10),
		PageDelay:      dur("MAPS_PAGE_DELAY_SECONDS", 2*time.Second),
		GeocodeTTL:     dur("GEOCODE_CACHE_TTL_SECONDS", 24*time.Hour),
		SearchRadiusM:  atoi("SEARCH_RADIUS_M", 50000),
		SearchMaxLeads: atoi("SEARCH_MAX_RESULTS", 50),

		OnDemandKey:       env("ONDEMAND_API_KEY", ""),
		OnDemandBase:      env("ONDEMAND_API_BASE", "https://api.ondemand.io/v1"),
		OnDemandWorkspace: env("ONDEMAND_WORKSPACE_ID", ""),
		EnrichAgent:       env("ONDEMAND_LEAD_ENRICHMENT_AGENT", "agent_enrich_lead_data_v2"),
		QualifierAgent:    env("ONDEMAND_LEAD_QUALIFIER_AGENT", "agent_qualify_b2b_leads_v3"),
		ComposerAgent:     env("ONDEMAND_EMAIL_COMPOSER_AGENT", "agent_compose_outreach_email_v2"),
		CallScriptAgent:   env("ONDEMAND_CALL_SCRIPT_AGENT", "agent_generate_call_script_v1"),
		ValidatorAgent:    env("ONDEMAND_DATA_VALIDATOR_AGENT", "agent_validate_business_data_v1"),
		OnDemandTimeout:   dur("ONDEMAND_TIMEOUT", 30*time.Second),
		OnDemandRetries:   atoi("ONDEMAND_MAX_RETRIES", 3),
		OnDemandCaching:   boolean("ONDEMAND_ENABLE_CACHING", true),

		MySQLDSN:  env("MYSQL_DSN", ""),
		RedisAddr: env("REDIS_ADDR", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		RedisPass: env("REDIS_PASSWORD", ""),

		Workers: atoi("PROSPECT_CONCURRENCY", 4),
	}
	if c.MapsKey == "" {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY is empty, searches will serve synthetic data")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// dur reads a duration expressed in whole seconds.
func dur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}

func boolean(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return def
}
