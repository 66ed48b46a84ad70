package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"lead_finder/internal/a2a"
	"lead_finder/internal/adapters/googlemaps"
	server "lead_finder/internal/adapters/http_server"
	"lead_finder/internal/adapters/observability"
	"lead_finder/internal/adapters/ondemand"
	redisad "lead_finder/internal/adapters/redis"
	"lead_finder/internal/app"
	"lead_finder/internal/domain"
	"lead_finder/internal/shared"
	mysqlrepo "lead_finder/internal/storage/mysql"
)

// CLI holds the flag surface; credentials and tuning come from the
// environment (shared.Load).
type CLI struct {
	Addr string `help:"Listen address (overrides HTTP_ADDR)." placeholder:"HOST:PORT"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("agent"),
		kong.Description("Lead Finder agent server."),
		kong.UsageOnError(),
	)

	cfg := shared.Load()
	if cli.Addr != "" {
		cfg.HTTPAddr = cli.Addr
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// Every upstream is optional; missing credentials downgrade a feature
	// instead of refusing to boot.
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(context.Background()); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, geocode cache disabled")
		} else {
			cache = rc
		}
	}

	var places domain.PlacesClient
	if mc, err := googlemaps.New(cfg.MapsBase, cfg.MapsKey, cfg.MapsTimeout, cfg.MapsRPS, cache, cfg.GeocodeTTL, log.Logger); err != nil {
		log.Warn().Err(err).Msg("places client not configured, searches will serve synthetic data")
	} else {
		places = mc
	}

	agents := ondemand.New(ondemand.Config{
		APIKey:          cfg.OnDemandKey,
		BaseURL:         cfg.OnDemandBase,
		WorkspaceID:     cfg.OnDemandWorkspace,
		EnrichAgent:     cfg.EnrichAgent,
		QualifierAgent:  cfg.QualifierAgent,
		ComposerAgent:   cfg.ComposerAgent,
		CallScriptAgent: cfg.CallScriptAgent,
		ValidatorAgent:  cfg.ValidatorAgent,
		Timeout:         cfg.OnDemandTimeout,
		MaxRetries:      cfg.OnDemandRetries,
		EnableCaching:   cfg.OnDemandCaching,
	}, log.Logger)

	searchSvc := app.NewSearchService(places, cfg.PageDelay, log.Logger)

	var leadsSvc *app.LeadService
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		leadsSvc = app.NewLeadService(mysqlrepo.New(db), agents, log.Logger)
	} else {
		log.Warn().Msg("MYSQL_DSN is empty, stored-lead routes disabled")
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Search: searchSvc,
		Leads:  leadsSvc,
		Card:   server.AgentCardFor(cfg.PublicURL),
		Tasks:  a2a.NewStore(),
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("agent server listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
