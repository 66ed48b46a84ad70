package main

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"lead_finder/internal/adapters/googlemaps"
	"lead_finder/internal/adapters/observability"
	"lead_finder/internal/adapters/ondemand"
	redisad "lead_finder/internal/adapters/redis"
	"lead_finder/internal/app"
	"lead_finder/internal/domain"
	"lead_finder/internal/shared"
	mysqlrepo "lead_finder/internal/storage/mysql"
)

// CLI holds the batch flags; credentials come from the environment.
type CLI struct {
	Cities      []string `help:"Cities to prospect." required:"" placeholder:"CITY1,CITY2"`
	Type        string   `help:"Restrict the sweep to one business type."`
	Radius      int      `help:"Search radius in meters (default from env)."`
	MinRating   float64  `name:"min-rating" help:"Minimum rating to keep a lead."`
	Max         int      `help:"Leads to keep per city (default from env)."`
	Enrich      bool     `help:"Run saved leads through the enrichment agent."`
	Validate    bool     `help:"Run saved leads through the data-validation agent."`
	Concurrency int      `help:"Parallel city workers (default from env)."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("prospector"),
		kong.Description("Batch lead prospecting across cities."),
		kong.UsageOnError(),
	)

	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cli.Radius <= 0 {
		cli.Radius = cfg.SearchRadiusM
	}
	if cli.Max <= 0 {
		cli.Max = cfg.SearchMaxLeads
	}
	if cli.Concurrency <= 0 {
		cli.Concurrency = cfg.Workers
	}

	log.Info().
		Strs("cities", cli.Cities).
		Str("type", cli.Type).
		Int("workers", cli.Concurrency).
		Int("max", cli.Max).
		Msg("prospector starting")

	// Prospecting without live data or storage is a no-op, so both are
	// required here even though the server treats them as optional.
	if cfg.MySQLDSN == "" {
		log.Fatal().Msg("MYSQL_DSN is required for prospecting")
	}
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")
	repo := mysqlrepo.New(db)

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, geocode cache disabled")
		} else {
			cache = rc
		}
	}

	places, err := googlemaps.New(cfg.MapsBase, cfg.MapsKey, cfg.MapsTimeout, cfg.MapsRPS, cache, cfg.GeocodeTTL, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("places client required for prospecting")
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
	if (cli.Enrich || cli.Validate) && !agents.Enabled() {
		log.Warn().Msg("agent platform not configured, enrichment and validation will use mock payloads")
	}

	searchSvc := app.NewSearchService(places, cfg.PageDelay, log.Logger)
	leadsSvc := app.NewLeadService(repo, agents, log.Logger)

	sem := semaphore.NewWeighted(int64(cli.Concurrency))
	var wg sync.WaitGroup

	for _, city := range cli.Cities {
		city := strings.TrimSpace(city)
		if city == "" {
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(city string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			prospect(ctx, city, cli, searchSvc, leadsSvc, agents)
		}(city)
	}

	wg.Wait()
	log.Info().Msg("prospecting completed")
}

// prospect aggregates one city, persists the live results, and optionally
// runs each saved lead through the validation and enrichment agents.
func prospect(ctx context.Context, city string, cli CLI, searchSvc *app.SearchService, leadsSvc *app.LeadService, agents *ondemand.Client) {
	start := time.Now()
	res := searchSvc.Search(ctx, domain.SearchQuery{
		City:            city,
		BusinessType:    cli.Type,
		RadiusMeters:    cli.Radius,
		MinRating:       cli.MinRating,
		MaxResults:      cli.Max,
		ExcludeWebsites: true,
	})
	if res.Status != "success" {
		log.Warn().Str("city", city).Str("error", res.Message).Msg("search failed")
		return
	}

	saved, err := leadsSvc.SaveSearch(ctx, res, time.Since(start))
	if err != nil {
		log.Warn().Str("city", city).Err(err).Msg("persist failed")
		return
	}

	validated, enriched := 0, 0
	if res.Metadata.APIAvailable {
		for _, ld := range res.Results {
			if cli.Validate {
				_, err := agents.ValidateData(ctx, map[string]any{
					"name":    ld.Name,
					"phone":   ld.Phone,
					"address": ld.Address,
					"website": ld.Website,
				}, []string{"email", "phone", "address"})
				if err != nil {
					log.Warn().Str("place_id", ld.PlaceID).Err(err).Msg("validation failed")
				} else {
					validated++
				}
			}
			if cli.Enrich {
				if _, err := leadsSvc.Enrich(ctx, ld.PlaceID); err != nil {
					log.Warn().Str("place_id", ld.PlaceID).Err(err).Msg("enrichment failed")
				} else {
					enriched++
				}
			}
		}
	}

	log.Info().
		Str("city", city).
		Int("found", res.TotalResults).
		Int("saved", saved).
		Int("validated", validated).
		Int("enriched", enriched).
		Bool("live", res.Metadata.APIAvailable).
		Dur("took", time.Since(start)).
		Msg("city prospected")
}
