//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"lead_finder/internal/domain"
	mysqlrepo "lead_finder/internal/storage/mysql"
)

// ---------- small helpers ----------
func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=$PWD/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func lead(id, name string, rating float64, website string) domain.Lead {
	return domain.Lead{
		PlaceID:     id,
		Name:        name,
		Address:     name + " Road, Pune, India",
		Phone:       "+91-9000000000",
		Website:     website,
		Rating:      rating,
		RatingCount: 120,
		Category:    "Restaurant",
		PriceLevel:  2,
		OpenNow:     true,
		Location:    &domain.Coords{Lat: 18.52, Lng: 73.85},
	}
}

// ---------- the test ----------
func TestRepo_MySQL_LeadLifecycle(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=leadfinder",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "leadfinder")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange: one lead without a website, one with.
	batch := []domain.Lead{
		lead("pl_1", "Spice Garden", 4.6, ""),
		lead("pl_2", "Crafted Cup", 4.1, "https://craftedcup.example.org"),
	}
	n, err := repo.UpsertLeads(ctx, "Pune", batch)
	if err != nil {
		t.Fatalf("UpsertLeads: %v", err)
	}
	if n != 2 {
		t.Fatalf("UpsertLeads count = %d, want 2", n)
	}

	got, err := repo.GetLead(ctx, "pl_1")
	if err != nil {
		t.Fatalf("GetLead: %v", err)
	}
	if got.City != "Pune" || got.Name != "Spice Garden" || got.Location == nil || got.Location.Lat != 18.52 {
		t.Fatalf("unexpected stored lead: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not populated: %+v", got)
	}

	if err := repo.SetEnrichment(ctx, "pl_1", []byte(`{"employees":25}`)); err != nil {
		t.Fatalf("SetEnrichment: %v", err)
	}

	// Refreshing the same lead must not wipe the enrichment payload.
	batch[0].Rating = 4.7
	if _, err := repo.UpsertLeads(ctx, "Pune", batch[:1]); err != nil {
		t.Fatalf("UpsertLeads refresh: %v", err)
	}
	got, err = repo.GetLead(ctx, "pl_1")
	if err != nil {
		t.Fatalf("GetLead after refresh: %v", err)
	}
	if got.Rating != 4.7 {
		t.Fatalf("rating after refresh = %v, want 4.7", got.Rating)
	}
	if !strings.Contains(string(got.Enrichment), "employees") {
		t.Fatalf("enrichment lost on refresh: %q", got.Enrichment)
	}

	noSite, err := repo.ListLeads(ctx, domain.LeadFilter{City: "Pune", WithoutWebsite: true})
	if err != nil {
		t.Fatalf("ListLeads without_website: %v", err)
	}
	if len(noSite) != 1 || noSite[0].PlaceID != "pl_1" {
		t.Fatalf("without_website filter returned %+v", noSite)
	}

	top, err := repo.ListLeads(ctx, domain.LeadFilter{MinRating: 4.5})
	if err != nil {
		t.Fatalf("ListLeads min_rating: %v", err)
	}
	if len(top) != 1 || top[0].PlaceID != "pl_1" {
		t.Fatalf("min_rating filter returned %+v", top)
	}

	if _, err := repo.GetLead(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetLead miss = %v, want ErrNotFound", err)
	}

	if err := repo.LogRun(ctx, domain.SearchRun{
		City:         "Pune",
		BusinessType: "cafe",
		Found:        2,
		APIAvailable: true,
		Duration:     1500 * time.Millisecond,
	}); err != nil {
		t.Fatalf("LogRun: %v", err)
	}
	var runs int
	if err := db.QueryRow(`SELECT COUNT(*) FROM search_runs WHERE city = 'Pune'`).Scan(&runs); err != nil {
		t.Fatalf("count search_runs: %v", err)
	}
	if runs != 1 {
		t.Fatalf("search_runs rows = %d, want 1", runs)
	}
}
