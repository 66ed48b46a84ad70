package mysql

import (
	"context"
	"database/sql"
	"strings"

	"lead_finder/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func coordVals(c *domain.Coords) (any, any) {
	if c == nil {
		return nil, nil
	}
	return c.Lat, c.Lng
}

// UpsertLeads writes one batch of discovered leads for a city, refreshing
// rows that already exist. Returns the number of leads handed to the store.
func (r *Repo) UpsertLeads(ctx context.Context, city string, leads []domain.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	values := make([]string, 0, len(leads))
	args := make([]any, 0, len(leads)*13) // 13 params per row
	for _, l := range leads {
		lat, lng := coordVals(l.Location)
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			l.PlaceID,
			city,
			l.Name,
			l.Address,
			l.Phone,
			l.Website,
			l.Rating,
			l.RatingCount,
			l.Category,
			l.PriceLevel,
			l.OpenNow,
			lat,
			lng,
		)
	}
	sqlStr := insertLeadsPrefix + strings.Join(values, ",") + insertLeadsOnDup
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return 0, err
	}
	return len(leads), nil
}

func (r *Repo) SetEnrichment(ctx context.Context, placeID string, payload []byte) error {
	// Empty payload clears the column; "" would not survive the JSON type.
	var v any
	if len(payload) > 0 {
		v = string(payload)
	}
	_, err := r.db.ExecContext(ctx, setEnrichmentSQL, v, placeID)
	return err
}

func (r *Repo) LogRun(ctx context.Context, run domain.SearchRun) error {
	_, err := r.db.ExecContext(ctx, insertRunSQL,
		run.City,
		run.BusinessType,
		run.Found,
		run.APIAvailable,
		run.Duration.Milliseconds(),
	)
	return err
}

func (r *Repo) GetLead(ctx context.Context, placeID string) (domain.StoredLead, error) {
	row := r.db.QueryRowContext(ctx, getLeadSQL, placeID)
	sl, err := scanStoredLead(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.StoredLead{}, domain.ErrNotFound
		}
		return domain.StoredLead{}, err
	}
	return sl, nil
}

func (r *Repo) ListLeads(ctx context.Context, f domain.LeadFilter) ([]domain.StoredLead, error) {
	var conds []string
	var args []any
	if f.City != "" {
		conds = append(conds, "city = ?")
		args = append(args, f.City)
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.MinRating > 0 {
		conds = append(conds, "rating >= ?")
		args = append(args, f.MinRating)
	}
	if f.WithoutWebsite {
		conds = append(conds, "website = ''")
	}

	q := listLeadsSQL
	if len(conds) > 0 {
		q += "\nWHERE " + strings.Join(conds, " AND ")
	}
	// Best leads first; aligns with the index on rating
	q += "\nORDER BY rating DESC, total_ratings DESC, place_id\nLIMIT ?"
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StoredLead
	for rows.Next() {
		sl, err := scanStoredLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanStoredLead(rs rowScanner) (domain.StoredLead, error) {
	var (
		sl         domain.StoredLead
		lat, lng   sql.NullFloat64
		enrichment []byte // NULL until the agents attach a payload
	)
	if err := rs.Scan(
		&sl.PlaceID,
		&sl.City,
		&sl.Name,
		&sl.Address,
		&sl.Phone,
		&sl.Website,
		&sl.Rating,
		&sl.RatingCount,
		&sl.Category,
		&sl.PriceLevel,
		&sl.OpenNow,
		&lat,
		&lng,
		&enrichment,
		&sl.CreatedAt,
		&sl.UpdatedAt,
	); err != nil {
		return domain.StoredLead{}, err
	}
	sl.Enrichment = enrichment
	if lat.Valid && lng.Valid {
		sl.Location = &domain.Coords{Lat: lat.Float64, Lng: lng.Float64}
	}
	return sl, nil
}
