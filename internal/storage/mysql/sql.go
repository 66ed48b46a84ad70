package mysql

// Multi-row upsert; enrichment is deliberately absent from the update list
// so a refreshed lead keeps whatever the agents already attached to it.
const insertLeadsPrefix = "INSERT INTO business_leads\n  (place_id, city, name, address, phone, website, rating, total_ratings, category, price_level, open_now, lat, lng)\nVALUES "

const insertLeadsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  city          = VALUES(city),\n" +
	"  name          = VALUES(name),\n" +
	"  address       = VALUES(address),\n" +
	"  phone         = VALUES(phone),\n" +
	"  website       = VALUES(website),\n" +
	"  rating        = VALUES(rating),\n" +
	"  total_ratings = VALUES(total_ratings),\n" +
	"  category      = VALUES(category),\n" +
	"  price_level   = VALUES(price_level),\n" +
	"  open_now      = VALUES(open_now),\n" +
	"  lat           = VALUES(lat),\n" +
	"  lng           = VALUES(lng),\n" +
	"  updated_at    = CURRENT_TIMESTAMP\n"

const setEnrichmentSQL = `
UPDATE business_leads
SET enrichment = ?, updated_at = CURRENT_TIMESTAMP
WHERE place_id = ?
`

const insertRunSQL = `
INSERT INTO search_runs (city, business_type, found, api_available, duration_ms)
VALUES (?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const leadColumns = `
  place_id,
  city,
  name,
  address,
  phone,
  website,
  rating,
  total_ratings,
  category,
  price_level,
  open_now,
  lat,
  lng,
  enrichment,
  created_at,
  updated_at`

const getLeadSQL = `
SELECT` + leadColumns + `
FROM business_leads
WHERE place_id = ?
`

const listLeadsSQL = `
SELECT` + leadColumns + `
FROM business_leads`
