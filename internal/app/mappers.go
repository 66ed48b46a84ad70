package app

import (
	"strings"

	"lead_finder/internal/domain"
)

// categoryHints ranks which raw place type becomes the lead's category.
var categoryHints = []string{
	"restaurant", "cafe", "bar", "store", "shop", "retail",
	"service", "business", "establishment",
}

// primaryCategory returns the first place type containing a business hint,
// else the first type verbatim, else "".
func primaryCategory(types []string) string {
	for _, t := range types {
		lower := strings.ToLower(t)
		for _, hint := range categoryHints {
			if strings.Contains(lower, hint) {
				return t
			}
		}
	}
	if len(types) > 0 {
		return types[0]
	}
	return ""
}

// looksRealWebsite reports whether a website value points at a functioning
// site rather than a stub. localhost, example.com, and obvious placeholder
// URLs do not count as real.
func looksRealWebsite(website string) bool {
	if website == "" {
		return false
	}
	lower := strings.ToLower(website)
	return len(website) > 5 &&
		strings.Contains(website, ".") &&
		!strings.HasPrefix(website, "http://localhost") &&
		!strings.HasSuffix(website, "example.com") &&
		!strings.Contains(lower, "placeholder") &&
		!strings.Contains(lower, "coming-soon") &&
		!strings.Contains(lower, "under-construction")
}

// effectiveRating prefers the detail record's rating over the summary hit's.
func effectiveRating(sum domain.PlaceSummary, det domain.PlaceDetails) float64 {
	if det.Rating > 0 {
		return det.Rating
	}
	return sum.Rating
}

// leadFromPlace merges a search hit with its detail record. Details win for
// name, address, and types; geometry only ever comes from the summary hit.
func leadFromPlace(sum domain.PlaceSummary, det domain.PlaceDetails, rating float64) (domain.Lead, error) {
	name := det.Name
	if name == "" {
		name = sum.Name
	}
	address := det.Address
	if address == "" {
		address = sum.Address
	}
	types := det.Types
	if len(types) == 0 {
		types = sum.Types
	}
	lead := domain.Lead{
		PlaceID:     sum.ID,
		Name:        name,
		Address:     address,
		Phone:       det.Phone,
		Website:     det.Website,
		Rating:      rating,
		RatingCount: det.RatingCount,
		Category:    primaryCategory(types),
		PriceLevel:  det.PriceLevel,
		OpenNow:     det.OpenNow,
		Location:    sum.Location,
	}
	if err := lead.Validate(); err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}
