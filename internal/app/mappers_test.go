package app

import (
	"errors"
	"testing"

	"lead_finder/internal/domain"
)

func TestPrimaryCategory(t *testing.T) {
	cases := []struct {
		types []string
		want  string
	}{
		{[]string{"point_of_interest", "restaurant", "food"}, "restaurant"},
		{[]string{"unknown_type"}, "unknown_type"},
		{[]string{"lodging", "night_club"}, "lodging"},
		{[]string{"Auto Repair Service"}, "Auto Repair Service"},
		{nil, ""},
	}
	for _, c := range cases {
		if got := primaryCategory(c.types); got != c.want {
			t.Errorf("primaryCategory(%v) = %q, want %q", c.types, got, c.want)
		}
	}
}

func TestLooksRealWebsite(t *testing.T) {
	cases := []struct {
		website string
		real    bool
	}{
		{"http://acme-corp.com", true},
		{"", false},
		{"http://localhost:3000", false},
		{"placeholder.example.com", false},
		{"x.io", false},
		{"https://shop.coming-soon.site", false},
		{"http://under-construction.biz", false},
		{"acme.in", true},
	}
	for _, c := range cases {
		if got := looksRealWebsite(c.website); got != c.real {
			t.Errorf("looksRealWebsite(%q) = %v, want %v", c.website, got, c.real)
		}
	}
}

func TestLeadFromPlace_DetailsWin(t *testing.T) {
	sum := domain.PlaceSummary{
		ID:       "ChIJ123",
		Name:     "Old Name",
		Address:  "Old Address",
		Types:    []string{"establishment"},
		Location: &domain.Coords{Lat: 18.52, Lng: 73.85},
	}
	det := domain.PlaceDetails{
		Name:        "Corner Bakery",
		Address:     "12 High St",
		Phone:       "+44 20 1234",
		Website:     "bakery.example.com",
		RatingCount: 87,
		Types:       []string{"bakery", "store"},
		PriceLevel:  1,
		OpenNow:     true,
	}

	lead, err := leadFromPlace(sum, det, 4.4)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if lead.Name != "Corner Bakery" || lead.Address != "12 High St" {
		t.Fatalf("details must win: %+v", lead)
	}
	if lead.Category != "store" {
		t.Fatalf("category should come from detail types, got %q", lead.Category)
	}
	if lead.Location == nil || lead.Location.Lat != 18.52 {
		t.Fatalf("geometry must come from the summary hit: %+v", lead.Location)
	}
	if lead.Rating != 4.4 || lead.RatingCount != 87 || !lead.OpenNow {
		t.Fatalf("unexpected mapped fields: %+v", lead)
	}
}

func TestLeadFromPlace_SummaryFallbackAndValidation(t *testing.T) {
	sum := domain.PlaceSummary{ID: "ChIJ456", Name: "Summary Name", Address: "Summary Addr", Types: []string{"florist"}}

	lead, err := leadFromPlace(sum, domain.PlaceDetails{}, 0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if lead.Name != "Summary Name" || lead.Address != "Summary Addr" || lead.Category != "florist" {
		t.Fatalf("summary fallback broken: %+v", lead)
	}

	_, err = leadFromPlace(domain.PlaceSummary{ID: "ChIJ789"}, domain.PlaceDetails{Phone: "123"}, 0)
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("want ErrInvalidRecord, got %v", err)
	}
}

func TestEffectiveRating(t *testing.T) {
	sum := domain.PlaceSummary{Rating: 4.2}
	if got := effectiveRating(sum, domain.PlaceDetails{Rating: 4.8}); got != 4.8 {
		t.Fatalf("detail rating must win, got %v", got)
	}
	if got := effectiveRating(sum, domain.PlaceDetails{}); got != 4.2 {
		t.Fatalf("summary rating is the fallback, got %v", got)
	}
	if got := effectiveRating(domain.PlaceSummary{}, domain.PlaceDetails{}); got != 0 {
		t.Fatalf("rating defaults to zero, got %v", got)
	}
}
