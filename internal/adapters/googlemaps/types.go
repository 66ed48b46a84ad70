package googlemaps

import "lead_finder/internal/domain"

// Wire types for the Geocoding and Places JSON APIs. Optional numeric
// fields are pointers so an absent rating is distinguishable from 0.

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type openingHours struct {
	OpenNow *bool `json:"open_now,omitempty"`
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string   `json:"formatted_address,omitempty"`
		Geometry         geometry `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type placeResult struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address,omitempty"`
	Vicinity         string        `json:"vicinity,omitempty"`
	BusinessStatus   string        `json:"business_status,omitempty"`
	Rating           *float64      `json:"rating,omitempty"`
	UserRatingsTotal *int          `json:"user_ratings_total,omitempty"`
	PriceLevel       *int          `json:"price_level,omitempty"`
	Types            []string      `json:"types,omitempty"`
	Geometry         *geometry     `json:"geometry,omitempty"`
	OpeningHours     *openingHours `json:"opening_hours,omitempty"`
}

type searchResponse struct {
	HTMLAttributions []string      `json:"html_attributions,omitempty"`
	NextPageToken    string        `json:"next_page_token,omitempty"`
	Results          []placeResult `json:"results"`
	Status           string        `json:"status"`
	ErrorMessage     string        `json:"error_message,omitempty"`
}

type detailsResult struct {
	placeResult
	FormattedPhoneNumber string `json:"formatted_phone_number,omitempty"`
	Website              string `json:"website,omitempty"`
}

type detailsResponse struct {
	Result       detailsResult `json:"result"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// apiResponse lets the transport layer inspect the body-level status that
// the upstream uses for throttling and errors, regardless of operation.
type apiResponse interface {
	apiStatus() (status, message string)
}

func (r *geocodeResponse) apiStatus() (string, string) { return r.Status, r.ErrorMessage }
func (r *searchResponse) apiStatus() (string, string)  { return r.Status, r.ErrorMessage }
func (r *detailsResponse) apiStatus() (string, string) { return r.Status, r.ErrorMessage }

func (p placeResult) summary() domain.PlaceSummary {
	s := domain.PlaceSummary{
		ID:      p.PlaceID,
		Name:    p.Name,
		Address: p.FormattedAddress,
		Types:   p.Types,
	}
	if s.Address == "" {
		// nearby search carries the address in vicinity
		s.Address = p.Vicinity
	}
	if p.Rating != nil {
		s.Rating = *p.Rating
	}
	if p.Geometry != nil {
		s.Location = &domain.Coords{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng}
	}
	return s
}

func (d detailsResult) details() domain.PlaceDetails {
	out := domain.PlaceDetails{
		Name:    d.Name,
		Address: d.FormattedAddress,
		Phone:   d.FormattedPhoneNumber,
		Website: d.Website,
		Types:   d.Types,
	}
	if d.Rating != nil {
		out.Rating = *d.Rating
	}
	if d.UserRatingsTotal != nil {
		out.RatingCount = *d.UserRatingsTotal
	}
	if d.PriceLevel != nil {
		out.PriceLevel = *d.PriceLevel
	}
	if d.OpeningHours != nil && d.OpeningHours.OpenNow != nil {
		out.OpenNow = *d.OpeningHours.OpenNow
	}
	return out
}
