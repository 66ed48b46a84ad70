package domain

// Lead is one business discovered for a city. Field names mirror the
// search payload served to agent callers, so the struct marshals straight
// into response bodies without a DTO layer.
type Lead struct {
	PlaceID     string  `json:"place_id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Website     string  `json:"website"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"total_ratings"`
	Category    string  `json:"category"`
	PriceLevel  int     `json:"price_level"`
	OpenNow     bool    `json:"is_open"`
	Location    *Coords `json:"location,omitempty"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate enforces the construction invariant: a lead without a name or
// an address is not a usable record and must be dropped, never emitted.
func (l Lead) Validate() error {
	if l.PlaceID == "" || l.Name == "" || l.Address == "" {
		return ErrInvalidRecord
	}
	return nil
}
