package domain

import "errors"

var (
	// ErrUnavailable means the upstream capability cannot be used at all,
	// typically because no credential was configured.
	ErrUnavailable = errors.New("search capability unavailable")
	// ErrNoGeocode means the city could not be resolved to a point.
	ErrNoGeocode = errors.New("no geocode match")
	// ErrRequestFailed covers transport or upstream errors on a single call.
	ErrRequestFailed = errors.New("upstream request failed")
	// ErrNotFound is returned by lookups that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRecord marks a record missing its required fields.
	ErrInvalidRecord = errors.New("record missing required fields")

	ErrEmptyCity    = errors.New("city is required")
	ErrBadMinRating = errors.New("min rating must be within [0,5]")
)
