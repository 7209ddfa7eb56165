// Package translate converts STAC-style search parameters into CMR granule
// search parameter values.
package translate

import "errors"

var (
	// ErrInvalidDateTime is returned when datetime parsing fails.
	ErrInvalidDateTime = errors.New("invalid datetime format")

	// ErrInvalidBBox is returned when a bbox cannot be parsed.
	ErrInvalidBBox = errors.New("invalid bbox")

	// ErrInvalidGeometry is returned when geometry conversion fails.
	ErrInvalidGeometry = errors.New("invalid geometry")
)
