package location

import "errors"

const (
	CodeInvalidInput     = "invalid_input"
	CodeCapacityExceeded = "capacity_exceeded"
	CodeNotFound         = "not_found"
	CodeGeocodeFailed    = "geocode_failed"
	CodeStorage          = "storage_error"
)

// ErrNotFound is returned by geocoders when a query has no match.
var ErrNotFound = errors.New("location not found")
