package model

import "errors"

var (
	// ErrInvalidCoordinates is returned for latitude/longitude out of range
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrLocationUnavailable is returned when no location has been resolved yet
	ErrLocationUnavailable = errors.New("location not resolved")
	// ErrInvalidCityName is returned when saving a city without a name
	ErrInvalidCityName = errors.New("city name is required")
	// ErrQueryTooShort is returned for search queries under the minimum length
	ErrQueryTooShort = errors.New("query too short")
)
