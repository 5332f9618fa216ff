package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Location status tags as exposed over the API
const (
	StatusLoading = "loading"
	StatusCoords  = "coords"
	StatusCity    = "city"
	StatusDenied  = "denied"
	StatusError   = "error"
)

// LocationState is the closed set of location resolution outcomes.
// Only the variants declared in this file implement it.
type LocationState interface {
	Status() string
	isLocationState()
}

// Loading is the initial state before resolution finishes
type Loading struct{}

// Coords is a position obtained from device geolocation
type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// City is a manually chosen location with a human readable name
type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Denied means the location permission was refused
type Denied struct{}

// Error means geolocation failed; Message is shown to the user verbatim
type Error struct {
	Message string `json:"message"`
}

func (Loading) Status() string { return StatusLoading }
func (Coords) Status() string  { return StatusCoords }
func (City) Status() string    { return StatusCity }
func (Denied) Status() string  { return StatusDenied }
func (Error) Status() string   { return StatusError }

func (Loading) isLocationState() {}
func (Coords) isLocationState()  {}
func (City) isLocationState()    {}
func (Denied) isLocationState()  {}
func (Error) isLocationState()   {}

// Position returns the coordinates carried by the state, if any
func Position(s LocationState) (lat, lon float64, ok bool) {
	switch v := s.(type) {
	case Coords:
		return v.Lat, v.Lon, true
	case City:
		return v.Lat, v.Lon, true
	default:
		return 0, 0, false
	}
}

// locationStateJSON is the flattened wire form {"status": ..., payload...}
type locationStateJSON struct {
	Status  string   `json:"status"`
	Name    string   `json:"name,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	Message string   `json:"message,omitempty"`
}

// MarshalLocationState encodes a state as a flat tagged JSON object
func MarshalLocationState(s LocationState) ([]byte, error) {
	out := locationStateJSON{}
	switch v := s.(type) {
	case Loading, Denied:
		out.Status = v.Status()
	case Coords:
		out.Status = v.Status()
		out.Lat, out.Lon = &v.Lat, &v.Lon
	case City:
		out.Status = v.Status()
		out.Name = v.Name
		out.Lat, out.Lon = &v.Lat, &v.Lon
	case Error:
		out.Status = v.Status()
		out.Message = v.Message
	default:
		return nil, fmt.Errorf("unknown location state %T", s)
	}
	return json.Marshal(out)
}

// UnmarshalLocationState decodes the output of MarshalLocationState
func UnmarshalLocationState(data []byte) (LocationState, error) {
	var in locationStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	var lat, lon float64
	if in.Lat != nil {
		lat = *in.Lat
	}
	if in.Lon != nil {
		lon = *in.Lon
	}
	switch in.Status {
	case StatusLoading:
		return Loading{}, nil
	case StatusCoords:
		return Coords{Lat: lat, Lon: lon}, nil
	case StatusCity:
		return City{Name: in.Name, Lat: lat, Lon: lon}, nil
	case StatusDenied:
		return Denied{}, nil
	case StatusError:
		return Error{Message: in.Message}, nil
	}
	return nil, fmt.Errorf("unknown location status %q", in.Status)
}

// LastLocationKey is the key of the single persisted location record
const LastLocationKey = "lastLocation"

// LocationRecord is the persisted last known location.
// Pointers distinguish missing coordinates from zero values.
type LocationRecord struct {
	Lat     *float64   `json:"lat"`
	Lon     *float64   `json:"lon"`
	Name    string     `json:"name,omitempty"`
	City    bool       `json:"city,omitempty"`
	SavedAt *time.Time `json:"saved_at,omitempty"`
}

// NewCoordsRecord builds the record stored after a successful position fix
func NewCoordsRecord(lat, lon float64, now time.Time) LocationRecord {
	return LocationRecord{Lat: &lat, Lon: &lon, SavedAt: &now}
}

// NewCityRecord builds the record stored after a manual city selection
func NewCityRecord(name string, lat, lon float64, now time.Time) LocationRecord {
	return LocationRecord{Lat: &lat, Lon: &lon, Name: name, City: true, SavedAt: &now}
}

// Valid reports whether the record carries both coordinates
func (r LocationRecord) Valid() bool {
	return r.Lat != nil && r.Lon != nil
}

// IsCity reports whether the record was saved from a manual selection
func (r LocationRecord) IsCity() bool {
	return r.City || r.Name != ""
}

// State converts a valid record to the matching location state
func (r LocationRecord) State() LocationState {
	if r.IsCity() {
		return City{Name: r.Name, Lat: *r.Lat, Lon: *r.Lon}
	}
	return Coords{Lat: *r.Lat, Lon: *r.Lon}
}

// ValidateCoordinates checks latitude and longitude ranges
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, lat, lon)
	}
	return nil
}
