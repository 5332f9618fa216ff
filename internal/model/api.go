package model

// SearchRequest represents the request parameters for city search
type SearchRequest struct {
	Query string
	Limit int
}

// SearchResponse represents the response for city search
type SearchResponse struct {
	Results []CityCandidate `json:"results"`
}

// SaveCityRequest is the body of PUT /api/v1/location
type SaveCityRequest struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

// WeatherResponse is a forecast annotated for display
type WeatherResponse struct {
	Location    Coordinate `json:"location"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description"`
	Emoji       string     `json:"emoji"`
	Forecast    *Forecast  `json:"forecast"`
}

// Coordinate represents geographic coordinates
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NearestCityResponse represents the response for nearest city search
type NearestCityResponse struct {
	City               CityCandidate `json:"city"`
	RequestCoordinates Coordinate    `json:"request_coordinates"`
	DistanceKm         float64       `json:"distance_km"`
}
