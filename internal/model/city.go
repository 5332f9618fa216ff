package model

import "strings"

// CityCandidate is one geocoding search result
type CityCandidate struct {
	ID          int     `json:"id,omitempty" db:"id"`
	Name        string  `json:"name" db:"name"`
	Latitude    float64 `json:"latitude" db:"latitude"`
	Longitude   float64 `json:"longitude" db:"longitude"`
	Country     string  `json:"country" db:"country"`
	CountryCode string  `json:"country_code,omitempty" db:"country_code"`
	Admin1      string  `json:"admin1,omitempty" db:"admin1"`
	Admin2      string  `json:"admin2,omitempty" db:"admin2"`
	Timezone    string  `json:"timezone,omitempty" db:"timezone"`
	Population  int     `json:"population,omitempty" db:"population"`
}

// Label formats the candidate as "City, State/Province, Country"
func (c CityCandidate) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Name, c.Admin1, c.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// GazetteerCity is a city row of the optional GeoNames gazetteer
type GazetteerCity struct {
	ID          int     `db:"id"`
	CountryCode string  `db:"country_code"`
	Admin1Code  string  `db:"admin1_code"`
	NameDefault string  `db:"name_default"`
	NameFolded  string  `db:"name_folded"`
	Population  int     `db:"population"`
	Lat         float64 `db:"lat"`
	Lon         float64 `db:"lon"`
	Timezone    *string `db:"timezone"`
}

// Country represents a country in the database
type Country struct {
	Code        string `db:"code"`
	NameDefault string `db:"name_default"`
}

// Admin1 is a first-level administrative division (state, province)
type Admin1 struct {
	// Code is "<country>.<admin1>", e.g. "GB.ENG"
	Code string `db:"code"`
	Name string `db:"name"`
}
