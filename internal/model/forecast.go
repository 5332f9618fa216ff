package model

// Forecast is the forecast payload returned by the weather API
type Forecast struct {
	Latitude             float64        `json:"latitude"`
	Longitude            float64        `json:"longitude"`
	Timezone             string         `json:"timezone,omitempty"`
	TimezoneAbbreviation string         `json:"timezone_abbreviation,omitempty"`
	UTCOffsetSeconds     int            `json:"utc_offset_seconds"`
	CurrentWeather       CurrentWeather `json:"current_weather"`
	Hourly               HourlyWeather  `json:"hourly"`
}

// CurrentWeather holds the current conditions
type CurrentWeather struct {
	Time          string  `json:"time"`
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
	IsDay         int     `json:"is_day"`
}

// HourlyWeather holds parallel hourly series; any series may be shorter than Time
type HourlyWeather struct {
	Time                     []string  `json:"time"`
	Temperature2m            []float64 `json:"temperature_2m"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	WeatherCode              []int     `json:"weather_code"`
}

// HourlyPoint is one row of the hourly forecast
type HourlyPoint struct {
	Time                     string  `json:"time"`
	Temperature              float64 `json:"temperature"`
	PrecipitationProbability float64 `json:"precipitation_probability"`
	WeatherCode              int     `json:"weather_code"`
}

// At returns the i-th hourly row; missing values default to zero
func (h HourlyWeather) At(i int) HourlyPoint {
	p := HourlyPoint{}
	if i < len(h.Time) {
		p.Time = h.Time[i]
	}
	if i < len(h.Temperature2m) {
		p.Temperature = h.Temperature2m[i]
	}
	if i < len(h.PrecipitationProbability) {
		p.PrecipitationProbability = h.PrecipitationProbability[i]
	}
	if i < len(h.WeatherCode) {
		p.WeatherCode = h.WeatherCode[i]
	}
	return p
}

// Points returns all hourly rows
func (h HourlyWeather) Points() []HourlyPoint {
	points := make([]HourlyPoint, 0, len(h.Time))
	for i := range h.Time {
		points = append(points, h.At(i))
	}
	return points
}
