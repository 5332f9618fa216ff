package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/forecast"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/search"
	"github.com/mattn/go-isatty"
)

// isInteractive reports whether r is a terminal
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func formatState(st model.LocationState) string {
	switch v := st.(type) {
	case model.Loading:
		return "⏳ Resolving location..."
	case model.City:
		return fmt.Sprintf("🏙️  %s (%.4f, %.4f)", v.Name, v.Lat, v.Lon)
	case model.Coords:
		return fmt.Sprintf("📍 %.4f, %.4f", v.Lat, v.Lon)
	case model.Denied:
		return "🚫 Location permission denied"
	case model.Error:
		return "⚠️  Location unavailable: " + v.Message
	}
	return st.Status()
}

// hourLabel renders "2024-06-01T15:00" as "3 PM"
func hourLabel(ts string) string {
	t, err := time.Parse("2006-01-02T15:04", ts)
	if err != nil {
		return ts
	}
	h := t.Hour()
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	}
	return fmt.Sprintf("%d PM", h-12)
}

func hourOf(ts string) (int, bool) {
	t, err := time.Parse("2006-01-02T15:04", ts)
	if err != nil {
		return 0, false
	}
	return t.Hour(), true
}

func printWeather(w io.Writer, resp *model.WeatherResponse, hours int) {
	cw := resp.Forecast.CurrentWeather
	place := resp.Name
	if place == "" {
		place = fmt.Sprintf("%.4f, %.4f", resp.Location.Lat, resp.Location.Lon)
	}

	fmt.Fprintf(w, "%s  %s\n", resp.Emoji, place)
	fmt.Fprintf(w, "%.0f°  %s\n", math.Round(cw.Temperature), resp.Description)
	fmt.Fprintf(w, "Wind %.1f km/h\n", cw.WindSpeed)

	points := resp.Forecast.Hourly.Points()
	if hours > 0 && len(points) > hours {
		points = points[:hours]
	}
	if len(points) == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, p := range points {
		if p.Time == "" {
			continue
		}
		h, ok := hourOf(p.Time)
		isDay := ok && h >= 6 && h < 18
		fmt.Fprintf(w, "%-6s %s %4.0f°  💧%3.0f%%\n",
			hourLabel(p.Time), forecast.Emoji(p.WeatherCode, isDay), math.Round(p.Temperature), p.PrecipitationProbability)
	}
}

// formatSearchState renders a session snapshot; "" means nothing to show
func formatSearchState(st search.State) string {
	switch st.Status {
	case search.StatusFetching:
		return "🔍 Searching..."
	case search.StatusFailure:
		return "⚠️  " + st.Error + " (:r to retry)"
	case search.StatusSuccess:
		if st.NoResults() {
			return "No cities found"
		}
		var b strings.Builder
		for i, c := range st.Candidates {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, c.Label())
		}
		return strings.TrimRight(b.String(), "\n")
	}
	return ""
}
