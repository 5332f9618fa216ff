package forecast

// Describe returns a human readable text for a WMO weather code
func Describe(code int) string {
	switch code {
	case 0:
		return "Clear sky"
	case 1, 2, 3:
		return "Mainly clear, partly cloudy, and overcast"
	case 45, 48:
		return "Fog and depositing rime fog"
	case 51, 53, 55:
		return "Drizzle"
	case 56, 57:
		return "Freezing Drizzle"
	case 61, 63, 65:
		return "Rain"
	case 66, 67:
		return "Freezing Rain"
	case 71, 73, 75:
		return "Snow fall"
	case 77:
		return "Snow grains"
	case 80, 81, 82:
		return "Rain showers"
	case 85, 86:
		return "Snow showers"
	case 95:
		return "Thunderstorm"
	case 96, 99:
		return "Thunderstorm with slight and heavy hail"
	default:
		return "Unknown"
	}
}

// Emoji returns an icon for a WMO weather code
func Emoji(code int, isDay bool) string {
	switch code {
	case 0:
		if isDay {
			return "☀️"
		}
		return "🌙"
	case 1, 2, 3:
		if isDay {
			return "⛅"
		}
		return "☁️"
	case 45, 48:
		return "🌫️"
	case 51, 53, 55, 56, 57, 80, 81, 82:
		return "🌦️"
	case 61, 63, 65, 66, 67:
		return "🌧️"
	case 71, 73, 75, 77:
		return "❄️"
	case 85, 86:
		return "🌨️"
	case 95, 96, 99:
		return "⛈️"
	default:
		return "🌤️"
	}
}
