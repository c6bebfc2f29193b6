package weather

import "strings"

// Emoji maps an OpenWeather condition id to a display emoji.
// Unknown ids fall back on the condition group name.
func Emoji(code int, main string) string {
	switch {
	case code >= 200 && code < 300:
		return "⛈️"
	case code >= 300 && code < 600:
		return "🌧️"
	case code >= 600 && code < 700:
		return "❄️"
	case code >= 700 && code < 800:
		return "🌫️"
	case code == 800:
		return "☀️"
	case code == 801:
		return "🌤️"
	case code == 802:
		return "⛅"
	case code == 803, code == 804:
		return "☁️"
	}

	if strings.Contains(strings.ToLower(main), "rain") {
		return "🌧️"
	}
	return "🌡️"
}
