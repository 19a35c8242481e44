// Package format holds the display-formatting helpers shared by frontends:
// compact counts, country flags, weather glyphs, relative timestamps. The
// user-facing strings are es-MX, matching the product's locale.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mveraz/citypulse/internal/model"
)

// Count renders large numbers compactly: 1532 → "1.5K", 2_400_000 → "2.4M".
func Count(n int) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.Itoa(n)
	}
}

// FlagEmoji turns an ISO 3166-1 alpha-2 code into its flag emoji by shifting
// each letter into the regional-indicator block. Unknown input gets a globe.
func FlagEmoji(countryCode string) string {
	if len(countryCode) != 2 {
		return "🌍"
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(countryCode) {
		if r < 'A' || r > 'Z' {
			return "🌍"
		}
		b.WriteRune(r + 127397)
	}
	return b.String()
}

// weatherEmojis maps OpenWeather icon codes to glyphs.
var weatherEmojis = map[string]string{
	"01d": "☀️", "01n": "🌙",
	"02d": "⛅", "02n": "☁️",
	"03d": "☁️", "03n": "☁️",
	"04d": "☁️", "04n": "☁️",
	"09d": "🌧️", "09n": "🌧️",
	"10d": "🌦️", "10n": "🌧️",
	"11d": "⛈️", "11n": "⛈️",
	"13d": "🌨️", "13n": "🌨️",
	"50d": "🌫️", "50n": "🌫️",
}

// WeatherEmoji returns the glyph for an OpenWeather icon code.
func WeatherEmoji(icon string) string {
	if emoji, ok := weatherEmojis[icon]; ok {
		return emoji
	}
	return "🌤️"
}

// windDirections are the eight compass points, es-MX abbreviations.
var windDirections = [8]string{"N", "NE", "E", "SE", "S", "SO", "O", "NO"}

// WindDirection converts a wind bearing in degrees to a compass point.
func WindDirection(deg float64) string {
	i := int(math.Round(deg/45)) % 8
	if i < 0 {
		i += 8
	}
	return windDirections[i]
}

// monthsShort and monthsLong are the es-MX month names.
var (
	monthsShort = [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}
	monthsLong  = [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
)

// TimeAgo renders how long ago t was, relative to now. Within a week it is
// relative ("hace 5 min"); older dates fall back to a short absolute date.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "hace un momento"
	case d < time.Hour:
		return fmt.Sprintf("hace %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("hace %dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("hace %dd", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%d %s %d", t.Day(), monthsShort[t.Month()-1], t.Year())
	}
}

// Date renders an absolute date with the full month name: "3 enero 2026".
func Date(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthsLong[t.Month()-1], t.Year())
}

// Capitalize upper-cases the first rune.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Truncate cuts s to at most max runes, appending an ellipsis when it cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Stars renders a 1–5 rating as filled and hollow stars.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// languageColors are the GitHub linguist colors for common languages.
var languageColors = map[string]string{
	"JavaScript": "#f1e05a",
	"TypeScript": "#3178c6",
	"Python":     "#3572A5",
	"Java":       "#b07219",
	"C++":        "#f34b7d",
	"C#":         "#178600",
	"Go":         "#00ADD8",
	"Rust":       "#dea584",
	"Ruby":       "#701516",
	"PHP":        "#4F5D95",
	"Swift":      "#F05138",
	"Kotlin":     "#A97BFF",
	"Dart":       "#00B4AB",
	"HTML":       "#e34c26",
	"CSS":        "#563d7c",
	"Shell":      "#89e051",
	"Vue":        "#41b883",
	"Svelte":     "#ff3e00",
}

const defaultLanguageColor = "#8b949e"

// LanguageColor returns the repository-language swatch color.
func LanguageColor(language string) string {
	if color, ok := languageColors[language]; ok {
		return color
	}
	return defaultLanguageColor
}

// CategoryLabel is the display name and glyph for a saved-location category.
type CategoryLabel struct {
	Value string
	Label string
	Emoji string
}

// CategoryLabels lists the categories in display order.
var CategoryLabels = []CategoryLabel{
	{Value: model.CategoryGeneral, Label: "General", Emoji: "📍"},
	{Value: model.CategoryTravel, Label: "Viaje", Emoji: "✈️"},
	{Value: model.CategoryWork, Label: "Trabajo", Emoji: "💼"},
	{Value: model.CategoryFood, Label: "Gastronomía", Emoji: "🍽️"},
	{Value: model.CategoryCulture, Label: "Cultura", Emoji: "🏛️"},
	{Value: model.CategoryNature, Label: "Naturaleza", Emoji: "🌿"},
}
