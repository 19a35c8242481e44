package format

import (
	"testing"
	"time"
)

func TestCount(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1532, "1.5K"},
		{999_999, "1000.0K"},
		{1_000_000, "1.0M"},
		{2_450_000, "2.5M"},
	}
	for _, tc := range cases {
		if got := Count(tc.in); got != tc.want {
			t.Errorf("Count(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFlagEmoji(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"MX", "🇲🇽"},
		{"de", "🇩🇪"},
		{"", "🌍"},
		{"M1", "🌍"},
		{"MEX", "🌍"},
	}
	for _, tc := range cases {
		if got := FlagEmoji(tc.code); got != tc.want {
			t.Errorf("FlagEmoji(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestWeatherEmoji(t *testing.T) {
	if got := WeatherEmoji("01d"); got != "☀️" {
		t.Errorf("WeatherEmoji(01d) = %q", got)
	}
	if got := WeatherEmoji("11n"); got != "⛈️" {
		t.Errorf("WeatherEmoji(11n) = %q", got)
	}
	if got := WeatherEmoji("no-such-code"); got != "🌤️" {
		t.Errorf("unknown icon = %q, want the fallback", got)
	}
}

func TestWindDirection(t *testing.T) {
	cases := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{225, "SO"},
		{270, "O"},
		{315, "NO"},
		{359, "N"}, // wraps back around
		{100, "E"},
	}
	for _, tc := range cases {
		if got := WindDirection(tc.deg); got != tc.want {
			t.Errorf("WindDirection(%v) = %q, want %q", tc.deg, got, tc.want)
		}
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds", now.Add(-30 * time.Second), "hace un momento"},
		{"minutes", now.Add(-5 * time.Minute), "hace 5 min"},
		{"hours", now.Add(-3 * time.Hour), "hace 3h"},
		{"days", now.Add(-2 * 24 * time.Hour), "hace 2d"},
		{"older than a week", time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC), "3 ene 2026"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TimeAgo(tc.t, now); got != tc.want {
				t.Errorf("TimeAgo() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	if got := Date(d); got != "3 septiembre 2026" {
		t.Errorf("Date() = %q", got)
	}
}

func TestCapitalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"oaxaca", "Oaxaca"},
		{"ciudad de méxico", "Ciudad de méxico"},
		{"ñoño", "Ñoño"},
	}
	for _, tc := range cases {
		if got := Capitalize(tc.in); got != tc.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}
	if got := Truncate("exactly-ten", 11); got != "exactly-ten" {
		t.Errorf("at the limit = %q, want unchanged", got)
	}
	if got := Truncate("a very long description", 6); got != "a very..." {
		t.Errorf("Truncate() = %q", got)
	}
	// Rune-safe: must not split a multi-byte character.
	if got := Truncate("ááááá", 3); got != "ááá..." {
		t.Errorf("multibyte Truncate() = %q", got)
	}
}

func TestStars(t *testing.T) {
	cases := []struct {
		rating int
		want   string
	}{
		{0, "☆☆☆☆☆"},
		{3, "★★★☆☆"},
		{5, "★★★★★"},
		{9, "★★★★★"},
		{-1, "☆☆☆☆☆"},
	}
	for _, tc := range cases {
		if got := Stars(tc.rating); got != tc.want {
			t.Errorf("Stars(%d) = %q, want %q", tc.rating, got, tc.want)
		}
	}
}

func TestLanguageColor(t *testing.T) {
	if got := LanguageColor("Go"); got != "#00ADD8" {
		t.Errorf("LanguageColor(Go) = %q", got)
	}
	if got := LanguageColor("COBOL"); got != defaultLanguageColor {
		t.Errorf("unknown language = %q, want the default swatch", got)
	}
}
