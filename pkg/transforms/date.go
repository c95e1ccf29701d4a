package transforms

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing a date value. The US layout
// wins over the EU one for ambiguous inputs like "01/02/2024"; ISO input
// avoids the ambiguity entirely.
var dateLayouts = []string{"2006-01-02", "01/02/2006", "02/01/2006"}

// formatDate renders a date value through a token format string. Supported
// tokens: YYYY, YY, MMMM, MMM, MM, DD, D. The presets iso/us/eu expand to
// full format strings. The value "today" or "now" means the current local
// date; anything that fails to parse is returned unchanged.
func formatDate(value, format string) string {
	resolved := format
	switch strings.ToLower(format) {
	case "iso":
		resolved = "YYYY-MM-DD"
	case "us":
		resolved = "MM/DD/YYYY"
	case "eu":
		resolved = "DD/MM/YYYY"
	}

	var date time.Time
	if lower := strings.ToLower(value); lower == "today" || lower == "now" {
		date = time.Now()
	} else {
		parsed, ok := parseDate(value)
		if !ok {
			return value
		}
		date = parsed
	}

	// Tokens are swapped for unique placeholders first and only then for
	// values, longest token first, so a substituted value ("2024") can never
	// be re-matched by a shorter token ("YY").
	replacements := []struct {
		token, placeholder, value string
	}{
		{"YYYY", "\x00\x011\x00", fmt.Sprintf("%04d", date.Year())},
		{"YY", "\x00\x012\x00", fmt.Sprintf("%02d", date.Year()%100)},
		{"MMMM", "\x00\x013\x00", date.Month().String()},
		{"MMM", "\x00\x014\x00", date.Month().String()[:3]},
		{"MM", "\x00\x015\x00", fmt.Sprintf("%02d", int(date.Month()))},
		{"DD", "\x00\x016\x00", fmt.Sprintf("%02d", date.Day())},
		{"D", "\x00\x017\x00", fmt.Sprintf("%d", date.Day())},
	}

	result := resolved
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.token, r.placeholder)
	}
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.placeholder, r.value)
	}
	return result
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
