package analysis

import (
	"regexp"
	"strings"
)

var (
	countryWord = regexp.MustCompile(`\b(egypt)\b`)
	nonLetters  = regexp.MustCompile(`[^a-zA-Z\s]`)
)

// ExtractCity normalizes a free text profile location into a city name.
// A nil input means there is no usable location data and returns nil.
// When the location only named the country, the literal "Egypt" is
// returned. A location that contains no letters at all returns nil, this
// is not the same case as country-only input.
func ExtractCity(location *string) *string {
	if location == nil {
		return nil
	}

	loc := strings.ToLower(strings.TrimSpace(*location))

	// remove the country name when it co-occurs with a city
	loc = countryWord.ReplaceAllString(loc, "")

	if loc == "" {
		country := "Egypt"
		return &country
	}

	city := nonLetters.ReplaceAllString(loc, "")
	parts := strings.Fields(city)

	if len(parts) == 0 {
		return nil
	}

	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}

	result := strings.Join(parts, " ")
	return &result
}
