package gsc

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// unknownCountry is the upstream sentinel for rows whose country could
// not be determined.
const unknownCountry = "zzz"

// isCountryCode reports whether code looks like a plausible ISO 3166-1
// alpha-3 code, excluding the upstream "unknown" sentinel.
func isCountryCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	if strings.EqualFold(code, unknownCountry) {
		return false
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// countryLabel resolves a display name for an alpha-3 country code,
// falling back to the uppercased code when no region name is known.
func countryLabel(code string) string {
	upper := strings.ToUpper(code)
	region, err := language.ParseRegion(upper)
	if err != nil {
		return upper
	}
	if name := display.English.Regions().Name(region); name != "" {
		return name
	}
	return upper
}
