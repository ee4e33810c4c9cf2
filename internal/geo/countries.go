// internal/geo/countries.go
//
// ISO-3166 alpha-2 country display names.
//
// Context
// -------
// Dataset records carry a two-letter country code plus a country_slug
// derived from the English display name ("CA" → "Canada" → "canada").  The
// auditor re-derives the slug through this lookup to catch hand-edited or
// stale country slugs, and the listing queries publish the same name.
// Resolution goes through the CLDR tables in x/text rather than a
// hand-maintained map, so new codes arrive with the dependency.  Unknown
// codes degrade to the code itself: a slug mismatch report, not a crash.
package geo

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var regionNames = display.English.Regions()

// CountryName resolves an alpha-2 code to its English display name, falling
// back to the input itself for unknown codes.
func CountryName(iso2 string) string {
	region, err := language.ParseRegion(strings.ToUpper(strings.TrimSpace(iso2)))
	if err != nil {
		return iso2
	}
	if name := regionNames.Name(region); name != "" {
		return name
	}
	return iso2
}
