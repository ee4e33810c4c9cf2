// internal/slug/slug.go
//
// Slug and location-key helpers.
//
// Context
// -------
// Every public URL on the site is built from slugs derived here, and every
// record in every dataset is addressed by the composite key these helpers
// produce.  Three rules matter:
//
//   - Slugify(name) ─ Unicode-decompose, strip combining marks, lower-case,
//     collapse any run of non-[a-z0-9] to one “-”, trim edge dashes.  Pure
//     and total; pathological input yields "".
//   - BuildSlugKey(country, region, city) ─ joins the lower-cased parts with
//     “__”.  A missing city substitutes the region-root sentinel so a
//     region-only record can never collide with a real city of the same name.
//   - EnsureUniqueSlug(candidate, used) ─ appends -2, -3, … until unused,
//     and records the winner in the set.
//
// Notes
// -----
//   - Unlike earlier ASCII-only sluggers, geographic names here carry
//     diacritics (Québec, Montréal), so decomposition comes first.
//   - Slugify(Slugify(x)) == Slugify(x); callers rely on idempotence when
//     re-normalizing already-normalized JSON.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// KeyDelimiter separates the parts of a composite location key.
const KeyDelimiter = "__"

// RegionOnlyToken stands in for the city segment of region-level records.
const RegionOnlyToken = "region-root"

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Slugify converts a display name into a lower-kebab URL token.
func Slugify(input string) string {
	folded, _, err := transform.String(stripMarks, input)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the raw
		// input and let the ASCII filter below drop the bad runes.
		folded = input
	}

	var b strings.Builder
	b.Grow(len(folded))

	lastWasDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

// BuildSlugKey joins country, region, and city slugs into one composite key.
// An empty citySlug selects the region-root sentinel.
func BuildSlugKey(countrySlug, regionSlug, citySlug string) string {
	city := strings.ToLower(strings.TrimSpace(citySlug))
	if city == "" {
		city = RegionOnlyToken
	}
	return strings.ToLower(countrySlug) + KeyDelimiter +
		strings.ToLower(regionSlug) + KeyDelimiter + city
}

// ParsedKey is the result of splitting a composite key back into its parts.
type ParsedKey struct {
	CountrySlug string
	RegionSlug  string
	CitySlug    string // empty for region-root keys
}

// ParseSlugKey splits a composite key.  The region-root sentinel maps back
// to an empty CitySlug.
func ParseSlugKey(key string) ParsedKey {
	parts := strings.SplitN(key, KeyDelimiter, 3)
	p := ParsedKey{}
	if len(parts) > 0 {
		p.CountrySlug = parts[0]
	}
	if len(parts) > 1 {
		p.RegionSlug = parts[1]
	}
	if len(parts) > 2 && parts[2] != RegionOnlyToken {
		p.CitySlug = parts[2]
	}
	return p
}

// EnsureUniqueSlug returns candidate if unused, else the first candidate-N
// variant (N starting at 2) not present in used.  The returned slug is added
// to used.
func EnsureUniqueSlug(candidate string, used map[string]bool) string {
	chosen := candidate
	for suffix := 2; used[chosen]; suffix++ {
		chosen = candidate + "-" + strconv.Itoa(suffix)
	}
	used[chosen] = true
	return chosen
}
