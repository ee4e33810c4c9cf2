// internal/topic/coerce.go
//
// Value coercion for loosely typed input rows.
//
// Context
// -------
// Raw rows reach the normalizers as map[string]any bags: every cell is a
// string when the row came from CSV, and may be a bool, float64, []any, or
// nested map when it came from hand-authored JSON.  These helpers implement
// the textual conventions the datasets use — a fixed truthy/falsy
// vocabulary, "varies"/"restricted" sentinels, newline/pipe/comma lists,
// and the "Name: rule text|Name2: rule text2" override mini-grammar.
//
// Notes
// -----
//   - Optional coercions return nil for absent/blank input; they never
//     substitute zero values.
//   - Override rule text may contain colons: each segment splits on the
//     FIRST colon only.  Malformed segments are dropped, and an entirely
//     empty result is absent, not an empty slice.
package topic

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var trueTokens = map[string]bool{"true": true, "1": true, "yes": true, "y": true, "on": true}

var falseTokens = map[string]bool{"false": true, "0": true, "no": true, "n": true, "off": true}

// numberSeparators matches thousands separators, underscores, and spaces
// that may appear inside numeric cells ("1,250", "1_250").
var numberSeparators = regexp.MustCompile(`[,_\s]`)

var listSplitter = regexp.MustCompile(`[\n|,]`)

// dateLayouts are tried in order when parsing last_verified values.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"January 2, 2006",
}

// maybeString stringifies and trims a value, mapping nil and
// empty-after-trim to absent.
func maybeString(value any) *string {
	if value == nil {
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// requireString is maybeString with a required-field error.
func requireString(value any, field string) (string, error) {
	if s := maybeString(value); s != nil {
		return *s, nil
	}
	return "", fmt.Errorf("%s is required", field)
}

// toBool coerces native booleans, numbers (0 = false), and the fixed
// truthy/falsy token vocabulary.  Anything else is an error naming field.
func toBool(value any, field string) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case string:
		token := strings.ToLower(strings.TrimSpace(v))
		if trueTokens[token] {
			return true, nil
		}
		if falseTokens[token] {
			return false, nil
		}
	}
	return false, fmt.Errorf("unable to coerce %s into a boolean", field)
}

// toTriState coerces like toBool, but a case-insensitive match on sentinel
// short-circuits to that sentinel value.
func toTriState(value any, field string, sentinel TriState) (TriState, error) {
	if s, ok := value.(string); ok &&
		strings.ToLower(strings.TrimSpace(s)) == string(sentinel) {
		return sentinel, nil
	}
	b, err := toBool(value, field)
	if err != nil {
		return "", err
	}
	if b {
		return TriTrue, nil
	}
	return TriFalse, nil
}

// toNumber coerces finite numbers, stripping separators from strings.
// Blank or unparseable input is absent, never zero and never an error.
func toNumber(value any) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		cleaned := numberSeparators.ReplaceAllString(v, "")
		if cleaned == "" {
			return nil
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

// toStringList accepts a native array or a newline/pipe/comma delimited
// string.  Elements are trimmed; empties are dropped.
func toStringList(value any) []string {
	switch v := value.(type) {
	case []string:
		var out []string
		for _, item := range v {
			if s := maybeString(item); s != nil {
				out = append(out, *s)
			}
		}
		return out
	case []any:
		var out []string
		for _, item := range v {
			if s := maybeString(item); s != nil {
				out = append(out, *s)
			}
		}
		return out
	case string:
		var out []string
		for _, segment := range listSplitter.Split(v, -1) {
			if s := strings.TrimSpace(segment); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// overrideKind selects which name field an override entry fills.
type overrideKind string

const (
	countyOverride overrideKind = "county"
	cityOverride   overrideKind = "city"
)

// toOverrides parses a fireworks override table from either a structured
// array of {county|city, rules} objects or a flat
// "Name: rule text|Name2: rule text2" string.
func toOverrides(value any, kind overrideKind) []Override {
	makeEntry := func(name, rules *string) (Override, bool) {
		if name == nil || rules == nil {
			return Override{}, false
		}
		o := Override{Rules: *rules}
		if kind == countyOverride {
			o.County = *name
		} else {
			o.City = *name
		}
		return o, true
	}

	var out []Override
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		for _, item := range v {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if o, ok := makeEntry(maybeString(entry[string(kind)]), maybeString(entry["rules"])); ok {
				out = append(out, o)
			}
		}
	case []Override:
		for _, o := range v {
			name := o.County
			if kind == cityOverride {
				name = o.City
			}
			if entry, ok := makeEntry(maybeString(name), maybeString(o.Rules)); ok {
				out = append(out, entry)
			}
		}
	case string:
		for _, segment := range strings.Split(v, "|") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				continue
			}
			// First colon splits name from rules; rule text keeps any
			// further colons.
			name, rules, found := strings.Cut(segment, ":")
			if !found {
				continue
			}
			if o, ok := makeEntry(maybeString(name), maybeString(rules)); ok {
				out = append(out, o)
			}
		}
	}
	return out
}

// normalizeDate parses last_verified from a string or time.Time and
// re-serializes it as YYYY-MM-DD.
func normalizeDate(value any, field string) (string, error) {
	if t, ok := value.(time.Time); ok {
		return t.UTC().Format("2006-01-02"), nil
	}
	raw := maybeString(value)
	if raw == nil {
		return "", fmt.Errorf("%s is required", field)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid %s date value: %s", field, *raw)
}
