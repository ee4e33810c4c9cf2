// internal/audit/audit.go
//
// Cross-record consistency checks over normalized datasets.
//
// Context
// -------
// Per-record schema validation lives with normalization; this package
// catches the defects only visible across a dataset or against reference
// data.  Checks run on a lightweight projection so every topic feeds the
// same auditor.
//
// Notes
// -----
// Findings are advisory ordering-stable: records are scanned in input
// order and each check appends in a fixed sequence, so diffs between audit
// runs are meaningful.
package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/quiethoursguide/bylawdata/internal/geo"
	"github.com/quiethoursguide/bylawdata/internal/slug"
	"github.com/quiethoursguide/bylawdata/internal/topic"
)

// RecordInfo is the per-record projection the auditor inspects.
type RecordInfo struct {
	Index        int
	Country      string
	Region       string
	City         *string
	CountrySlug  string
	RegionSlug   string
	CitySlug     *string
	Timezone     string
	LastVerified string
}

// Finding is one audit issue tied to a record.
type Finding struct {
	Topic   string `json:"topic"`
	Index   int    `json:"index"`
	SlugKey string `json:"slug_key"`
	Check   string `json:"check"`
	Detail  string `json:"detail"`
}

// Check names, stable for filtering and reporting.
const (
	CheckDuplicateSlugKey  = "duplicate_slug_key"
	CheckDuplicateLocation = "duplicate_location"
	CheckSlugMismatch      = "slug_mismatch"
	CheckUnknownTimezone   = "unknown_timezone"
	CheckFutureDate        = "future_date"
)

// FromBase projects an embedded record base for auditing.
func FromBase(index int, b topic.Base) RecordInfo {
	return RecordInfo{
		Index:        index,
		Country:      b.Country,
		Region:       b.Region,
		City:         b.City,
		CountrySlug:  b.CountrySlug,
		RegionSlug:   b.RegionSlug,
		CitySlug:     b.CitySlug,
		Timezone:     b.Timezone,
		LastVerified: b.LastVerified,
	}
}

func (r RecordInfo) slugKey() string {
	city := ""
	if r.CitySlug != nil {
		city = *r.CitySlug
	}
	return slug.BuildSlugKey(r.CountrySlug, r.RegionSlug, city)
}

// locationKey folds the display names for duplicate detection.  A record
// without a city collapses to a region-level placeholder so two
// region-level entries for the same region still collide.
func (r RecordInfo) locationKey() string {
	city := "<region>"
	if r.City != nil {
		city = strings.ToLower(strings.TrimSpace(*r.City))
	}
	return strings.ToLower(strings.TrimSpace(r.Country)) + "|" +
		strings.ToLower(strings.TrimSpace(r.Region)) + "|" + city
}

// Run audits one topic's records and returns every finding.  now anchors
// the future-date check; callers pass time.Now() outside tests.
func Run(topicID string, records []RecordInfo, now time.Time) []Finding {
	var findings []Finding
	report := func(r RecordInfo, check, detail string) {
		findings = append(findings, Finding{
			Topic:   topicID,
			Index:   r.Index,
			SlugKey: r.slugKey(),
			Check:   check,
			Detail:  detail,
		})
	}

	today := now.Format("2006-01-02")
	seenKeys := map[string]int{}
	seenLocations := map[string]int{}

	for _, r := range records {
		key := r.slugKey()
		if first, dup := seenKeys[key]; dup {
			report(r, CheckDuplicateSlugKey,
				fmt.Sprintf("slug key already used by record %d", first))
		} else {
			seenKeys[key] = r.Index
		}

		loc := r.locationKey()
		if first, dup := seenLocations[loc]; dup {
			report(r, CheckDuplicateLocation,
				fmt.Sprintf("location already present as record %d", first))
		} else {
			seenLocations[loc] = r.Index
		}

		if want := slug.Slugify(r.Region); r.RegionSlug != want {
			report(r, CheckSlugMismatch,
				fmt.Sprintf("region_slug %q does not match region %q (want %q)", r.RegionSlug, r.Region, want))
		}
		if r.City != nil {
			want := slug.Slugify(*r.City)
			if r.CitySlug == nil || *r.CitySlug != want {
				got := "<none>"
				if r.CitySlug != nil {
					got = *r.CitySlug
				}
				report(r, CheckSlugMismatch,
					fmt.Sprintf("city_slug %q does not match city %q (want %q)", got, *r.City, want))
			}
		}
		if want := slug.Slugify(geo.CountryName(r.Country)); r.CountrySlug != want {
			report(r, CheckSlugMismatch,
				fmt.Sprintf("country_slug %q does not match country %s (want %q)", r.CountrySlug, r.Country, want))
		}

		if _, err := time.LoadLocation(r.Timezone); err != nil {
			report(r, CheckUnknownTimezone,
				fmt.Sprintf("timezone %q is not a known IANA zone", r.Timezone))
		}

		// ISO dates compare lexicographically.
		if r.LastVerified > today {
			report(r, CheckFutureDate,
				fmt.Sprintf("last_verified %s is after %s", r.LastVerified, today))
		}
	}
	return findings
}
