package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func cleanRecords() []RecordInfo {
	return []RecordInfo{
		{
			Index:       0,
			Country:     "CA",
			Region:      "Ontario",
			City:        strptr("Toronto"),
			CountrySlug: "canada", RegionSlug: "ontario", CitySlug: strptr("toronto"),
			Timezone:     "America/Toronto",
			LastVerified: "2025-06-01",
		},
		{
			Index:       1,
			Country:     "US",
			Region:      "Texas",
			City:        strptr("Austin"),
			CountrySlug: "united-states", RegionSlug: "texas", CitySlug: strptr("austin"),
			Timezone:     "America/Chicago",
			LastVerified: "2025-05-15",
		},
	}
}

func auditNow() time.Time {
	return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
}

func TestRunCleanDataset(t *testing.T) {
	assert.Empty(t, Run("quiet-hours", cleanRecords(), auditNow()))
}

func TestRunDuplicateSlugKey(t *testing.T) {
	recs := cleanRecords()
	dup := recs[0]
	dup.Index = 2
	dup.City = strptr("Toronto East")
	recs = append(recs, dup)

	findings := Run("quiet-hours", recs, auditNow())
	var checks []string
	for _, f := range findings {
		checks = append(checks, f.Check)
	}
	assert.Contains(t, checks, CheckDuplicateSlugKey)
}

func TestRunDuplicateLocationCaseInsensitive(t *testing.T) {
	recs := cleanRecords()
	dup := recs[0]
	dup.Index = 2
	dup.City = strptr("  TORONTO ")
	dup.CitySlug = strptr("toronto")
	recs = append(recs, dup)

	findings := Run("quiet-hours", recs, auditNow())
	found := false
	for _, f := range findings {
		if f.Check == CheckDuplicateLocation {
			found = true
			assert.Equal(t, 2, f.Index)
		}
	}
	assert.True(t, found, "expected a duplicate_location finding")
}

func TestRunRegionLevelRecordsCollide(t *testing.T) {
	recs := []RecordInfo{
		{Index: 0, Country: "US", Region: "Texas", CountrySlug: "united-states", RegionSlug: "texas", Timezone: "America/Chicago", LastVerified: "2025-01-01"},
		{Index: 1, Country: "US", Region: "texas", CountrySlug: "united-states", RegionSlug: "texas", Timezone: "America/Chicago", LastVerified: "2025-01-02"},
	}
	findings := Run("fireworks", recs, auditNow())
	var checks []string
	for _, f := range findings {
		checks = append(checks, f.Check)
	}
	assert.Contains(t, checks, CheckDuplicateLocation)
	assert.Contains(t, checks, CheckDuplicateSlugKey)
}

func TestRunSlugMismatches(t *testing.T) {
	recs := cleanRecords()
	recs[0].CitySlug = strptr("torontoo")
	recs[1].CountrySlug = "usa"

	findings := Run("quiet-hours", recs, auditNow())
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, CheckSlugMismatch, f.Check)
	}
}

func TestRunUnknownTimezone(t *testing.T) {
	recs := cleanRecords()
	recs[0].Timezone = "America/Nowhere"

	findings := Run("quiet-hours", recs, auditNow())
	require.Len(t, findings, 1)
	assert.Equal(t, CheckUnknownTimezone, findings[0].Check)
}

func TestRunFutureDate(t *testing.T) {
	recs := cleanRecords()
	recs[1].LastVerified = "2025-12-31"

	findings := Run("quiet-hours", recs, auditNow())
	require.Len(t, findings, 1)
	assert.Equal(t, CheckFutureDate, findings[0].Check)
	assert.Equal(t, 1, findings[0].Index)
}
