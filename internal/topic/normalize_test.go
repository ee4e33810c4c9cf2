package topic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quietHoursRow mimics a CSV sheet row: every cell a string, slugs absent.
func quietHoursRow() map[string]any {
	return map[string]any{
		"country":                    "ca",
		"country_name":               "Canada",
		"region":                     "Ontario",
		"city":                       "Toronto",
		"timezone":                   "America/Toronto",
		"last_verified":              "2025-06-14",
		"default_quiet_hours":        "11:00 PM to 7:00 AM daily",
		"residential_decibel_limit_day":   "55",
		"residential_decibel_limit_night": "50",
		"construction_hours_weekday": "7:00 AM to 7:00 PM Monday through Friday",
		"construction_hours_weekend": "9:00 AM to 7:00 PM Saturday",
		"lawn_equipment_hours":       "7:00 AM to 9:00 PM",
		"party_music_rules":          "Not audible in a neighbouring dwelling after 11 PM.",
		"complaint_url":              "https://www.toronto.ca/home/311-toronto-at-your-service/",
		"fine_range":                 "$300 to $700",
		"bylaw_title":                "City of Toronto Municipal Code, Chapter 591, Noise",
		"bylaw_url":                  "https://www.toronto.ca/legdocs/municode/toronto-code-591.pdf",
		"tips":                       "Keep a dated log|Talk to the neighbour first",
		"neighbor_message":           "Hi, could you turn the music down after 11 PM?",
		"landlord_message":           "Hello, please remind tenants of the quiet hours bylaw.",
	}
}

func TestNormalizeQuietHoursFromSheetRow(t *testing.T) {
	rec, err := NormalizeQuietHours(quietHoursRow())
	require.NoError(t, err)

	assert.Equal(t, "CA", rec.Country)
	assert.Equal(t, "canada", rec.CountrySlug)
	assert.Equal(t, "ontario", rec.RegionSlug)
	require.NotNil(t, rec.CitySlug)
	assert.Equal(t, "toronto", *rec.CitySlug)

	require.NotNil(t, rec.ResidentialDecibelLimitDay)
	assert.Equal(t, 55.0, *rec.ResidentialDecibelLimitDay)
	assert.Equal(t, []string{"Keep a dated log", "Talk to the neighbour first"}, rec.Tips)

	// Source citation falls back to the bylaw citation.
	assert.Equal(t, "City of Toronto Municipal Code, Chapter 591, Noise", rec.SourceTitle)
	assert.Equal(t, rec.BylawURL, rec.SourceURL)

	// Complaint channel defaults when the sheet leaves it blank.
	require.NotNil(t, rec.ComplaintChannel)
	assert.Equal(t, "Not specified", *rec.ComplaintChannel)
}

func TestNormalizeQuietHoursIsIdempotent(t *testing.T) {
	first, err := NormalizeQuietHours(quietHoursRow())
	require.NoError(t, err)

	raw, err := json.Marshal(first)
	require.NoError(t, err)
	var row map[string]any
	require.NoError(t, json.Unmarshal(raw, &row))

	second, err := NormalizeQuietHours(row)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalizeQuietHoursRequirements(t *testing.T) {
	row := quietHoursRow()
	delete(row, "city")
	_, err := NormalizeQuietHours(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city is required")

	row = quietHoursRow()
	delete(row, "complaint_url")
	_, err = NormalizeQuietHours(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "complaint_url")

	row = quietHoursRow()
	delete(row, "fine_range")
	_, err = NormalizeQuietHours(row)
	assert.Error(t, err)

	row = quietHoursRow()
	row["last_verified"] = "not a date"
	_, err = NormalizeQuietHours(row)
	assert.Error(t, err)
}

func parkingRow() map[string]any {
	return map[string]any{
		"country":                   "US",
		"country_name":              "United States",
		"region":                    "Minnesota",
		"city":                      "Minneapolis",
		"timezone":                  "America/Chicago",
		"last_verified":             "2025-04-18",
		"source_title":              "Minneapolis winter parking rules",
		"source_url":                "https://www.minneapolismn.gov/getting-around/snow/",
		"overnight_parking_allowed": "varies",
		"overnight_hours":           "Allowed except during snow emergencies",
		"permit_required":           "no",
		"winter_ban":                "yes",
		"winter_ban_months":         "November 1 to April 1",
		"winter_ban_hours":          "9 PM to 8 AM on snow emergency routes",
		"snow_emergency_rules":      "Three-day plowing cycle.",
		"towing_enforced":           "yes",
		"ticket_amounts":            "$45 plus towing",
	}
}

func TestNormalizeParkingTriState(t *testing.T) {
	rec, err := NormalizeParking(parkingRow())
	require.NoError(t, err)
	assert.Equal(t, TriVaries, rec.OvernightParkingAllowed)
	assert.False(t, rec.PermitRequired)
	assert.True(t, rec.WinterBan)

	row := parkingRow()
	row["overnight_parking_allowed"] = "restricted"
	_, err = NormalizeParking(row)
	assert.Error(t, err, "fireworks sentinel must not leak into parking")
}

func bulkTrashRow() map[string]any {
	return map[string]any{
		"country":                   "US",
		"country_name":              "United States",
		"region":                    "Arizona",
		"city":                      "Phoenix",
		"timezone":                  "America/Phoenix",
		"last_verified":             "2025-05-20",
		"source_title":              "Phoenix bulk trash program",
		"source_url":                "https://www.phoenix.gov/publicworks/bulktrash",
		"service_type":              "curbside",
		"schedule_pattern":          "Quarterly by service area",
		"eligible_items":            "Tree trimmings|Furniture",
		"not_accepted_items":        "Tires,Pool chemicals",
		"limits":                    "20 cubic yards per household",
		"fees":                      "Included in monthly bill",
		"holiday_shifts":            "No shift",
		"illegal_dumping_reporting": "myPHX311 portal",
	}
}

func TestNormalizeBulkTrashLists(t *testing.T) {
	rec, err := NormalizeBulkTrash(bulkTrashRow())
	require.NoError(t, err)
	assert.Equal(t, []string{"Tree trimmings", "Furniture"}, rec.EligibleItems)
	assert.Equal(t, []string{"Tires", "Pool chemicals"}, rec.NotAcceptedItems)

	row := bulkTrashRow()
	row["eligible_items"] = " , "
	_, err = NormalizeBulkTrash(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eligible_items")

	row = bulkTrashRow()
	row["service_type"] = "valet"
	_, err = NormalizeBulkTrash(row)
	assert.Error(t, err)
}

func fireworksStateRow() map[string]any {
	return map[string]any{
		"country":                    "US",
		"country_name":               "United States",
		"region":                     "Texas",
		"timezone":                   "America/Chicago",
		"last_verified":              "2025-06-30",
		"source_title":               "Texas Occupations Code, Chapter 2154",
		"source_url":                 "https://statutes.capitol.texas.gov/Docs/OC/htm/OC.2154.htm",
		"jurisdiction_level":         "State",
		"allowed_consumer_fireworks": "true",
		"sale_periods":               "June 24 to July 4",
		"use_hours":                  "No statewide hour limit",
		"permit_required":            "no",
		"age_restrictions":           "No sales under 16",
		"prohibited_types":           "Small rockets|Fireworks near schools",
		"enforcement_notes":          "County fire marshals enforce burn bans.",
		"county_overrides":           "Travis County: aerial ban during drought",
		"city_overrides":             "Austin: banned inside city limits|Houston: possession illegal",
	}
}

func TestNormalizeFireworksStateLevel(t *testing.T) {
	rec, err := NormalizeFireworks(fireworksStateRow())
	require.NoError(t, err)
	assert.Equal(t, LevelState, rec.JurisdictionLevel)
	assert.Nil(t, rec.City)
	assert.Nil(t, rec.CitySlug)
	assert.Equal(t, TriTrue, rec.AllowedConsumerFireworks)
	require.Len(t, rec.CountyOverrides, 1)
	assert.Equal(t, "Travis County", rec.CountyOverrides[0].County)
	require.Len(t, rec.CityOverrides, 2)
	assert.Equal(t, "Houston", rec.CityOverrides[1].City)
}

func TestNormalizeFireworksCityRules(t *testing.T) {
	// City level requires a city.
	row := fireworksStateRow()
	row["jurisdiction_level"] = "city"
	_, err := NormalizeFireworks(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city is required")

	// State level forbids one.
	row = fireworksStateRow()
	row["city"] = "Austin"
	_, err = NormalizeFireworks(row)
	assert.Error(t, err)

	row = fireworksStateRow()
	row["jurisdiction_level"] = "province"
	_, err = NormalizeFireworks(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jurisdiction_level")
}

func TestNormalizeFireworksRestrictedSentinel(t *testing.T) {
	row := fireworksStateRow()
	row["allowed_consumer_fireworks"] = "Restricted"
	rec, err := NormalizeFireworks(row)
	require.NoError(t, err)
	assert.Equal(t, TriRestricted, rec.AllowedConsumerFireworks)

	_, ok := rec.AllowedConsumerFireworks.Bool()
	assert.False(t, ok)
}

func TestValidateDatasetRejectsEmpty(t *testing.T) {
	err := ValidateDataset([]QuietHoursRecord{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one record")
}

func TestTriStateJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(TriTrue)
	require.NoError(t, err)
	assert.Equal(t, "true", string(raw))

	raw, err = json.Marshal(TriVaries)
	require.NoError(t, err)
	assert.Equal(t, `"varies"`, string(raw))

	var ts TriState
	require.NoError(t, json.Unmarshal([]byte("false"), &ts))
	assert.Equal(t, TriFalse, ts)
	require.NoError(t, json.Unmarshal([]byte(`"Restricted"`), &ts))
	assert.Equal(t, TriRestricted, ts)
}
