// internal/topic/model.go
//
// Typed record model for the four bylaw topic families.
//
// Context
// -------
// Every dataset row the site publishes is one of four record shapes —
// quiet hours, parking rules, bulk trash, fireworks — sharing a common
// Base (location identity, timezone, verification date, source citation).
// Raw rows arrive loosely typed (all-string CSV cells, or hand-authored
// JSON); the normalizers in normalize.go coerce them into these structs,
// and schema.go enforces the invariants the `validate` tags and the
// struct-level rules declare.
//
// Optional fields are pointers so "absent" survives a JSON round trip; the
// shipped artifacts omit them entirely rather than writing null or "".
//
// Notes
// -----
//   - Tri-state fields (parking's overnight rule, fireworks allowance)
//     marshal as native booleans for true/false and as strings for their
//     sentinel values, matching the on-disk artifact convention.
//   - last_verified stays a fixed-width "YYYY-MM-DD" string; the schema
//     enforces the format, which makes lexicographic "most recent"
//     comparisons in the query layer sound.
package topic

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Source tags a loaded dataset with the artifact kind it came from.
type Source string

const (
	SourceJSON Source = "json"
	SourceCSV  Source = "csv"
)

// TriState is a boolean that admits one topic-specific sentinel value
// ("varies" for parking, "restricted" for fireworks).
type TriState string

const (
	TriTrue       TriState = "true"
	TriFalse      TriState = "false"
	TriVaries     TriState = "varies"
	TriRestricted TriState = "restricted"
)

// Bool reports the boolean value and whether the state is a plain boolean.
func (t TriState) Bool() (value, ok bool) {
	switch t {
	case TriTrue:
		return true, true
	case TriFalse:
		return false, true
	}
	return false, false
}

// MarshalJSON writes true/false as JSON booleans and sentinels as strings.
func (t TriState) MarshalJSON() ([]byte, error) {
	if v, ok := t.Bool(); ok {
		return json.Marshal(v)
	}
	return json.Marshal(string(t))
}

// UnmarshalJSON accepts a JSON boolean or a sentinel string.
func (t *TriState) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*t = TriTrue
		} else {
			*t = TriFalse
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tri-state value must be a boolean or string: %s", data)
	}
	*t = TriState(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// Override is one county- or city-level rule exception on a fireworks
// record.  Exactly one of County or City is set, matching the record list
// it appears in.
type Override struct {
	County string `json:"county,omitempty"`
	City   string `json:"city,omitempty"`
	Rules  string `json:"rules" validate:"required"`
}

// Base carries the fields shared by all four topic families.
type Base struct {
	Country      string  `json:"country"       validate:"required,iso3166_1_alpha2"`
	Region       string  `json:"region"        validate:"required"`
	City         *string `json:"city,omitempty" validate:"omitempty,min=1"`
	CountrySlug  string  `json:"country_slug"  validate:"required,slug"`
	RegionSlug   string  `json:"region_slug"   validate:"required,slug"`
	CitySlug     *string `json:"city_slug,omitempty" validate:"omitempty,slug"`
	Timezone     string  `json:"timezone"      validate:"required,timezone"`
	LastVerified string  `json:"last_verified" validate:"required,datetime=2006-01-02"`
	SourceTitle  string  `json:"source_title"  validate:"required"`
	SourceURL    string  `json:"source_url"    validate:"required,url"`

	ComplaintChannel *string `json:"complaint_channel,omitempty" validate:"omitempty,min=1"`
	ComplaintURL     *string `json:"complaint_url,omitempty"     validate:"omitempty,url"`
	FineRange        *string `json:"fine_range,omitempty"        validate:"omitempty,min=1"`
	NotesAdmin       *string `json:"notes_admin,omitempty"`
}

// Location projects the record's identity for slug indexes and groupings.
func (b Base) Location() LocationSummary {
	return LocationSummary{
		Country:      b.Country,
		Region:       b.Region,
		City:         b.City,
		CountrySlug:  b.CountrySlug,
		RegionSlug:   b.RegionSlug,
		CitySlug:     b.CitySlug,
		LastVerified: b.LastVerified,
	}
}

// Templates are the two ready-to-send message bodies on a quiet-hours page.
type Templates struct {
	NeighborMessage string `json:"neighbor_message" validate:"required"`
	LandlordMessage string `json:"landlord_message" validate:"required"`
}

// QuietHoursRecord is one city's noise bylaw summary.  Complaint channel,
// complaint URL, and fine range are required here even though Base leaves
// them optional; the struct-level rule in schema.go enforces that.
type QuietHoursRecord struct {
	Base

	DefaultQuietHours            string   `json:"default_quiet_hours" validate:"required"`
	WeekendQuietHours            *string  `json:"weekend_quiet_hours,omitempty" validate:"omitempty,min=1"`
	HolidayQuietHours            *string  `json:"holiday_quiet_hours,omitempty" validate:"omitempty,min=1"`
	ResidentialDecibelLimitDay   *float64 `json:"residential_decibel_limit_day,omitempty" validate:"omitempty,gte=0"`
	ResidentialDecibelLimitNight *float64 `json:"residential_decibel_limit_night,omitempty" validate:"omitempty,gte=0"`
	ConstructionHoursWeekday     string   `json:"construction_hours_weekday" validate:"required"`
	ConstructionHoursWeekend     string   `json:"construction_hours_weekend" validate:"required"`
	LawnEquipmentHours           string   `json:"lawn_equipment_hours" validate:"required"`
	PartyMusicRules              string   `json:"party_music_rules" validate:"required"`
	FirstOffenseFine             *float64 `json:"first_offense_fine,omitempty" validate:"omitempty,gte=0"`
	BylawTitle                   string   `json:"bylaw_title" validate:"required"`
	BylawURL                     string   `json:"bylaw_url" validate:"required,url"`
	SeoText                      *string  `json:"seo_text,omitempty" validate:"omitempty,min=1"`
	Tips                         []string `json:"tips" validate:"min=1,dive,required"`
	Templates                    Templates `json:"templates"`
	Lat                          *float64 `json:"lat,omitempty"`
	Lng                          *float64 `json:"lng,omitempty"`
	HeroImageURL                 *string  `json:"hero_image_url,omitempty" validate:"omitempty,url"`
}

// ParkingRecord is one city's street-parking rule summary.
type ParkingRecord struct {
	Base

	OvernightParkingAllowed TriState `json:"overnight_parking_allowed" validate:"required,oneof=true false varies"`
	OvernightHours          string   `json:"overnight_hours" validate:"required"`
	PermitRequired          bool     `json:"permit_required"`
	PermitURL               *string  `json:"permit_url,omitempty" validate:"omitempty,url"`
	WinterBan               bool     `json:"winter_ban"`
	WinterBanMonths         string   `json:"winter_ban_months" validate:"required"`
	WinterBanHours          string   `json:"winter_ban_hours" validate:"required"`
	SnowEmergencyRules      string   `json:"snow_emergency_rules" validate:"required"`
	TowingEnforced          bool     `json:"towing_enforced"`
	TowZonesMapURL          *string  `json:"tow_zones_map_url,omitempty" validate:"omitempty,url"`
	TicketAmounts           string   `json:"ticket_amounts" validate:"required"`
	NotesPublic             *string  `json:"notes_public,omitempty"`
}

// BulkTrashRecord is one city's bulk-item collection summary.
type BulkTrashRecord struct {
	Base

	ServiceType             string   `json:"service_type" validate:"required,oneof=curbside appointment dropoff mixed"`
	SchedulePattern         string   `json:"schedule_pattern" validate:"required"`
	RequestURL              *string  `json:"request_url,omitempty" validate:"omitempty,url"`
	EligibleItems           []string `json:"eligible_items" validate:"min=1,dive,required"`
	NotAcceptedItems        []string `json:"not_accepted_items" validate:"min=1,dive,required"`
	Limits                  string   `json:"limits" validate:"required"`
	Fees                    string   `json:"fees" validate:"required"`
	HolidayShifts           string   `json:"holiday_shifts" validate:"required"`
	IllegalDumpingReporting string   `json:"illegal_dumping_reporting" validate:"required"`
	NotesPublic             *string  `json:"notes_public,omitempty"`
}

// Jurisdiction levels for fireworks records.
const (
	LevelState  = "state"
	LevelCounty = "county"
	LevelCity   = "city"
)

// FireworksRecord is one jurisdiction's consumer-fireworks rule summary.
// City-level records require a city; state and county records forbid one.
type FireworksRecord struct {
	Base

	JurisdictionLevel        string     `json:"jurisdiction_level" validate:"required,oneof=state county city"`
	AllowedConsumerFireworks TriState   `json:"allowed_consumer_fireworks" validate:"required,oneof=true false restricted"`
	SalePeriods              string     `json:"sale_periods" validate:"required"`
	UseHours                 string     `json:"use_hours" validate:"required"`
	PermitRequired           bool       `json:"permit_required"`
	AgeRestrictions          string     `json:"age_restrictions" validate:"required"`
	ProhibitedTypes          []string   `json:"prohibited_types" validate:"min=1,dive,required"`
	EnforcementNotes         string     `json:"enforcement_notes" validate:"required"`
	CountyOverrides          []Override `json:"county_overrides,omitempty" validate:"omitempty,min=1,dive"`
	CityOverrides            []Override `json:"city_overrides,omitempty" validate:"omitempty,min=1,dive"`
	NotesPublic              *string    `json:"notes_public,omitempty"`
}

// LocationSummary is the lightweight projection stored in slug indexes and
// consumed by the grouping queries.
type LocationSummary struct {
	Country      string  `json:"country"`
	Region       string  `json:"region"`
	City         *string `json:"city,omitempty"`
	CountrySlug  string  `json:"country_slug"`
	RegionSlug   string  `json:"region_slug"`
	CitySlug     *string `json:"city_slug,omitempty"`
	LastVerified string  `json:"last_verified"`
}

// SlugIndex maps composite slug keys to location summaries.
type SlugIndex map[string]LocationSummary
