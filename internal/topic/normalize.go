// internal/topic/normalize.go
//
// Topic normalizers: loosely typed row in, schema-valid record out.
//
// Context
// -------
// Normalization is the trust boundary of the pipeline.  Each normalizer
// composes the shared base pass (identity, slugs, timezone, verification
// date, source citation) with its topic's coercions, then validates the
// candidate against the topic schema.  Normalizers fail fast on the first
// malformed field — the loader treats any single bad record as a
// whole-dataset failure, because the site must never publish from a
// half-valid dataset.
//
// Normalization is idempotent: records already in the strict shape (the
// compiled JSON artifact) pass through unchanged, so the loader can run
// every source through the same function.
package topic

import (
	"strings"

	"github.com/quiethoursguide/bylawdata/internal/slug"
)

// baseOptions tune the shared pass per topic.
type baseOptions struct {
	requireCity         bool
	fallbackSourceTitle *string
	fallbackSourceURL   *string
}

// normalizeBase coerces the shared fields of a raw row.
func normalizeBase(row map[string]any, opts baseOptions) (Base, error) {
	country, err := requireString(row["country"], "country")
	if err != nil {
		return Base{}, err
	}
	country = strings.ToUpper(country)

	region, err := requireString(row["region"], "region")
	if err != nil {
		return Base{}, err
	}

	city := maybeString(row["city"])
	if opts.requireCity && city == nil {
		return Base{}, errRequiredCity
	}

	// Explicit slugs win; otherwise derive from the display name.  The
	// country slug falls back through country_name before slugifying the
	// two-letter code itself.
	countrySlugSource := firstString(maybeString(row["country_slug"]), maybeString(row["country_name"]), &country)
	regionSlugSource := firstString(maybeString(row["region_slug"]), &region)

	timezone, err := requireString(row["timezone"], "timezone")
	if err != nil {
		return Base{}, err
	}

	lastVerified, err := normalizeDate(row["last_verified"], "last_verified")
	if err != nil {
		return Base{}, err
	}

	sourceTitle := firstString(maybeString(row["source_title"]), opts.fallbackSourceTitle)
	sourceURL := firstString(maybeString(row["source_url"]), opts.fallbackSourceURL)
	if sourceTitle == nil || sourceURL == nil {
		return Base{}, errRequiredSource
	}

	base := Base{
		Country:          country,
		Region:           region,
		City:             city,
		CountrySlug:      slug.Slugify(*countrySlugSource),
		RegionSlug:       slug.Slugify(*regionSlugSource),
		Timezone:         timezone,
		LastVerified:     lastVerified,
		SourceTitle:      *sourceTitle,
		SourceURL:        *sourceURL,
		ComplaintChannel: maybeString(row["complaint_channel"]),
		ComplaintURL:     maybeString(row["complaint_url"]),
		FineRange:        maybeString(row["fine_range"]),
		NotesAdmin:       maybeString(row["notes_admin"]),
	}
	if city != nil {
		citySlugSource := firstString(maybeString(row["city_slug"]), city)
		s := slug.Slugify(*citySlugSource)
		base.CitySlug = &s
	}
	return base, nil
}

// NormalizeQuietHours coerces a raw row into a QuietHoursRecord.  The
// bylaw citation doubles as the source citation when source fields are
// absent, and the complaint channel defaults to "Not specified".
func NormalizeQuietHours(row map[string]any) (QuietHoursRecord, error) {
	base, err := normalizeBase(row, baseOptions{
		requireCity:         true,
		fallbackSourceTitle: maybeString(row["bylaw_title"]),
		fallbackSourceURL:   maybeString(row["bylaw_url"]),
	})
	if err != nil {
		return QuietHoursRecord{}, err
	}

	rec := QuietHoursRecord{Base: base}
	if rec.ComplaintChannel == nil {
		channel := "Not specified"
		rec.ComplaintChannel = &channel
	}

	if rec.DefaultQuietHours, err = requireString(row["default_quiet_hours"], "default_quiet_hours"); err != nil {
		return QuietHoursRecord{}, err
	}
	rec.WeekendQuietHours = maybeString(row["weekend_quiet_hours"])
	rec.HolidayQuietHours = maybeString(row["holiday_quiet_hours"])
	rec.ResidentialDecibelLimitDay = toNumber(row["residential_decibel_limit_day"])
	rec.ResidentialDecibelLimitNight = toNumber(row["residential_decibel_limit_night"])

	if rec.ConstructionHoursWeekday, err = requireString(row["construction_hours_weekday"], "construction_hours_weekday"); err != nil {
		return QuietHoursRecord{}, err
	}
	if rec.ConstructionHoursWeekend, err = requireString(row["construction_hours_weekend"], "construction_hours_weekend"); err != nil {
		return QuietHoursRecord{}, err
	}
	if rec.LawnEquipmentHours, err = requireString(row["lawn_equipment_hours"], "lawn_equipment_hours"); err != nil {
		return QuietHoursRecord{}, err
	}
	if rec.PartyMusicRules, err = requireString(row["party_music_rules"], "party_music_rules"); err != nil {
		return QuietHoursRecord{}, err
	}

	if url := maybeString(row["complaint_url"]); url != nil {
		rec.ComplaintURL = url
	}
	if rec.ComplaintURL == nil {
		return QuietHoursRecord{}, requiredFieldError("complaint_url")
	}
	if rec.FineRange == nil {
		return QuietHoursRecord{}, requiredFieldError("fine_range")
	}

	rec.FirstOffenseFine = toNumber(row["first_offense_fine"])
	if rec.BylawTitle, err = requireString(row["bylaw_title"], "bylaw_title"); err != nil {
		return QuietHoursRecord{}, err
	}
	if rec.BylawURL, err = requireString(row["bylaw_url"], "bylaw_url"); err != nil {
		return QuietHoursRecord{}, err
	}
	rec.SeoText = maybeString(row["seo_text"])
	rec.Tips = toStringList(row["tips"])

	// Templates may arrive nested or as flat neighbor_message /
	// landlord_message columns (the CSV form).
	templates, _ := row["templates"].(map[string]any)
	if rec.Templates.NeighborMessage, err = requireString(
		firstValue(templates["neighbor_message"], row["neighbor_message"]),
		"templates.neighbor_message",
	); err != nil {
		return QuietHoursRecord{}, err
	}
	if rec.Templates.LandlordMessage, err = requireString(
		firstValue(templates["landlord_message"], row["landlord_message"]),
		"templates.landlord_message",
	); err != nil {
		return QuietHoursRecord{}, err
	}

	rec.Lat = toNumber(row["lat"])
	rec.Lng = toNumber(row["lng"])
	rec.HeroImageURL = maybeString(row["hero_image_url"])

	if err := ValidateRecord(rec); err != nil {
		return QuietHoursRecord{}, err
	}
	return rec, nil
}

// NormalizeParking coerces a raw row into a ParkingRecord.
func NormalizeParking(row map[string]any) (ParkingRecord, error) {
	base, err := normalizeBase(row, baseOptions{requireCity: true})
	if err != nil {
		return ParkingRecord{}, err
	}

	rec := ParkingRecord{Base: base}
	if rec.OvernightParkingAllowed, err = toTriState(row["overnight_parking_allowed"], "overnight_parking_allowed", TriVaries); err != nil {
		return ParkingRecord{}, err
	}
	if rec.OvernightHours, err = requireString(row["overnight_hours"], "overnight_hours"); err != nil {
		return ParkingRecord{}, err
	}
	if rec.PermitRequired, err = toBool(row["permit_required"], "permit_required"); err != nil {
		return ParkingRecord{}, err
	}
	rec.PermitURL = maybeString(row["permit_url"])
	if rec.WinterBan, err = toBool(row["winter_ban"], "winter_ban"); err != nil {
		return ParkingRecord{}, err
	}
	if rec.WinterBanMonths, err = requireString(row["winter_ban_months"], "winter_ban_months"); err != nil {
		return ParkingRecord{}, err
	}
	if rec.WinterBanHours, err = requireString(row["winter_ban_hours"], "winter_ban_hours"); err != nil {
		return ParkingRecord{}, err
	}
	if rec.SnowEmergencyRules, err = requireString(row["snow_emergency_rules"], "snow_emergency_rules"); err != nil {
		return ParkingRecord{}, err
	}
	if rec.TowingEnforced, err = toBool(row["towing_enforced"], "towing_enforced"); err != nil {
		return ParkingRecord{}, err
	}
	rec.TowZonesMapURL = maybeString(row["tow_zones_map_url"])
	if rec.TicketAmounts, err = requireString(row["ticket_amounts"], "ticket_amounts"); err != nil {
		return ParkingRecord{}, err
	}
	rec.NotesPublic = maybeString(row["notes_public"])

	if err := ValidateRecord(rec); err != nil {
		return ParkingRecord{}, err
	}
	return rec, nil
}

// NormalizeBulkTrash coerces a raw row into a BulkTrashRecord.  Both item
// lists must end up non-empty.
func NormalizeBulkTrash(row map[string]any) (BulkTrashRecord, error) {
	base, err := normalizeBase(row, baseOptions{requireCity: true})
	if err != nil {
		return BulkTrashRecord{}, err
	}

	eligible := toStringList(row["eligible_items"])
	if len(eligible) == 0 {
		return BulkTrashRecord{}, listRequiredError("eligible_items")
	}
	notAccepted := toStringList(row["not_accepted_items"])
	if len(notAccepted) == 0 {
		return BulkTrashRecord{}, listRequiredError("not_accepted_items")
	}

	rec := BulkTrashRecord{Base: base, EligibleItems: eligible, NotAcceptedItems: notAccepted}
	if rec.ServiceType, err = requireString(row["service_type"], "service_type"); err != nil {
		return BulkTrashRecord{}, err
	}
	if rec.SchedulePattern, err = requireString(row["schedule_pattern"], "schedule_pattern"); err != nil {
		return BulkTrashRecord{}, err
	}
	rec.RequestURL = maybeString(row["request_url"])
	if rec.Limits, err = requireString(row["limits"], "limits"); err != nil {
		return BulkTrashRecord{}, err
	}
	if rec.Fees, err = requireString(row["fees"], "fees"); err != nil {
		return BulkTrashRecord{}, err
	}
	if rec.HolidayShifts, err = requireString(row["holiday_shifts"], "holiday_shifts"); err != nil {
		return BulkTrashRecord{}, err
	}
	if rec.IllegalDumpingReporting, err = requireString(row["illegal_dumping_reporting"], "illegal_dumping_reporting"); err != nil {
		return BulkTrashRecord{}, err
	}
	rec.NotesPublic = maybeString(row["notes_public"])

	if err := ValidateRecord(rec); err != nil {
		return BulkTrashRecord{}, err
	}
	return rec, nil
}

// NormalizeFireworks coerces a raw row into a FireworksRecord.  A city is
// required exactly when the jurisdiction level is "city".
func NormalizeFireworks(row map[string]any) (FireworksRecord, error) {
	level, err := toJurisdictionLevel(row["jurisdiction_level"])
	if err != nil {
		return FireworksRecord{}, err
	}

	base, err := normalizeBase(row, baseOptions{requireCity: level == LevelCity})
	if err != nil {
		return FireworksRecord{}, err
	}

	rec := FireworksRecord{Base: base, JurisdictionLevel: level}
	if rec.AllowedConsumerFireworks, err = toTriState(row["allowed_consumer_fireworks"], "allowed_consumer_fireworks", TriRestricted); err != nil {
		return FireworksRecord{}, err
	}
	if rec.SalePeriods, err = requireString(row["sale_periods"], "sale_periods"); err != nil {
		return FireworksRecord{}, err
	}
	if rec.UseHours, err = requireString(row["use_hours"], "use_hours"); err != nil {
		return FireworksRecord{}, err
	}
	if rec.PermitRequired, err = toBool(row["permit_required"], "permit_required"); err != nil {
		return FireworksRecord{}, err
	}
	if rec.AgeRestrictions, err = requireString(row["age_restrictions"], "age_restrictions"); err != nil {
		return FireworksRecord{}, err
	}
	rec.ProhibitedTypes = toStringList(row["prohibited_types"])
	if len(rec.ProhibitedTypes) == 0 {
		return FireworksRecord{}, listRequiredError("prohibited_types")
	}
	if rec.EnforcementNotes, err = requireString(row["enforcement_notes"], "enforcement_notes"); err != nil {
		return FireworksRecord{}, err
	}
	rec.CountyOverrides = toOverrides(row["county_overrides"], countyOverride)
	rec.CityOverrides = toOverrides(row["city_overrides"], cityOverride)
	rec.NotesPublic = maybeString(row["notes_public"])

	if err := ValidateRecord(rec); err != nil {
		return FireworksRecord{}, err
	}
	return rec, nil
}

func toJurisdictionLevel(value any) (string, error) {
	raw, err := requireString(value, "jurisdiction_level")
	if err != nil {
		return "", err
	}
	level := strings.ToLower(raw)
	switch level {
	case LevelState, LevelCounty, LevelCity:
		return level, nil
	}
	return "", errBadJurisdiction
}

// firstString returns the first non-nil candidate.
func firstString(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

// firstValue returns the first non-nil value.
func firstValue(candidates ...any) any {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}
