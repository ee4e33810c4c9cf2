// internal/topic/schema.go
//
// Schema enforcement over go-playground/validator.
//
// Context
// -------
// The normalizers build candidate records; nothing downstream trusts a
// record until it has passed this layer.  Field rules live in the struct
// tags (model.go); the rules that span fields are registered here:
//
//   - city and city_slug are present together or absent together
//   - quiet-hours, parking, and bulk-trash records are city-level, so both
//     must be present, and quiet hours additionally promotes the shared
//     complaint/fine fields to required
//   - fireworks records carry a city exactly when jurisdiction_level is
//     "city"
//
// Failures surface as a ValidationError aggregating every violated rule
// with its field path, so the batch tooling can report all problems from
// one pass instead of stopping at the first.
//
// Notes
// -----
//   - time/tzdata is linked in so the `timezone` rule works on hosts
//     without a system zone database.
package topic

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var validate = newValidator()

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func newValidator() *validator.Validate {
	v := validator.New()

	must(v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}))

	v.RegisterStructValidation(quietHoursStructLevel, QuietHoursRecord{})
	v.RegisterStructValidation(parkingStructLevel, ParkingRecord{})
	v.RegisterStructValidation(bulkTrashStructLevel, BulkTrashRecord{})
	v.RegisterStructValidation(fireworksStructLevel, FireworksRecord{})

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

//
// cross-field rules
//

// citySlugConsistency reports when city and city_slug disagree on presence.
func citySlugConsistency(sl validator.StructLevel, b Base) {
	if b.City != nil && b.CitySlug == nil {
		sl.ReportError(b.CitySlug, "city_slug", "CitySlug", "required_with_city", "")
	}
	if b.City == nil && b.CitySlug != nil {
		sl.ReportError(b.CitySlug, "city_slug", "CitySlug", "excluded_without_city", "")
	}
}

// requireCityLevel reports when a city-level record is missing its city.
func requireCityLevel(sl validator.StructLevel, b Base) {
	if b.City == nil {
		sl.ReportError(b.City, "city", "City", "required", "")
	}
	if b.CitySlug == nil {
		sl.ReportError(b.CitySlug, "city_slug", "CitySlug", "required", "")
	}
}

func quietHoursStructLevel(sl validator.StructLevel) {
	rec := sl.Current().Interface().(QuietHoursRecord)
	citySlugConsistency(sl, rec.Base)
	requireCityLevel(sl, rec.Base)

	// Shared optional fields are mandatory for this topic.
	if rec.ComplaintChannel == nil {
		sl.ReportError(rec.ComplaintChannel, "complaint_channel", "ComplaintChannel", "required", "")
	}
	if rec.ComplaintURL == nil {
		sl.ReportError(rec.ComplaintURL, "complaint_url", "ComplaintURL", "required", "")
	}
	if rec.FineRange == nil {
		sl.ReportError(rec.FineRange, "fine_range", "FineRange", "required", "")
	}
}

func parkingStructLevel(sl validator.StructLevel) {
	rec := sl.Current().Interface().(ParkingRecord)
	citySlugConsistency(sl, rec.Base)
	requireCityLevel(sl, rec.Base)
}

func bulkTrashStructLevel(sl validator.StructLevel) {
	rec := sl.Current().Interface().(BulkTrashRecord)
	citySlugConsistency(sl, rec.Base)
	requireCityLevel(sl, rec.Base)
}

func fireworksStructLevel(sl validator.StructLevel) {
	rec := sl.Current().Interface().(FireworksRecord)
	citySlugConsistency(sl, rec.Base)

	if rec.JurisdictionLevel == LevelCity && rec.City == nil {
		sl.ReportError(rec.City, "city", "City", "required_for_city_level", "")
	}
	if rec.JurisdictionLevel != LevelCity && rec.City != nil {
		sl.ReportError(rec.City, "city", "City", "excluded_above_city_level", "")
	}
}

//
// aggregated error reporting
//

// Issue is one violated schema rule.
type Issue struct {
	Path    string // field path, e.g. "city_slug" or "templates.neighbor_message"
	Rule    string // validator tag that failed
	Message string
}

// ValidationError aggregates every schema issue found on one value.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.Message
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

// ValidateRecord checks one candidate record against its schema, returning
// a *ValidationError listing every violated rule.
func ValidateRecord(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fieldPath(fe.Namespace())
		issues = append(issues, Issue{
			Path:    path,
			Rule:    fe.Tag(),
			Message: fmt.Sprintf("%s failed rule %q", path, fe.Tag()),
		})
	}
	return &ValidationError{Issues: issues}
}

// fieldPath strips the record type prefix from a validator namespace and
// lowercases the segments to match the JSON field names.
func fieldPath(namespace string) string {
	segments := strings.Split(namespace, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}
	for i, s := range segments {
		segments[i] = toSnake(s)
	}
	return strings.Join(segments, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				prev := rune(s[i-1])
				if prev >= 'a' && prev <= 'z' {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidateDataset checks a whole dataset: at least one record, every record
// schema-valid.  The first failing record aborts with its index in the
// message; an empty dataset is a failure, not a valid state.
func ValidateDataset[R any](records []R) error {
	if len(records) == 0 {
		return errors.New("dataset must contain at least one record")
	}
	for i := range records {
		if err := ValidateRecord(records[i]); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}
