package topic

import (
	"errors"
	"fmt"
)

var (
	errRequiredCity    = errors.New("city is required for this record")
	errRequiredSource  = errors.New("source_title and source_url are required")
	errBadJurisdiction = errors.New("jurisdiction_level must be state, county, or city")
)

func requiredFieldError(field string) error {
	return fmt.Errorf("%s is required", field)
}

func listRequiredError(field string) error {
	return fmt.Errorf("%s must include at least one entry", field)
}
