package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountryName(t *testing.T) {
	assert.Equal(t, "Canada", CountryName("CA"))
	assert.Equal(t, "United States", CountryName("US"))
	assert.Equal(t, "Germany", CountryName("DE"))

	// Case and whitespace are normalized before lookup.
	assert.Equal(t, "Canada", CountryName(" ca "))
}

func TestCountryNameUnknownFallsBackToInput(t *testing.T) {
	assert.Equal(t, "??", CountryName("??"))
	assert.Equal(t, "", CountryName(""))
	assert.Equal(t, "USA1", CountryName("USA1"))
}
