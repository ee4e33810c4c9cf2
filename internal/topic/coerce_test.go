package topic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBoolVocabulary(t *testing.T) {
	truthy := []any{true, 1, 1.0, "true", "1", "yes", "Y", " ON "}
	for _, v := range truthy {
		got, err := toBool(v, "flag")
		require.NoError(t, err, "value %v", v)
		assert.True(t, got, "value %v", v)
	}

	falsy := []any{false, 0, 0.0, "false", "0", "no", "N", "off"}
	for _, v := range falsy {
		got, err := toBool(v, "flag")
		require.NoError(t, err, "value %v", v)
		assert.False(t, got, "value %v", v)
	}

	_, err := toBool("maybe", "flag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag")
}

func TestToTriStateSentinel(t *testing.T) {
	got, err := toTriState("  Varies ", "overnight_parking_allowed", TriVaries)
	require.NoError(t, err)
	assert.Equal(t, TriVaries, got)

	got, err = toTriState("yes", "overnight_parking_allowed", TriVaries)
	require.NoError(t, err)
	assert.Equal(t, TriTrue, got)

	// "restricted" is not a parking sentinel, so it falls through to the
	// boolean vocabulary and fails there.
	_, err = toTriState("restricted", "overnight_parking_allowed", TriVaries)
	assert.Error(t, err)

	got, err = toTriState("RESTRICTED", "allowed_consumer_fireworks", TriRestricted)
	require.NoError(t, err)
	assert.Equal(t, TriRestricted, got)
}

func TestToNumberSeparatorsAndSilence(t *testing.T) {
	require.NotNil(t, toNumber("1,250"))
	assert.Equal(t, 1250.0, *toNumber("1,250"))
	assert.Equal(t, 1250.0, *toNumber("1_250"))
	assert.Equal(t, 55.0, *toNumber(55))
	assert.Equal(t, 55.5, *toNumber(55.5))

	assert.Nil(t, toNumber(nil))
	assert.Nil(t, toNumber(""))
	assert.Nil(t, toNumber("n/a"))
}

func TestToStringListDelimiters(t *testing.T) {
	assert.Equal(t,
		[]string{"Furniture", "Mattresses", "Carpets"},
		toStringList("Furniture\nMattresses|Carpets"))
	assert.Equal(t,
		[]string{"a", "b"},
		toStringList(" a ,, b "))
	assert.Equal(t,
		[]string{"x", "y"},
		toStringList([]any{"x", "", "y"}))
	assert.Nil(t, toStringList(nil))
	assert.Empty(t, toStringList("  ,  "))
}

func TestToOverridesStringGrammar(t *testing.T) {
	got := toOverrides("Travis County: aerial ban during drought|Harris County: zones: 600 ft from schools", countyOverride)
	require.Len(t, got, 2)
	assert.Equal(t, "Travis County", got[0].County)
	assert.Equal(t, "aerial ban during drought", got[0].Rules)
	// Rule text keeps colons past the first.
	assert.Equal(t, "zones: 600 ft from schools", got[1].Rules)
}

func TestToOverridesDropsMalformedSegments(t *testing.T) {
	got := toOverrides("no colon here|Austin: banned", cityOverride)
	require.Len(t, got, 1)
	assert.Equal(t, "Austin", got[0].City)

	assert.Nil(t, toOverrides("no colon at all", cityOverride))
	assert.Nil(t, toOverrides(nil, cityOverride))
}

func TestToOverridesStructured(t *testing.T) {
	got := toOverrides([]any{
		map[string]any{"city": "Phoenix", "rules": "aerial items banned"},
		map[string]any{"rules": "missing name"},
	}, cityOverride)
	require.Len(t, got, 1)
	assert.Equal(t, "Phoenix", got[0].City)
	assert.Equal(t, "aerial items banned", got[0].Rules)
}

func TestNormalizeDateLayouts(t *testing.T) {
	for _, in := range []any{
		"2025-06-14",
		"2025/06/14",
		"June 14, 2025",
		"2025-06-14 09:30:00",
		time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC),
	} {
		got, err := normalizeDate(in, "last_verified")
		require.NoError(t, err, "value %v", in)
		assert.Equal(t, "2025-06-14", got)
	}

	_, err := normalizeDate("tomorrow", "last_verified")
	assert.Error(t, err)
	_, err = normalizeDate(nil, "last_verified")
	assert.Error(t, err)
}
