package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiethoursguide/bylawdata/internal/topic"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New("testdata")
}

// copyTestdata clones the fixture directory so tests can write artifacts.
func copyTestdata(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	entries, err := os.ReadDir("testdata")
	require.NoError(t, err)
	for _, e := range entries {
		raw, err := os.ReadFile(filepath.Join("testdata", e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), raw, 0o644))
	}
	return dir
}

func TestLoadPrefersJSON(t *testing.T) {
	res, err := testStore(t).QuietHours(context.Background())
	require.NoError(t, err)
	assert.Equal(t, topic.SourceJSON, res.Source)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Toronto", *res.Records[0].City)
	assert.Equal(t,
		"311 Toronto (Municipal Licensing & Standards); Police for disorderly parties.",
		*res.Records[0].ComplaintChannel)
}

func TestLoadFallsBackToCSV(t *testing.T) {
	res, err := testStore(t).Parking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, topic.SourceCSV, res.Source)
	require.Len(t, res.Records, 2)

	toronto := res.Records[0]
	assert.Equal(t, topic.TriVaries, toronto.OvernightParkingAllowed)
	assert.True(t, toronto.PermitRequired)
	assert.Equal(t, "canada", toronto.CountrySlug)
}

func TestLoadMissingSources(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.QuietHours(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data source found")
	assert.Contains(t, err.Error(), quietHoursJSON)
	assert.Contains(t, err.Error(), quietHoursCSV)
}

func TestLoadIsMemoized(t *testing.T) {
	store := testStore(t)
	first, err := store.BulkTrash(context.Background())
	require.NoError(t, err)
	second, err := store.BulkTrash(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoadRejectsWholeDatasetOnOneBadRecord(t *testing.T) {
	dir := copyTestdata(t)
	bad := `[{"country": "US", "region": "Texas"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, quietHoursJSON), []byte(bad), 0o644))

	_, err := New(dir).QuietHours(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 0")
}

func TestSlugIndexPrefersPrecomputedArtifact(t *testing.T) {
	idx, err := testStore(t).BulkTrashSlugIndex(context.Background())
	require.NoError(t, err)
	loc, ok := idx["united-states__arizona__phoenix"]
	require.True(t, ok)
	// The fixture artifact carries a marker city so a derived index would
	// not match.
	assert.Equal(t, "Phoenix (precomputed)", *loc.City)
}

func TestSlugIndexDerivedFromDataset(t *testing.T) {
	store := testStore(t)

	idx, err := store.QuietHoursSlugIndex(context.Background())
	require.NoError(t, err)
	require.Len(t, idx, 2)
	loc, ok := idx["canada__ontario__toronto"]
	require.True(t, ok)
	assert.Equal(t, "Toronto", *loc.City)

	fw, err := store.FireworksSlugIndex(context.Background())
	require.NoError(t, err)
	_, ok = fw["united-states__texas__region-root"]
	assert.True(t, ok, "region-level record keys with the sentinel")
	_, ok = fw["united-states__texas__austin"]
	assert.True(t, ok)
}

func TestBySlugLookups(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	rec, ok, err := store.QuietHoursBySlug(ctx, "canada", "ontario", "toronto")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Toronto", *rec.City)

	_, ok, err = store.QuietHoursBySlug(ctx, "canada", "ontario", "ottawa")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFireworksBySlugRegionRoot(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	rec, ok, err := store.FireworksBySlug(ctx, "united-states", "texas", "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, topic.LevelState, rec.JurisdictionLevel)
	assert.Nil(t, rec.City)

	rec, ok, err = store.FireworksBySlug(ctx, "united-states", "texas", "austin")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, topic.LevelCity, rec.JurisdictionLevel)

	_, ok, err = store.FireworksBySlug(ctx, "united-states", "texas", "houston")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConvertWritesAndSkips(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	csv, err := os.ReadFile(filepath.Join("testdata", parkingCSV))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, parkingCSV), csv, 0o644))

	store := New(dir)
	outcomes, err := store.Convert(ctx, false)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)
	for _, o := range outcomes {
		if o.Topic == "parking rules" {
			assert.False(t, o.Skipped)
			assert.Equal(t, 2, o.Records)
			assert.FileExists(t, o.Written)
		} else {
			assert.True(t, o.Skipped)
			assert.Equal(t, "no csv sheet", o.Reason)
		}
	}

	// The same store's cache now reflects the written artifact, not the
	// sheet it was converted from.
	cached, err := store.Parking(ctx)
	require.NoError(t, err)
	assert.Equal(t, topic.SourceJSON, cached.Source)

	// A second pass leaves the fresh artifact alone.
	outcomes, err = New(dir).Convert(ctx, false)
	require.NoError(t, err)
	for _, o := range outcomes {
		assert.True(t, o.Skipped)
	}

	// Force rewrites it.
	outcomes, err = New(dir).Convert(ctx, true)
	require.NoError(t, err)
	for _, o := range outcomes {
		if o.Topic == "parking rules" {
			assert.False(t, o.Skipped)
		}
	}

	// The converted artifact loads back as JSON.
	res, err := New(dir).Parking(ctx)
	require.NoError(t, err)
	assert.Equal(t, topic.SourceJSON, res.Source)
	assert.Len(t, res.Records, 2)
}

func TestWriteSlugIndexes(t *testing.T) {
	ctx := context.Background()
	dir := copyTestdata(t)

	outcomes, err := New(dir).WriteSlugIndexes(ctx)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)
	for _, o := range outcomes {
		assert.FileExists(t, o.Written)
		assert.Greater(t, o.Entries, 0)
	}

	// A fresh store trusts the written artifacts.
	idx, err := New(dir).FireworksSlugIndex(ctx)
	require.NoError(t, err)
	assert.Len(t, idx, 2)
}
