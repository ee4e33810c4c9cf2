// internal/dataset/queries.go
//
// Groupings, search index, sitemap paths, and hero images.
//
// Context
// -------
// Country, region, and city listing pages are rendered from grouped
// projections of the datasets.  Groupings sort by display name and carry
// the most recent last-verified date in the group; dates are ISO
// YYYY-MM-DD strings, so lexicographic max is chronological max.
//
// Fireworks groups differently from the city topics: a region page exists
// when either a region-level record or at least one city record does, and
// the summary says which.
package dataset

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/quiethoursguide/bylawdata/internal/geo"
	"github.com/quiethoursguide/bylawdata/internal/search"
	"github.com/quiethoursguide/bylawdata/internal/slug"
	"github.com/quiethoursguide/bylawdata/internal/topic"
)

const heroImagesFile = "heroImages.json"

// CountrySummary backs a topic's country listing page.
type CountrySummary struct {
	Country      string `json:"country"`
	CountrySlug  string `json:"country_slug"`
	RegionCount  int    `json:"region_count"`
	CityCount    int    `json:"city_count"`
	LastVerified string `json:"last_verified"`
}

// RegionSummary backs a country page's region listing.
type RegionSummary struct {
	Region       string `json:"region"`
	RegionSlug   string `json:"region_slug"`
	CityCount    int    `json:"city_count"`
	LastVerified string `json:"last_verified"`
}

// CitySummary backs a region page's city listing.
type CitySummary struct {
	City         string `json:"city"`
	CitySlug     string `json:"city_slug"`
	LastVerified string `json:"last_verified"`
}

// FireworksRegionSummary backs the fireworks country page, where a region
// may carry a state-level rule, city rules, or both.
type FireworksRegionSummary struct {
	Region       string `json:"region"`
	RegionSlug   string `json:"region_slug"`
	HasStateRule bool   `json:"has_state_rule"`
	CityCount    int    `json:"city_count"`
	LastVerified string `json:"last_verified"`
}

func projectLocations[R any](records []R, loc func(R) topic.LocationSummary) []topic.LocationSummary {
	out := make([]topic.LocationSummary, len(records))
	for i, r := range records {
		out[i] = loc(r)
	}
	return out
}

func maxDate(cur, next string) string {
	if next > cur {
		return next
	}
	return cur
}

func summarizeCountries(locs []topic.LocationSummary) []CountrySummary {
	byCountry := map[string]*CountrySummary{}
	regions := map[string]map[string]bool{}
	for _, l := range locs {
		cs, ok := byCountry[l.CountrySlug]
		if !ok {
			// Records carry the ISO code; listings publish the display name.
			cs = &CountrySummary{Country: geo.CountryName(l.Country), CountrySlug: l.CountrySlug}
			byCountry[l.CountrySlug] = cs
			regions[l.CountrySlug] = map[string]bool{}
		}
		regions[l.CountrySlug][l.RegionSlug] = true
		cs.CityCount++
		cs.LastVerified = maxDate(cs.LastVerified, l.LastVerified)
	}
	out := make([]CountrySummary, 0, len(byCountry))
	for key, cs := range byCountry {
		cs.RegionCount = len(regions[key])
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

func summarizeRegions(locs []topic.LocationSummary, countrySlug string) []RegionSummary {
	byRegion := map[string]*RegionSummary{}
	for _, l := range locs {
		if l.CountrySlug != countrySlug {
			continue
		}
		rs, ok := byRegion[l.RegionSlug]
		if !ok {
			rs = &RegionSummary{Region: l.Region, RegionSlug: l.RegionSlug}
			byRegion[l.RegionSlug] = rs
		}
		rs.CityCount++
		rs.LastVerified = maxDate(rs.LastVerified, l.LastVerified)
	}
	out := make([]RegionSummary, 0, len(byRegion))
	for _, rs := range byRegion {
		out = append(out, *rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

func summarizeCities(locs []topic.LocationSummary, countrySlug, regionSlug string) []CitySummary {
	var out []CitySummary
	for _, l := range locs {
		if l.CountrySlug != countrySlug || l.RegionSlug != regionSlug || l.City == nil || l.CitySlug == nil {
			continue
		}
		out = append(out, CitySummary{
			City:         *l.City,
			CitySlug:     *l.CitySlug,
			LastVerified: l.LastVerified,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].City < out[j].City })
	return out
}

//
// per-topic groupings
//

func (s *Store) QuietHoursCountries(ctx context.Context) ([]CountrySummary, error) {
	res, err := s.quiet.load(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeCountries(projectLocations(res.Records, s.quiet.def.location)), nil
}

func (s *Store) QuietHoursRegions(ctx context.Context, countrySlug string) ([]RegionSummary, error) {
	res, err := s.quiet.load(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeRegions(projectLocations(res.Records, s.quiet.def.location), countrySlug), nil
}

func (s *Store) QuietHoursCities(ctx context.Context, countrySlug, regionSlug string) ([]CitySummary, error) {
	res, err := s.quiet.load(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeCities(projectLocations(res.Records, s.quiet.def.location), countrySlug, regionSlug), nil
}

func (s *Store) ParkingCountries(ctx context.Context) ([]CountrySummary, error) {
	res, err := s.parking.load(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeCountries(projectLocations(res.Records, s.parking.def.location)), nil
}

func (s *Store) ParkingRegions(ctx context.Context, countrySlug string) ([]RegionSummary, error) {
	res, err := s.parking.load(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeRegions(projectLocations(res.Records, s.parking.def.location), countrySlug), nil
}

func (s *Store) ParkingCities(ctx context.Context, countrySlug, regionSlug string) ([]CitySummary, error) {
	res, err := s.parking.load(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeCities(projectLocations(res.Records, s.parking.def.location), countrySlug, regionSlug), nil
}

func (s *Store) BulkTrashCountries(ctx context.Context) ([]CountrySummary, error) {
	res, err := s.bulk.load(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeCountries(projectLocations(res.Records, s.bulk.def.location)), nil
}

func (s *Store) BulkTrashRegions(ctx context.Context, countrySlug string) ([]RegionSummary, error) {
	res, err := s.bulk.load(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeRegions(projectLocations(res.Records, s.bulk.def.location), countrySlug), nil
}

func (s *Store) BulkTrashCities(ctx context.Context, countrySlug, regionSlug string) ([]CitySummary, error) {
	res, err := s.bulk.load(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeCities(projectLocations(res.Records, s.bulk.def.location), countrySlug, regionSlug), nil
}

func (s *Store) FireworksCountries(ctx context.Context) ([]CountrySummary, error) {
	res, err := s.fireworks.load(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeCountries(projectLocations(res.Records, s.fireworks.def.location)), nil
}

// FireworksRegions lists a country's regions with their rule shape.
func (s *Store) FireworksRegions(ctx context.Context, countrySlug string) ([]FireworksRegionSummary, error) {
	res, err := s.fireworks.load(ctx)
	if err != nil {
		return nil, err
	}
	byRegion := map[string]*FireworksRegionSummary{}
	for _, rec := range res.Records {
		if rec.CountrySlug != countrySlug {
			continue
		}
		rs, ok := byRegion[rec.RegionSlug]
		if !ok {
			rs = &FireworksRegionSummary{Region: rec.Region, RegionSlug: rec.RegionSlug}
			byRegion[rec.RegionSlug] = rs
		}
		if rec.CitySlug == nil {
			rs.HasStateRule = true
		} else {
			rs.CityCount++
		}
		rs.LastVerified = maxDate(rs.LastVerified, rec.LastVerified)
	}
	out := make([]FireworksRegionSummary, 0, len(byRegion))
	for _, rs := range byRegion {
		out = append(out, *rs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out, nil
}

func (s *Store) FireworksCities(ctx context.Context, countrySlug, regionSlug string) ([]CitySummary, error) {
	res, err := s.fireworks.load(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeCities(projectLocations(res.Records, s.fireworks.def.location), countrySlug, regionSlug), nil
}

//
// search index and sitemap
//

func cityLabel(l topic.LocationSummary) string {
	country := geo.CountryName(l.Country)
	if l.City != nil {
		return *l.City + ", " + l.Region + ", " + country
	}
	return l.Region + ", " + country
}

func cityPath(topicID string, l topic.LocationSummary) string {
	p := "/" + topicID + "/" + l.CountrySlug + "/" + l.RegionSlug
	if l.CitySlug != nil {
		p += "/" + *l.CitySlug
	}
	return p
}

// SearchIndex flattens every published page across the four topics into
// search entries.
func (s *Store) SearchIndex(ctx context.Context) ([]search.Entry, error) {
	var entries []search.Entry
	add := func(topicID string, locs []topic.LocationSummary) {
		for _, l := range locs {
			entries = append(entries, search.Entry{
				Topic: topicID,
				Label: cityLabel(l),
				Path:  cityPath(topicID, l),
			})
		}
	}

	quiet, err := s.quiet.load(ctx)
	if err != nil {
		return nil, err
	}
	add(TopicQuietHours, projectLocations(quiet.Records, s.quiet.def.location))

	parking, err := s.parking.load(ctx)
	if err != nil {
		return nil, err
	}
	add(TopicParking, projectLocations(parking.Records, s.parking.def.location))

	bulk, err := s.bulk.load(ctx)
	if err != nil {
		return nil, err
	}
	add(TopicBulkTrash, projectLocations(bulk.Records, s.bulk.def.location))

	fw, err := s.fireworks.load(ctx)
	if err != nil {
		return nil, err
	}
	add(TopicFireworks, projectLocations(fw.Records, s.fireworks.def.location))

	return entries, nil
}

// SitemapPaths returns every canonical page path, deduplicated and sorted.
// Listing pages (topic roots, countries, regions) are derived from the
// record paths.
func (s *Store) SitemapPaths(ctx context.Context) ([]string, error) {
	entries, err := s.SearchIndex(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{"/": true}
	for _, e := range entries {
		seen["/"+e.Topic] = true
		parts := strings.Split(strings.TrimPrefix(e.Path, "/"), "/")
		for i := 2; i <= len(parts); i++ {
			seen["/"+strings.Join(parts[:i], "/")] = true
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

//
// hero images
//

type heroMap struct {
	once   sync.Once
	images map[string]string
}

func (h *heroMap) load(dir string) {
	h.once.Do(func() {
		h.images = map[string]string{}
		raw, err := os.ReadFile(filepath.Join(dir, heroImagesFile))
		if err != nil {
			return
		}
		// A malformed file degrades to per-record fallbacks.
		_ = json.Unmarshal(raw, &h.images)
	})
}

// HeroImage resolves the hero image URL for a location.  The curated map
// wins; otherwise the quiet-hours record's own URL is used; otherwise the
// result is empty and the page renders without a hero.
func (s *Store) HeroImage(ctx context.Context, countrySlug, regionSlug, citySlug string) string {
	s.hero.load(s.dir)
	key := slug.BuildSlugKey(countrySlug, regionSlug, citySlug)
	if url, ok := s.hero.images[key]; ok && url != "" {
		return url
	}
	rec, ok, err := s.QuietHoursBySlug(ctx, countrySlug, regionSlug, citySlug)
	if err != nil || !ok || rec.HeroImageURL == nil {
		return ""
	}
	return *rec.HeroImageURL
}
