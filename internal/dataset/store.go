// internal/dataset/store.go
//
// Store: the four topic loaders behind one read API.
//
// Context
// -------
// A Store owns one loader per topic family, all rooted at the same data
// directory.  Page generation, the batch CLIs, and the JSON API read
// exclusively through it.  By-slug lookups scan the cached dataset —
// datasets are tens to low hundreds of records, so a linear scan is fine
// and keeps the slug index artifact free for existence checks.
//
// A missing record is a normal outcome for speculative URLs, so lookups
// return (zero, false, nil) rather than an error; errors mean the dataset
// itself failed to load.
package dataset

import (
	"context"

	"github.com/quiethoursguide/bylawdata/internal/metrics"
	"github.com/quiethoursguide/bylawdata/internal/topic"
)

// Topic identifiers as they appear in site paths.
const (
	TopicQuietHours = "quiet-hours"
	TopicParking    = "parking-rules"
	TopicBulkTrash  = "bulk-trash"
	TopicFireworks  = "fireworks"
)

// Artifact filenames per topic, relative to the data directory.
const (
	quietHoursJSON  = "quiet_hours.json"
	quietHoursCSV   = "quiet_hours.csv"
	quietHoursIndex = "quietHoursSlugIndex.json"

	parkingJSON  = "parking_rules.json"
	parkingCSV   = "parking_rules.csv"
	parkingIndex = "parkingSlugIndex.json"

	bulkTrashJSON  = "bulk_trash.json"
	bulkTrashCSV   = "bulk_trash.csv"
	bulkTrashIndex = "bulkTrashSlugIndex.json"

	fireworksJSON  = "fireworks.json"
	fireworksCSV   = "fireworks.csv"
	fireworksIndex = "fireworksSlugIndex.json"
)

// Store exposes the read/query API over the four topic datasets.
type Store struct {
	dir string

	quiet     *loader[topic.QuietHoursRecord]
	parking   *loader[topic.ParkingRecord]
	bulk      *loader[topic.BulkTrashRecord]
	fireworks *loader[topic.FireworksRecord]

	hero heroMap
}

// New builds a Store rooted at dir.  Nothing is read until first query.
func New(dir string) *Store {
	return &Store{
		dir: dir,
		quiet: newLoader(dir, definition[topic.QuietHoursRecord]{
			topic:     "quiet hours",
			jsonFile:  quietHoursJSON,
			csvFile:   quietHoursCSV,
			indexFile: quietHoursIndex,
			normalize: topic.NormalizeQuietHours,
			location:  func(r topic.QuietHoursRecord) topic.LocationSummary { return r.Location() },
		}),
		parking: newLoader(dir, definition[topic.ParkingRecord]{
			topic:     "parking rules",
			jsonFile:  parkingJSON,
			csvFile:   parkingCSV,
			indexFile: parkingIndex,
			normalize: topic.NormalizeParking,
			location:  func(r topic.ParkingRecord) topic.LocationSummary { return r.Location() },
		}),
		bulk: newLoader(dir, definition[topic.BulkTrashRecord]{
			topic:     "bulk trash",
			jsonFile:  bulkTrashJSON,
			csvFile:   bulkTrashCSV,
			indexFile: bulkTrashIndex,
			normalize: topic.NormalizeBulkTrash,
			location:  func(r topic.BulkTrashRecord) topic.LocationSummary { return r.Location() },
		}),
		fireworks: newLoader(dir, definition[topic.FireworksRecord]{
			topic:     "fireworks",
			jsonFile:  fireworksJSON,
			csvFile:   fireworksCSV,
			indexFile: fireworksIndex,
			normalize: topic.NormalizeFireworks,
			location:  func(r topic.FireworksRecord) topic.LocationSummary { return r.Location() },
		}),
	}
}

// Dir reports the data directory the store reads from.
func (s *Store) Dir() string { return s.dir }

//
// full-dataset accessors
//

func (s *Store) QuietHours(ctx context.Context) (*Result[topic.QuietHoursRecord], error) {
	return s.quiet.load(ctx)
}

func (s *Store) Parking(ctx context.Context) (*Result[topic.ParkingRecord], error) {
	return s.parking.load(ctx)
}

func (s *Store) BulkTrash(ctx context.Context) (*Result[topic.BulkTrashRecord], error) {
	return s.bulk.load(ctx)
}

func (s *Store) Fireworks(ctx context.Context) (*Result[topic.FireworksRecord], error) {
	return s.fireworks.load(ctx)
}

//
// slug indexes
//

func (s *Store) QuietHoursSlugIndex(ctx context.Context) (topic.SlugIndex, error) {
	return s.quiet.slugIndex(ctx)
}

func (s *Store) ParkingSlugIndex(ctx context.Context) (topic.SlugIndex, error) {
	return s.parking.slugIndex(ctx)
}

func (s *Store) BulkTrashSlugIndex(ctx context.Context) (topic.SlugIndex, error) {
	return s.bulk.slugIndex(ctx)
}

func (s *Store) FireworksSlugIndex(ctx context.Context) (topic.SlugIndex, error) {
	return s.fireworks.slugIndex(ctx)
}

//
// by-slug lookups
//

// QuietHoursBySlug finds the city record addressed by the slug triple.
func (s *Store) QuietHoursBySlug(ctx context.Context, countrySlug, regionSlug, citySlug string) (topic.QuietHoursRecord, bool, error) {
	res, err := s.quiet.load(ctx)
	if err != nil {
		return topic.QuietHoursRecord{}, false, err
	}
	metrics.RecordLookupTotal.Inc()
	for _, rec := range res.Records {
		if matchCity(rec.Base, countrySlug, regionSlug, citySlug) {
			return rec, true, nil
		}
	}
	return topic.QuietHoursRecord{}, false, nil
}

// ParkingBySlug finds the city record addressed by the slug triple.
func (s *Store) ParkingBySlug(ctx context.Context, countrySlug, regionSlug, citySlug string) (topic.ParkingRecord, bool, error) {
	res, err := s.parking.load(ctx)
	if err != nil {
		return topic.ParkingRecord{}, false, err
	}
	metrics.RecordLookupTotal.Inc()
	for _, rec := range res.Records {
		if matchCity(rec.Base, countrySlug, regionSlug, citySlug) {
			return rec, true, nil
		}
	}
	return topic.ParkingRecord{}, false, nil
}

// BulkTrashBySlug finds the city record addressed by the slug triple.
func (s *Store) BulkTrashBySlug(ctx context.Context, countrySlug, regionSlug, citySlug string) (topic.BulkTrashRecord, bool, error) {
	res, err := s.bulk.load(ctx)
	if err != nil {
		return topic.BulkTrashRecord{}, false, err
	}
	metrics.RecordLookupTotal.Inc()
	for _, rec := range res.Records {
		if matchCity(rec.Base, countrySlug, regionSlug, citySlug) {
			return rec, true, nil
		}
	}
	return topic.BulkTrashRecord{}, false, nil
}

// FireworksBySlug finds a fireworks record.  An empty citySlug selects the
// region-level record (the one with no city), never an arbitrary city.
func (s *Store) FireworksBySlug(ctx context.Context, countrySlug, regionSlug, citySlug string) (topic.FireworksRecord, bool, error) {
	res, err := s.fireworks.load(ctx)
	if err != nil {
		return topic.FireworksRecord{}, false, err
	}
	metrics.RecordLookupTotal.Inc()
	for _, rec := range res.Records {
		if rec.CountrySlug != countrySlug || rec.RegionSlug != regionSlug {
			continue
		}
		if citySlug == "" {
			if rec.CitySlug == nil {
				return rec, true, nil
			}
			continue
		}
		if rec.CitySlug != nil && *rec.CitySlug == citySlug {
			return rec, true, nil
		}
	}
	return topic.FireworksRecord{}, false, nil
}

func matchCity(b topic.Base, countrySlug, regionSlug, citySlug string) bool {
	return b.CountrySlug == countrySlug &&
		b.RegionSlug == regionSlug &&
		b.CitySlug != nil && *b.CitySlug == citySlug
}
