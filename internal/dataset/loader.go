// internal/dataset/loader.go
//
// Lazy, memoized per-topic dataset loader.
//
// Context
// -------
// Each topic owns two on-disk artifacts under the data directory: a
// compiled JSON dataset (preferred) with a CSV source as fallback, plus an
// optional precomputed slug index.  The loader resolves whichever exists,
// runs every record through the topic normalizer (idempotent for the
// compiled artifact), validates the whole dataset, and caches the result
// for the process lifetime.
//
// Concurrency
// -----------
// First caller wins; concurrent callers share the in-flight load through a
// singleflight group, with an atomic pointer double-check on both sides of
// the barrier.  There is no invalidation path — a new process picks up
// on-disk changes.
//
// Failure semantics
// -----------------
// Loads are atomic: one malformed record, a schema violation, or a missing
// source fails the whole topic.  Readers never see a partial dataset.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/quiethoursguide/bylawdata/internal/metrics"
	"github.com/quiethoursguide/bylawdata/internal/slug"
	"github.com/quiethoursguide/bylawdata/internal/topic"
)

// Result is a loaded, validated dataset tagged with its artifact kind.
type Result[R any] struct {
	Records []R
	Source  topic.Source
}

// definition wires one topic family into the generic loader.
type definition[R any] struct {
	topic     string
	jsonFile  string
	csvFile   string
	indexFile string
	normalize func(map[string]any) (R, error)
	location  func(R) topic.LocationSummary
}

type loader[R any] struct {
	def definition[R]
	dir string

	sfg     singleflight.Group
	dataset atomic.Pointer[Result[R]]
	index   atomic.Pointer[topic.SlugIndex]
}

func newLoader[R any](dir string, def definition[R]) *loader[R] {
	return &loader[R]{def: def, dir: dir}
}

// load returns the memoized dataset, reading and validating it on first use.
func (l *loader[R]) load(ctx context.Context) (*Result[R], error) {
	if res := l.dataset.Load(); res != nil {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := l.sfg.Do("dataset", func() (any, error) {
		// Double-check after the singleflight barrier.
		if res := l.dataset.Load(); res != nil {
			return res, nil
		}
		res, err := l.read()
		if err != nil {
			metrics.DatasetLoadErrorsTotal.Inc()
			zap.S().Errorw("dataset load failed", "topic", l.def.topic, "err", err)
			return nil, err
		}
		l.dataset.Store(res)
		metrics.DatasetLoadTotal.Inc()
		metrics.DatasetsLoaded.Inc()
		zap.S().Infow("dataset loaded",
			"topic", l.def.topic,
			"source", res.Source,
			"records", len(res.Records),
		)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result[R]), nil
}

// read resolves the JSON-else-CSV source and normalizes it.
func (l *loader[R]) read() (*Result[R], error) {
	jsonPath := filepath.Join(l.dir, l.def.jsonFile)
	if fileExists(jsonPath) {
		records, err := l.readJSON(jsonPath)
		if err != nil {
			return nil, err
		}
		return &Result[R]{Records: records, Source: topic.SourceJSON}, nil
	}

	csvPath := filepath.Join(l.dir, l.def.csvFile)
	if fileExists(csvPath) {
		records, err := l.readCSV(csvPath)
		if err != nil {
			return nil, err
		}
		return &Result[R]{Records: records, Source: topic.SourceCSV}, nil
	}

	return nil, fmt.Errorf("no data source found for %s: expected %s or %s",
		l.def.topic, l.def.jsonFile, l.def.csvFile)
}

func (l *loader[R]) readJSON(path string) ([]R, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l.normalizeRows(rows)
}

func (l *loader[R]) readCSV(path string) ([]R, error) {
	rows, err := readCSVRows(path)
	if err != nil {
		return nil, err
	}
	return l.normalizeRows(rows)
}

func (l *loader[R]) normalizeRows(rows []map[string]any) ([]R, error) {
	records := make([]R, 0, len(rows))
	for i, row := range rows {
		rec, err := l.def.normalize(row)
		if err != nil {
			return nil, fmt.Errorf("%s record %d: %w", l.def.topic, i, err)
		}
		records = append(records, rec)
	}
	if err := topic.ValidateDataset(records); err != nil {
		return nil, fmt.Errorf("%s: %w", l.def.topic, err)
	}
	return records, nil
}

// slugIndex returns the memoized slug index, preferring the precomputed
// artifact and deriving from the dataset otherwise.
func (l *loader[R]) slugIndex(ctx context.Context) (topic.SlugIndex, error) {
	if idx := l.index.Load(); idx != nil {
		return *idx, nil
	}

	v, err, _ := l.sfg.Do("index", func() (any, error) {
		if idx := l.index.Load(); idx != nil {
			return *idx, nil
		}

		indexPath := filepath.Join(l.dir, l.def.indexFile)
		if fileExists(indexPath) {
			raw, err := os.ReadFile(indexPath)
			if err != nil {
				return nil, err
			}
			var idx topic.SlugIndex
			if err := json.Unmarshal(raw, &idx); err != nil {
				return nil, fmt.Errorf("%s: %w", indexPath, err)
			}
			l.index.Store(&idx)
			metrics.SlugIndexBuildTotal.Inc()
			return idx, nil
		}

		idx, err := l.deriveIndex(ctx)
		if err != nil {
			return nil, err
		}
		l.index.Store(&idx)
		metrics.SlugIndexBuildTotal.Inc()
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(topic.SlugIndex), nil
}

// deriveIndex projects the loaded dataset into composite-key summaries.
func (l *loader[R]) deriveIndex(ctx context.Context) (topic.SlugIndex, error) {
	res, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(topic.SlugIndex, len(res.Records))
	for _, rec := range res.Records {
		loc := l.def.location(rec)
		key := slug.BuildSlugKey(loc.CountrySlug, loc.RegionSlug, deref(loc.CitySlug))
		idx[key] = loc
	}
	return idx, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
