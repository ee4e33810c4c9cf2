// internal/dataset/export.go
//
// Artifact writers: CSV-to-JSON conversion and slug index files.
//
// Context
// -------
// The site builds from JSON artifacts.  Editors maintain CSV sheets; the
// convert pass normalizes each sheet and writes the JSON file the loaders
// prefer.  An existing JSON artifact is left alone unless force is set,
// so hand-edited JSON survives routine runs.
//
// Slug index files are derived from whatever source the loader resolves
// and are written pretty-printed, since they are committed and diffed.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/quiethoursguide/bylawdata/internal/topic"
)

// ConvertOutcome reports what the convert pass did for one topic.
type ConvertOutcome struct {
	Topic   string
	Written string // JSON artifact path, empty when skipped
	Records int
	Skipped bool
	Reason  string
}

// Convert normalizes each topic's CSV sheet into its JSON artifact.
// Topics whose JSON already exists are skipped unless force is set;
// topics without a CSV sheet are skipped with a reason.
func (s *Store) Convert(ctx context.Context, force bool) ([]ConvertOutcome, error) {
	outcomes := make([]ConvertOutcome, 0, 4)

	quiet, err := convertTopic(ctx, s.quiet, force)
	if err != nil {
		return outcomes, err
	}
	outcomes = append(outcomes, quiet)

	parking, err := convertTopic(ctx, s.parking, force)
	if err != nil {
		return outcomes, err
	}
	outcomes = append(outcomes, parking)

	bulk, err := convertTopic(ctx, s.bulk, force)
	if err != nil {
		return outcomes, err
	}
	outcomes = append(outcomes, bulk)

	fw, err := convertTopic(ctx, s.fireworks, force)
	if err != nil {
		return outcomes, err
	}
	outcomes = append(outcomes, fw)

	return outcomes, nil
}

func convertTopic[R any](ctx context.Context, l *loader[R], force bool) (ConvertOutcome, error) {
	out := ConvertOutcome{Topic: l.def.topic}
	jsonPath := filepath.Join(l.dir, l.def.jsonFile)
	csvPath := filepath.Join(l.dir, l.def.csvFile)

	if fileExists(jsonPath) && !force {
		out.Skipped = true
		out.Reason = "json artifact already present"
		return out, nil
	}
	if !fileExists(csvPath) {
		out.Skipped = true
		out.Reason = "no csv sheet"
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	records, err := l.readCSV(csvPath)
	if err != nil {
		return out, fmt.Errorf("convert %s: %w", l.def.topic, err)
	}
	if err := writePretty(jsonPath, records); err != nil {
		return out, fmt.Errorf("convert %s: %w", l.def.topic, err)
	}

	// Swap the normalized records in so follow-up passes in the same
	// process see the fresh artifact.  The JSON file on disk is now the
	// source of record, so the cached result is tagged accordingly.
	l.dataset.Store(&Result[R]{Records: records, Source: topic.SourceJSON})

	out.Written = jsonPath
	out.Records = len(records)
	zap.S().Infow("csv converted", "topic", l.def.topic, "file", jsonPath, "records", len(records))
	return out, nil
}

// IndexOutcome reports one written slug index artifact.
type IndexOutcome struct {
	Topic   string
	Written string
	Entries int
}

// WriteSlugIndexes derives and writes all four slug index artifacts.
func (s *Store) WriteSlugIndexes(ctx context.Context) ([]IndexOutcome, error) {
	outcomes := make([]IndexOutcome, 0, 4)

	quiet, err := writeIndex(ctx, s.quiet)
	if err != nil {
		return outcomes, err
	}
	outcomes = append(outcomes, quiet)

	parking, err := writeIndex(ctx, s.parking)
	if err != nil {
		return outcomes, err
	}
	outcomes = append(outcomes, parking)

	bulk, err := writeIndex(ctx, s.bulk)
	if err != nil {
		return outcomes, err
	}
	outcomes = append(outcomes, bulk)

	fw, err := writeIndex(ctx, s.fireworks)
	if err != nil {
		return outcomes, err
	}
	outcomes = append(outcomes, fw)

	return outcomes, nil
}

func writeIndex[R any](ctx context.Context, l *loader[R]) (IndexOutcome, error) {
	out := IndexOutcome{Topic: l.def.topic}

	idx, err := l.deriveIndex(ctx)
	if err != nil {
		return out, fmt.Errorf("index %s: %w", l.def.topic, err)
	}
	path := filepath.Join(l.dir, l.def.indexFile)
	if err := writePretty(path, idx); err != nil {
		return out, fmt.Errorf("index %s: %w", l.def.topic, err)
	}
	l.index.Store(&idx)

	out.Written = path
	out.Entries = len(idx)
	zap.S().Infow("slug index written", "topic", l.def.topic, "file", path, "entries", len(idx))
	return out, nil
}

func writePretty(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}
