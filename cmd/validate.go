// cmd/validate.go
//
// Normalize every dataset and report schema and consistency issues.
//
// Context
// -------
// Loading a dataset already runs per-record normalization and schema
// validation, so a topic that loads cleanly has passed those.  The audit
// pass then catches cross-record defects: duplicate slugs, recomputed-slug
// mismatches, unknown timezones, and future verification dates.  Exit code
// 1 means at least one issue anywhere.
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quiethoursguide/bylawdata/internal/audit"
	"github.com/quiethoursguide/bylawdata/internal/config"
	"github.com/quiethoursguide/bylawdata/internal/dataset"
	"github.com/quiethoursguide/bylawdata/internal/topic"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate all datasets and audit cross-record consistency.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Get()
		store := dataset.New(cfg.Data.Dir)
		now := time.Now()

		var loadErrors int
		var findings []audit.Finding
		run := func(topicID string, infos []audit.RecordInfo, count int, src topic.Source, err error) {
			if err != nil {
				loadErrors++
				fmt.Fprintf(os.Stderr, "%s: %v\n", topicID, err)
				zap.S().Errorw("dataset load failed", "topic", topicID, "err", err)
				return
			}
			fs := audit.Run(topicID, infos, now)
			findings = append(findings, fs...)
			zap.S().Infow("dataset validated",
				"topic", topicID, "records", count, "source", src, "findings", len(fs))
		}

		ctx := cmd.Context()
		run(collectQuietHours(ctx, store))
		run(collectParking(ctx, store))
		run(collectBulkTrash(ctx, store))
		run(collectFireworks(ctx, store))

		if len(findings) > 0 {
			printFindings(findings)
		}
		if loadErrors > 0 || len(findings) > 0 {
			return fmt.Errorf("validation failed: %d finding(s), %d dataset load error(s)",
				len(findings), loadErrors)
		}
		fmt.Println("all datasets valid")
		return nil
	},
}

func printFindings(findings []audit.Finding) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TOPIC\tRECORD\tSLUG KEY\tCHECK\tDETAIL")
	for _, f := range findings {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", f.Topic, f.Index, f.SlugKey, f.Check, f.Detail)
	}
	w.Flush()
}

//
// per-topic collectors: load, then project for auditing
//

func collectQuietHours(ctx context.Context, store *dataset.Store) (string, []audit.RecordInfo, int, topic.Source, error) {
	res, err := store.QuietHours(ctx)
	if err != nil {
		return dataset.TopicQuietHours, nil, 0, "", err
	}
	infos := make([]audit.RecordInfo, len(res.Records))
	for i, rec := range res.Records {
		infos[i] = audit.FromBase(i, rec.Base)
	}
	return dataset.TopicQuietHours, infos, len(infos), res.Source, nil
}

func collectParking(ctx context.Context, store *dataset.Store) (string, []audit.RecordInfo, int, topic.Source, error) {
	res, err := store.Parking(ctx)
	if err != nil {
		return dataset.TopicParking, nil, 0, "", err
	}
	infos := make([]audit.RecordInfo, len(res.Records))
	for i, rec := range res.Records {
		infos[i] = audit.FromBase(i, rec.Base)
	}
	return dataset.TopicParking, infos, len(infos), res.Source, nil
}

func collectBulkTrash(ctx context.Context, store *dataset.Store) (string, []audit.RecordInfo, int, topic.Source, error) {
	res, err := store.BulkTrash(ctx)
	if err != nil {
		return dataset.TopicBulkTrash, nil, 0, "", err
	}
	infos := make([]audit.RecordInfo, len(res.Records))
	for i, rec := range res.Records {
		infos[i] = audit.FromBase(i, rec.Base)
	}
	return dataset.TopicBulkTrash, infos, len(infos), res.Source, nil
}

func collectFireworks(ctx context.Context, store *dataset.Store) (string, []audit.RecordInfo, int, topic.Source, error) {
	res, err := store.Fireworks(ctx)
	if err != nil {
		return dataset.TopicFireworks, nil, 0, "", err
	}
	infos := make([]audit.RecordInfo, len(res.Records))
	for i, rec := range res.Records {
		infos[i] = audit.FromBase(i, rec.Base)
	}
	return dataset.TopicFireworks, infos, len(infos), res.Source, nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
