// cmd/convert.go
//
// Convert CSV sheets into the JSON artifacts the site builds from.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quiethoursguide/bylawdata/internal/config"
	"github.com/quiethoursguide/bylawdata/internal/dataset"
)

var convertForce bool

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Normalize CSV sheets into JSON artifacts.",
	Long: `convert reads each topic's CSV sheet, normalizes and validates every
record, and writes the JSON artifact.  Existing JSON artifacts are left
untouched unless --force (or BYLAW_CONVERT__FORCE=true) is set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Get()
		force := convertForce || cfg.Convert.Force

		store := dataset.New(cfg.Data.Dir)
		outcomes, err := store.Convert(cmd.Context(), force)
		for _, o := range outcomes {
			if o.Skipped {
				fmt.Printf("%-14s skipped (%s)\n", o.Topic, o.Reason)
				continue
			}
			fmt.Printf("%-14s wrote %d records to %s\n", o.Topic, o.Records, o.Written)
		}
		if err != nil {
			zap.S().Errorw("convert failed", "err", err)
			return err
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().BoolVar(&convertForce, "force", false, "rewrite JSON artifacts even when present")
	rootCmd.AddCommand(convertCmd)
}
