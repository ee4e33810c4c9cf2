// cmd/slugindex.go
//
// Write the slug index artifacts used for route existence checks.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quiethoursguide/bylawdata/internal/config"
	"github.com/quiethoursguide/bylawdata/internal/dataset"
)

var slugindexCmd = &cobra.Command{
	Use:   "slugindex",
	Short: "Derive and write the per-topic slug index files.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Get()
		store := dataset.New(cfg.Data.Dir)

		outcomes, err := store.WriteSlugIndexes(cmd.Context())
		for _, o := range outcomes {
			fmt.Printf("%-14s %d entries -> %s\n", o.Topic, o.Entries, o.Written)
		}
		if err != nil {
			zap.S().Errorw("slug index build failed", "err", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(slugindexCmd)
}
