// cmd/serve.go
//
// Run the JSON API server.
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quiethoursguide/bylawdata/internal/config"
	"github.com/quiethoursguide/bylawdata/internal/dataset"
	"github.com/quiethoursguide/bylawdata/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the datasets over a read-only JSON API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Get()
		store := dataset.New(cfg.Data.Dir)
		api := server.NewAPI(store, cfg.Search.MaxResults)

		srv := server.New(cfg.HTTP.ListenAddr, api.Router())

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			zap.S().Infow("api listening", "addr", cfg.HTTP.ListenAddr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.S().Errorw("shutdown failed", "err", err)
			return err
		}
		zap.S().Infow("api stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
