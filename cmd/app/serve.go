package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tiffin/cmd"
	"tiffin/internal/pkg/logger"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled jobs",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(_ *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("main")

	return withRoot(cfg, func(root *cmd.CompositionRoot) error {
		e, err := root.CreateEcho(ctx)
		if err != nil {
			return err
		}

		jobManager, err := root.CreateJobManager()
		if err != nil {
			return err
		}
		if err = jobManager.StartAll(); err != nil {
			return err
		}
		defer jobManager.StopAll()

		addr := fmt.Sprintf("0.0.0.0:%d", cfg.HTTP.Port)
		serveErr := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Msg("http server listening")
			serveErr <- e.Start(addr)
		}()

		select {
		case err = <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
}
