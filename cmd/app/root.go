package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tiffin/cmd"
	"tiffin/internal/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "tiffin",
	Short:         "Tiffin delivery dispatch service",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

func loadConfig() (cmd.Config, error) {
	cfg, err := cmd.LoadConfig(cfgPath)
	if err != nil {
		return cmd.Config{}, fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// withRoot opens the database and composition root for the duration of fn.
func withRoot(cfg cmd.Config, fn func(root *cmd.CompositionRoot) error) error {
	db, err := cmd.OpenDatabase(cfg.DB, logger.New("gorm"))
	if err != nil {
		return err
	}
	defer closeDB(db)

	root, err := cmd.NewCompositionRoot(cfg, db)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := root.Close(); closeErr != nil {
			log := logger.New("main")
			log.Error().Err(closeErr).Msg("composition root close")
		}
	}()

	return fn(root)
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err = sqlDB.Close(); err != nil {
		log := logger.New("main")
		log.Error().Err(err).Msg("database close")
	}
}
