package main

import (
	"fmt"

	"tiffin/internal/adapters/out/postgres/migrations"
	"tiffin/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|version]",
	Short:     "Apply or roll back the database schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "version"},
	RunE:      migrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(c *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := migrations.Open(cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	log := logger.New("migrate")
	switch args[0] {
	case "up":
		err = migrations.Up(db)
	case "down":
		err = migrations.Down(db)
	}
	if err != nil {
		return err
	}

	version, err := migrations.Version(db)
	if err != nil {
		return err
	}
	log.Info().Str("action", args[0]).Int64("version", version).Msg("schema ready")
	_, err = fmt.Fprintln(c.OutOrStdout(), version)
	return err
}
