package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notesapp/internal/database"
	"notesapp/internal/notes"
)

var noSeed bool

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the notes table and indexes, then add sample notes to an empty database",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		dbCfg := database.FromAppConfig(cfg)

		if err := database.Migrate(ctx, dbCfg); err != nil {
			fatal("Failed to create schema", err)
		}
		zap.S().Infof("Created notes table and indexes")

		if noSeed {
			return
		}

		db := database.New(dbCfg)
		added, err := notes.New(db).Seed(ctx)
		db.Close()
		if err != nil {
			fatal("Failed to add sample notes", err)
		}
		if added == 0 {
			zap.S().Infof("Database already contains notes, skipping samples")
			return
		}
		zap.S().Infof("Added %d sample notes", added)
	},
}

func init() {
	initDBCmd.Flags().BoolVar(&noSeed, "no-seed", false, "Do not add sample notes")
	rootCmd.AddCommand(initDBCmd)
}
