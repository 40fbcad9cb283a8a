package main

import (
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/clover/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db := database.NewDependency(cfg.Database(), cfg.Migration(), logger)
		if err := db.Start(cmd.Context()); err != nil {
			return err
		}
		return db.Stop(cmd.Context())
	},
}
