package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/clover/internal/repositories/location"
	"github.com/Ramsey-B/clover/pkg/database"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute location property counts once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db := database.NewDependency(cfg.Database(), nil, logger)
		if err := db.Start(ctx); err != nil {
			return err
		}
		defer db.Stop(ctx)

		reconciler := location.NewReconciler(location.NewRepository(db.DB(), logger), 0, logger)
		corrected, err := reconciler.RunOnce(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "corrected %d locations\n", corrected)
		return nil
	},
}
