package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/aerial-tour-booking/internal/database"
	"github.com/iliyamo/aerial-tour-booking/internal/seed"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users, tours and bookings tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the scheduled tours and demo users",
	Long: `Seed migrates the schema and inserts the scheduled tour programme and
the demo users.  Rows that already exist are skipped, so seed can be re-run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		rep, err := seed.Run(cmd.Context(), db)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd, rep)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tours: %d created, %d skipped\nusers: %d created, %d skipped\n",
			rep.ToursCreated, rep.ToursSkipped, rep.UsersCreated, rep.UsersSkipped)
		return nil
	},
}
