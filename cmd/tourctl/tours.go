package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iliyamo/aerial-tour-booking/internal/repository"
)

var toursCmd = &cobra.Command{
	Use:   "tours",
	Short: "Inspect scheduled tours",
}

var toursListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tours with seat availability",
	Long: `List prints every tour with its remaining seats.  Filters and sort keys
match the public API.

Example:
  tourctl tours list
  tourctl tours list --date 2025-11-17 --sort price --order desc
  tourctl tours list --difficulty Beginner --json`,
	Args: cobra.NoArgs,
	RunE: runToursList,
}

func init() {
	f := toursListCmd.Flags()
	f.String("date", "", "only tours on this date (YYYY-MM-DD)")
	f.String("difficulty", "", "Beginner, Intermediate or Advanced")
	f.String("search", "", "case-insensitive text search")
	f.String("sort", "date", "date|price|duration|availability|name|difficulty")
	f.String("order", "asc", "asc or desc")
	toursCmd.AddCommand(toursListCmd)
}

func runToursList(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	q := repository.TourQuery{}
	q.Date, _ = f.GetString("date")
	q.Difficulty, _ = f.GetString("difficulty")
	q.Search, _ = f.GetString("search")
	q.Sort, _ = f.GetString("sort")
	q.Order, _ = f.GetString("order")

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	tours, err := repository.NewTourRepo(db).List(cmd.Context())
	if err != nil {
		return err
	}
	tours = repository.FilterTours(tours, q)
	repository.SortTours(tours, q.Sort, q.Order)

	if flagJSON {
		return printJSON(cmd, tours)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTIME\tTITLE\tSEATS\tSTATUS\tPRICE")
	for _, t := range tours {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\t%.2f\n",
			t.ID, t.Date, t.Time, t.Title, t.AvailableSeats, t.TotalSeats,
			repository.AvailabilityStatus(t.AvailableSeats, t.TotalSeats), t.Price())
	}
	return w.Flush()
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
