package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tripsplit"
	"github.com/google/subcommands"
)

type fetchCmd struct{}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch missing exchange rates from frankfurter.dev" }
func (*fetchCmd) Usage() string {
	return `tsp fetch

  Scans the expense table for (currency, date) pairs that have no usable rate
  yet, fetches them from the frankfurter.dev API, and rewrites rates.csv with
  the completed table. Responses are cached on disk for a day.
`
}

func (*fetchCmd) SetFlags(f *flag.FlagSet) {}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	trip, err := LoadTrip()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	n, err := tripsplit.FetchMissingRates(trip.Rates, trip.Expenses)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if n == 0 {
		fmt.Println("All rates already known, nothing to fetch.")
		return subcommands.ExitSuccess
	}

	path := tablePath(ratesFile)
	file, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	err = tripsplit.ExportRates(file, trip.Rates)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot write %q: %v\n", path, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Fetched %d rate(s), updated %s\n", n, path)
	return subcommands.ExitSuccess
}
