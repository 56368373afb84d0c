// Package cmd implements the CLI application to settle a trip.
package cmd

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/tripsplit"
	"github.com/google/subcommands"
)

// Standard file names of the trip tables inside the data directory.
const (
	participantsFile = "participants.csv"
	ratesFile        = "rates.csv"
	expensesFile     = "expenses.csv"
	splitsFile       = "splits.csv"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data", ".", "Path to the directory holding the trip tables")
var baseCurrency = flag.String("base", "VND", "Base currency all amounts are settled in")

// Commands returns all tsp subcommands, for registration and completion.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&settleCmd{},
		&balanceCmd{},
		&reviewCmd{},
		&exportCmd{},
		&addCmd{},
		&fetchCmd{},
		&topicCmd{},
	}
}

// Register registers all tsp subcommands on the commander.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands() {
		c.Register(cmd, "")
	}
}

func tablePath(name string) string { return filepath.Join(*dataDir, name) }

// LoadTrip reads the four input tables from the data directory.
func LoadTrip() (*tripsplit.Trip, error) {
	trip, err := tripsplit.NewTrip(*baseCurrency)
	if err != nil {
		return nil, err
	}

	if err := readTableFile(participantsFile, func(f *os.File) error {
		ps, err := tripsplit.ImportParticipants(f)
		if err == nil {
			trip.Participants = ps
		}
		return err
	}); err != nil {
		return nil, err
	}

	if err := readTableFile(ratesFile, func(f *os.File) error {
		rates, err := tripsplit.ImportRates(f, *baseCurrency)
		if err == nil {
			trip.Rates = rates
		}
		return err
	}); err != nil {
		return nil, err
	}

	if err := readTableFile(expensesFile, func(f *os.File) error {
		expenses, err := tripsplit.ImportExpenses(f)
		if err == nil {
			trip.Expenses = expenses
		}
		return err
	}); err != nil {
		return nil, err
	}

	if err := readTableFile(splitsFile, func(f *os.File) error {
		splits, err := tripsplit.ImportSplits(f)
		if err == nil {
			trip.Splits = splits
		}
		return err
	}); err != nil {
		return nil, err
	}

	return trip, nil
}

func readTableFile(name string, load func(*os.File) error) error {
	path := tablePath(name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open table %q: %w", path, err)
	}
	defer f.Close()
	if err := load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Reconcile loads the trip and runs the full settlement pipeline.
func Reconcile() (*tripsplit.Statement, error) {
	trip, err := LoadTrip()
	if err != nil {
		return nil, err
	}
	return trip.Reconcile()
}

// appendTable appends records to a CSV table, creating it with its header
// when it does not exist yet.
func appendTable(name string, header []string, records [][]string) error {
	path := tablePath(name)
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open table %q: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if fresh {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	for _, record := range records {
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
