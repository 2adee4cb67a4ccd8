package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"smartsales/internal/config"
	"smartsales/internal/ui"
	"smartsales/internal/warehouse"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Rebuild the SQLite warehouse from prepared data",
	Long: `Load the prepared CSV files into the SQLite star-schema warehouse.

The warehouse is fully rebuilt on every run: tables are created if missing,
existing rows are deleted, and the prepared customer, product and sales files
are inserted inside a single transaction. Sales rows that reference unknown
customers or products are skipped and reported.`,
	Run: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) {
	output := ui.NewUI(verbose, quiet)

	cfg, err := config.Load()
	if err != nil {
		output.Error(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	svc := warehouse.NewService(warehouse.Config{Path: cfg.Warehouse.Path})
	if err := svc.Connect(); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
	defer svc.Close()

	output.StartProgress("Loading warehouse")

	loader := warehouse.NewLoader(svc, cfg, nil)
	summary, err := loader.Load(context.Background())
	if err != nil {
		output.StopProgress(false, "Load failed")
		ui.ShowError(err)
		os.Exit(1)
	}

	output.StopProgress(true, fmt.Sprintf("Warehouse rebuilt in %s", summary.Duration.Round(time.Millisecond)))

	table := ui.NewTable()
	table.AddHeader("Table", "Rows Loaded")
	table.AddRow("customer", strconv.Itoa(summary.Customers))
	table.AddRow("product", strconv.Itoa(summary.Products))
	table.AddRow("store", strconv.Itoa(summary.Stores))
	table.AddRow("sale", strconv.Itoa(summary.Sales))
	table.Render()

	if summary.DecodeErrors > 0 {
		output.Warning(fmt.Sprintf("Skipped %d row(s) that failed to decode", summary.DecodeErrors))
	}
	if summary.Orphans > 0 {
		output.Warning(fmt.Sprintf("Skipped %d sale(s) referencing unknown customers or products", summary.Orphans))
	}

	output.Success(fmt.Sprintf("Warehouse ready at %s", cfg.Warehouse.Path))
}
