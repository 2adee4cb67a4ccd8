package cmd

import (
	"fmt"
	"os"
	"strconv"

	"smartsales/internal/config"
	"smartsales/internal/prepare"
	"smartsales/internal/ui"

	"github.com/spf13/cobra"
)

var prepareFlags struct {
	datasets []string
}

var prepareCmd = &cobra.Command{
	Use:       "prepare [dataset...]",
	Short:     "Scrub raw CSV files into prepared datasets",
	ValidArgs: []string{"customers", "products", "sales"},
	Args:      cobra.OnlyValidArgs,
	Long: `Scrub the raw CSV files under the configured raw data directory and write
cleaned copies to the prepared data directory.

Each dataset runs through its own cleaning pipeline: whitespace trimming,
header normalization, duplicate removal, date normalization, missing-value
fills and outlier filtering. A per-dataset summary is printed when done.`,
	Run: runPrepare,
}

func init() {
	prepareCmd.Flags().StringSliceVarP(&prepareFlags.datasets, "dataset", "d", nil,
		"Datasets to prepare (customers, products, sales). Defaults to all")

	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) {
	output := ui.NewUI(verbose, quiet)

	cfg, err := config.Load()
	if err != nil {
		output.Error(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	output.StartProgress("Preparing datasets")

	datasets := append(append([]string(nil), prepareFlags.datasets...), args...)

	svc := prepare.NewService(cfg, nil)
	results, err := svc.PrepareAll(datasets)
	if err != nil {
		output.StopProgress(false, "Preparation failed")
		output.Error(err.Error())
		os.Exit(1)
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	output.StopProgress(failed == 0, fmt.Sprintf("%d dataset(s) processed", len(results)))

	table := ui.NewTable()
	table.AddHeader("Dataset", "Rows In", "Rows Out", "Dropped", "Cells Fixed", "Status")
	for _, result := range results {
		status := ui.ColorSuccess("ok")
		rowsIn, rowsOut, dropped, fixed := "-", "-", "-", "-"
		if result.Err != nil {
			status = ui.ColorError("failed")
		} else {
			rowsIn = strconv.Itoa(result.Report.RowsIn)
			rowsOut = strconv.Itoa(result.Report.RowsOut)
			dropped = strconv.Itoa(result.Report.RowsDropped())
			fixed = strconv.Itoa(result.Report.CellsModified())
		}
		table.AddRow(result.Dataset, rowsIn, rowsOut, dropped, fixed, status)
	}
	table.Render()

	for _, result := range results {
		if result.Err != nil {
			output.Error(fmt.Sprintf("%s: %v", result.Dataset, result.Err))
			continue
		}
		output.VerbosePrintf("  %s -> %s\n", result.RawPath, result.PreparedPath)
		if result.Malformed > 0 {
			output.Warning(fmt.Sprintf("%s: skipped %d malformed row(s)", result.Dataset, result.Malformed))
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
	output.Success(fmt.Sprintf("Prepared data written to %s", cfg.Data.Prepared))
}
