package cmd

import (
	"context"
	"fmt"
	"os"

	"smartsales/internal/config"
	"smartsales/internal/report"
	"smartsales/internal/ui"
	"smartsales/internal/warehouse"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var reportFlags struct {
	goals   []string
	noColor bool
}

var reportCmd = &cobra.Command{
	Use:       "report [goal...]",
	Short:     "Run business-intelligence reports against the warehouse",
	ValidArgs: []string{"top-customers", "weekday-sales", "peak-sell-times", "purchase-frequency"},
	Args:      cobra.OnlyValidArgs,
	Long: `Run the reporting goals against the SQLite warehouse and write each
result to a CSV file under the configured results directory.

Available goals:
  top-customers       Customers ranked by total spend
  weekday-sales       Revenue by day of week, with the lowest revenue day
  peak-sell-times     Peak sales weekday per region and supplier
  purchase-frequency  Transactions and active customers by month`,
	Run: runReport,
}

func init() {
	reportCmd.Flags().StringSliceVarP(&reportFlags.goals, "goal", "g", nil,
		"Goals to run. Defaults to all")
	reportCmd.Flags().BoolVar(&reportFlags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) {
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

	names := append(append([]string(nil), reportFlags.goals...), args...)
	goals := make([]report.Goal, 0, len(names))
	for _, g := range names {
		goals = append(goals, report.Goal(g))
	}

	reporter := report.NewService(svc, cfg, nil)
	results, err := reporter.Run(context.Background(), goals)
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}

	useColor := !reportFlags.noColor && isatty.IsTerminal(os.Stdout.Fd())
	renderer := report.NewRenderer(useColor)
	for _, result := range results {
		fmt.Print(renderer.Render(result))
	}

	output.Success(fmt.Sprintf("%d report(s) written to %s", len(results), cfg.Data.Results))
}
