package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"smartsales/internal/common"
	"smartsales/internal/config"
	"smartsales/pkg/models"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

var initFlags struct {
	nonInteractive bool
	force          bool
}

var initCmd = &cobra.Command{
	Use:   "init [project-dir]",
	Short: "Initialize a new SmartSales project",
	Long: `Initialize a new SmartSales project in the given directory (default: current).

This command creates the data directory layout expected by the pipeline:
- data/raw       Raw CSV input files
- data/prepared  Scrubbed CSV files written by 'prepare'
- data/dw        The SQLite warehouse written by 'load'
- data/results   Report CSV files written by 'report'

It also writes a configuration file with the scrubbing and reporting
defaults, which an interactive wizard lets you adjust.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.nonInteractive, "non-interactive", false, "Use defaults without prompting")
	initCmd.Flags().BoolVarP(&initFlags.force, "force", "f", false, "Overwrite an existing configuration file")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}

	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Initializing SmartSales project in %s\n", projectDir)
	fmt.Println()

	cfg := models.DefaultConfig()

	if !initFlags.nonInteractive {
		if err := promptForSettings(cfg); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := createDataDirectories(projectDir, cfg); err != nil {
		fmt.Printf("Error creating data directories: %v\n", err)
		os.Exit(1)
	}

	if config.Exists() && !initFlags.force {
		var overwrite bool
		if initFlags.nonInteractive {
			fmt.Println("Configuration file already exists, keeping it. Use --force to overwrite.")
			return
		}
		prompt := &survey.Confirm{
			Message: "A configuration file already exists. Overwrite it?",
			Default: false,
		}
		survey.AskOne(prompt, &overwrite)
		if !overwrite {
			fmt.Println("Keeping existing configuration.")
			return
		}
	}

	if err := config.Save(cfg); err != nil {
		fmt.Printf("Error saving configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Project initialization complete.")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("1. Copy your raw CSV files into %s\n", filepath.Join(projectDir, cfg.Data.Raw))
	fmt.Println("2. Run 'smartsales prepare' to scrub them")
	fmt.Println("3. Run 'smartsales load' to build the warehouse")
	fmt.Println("4. Run 'smartsales report' to produce the reports")
}

func promptForSettings(cfg *models.Config) error {
	fmt.Println("Scrubbing Configuration")
	fmt.Println("-----------------------")

	questions := []*survey.Question{
		{
			Name: "spent_min",
			Prompt: &survey.Input{
				Message: "Minimum valid customer spend (rows at or below are dropped):",
				Default: strconv.FormatFloat(cfg.Scrubbing.Customers.SpentMin, 'f', -1, 64),
			},
		},
		{
			Name: "spent_max",
			Prompt: &survey.Input{
				Message: "Maximum valid customer spend (rows at or above are dropped):",
				Default: strconv.FormatFloat(cfg.Scrubbing.Customers.SpentMax, 'f', -1, 64),
			},
		},
		{
			Name: "top_customers",
			Prompt: &survey.Input{
				Message: "Number of customers in the top-customers report:",
				Default: strconv.Itoa(cfg.Reporting.TopCustomers),
			},
		},
		{
			Name: "date_policy",
			Prompt: &survey.Select{
				Message: "When a sale date cannot be parsed:",
				Options: []string{"drop", "flag"},
				Default: cfg.Scrubbing.DatePolicy,
				Help:    "'drop' removes the row, 'flag' keeps the raw value for manual review",
			},
		},
	}

	answers := struct {
		SpentMin     string `survey:"spent_min"`
		SpentMax     string `survey:"spent_max"`
		TopCustomers string `survey:"top_customers"`
		DatePolicy   string `survey:"date_policy"`
	}{}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	if v, err := strconv.ParseFloat(answers.SpentMin, 64); err == nil {
		cfg.Scrubbing.Customers.SpentMin = v
	}
	if v, err := strconv.ParseFloat(answers.SpentMax, 64); err == nil {
		cfg.Scrubbing.Customers.SpentMax = v
	}
	if v, err := strconv.Atoi(answers.TopCustomers); err == nil && v > 0 {
		cfg.Reporting.TopCustomers = v
	}
	cfg.Scrubbing.DatePolicy = answers.DatePolicy

	return nil
}

func createDataDirectories(projectDir string, cfg *models.Config) error {
	dirs := []string{
		cfg.Data.Raw,
		cfg.Data.Prepared,
		filepath.Dir(cfg.Warehouse.Path),
		cfg.Data.Results,
	}

	for _, dir := range dirs {
		fullPath := filepath.Join(projectDir, dir)
		if err := os.MkdirAll(fullPath, common.DirPermissionNormal); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
