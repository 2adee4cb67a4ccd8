package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose bool
	quiet   bool

	rootCmd = &cobra.Command{
		Use:   "smartsales",
		Short: "Prepare and warehouse retail sales data",
		Long:  "SmartSales - A CLI tool for scrubbing raw sales CSV files, loading them into a SQLite star-schema warehouse, and producing business-intelligence reports",
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home + "/.smartsales")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is okay for now
	}
}
