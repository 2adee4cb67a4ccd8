package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	expected := []string{"init", "prepare", "load", "report", "version"}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "command %q should be registered", name)
	}
}

func TestRootPersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("quiet"))
}

func TestPrepareFlags(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"prepare"})
	require.NoError(t, err)
	assert.NotNil(t, cmd.Flags().Lookup("dataset"))
}

func TestReportFlags(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"report"})
	require.NoError(t, err)
	assert.NotNil(t, cmd.Flags().Lookup("goal"))
	assert.NotNil(t, cmd.Flags().Lookup("no-color"))
}

func TestPrepareValidatesDatasetArgs(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"prepare"})
	require.NoError(t, err)

	assert.NoError(t, cmd.ValidateArgs([]string{"customers"}))
	assert.NoError(t, cmd.ValidateArgs([]string{"products", "sales"}))
	assert.Error(t, cmd.ValidateArgs([]string{"invoices"}))
}

func TestReportValidatesGoalArgs(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"report"})
	require.NoError(t, err)

	assert.NoError(t, cmd.ValidateArgs([]string{"top-customers"}))
	assert.NoError(t, cmd.ValidateArgs([]string{"weekday-sales", "purchase-frequency"}))
	assert.Error(t, cmd.ValidateArgs([]string{"profit-margin"}))
}

func TestAllFlagsHaveUsage(t *testing.T) {
	for _, cmd := range rootCmd.Commands() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			assert.NotEmpty(t, f.Usage, "flag --%s of %q needs a usage string", f.Name, cmd.Name())
		})
	}
}

func TestInitFlags(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"init"})
	require.NoError(t, err)
	assert.NotNil(t, cmd.Flags().Lookup("non-interactive"))
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}
