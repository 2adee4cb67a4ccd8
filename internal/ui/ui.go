package ui

import (
	"fmt"
	"time"
)

// UI represents the main console interface for pipeline commands
type UI struct {
	Verbose bool
	Quiet   bool
	spinner *Spinner
	started time.Time
}

// NewUI creates a new UI instance
func NewUI(verbose, quiet bool) *UI {
	return &UI{
		Verbose: verbose,
		Quiet:   quiet,
		started: time.Now(),
	}
}

// Printf prints formatted output if not in quiet mode
func (u *UI) Printf(format string, args ...interface{}) {
	if !u.Quiet {
		fmt.Printf(format, args...)
	}
}

// Println prints a line if not in quiet mode
func (u *UI) Println(args ...interface{}) {
	if !u.Quiet {
		fmt.Println(args...)
	}
}

// VerbosePrintf prints formatted output only in verbose mode
func (u *UI) VerbosePrintf(format string, args ...interface{}) {
	if u.Verbose && !u.Quiet {
		fmt.Printf(format, args...)
	}
}

// StartProgress starts a progress indicator with a message
func (u *UI) StartProgress(message string) {
	if !u.Quiet {
		u.spinner = NewSpinner(message)
		u.spinner.Start()
	}
}

// StopProgress stops the progress indicator
func (u *UI) StopProgress(success bool, message string) {
	if u.spinner != nil && !u.Quiet {
		u.spinner.Stop(success, message)
		u.spinner = nil
	}
}

// Warning prints a warning message
func (u *UI) Warning(message string) {
	if !u.Quiet {
		fmt.Printf("%s %s\n", ColorWarning("⚠"), message)
	}
}

// Error prints an error message
func (u *UI) Error(message string) {
	if !u.Quiet {
		fmt.Printf("%s %s\n", ColorError("✗"), message)
	}
}

// Success prints a success message
func (u *UI) Success(message string) {
	if !u.Quiet {
		fmt.Printf("%s %s\n", ColorSuccess("✓"), message)
	}
}

// Elapsed returns a human-readable duration since the UI was created
func (u *UI) Elapsed() string {
	return formatDuration(time.Since(u.started))
}
