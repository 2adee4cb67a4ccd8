package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Renderer produces console output for report results
type Renderer struct {
	useColor bool
}

// NewRenderer creates a new renderer
func NewRenderer(useColor bool) *Renderer {
	return &Renderer{useColor: useColor}
}

// Render formats one report result as a titled table
func (r *Renderer) Render(result Result) string {
	var buf strings.Builder

	title := result.Title
	if r.useColor {
		title = color.CyanString(title)
	}
	buf.WriteString(fmt.Sprintf("\n%s\n", title))

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(result.Headers)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range result.Rows {
		table.Append(row)
	}
	table.Render()

	if len(result.Rows) == 0 {
		buf.WriteString("No data.\n")
	}

	if result.Note != "" {
		note := result.Note
		if r.useColor {
			note = color.YellowString(note)
		}
		buf.WriteString(note)
		buf.WriteString("\n")
	}

	if result.OutputPath != "" {
		saved := fmt.Sprintf("Saved to %s", result.OutputPath)
		if r.useColor {
			saved = color.GreenString(saved)
		}
		buf.WriteString(saved)
		buf.WriteString("\n")
	}

	return buf.String()
}
