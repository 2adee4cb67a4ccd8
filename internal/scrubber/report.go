package scrubber

// Report accumulates what the scrubbing pipeline changed
type Report struct {
	RowsIn             int
	RowsOut            int
	DuplicatesDropped  int
	CellsTrimmed       int
	CellsFilled        int
	DatesNormalized    int
	DatesFailed        int
	OutliersDropped    int
	RowsDroppedMissing int

	Steps []StepResult
}

// StepResult records the effect of a single rule application
type StepResult struct {
	Rule          string
	RowsDropped   int
	CellsModified int
}

// NewReport creates an empty report
func NewReport() *Report {
	return &Report{}
}

// AddStep appends a per-rule result
func (r *Report) AddStep(rule string, rowsDropped, cellsModified int) {
	r.Steps = append(r.Steps, StepResult{
		Rule:          rule,
		RowsDropped:   rowsDropped,
		CellsModified: cellsModified,
	})
}

// RowsDropped is the total number of rows removed by all rules
func (r *Report) RowsDropped() int {
	return r.RowsIn - r.RowsOut
}

// CellsModified is the total number of cells changed by all rules
func (r *Report) CellsModified() int {
	total := 0
	for _, s := range r.Steps {
		total += s.CellsModified
	}
	return total
}

// Clean reports whether the pipeline changed anything at all
func (r *Report) Clean() bool {
	return r.RowsDropped() == 0 && r.CellsModified() == 0 && r.DatesFailed == 0
}
