package scrubber

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"smartsales/pkg/errors"
)

// Table is an in-memory tabular dataset: a header row plus data rows.
// Rows are ragged-free: every row has exactly len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of a named column
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, col := range t.Header {
		if col == name {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	header := make([]string, len(t.Header))
	copy(header, t.Header)
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]string, len(row))
		copy(rows[i], row)
	}
	return &Table{Header: header, Rows: rows}
}

// ReadTable reads a CSV stream into a Table. Rows with the wrong number of
// fields are counted as malformed and skipped, not fatal.
func ReadTable(r io.Reader) (*Table, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, errors.New(errors.ErrCodeBadHeader, "input file is empty")
	}
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeBadHeader, "failed to read header row")
	}

	table := &Table{Header: header}
	malformed := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			malformed++
			continue
		}
		if len(record) != len(header) {
			malformed++
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	return table, malformed, nil
}

// WriteTable writes a Table as CSV
func WriteTable(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return errors.Wrap(err, errors.ErrCodeFileOperation, "failed to write header row")
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, errors.ErrCodeFileOperation, "failed to write data row")
		}
	}
	cw.Flush()
	return cw.Error()
}

// Rule is one deterministic, idempotent cleaning transformation.
// Rules never mutate their input table.
type Rule interface {
	Name() string
	Apply(t *Table, rep *Report) (*Table, error)
}

// Pipeline applies a fixed sequence of rules to a table
type Pipeline struct {
	rules []Rule
}

// NewPipeline creates a pipeline from the given rules, applied in order
func NewPipeline(rules ...Rule) *Pipeline {
	return &Pipeline{rules: rules}
}

// Rules returns the rule names in application order
func (p *Pipeline) Rules() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.Name()
	}
	return names
}

// Run applies every rule in order and returns the cleaned table with a
// report of what each rule changed.
func (p *Pipeline) Run(t *Table) (*Table, *Report, error) {
	rep := NewReport()
	rep.RowsIn = len(t.Rows)

	current := t
	for _, rule := range p.rules {
		next, err := rule.Apply(current, rep)
		if err != nil {
			return nil, rep, errors.Wrap(err, errors.ErrCodeScrubFailed,
				fmt.Sprintf("rule %q failed", rule.Name()))
		}
		current = next
	}

	rep.RowsOut = len(current.Rows)
	return current, rep, nil
}

// rowKey builds a comparable key from a full row
func rowKey(row []string) string {
	return strings.Join(row, "\x1f")
}
