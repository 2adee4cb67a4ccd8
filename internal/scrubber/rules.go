package scrubber

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"smartsales/pkg/errors"
)

// CanonicalDateLayout is the single date format every date column is
// normalized to before warehouse load.
const CanonicalDateLayout = "2006-01-02"

// DatePolicy controls what happens to records with unparseable dates
type DatePolicy string

const (
	// DatePolicyDrop removes the record and reports it
	DatePolicyDrop DatePolicy = "drop"
	// DatePolicyFlag keeps the record with the original value and reports it
	DatePolicyFlag DatePolicy = "flag"
)

// TrimSpace strips leading and trailing whitespace from every cell
type TrimSpace struct{}

func (TrimSpace) Name() string { return "trim_space" }

func (TrimSpace) Apply(t *Table, rep *Report) (*Table, error) {
	out := t.Clone()
	modified := 0

	for i, col := range out.Header {
		trimmed := strings.TrimSpace(col)
		if trimmed != col {
			out.Header[i] = trimmed
			modified++
		}
	}
	for _, row := range out.Rows {
		for i, cell := range row {
			trimmed := strings.TrimSpace(cell)
			if trimmed != cell {
				row[i] = trimmed
				modified++
			}
		}
	}

	rep.CellsTrimmed += modified
	rep.AddStep("trim_space", 0, modified)
	return out, nil
}

// NormalizeHeader standardizes column names: trimmed, inner runs of
// whitespace collapsed to a single underscore.
type NormalizeHeader struct{}

func (NormalizeHeader) Name() string { return "normalize_header" }

func (NormalizeHeader) Apply(t *Table, rep *Report) (*Table, error) {
	out := t.Clone()
	modified := 0

	for i, col := range out.Header {
		normalized := strings.Join(strings.Fields(col), "_")
		if normalized != col {
			out.Header[i] = normalized
			modified++
		}
	}

	rep.AddStep("normalize_header", 0, modified)
	return out, nil
}

// DropDuplicates removes duplicate rows. With an empty KeyColumn only
// exact duplicates are removed; with a KeyColumn set, the first row per
// key value wins and later ones are dropped.
type DropDuplicates struct {
	KeyColumn string
}

func (r DropDuplicates) Name() string {
	if r.KeyColumn != "" {
		return "drop_duplicates_" + strings.ToLower(r.KeyColumn)
	}
	return "drop_duplicates"
}

func (r DropDuplicates) Apply(t *Table, rep *Report) (*Table, error) {
	keyIdx := -1
	if r.KeyColumn != "" {
		idx, ok := t.ColumnIndex(r.KeyColumn)
		if !ok {
			return nil, errors.New(errors.ErrCodeColumnNotFound,
				fmt.Sprintf("column %q not found", r.KeyColumn))
		}
		keyIdx = idx
	}

	out := &Table{Header: append([]string(nil), t.Header...)}
	seen := make(map[string]bool, len(t.Rows))
	dropped := 0

	for _, row := range t.Rows {
		var key string
		if keyIdx >= 0 {
			key = row[keyIdx]
			// Rows with an empty key are never treated as duplicates of
			// each other; the missing-value rules decide their fate.
			if key == "" {
				out.Rows = append(out.Rows, append([]string(nil), row...))
				continue
			}
		} else {
			key = rowKey(row)
		}
		if seen[key] {
			dropped++
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, append([]string(nil), row...))
	}

	rep.DuplicatesDropped += dropped
	rep.AddStep(r.Name(), dropped, 0)
	return out, nil
}

// NormalizeDates coerces the named columns to the canonical date layout.
// Each source layout is tried in order; a cell that matches none fails the
// record per the configured policy. Empty cells are left for the
// missing-value rules.
type NormalizeDates struct {
	Columns []string
	Layouts []string
	Policy  DatePolicy
}

func (NormalizeDates) Name() string { return "normalize_dates" }

func (r NormalizeDates) Apply(t *Table, rep *Report) (*Table, error) {
	indexes := make([]int, 0, len(r.Columns))
	for _, col := range r.Columns {
		idx, ok := t.ColumnIndex(col)
		if !ok {
			return nil, errors.New(errors.ErrCodeColumnNotFound,
				fmt.Sprintf("date column %q not found", col))
		}
		indexes = append(indexes, idx)
	}

	layouts := r.Layouts
	if len(layouts) == 0 {
		layouts = []string{CanonicalDateLayout}
	}

	out := &Table{Header: append([]string(nil), t.Header...)}
	normalized := 0
	failed := 0
	dropped := 0

	for _, row := range t.Rows {
		newRow := append([]string(nil), row...)
		keep := true

		for _, idx := range indexes {
			cell := newRow[idx]
			if cell == "" {
				continue
			}

			parsed, ok := parseDate(cell, layouts)
			if !ok {
				failed++
				if r.Policy == DatePolicyDrop {
					keep = false
				}
				break
			}

			canonical := parsed.Format(CanonicalDateLayout)
			if canonical != cell {
				newRow[idx] = canonical
				normalized++
			}
		}

		if keep {
			out.Rows = append(out.Rows, newRow)
		} else {
			dropped++
		}
	}

	rep.DatesNormalized += normalized
	rep.DatesFailed += failed
	rep.AddStep("normalize_dates", dropped, normalized)
	return out, nil
}

func parseDate(value string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// FillPolicy selects how FillMissing treats empty cells
type FillPolicy string

const (
	FillConstant FillPolicy = "constant" // replace with a fixed value
	FillMedian   FillPolicy = "median"   // replace with the column median
	FillMode     FillPolicy = "mode"     // replace with the most frequent value
	FillDropRow  FillPolicy = "drop_row" // remove the record entirely
)

// FillMissing handles empty cells in one column per a configured policy.
// Identifier columns use FillDropRow; descriptive columns use a constant,
// median, or mode fill.
type FillMissing struct {
	Column string
	Policy FillPolicy
	Value  string // used by FillConstant
}

func (r FillMissing) Name() string {
	return "fill_missing_" + strings.ToLower(r.Column)
}

func (r FillMissing) Apply(t *Table, rep *Report) (*Table, error) {
	idx, ok := t.ColumnIndex(r.Column)
	if !ok {
		return nil, errors.New(errors.ErrCodeColumnNotFound,
			fmt.Sprintf("column %q not found", r.Column))
	}

	fill := r.Value
	switch r.Policy {
	case FillMedian:
		fill = columnMedian(t, idx)
	case FillMode:
		fill = columnMode(t, idx)
	}

	out := &Table{Header: append([]string(nil), t.Header...)}
	filled := 0
	dropped := 0

	for _, row := range t.Rows {
		if row[idx] != "" {
			out.Rows = append(out.Rows, append([]string(nil), row...))
			continue
		}

		if r.Policy == FillDropRow {
			dropped++
			continue
		}

		newRow := append([]string(nil), row...)
		newRow[idx] = fill
		filled++
		out.Rows = append(out.Rows, newRow)
	}

	rep.CellsFilled += filled
	rep.RowsDroppedMissing += dropped
	rep.AddStep(r.Name(), dropped, filled)
	return out, nil
}

// columnMedian returns the median of the parseable numeric values as a string
func columnMedian(t *Table, idx int) string {
	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if v, err := strconv.ParseFloat(row[idx], 64); err == nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return ""
	}
	sort.Float64s(values)
	mid := len(values) / 2
	median := values[mid]
	if len(values)%2 == 0 {
		median = (values[mid-1] + values[mid]) / 2
	}
	return strconv.FormatFloat(median, 'f', -1, 64)
}

// columnMode returns the most frequent non-empty value; ties break to the
// lexicographically smallest value so repeated runs are deterministic.
func columnMode(t *Table, idx int) string {
	counts := make(map[string]int)
	for _, row := range t.Rows {
		if row[idx] != "" {
			counts[row[idx]]++
		}
	}
	mode := ""
	best := 0
	for value, count := range counts {
		if count > best || (count == best && value < mode) {
			mode = value
			best = count
		}
	}
	return mode
}

// DropOutlierRange removes rows whose numeric value falls outside a fixed
// open interval. Rows where the value does not parse are dropped too: an
// unparseable measure cannot be validated.
type DropOutlierRange struct {
	Column string
	Min    float64
	Max    float64
}

func (r DropOutlierRange) Name() string {
	return "drop_outliers_" + strings.ToLower(r.Column)
}

func (r DropOutlierRange) Apply(t *Table, rep *Report) (*Table, error) {
	idx, ok := t.ColumnIndex(r.Column)
	if !ok {
		return nil, errors.New(errors.ErrCodeColumnNotFound,
			fmt.Sprintf("column %q not found", r.Column))
	}

	out := &Table{Header: append([]string(nil), t.Header...)}
	dropped := 0

	for _, row := range t.Rows {
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil || v <= r.Min || v >= r.Max {
			dropped++
			continue
		}
		out.Rows = append(out.Rows, append([]string(nil), row...))
	}

	rep.OutliersDropped += dropped
	rep.AddStep(r.Name(), dropped, 0)
	return out, nil
}

// DropOutlierIQR removes rows whose numeric value lies outside the
// interquartile fences Q1 - f*IQR .. Q3 + f*IQR (inclusive). Fences are
// recomputed over the survivors and re-applied until a pass drops nothing,
// so rerunning the rule over its own output is a no-op.
type DropOutlierIQR struct {
	Column string
	Factor float64
}

func (r DropOutlierIQR) Name() string {
	return "drop_outliers_iqr_" + strings.ToLower(r.Column)
}

func (r DropOutlierIQR) Apply(t *Table, rep *Report) (*Table, error) {
	idx, ok := t.ColumnIndex(r.Column)
	if !ok {
		return nil, errors.New(errors.ErrCodeColumnNotFound,
			fmt.Sprintf("column %q not found", r.Column))
	}

	factor := r.Factor
	if factor == 0 {
		factor = 1.5
	}

	out := t.Clone()
	dropped := 0

	// Removing an extreme value shifts the quartiles, which can expose
	// further outliers against the tighter fences.
	for {
		values := make([]float64, 0, len(out.Rows))
		for _, row := range out.Rows {
			if v, err := strconv.ParseFloat(row[idx], 64); err == nil {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			break
		}

		sort.Float64s(values)
		q1 := quantile(values, 0.25)
		q3 := quantile(values, 0.75)
		iqr := q3 - q1
		lower := q1 - factor*iqr
		upper := q3 + factor*iqr

		kept := &Table{Header: append([]string(nil), out.Header...)}
		passDropped := 0
		for _, row := range out.Rows {
			v, err := strconv.ParseFloat(row[idx], 64)
			if err != nil || v < lower || v > upper {
				passDropped++
				continue
			}
			kept.Rows = append(kept.Rows, append([]string(nil), row...))
		}

		out = kept
		dropped += passDropped
		if passDropped == 0 {
			break
		}
	}

	rep.OutliersDropped += dropped
	rep.AddStep(r.Name(), dropped, 0)
	return out, nil
}

// quantile computes the q-th quantile of sorted values with linear
// interpolation between the closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
