package prepare

import (
	"fmt"
	"os"
	"path/filepath"

	"smartsales/internal/common"
	"smartsales/internal/observability"
	"smartsales/internal/scrubber"
	"smartsales/pkg/errors"
	"smartsales/pkg/models"
)

// Service runs the data preparation stage: raw CSV in, cleaned CSV out,
// one dataset at a time.
type Service struct {
	cfg    *models.Config
	logger *observability.Logger
}

// NewService creates a preparation service
func NewService(cfg *models.Config, logger *observability.Logger) *Service {
	if logger == nil {
		logger = observability.Default()
	}
	return &Service{cfg: cfg, logger: logger}
}

// Result is the outcome of preparing one dataset
type Result struct {
	Dataset      string
	RawPath      string
	PreparedPath string
	Malformed    int
	Report       *scrubber.Report
	Err          error
}

// PrepareAll processes the named datasets, or every registered dataset when
// names is empty. One dataset failing is reported in its Result and does
// not halt the others.
func (s *Service) PrepareAll(names []string) ([]Result, error) {
	datasets := Datasets
	if len(names) > 0 {
		datasets = make([]Dataset, 0, len(names))
		for _, name := range names {
			ds, ok := Lookup(name)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					fmt.Sprintf("unknown dataset %q", name)).
					WithSuggestions("Known datasets: customers, products, sales")
			}
			datasets = append(datasets, ds)
		}
	}

	results := make([]Result, 0, len(datasets))
	for _, ds := range datasets {
		results = append(results, s.prepareOne(ds))
	}
	return results, nil
}

func (s *Service) prepareOne(ds Dataset) Result {
	log := s.logger.WithField("dataset", ds.Name)

	result := Result{Dataset: ds.Name}

	rawPath, err := common.JoinPath(s.cfg.Data.Raw, ds.RawFile)
	if err != nil {
		result.Err = errors.FileError("invalid raw data path", ds.RawFile, err)
		return result
	}
	result.RawPath = rawPath

	log.Infof("reading raw data from %s", rawPath)

	file, err := os.Open(rawPath) // #nosec G304 - path is validated
	if err != nil {
		result.Err = errors.FileError("failed to open raw data file", rawPath, err)
		return result
	}
	defer file.Close()

	table, malformed, err := scrubber.ReadTable(file)
	if err != nil {
		result.Err = errors.ScrubError("failed to parse raw data file", ds.Name, err)
		return result
	}
	result.Malformed = malformed
	if malformed > 0 {
		log.WarnWithFields("skipped malformed rows", map[string]interface{}{
			"malformed": malformed,
		})
	}

	log.InfoWithFields("raw data loaded", map[string]interface{}{
		"rows":    len(table.Rows),
		"columns": len(table.Header),
	})

	cleaned, report, err := ds.Pipeline(s.cfg).Run(table)
	if err != nil {
		result.Err = errors.ScrubError("scrubbing failed", ds.Name, err)
		return result
	}
	result.Report = report

	log.InfoWithFields("scrubbing complete", map[string]interface{}{
		"rows_in":            report.RowsIn,
		"rows_out":           report.RowsOut,
		"duplicates_dropped": report.DuplicatesDropped,
		"cells_trimmed":      report.CellsTrimmed,
		"cells_filled":       report.CellsFilled,
		"dates_normalized":   report.DatesNormalized,
		"dates_failed":       report.DatesFailed,
		"outliers_dropped":   report.OutliersDropped,
	})

	if err := os.MkdirAll(s.cfg.Data.Prepared, common.DirPermissionNormal); err != nil {
		result.Err = errors.FileError("failed to create prepared data directory", s.cfg.Data.Prepared, err)
		return result
	}

	preparedPath := filepath.Join(s.cfg.Data.Prepared, ds.PreparedFile)
	result.PreparedPath = preparedPath

	out, err := os.OpenFile(preparedPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, common.FilePermissionNormal)
	if err != nil {
		result.Err = errors.FileError("failed to create prepared data file", preparedPath, err)
		return result
	}
	defer out.Close()

	if err := scrubber.WriteTable(out, cleaned); err != nil {
		result.Err = errors.FileError("failed to write prepared data file", preparedPath, err)
		return result
	}

	log.Infof("prepared data saved to %s", preparedPath)
	return result
}
