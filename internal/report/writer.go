package report

import (
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"

	"smartsales/internal/common"
	"smartsales/pkg/errors"
)

// writeCSV marshals report rows into a CSV file under the results
// directory and returns the written path.
func writeCSV[T any](resultsDir, file string, rows []T) (string, error) {
	if err := os.MkdirAll(resultsDir, common.DirPermissionNormal); err != nil {
		return "", errors.FileError("failed to create results directory", resultsDir, err)
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeFileOperation, "failed to marshal report rows")
	}

	path := filepath.Join(resultsDir, file)
	if err := os.WriteFile(path, data, common.FilePermissionNormal); err != nil {
		return "", errors.FileError("failed to write report file", path, err)
	}

	return path, nil
}
