package prepare

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartsales/internal/scrubber"
	"smartsales/pkg/models"
)

func testConfig(t *testing.T) *models.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := models.DefaultConfig()
	cfg.Data.Root = dir
	cfg.Data.Raw = filepath.Join(dir, "raw")
	cfg.Data.Prepared = filepath.Join(dir, "prepared")
	cfg.Data.Results = filepath.Join(dir, "results")
	cfg.Warehouse.Path = filepath.Join(dir, "dw", "smart_sales.db")

	require.NoError(t, os.MkdirAll(cfg.Data.Raw, 0o755))
	return cfg
}

func writeRaw(t *testing.T, cfg *models.Config, name string, lines ...string) {
	t.Helper()
	path := filepath.Join(cfg.Data.Raw, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestPrepareAllUnknownDataset(t *testing.T) {
	svc := NewService(testConfig(t), nil)
	_, err := svc.PrepareAll([]string{"orders"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dataset")
}

func TestPrepareCustomers(t *testing.T) {
	cfg := testConfig(t)
	writeRaw(t, cfg, "customers.csv",
		"CustomerID,Name,Region,JoinDate,Purchases,AmountSpent,State",
		"C001, Alice ,East,03/15/2023,5,500,NC",
		"C001, Alice ,East,03/15/2023,5,500,NC", // exact duplicate
		"C002,,West,2023-04-01,2,9000,WA",       // missing name
		"C003,Carol,South,2023-05-01,1,50,TX",   // spend below minimum
		"C004,Dan,North,never,3,400,ME",         // unparseable date
	)

	svc := NewService(cfg, nil)
	results, err := svc.PrepareAll([]string{"customers"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	require.NoError(t, result.Err)
	assert.Equal(t, 0, result.Malformed)
	assert.Equal(t, 5, result.Report.RowsIn)
	assert.Equal(t, 2, result.Report.RowsOut)
	assert.Equal(t, 1, result.Report.DuplicatesDropped)
	assert.Equal(t, 1, result.Report.CellsFilled)
	assert.Equal(t, 1, result.Report.DatesFailed)
	assert.Equal(t, 1, result.Report.OutliersDropped)

	out, err := os.Open(result.PreparedPath)
	require.NoError(t, err)
	defer out.Close()

	table, malformed, err := scrubber.ReadTable(out)
	require.NoError(t, err)
	assert.Equal(t, 0, malformed)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "C001", table.Rows[0][0])
	assert.Equal(t, "Alice", table.Rows[0][1])
	assert.Equal(t, "2023-03-15", table.Rows[0][3])
	assert.Equal(t, "C002", table.Rows[1][0])
	assert.Equal(t, "Unknown", table.Rows[1][1])
}

func TestPrepareSalesSkipsMalformedRows(t *testing.T) {
	cfg := testConfig(t)
	writeRaw(t, cfg, "sales_data.csv",
		"TransactionID,CustomerID,ProductID,SaleDate,SaleAmount,MemberStatus",
		"T001,C001,P001,2024-01-15,250.50,Gold",
		"T002,C002", // malformed, short row
		"T003,C003,P002,01/20/2024,99.99,Silver",
	)

	svc := NewService(cfg, nil)
	results, err := svc.PrepareAll([]string{"sales"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	require.NoError(t, result.Err)
	assert.Equal(t, 1, result.Malformed)
	assert.Equal(t, 2, result.Report.RowsOut)
	assert.Equal(t, 1, result.Report.DatesNormalized)
}

func TestPrepareAllIsolatesFailures(t *testing.T) {
	cfg := testConfig(t)
	// Only the sales file exists; customers and products are missing.
	writeRaw(t, cfg, "sales_data.csv",
		"TransactionID,CustomerID,ProductID,SaleDate,SaleAmount,MemberStatus",
		"T001,C001,P001,2024-01-15,250.50,Gold",
	)

	svc := NewService(cfg, nil)
	results, err := svc.PrepareAll(nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byName := make(map[string]Result)
	for _, r := range results {
		byName[r.Dataset] = r
	}

	assert.Error(t, byName["customers"].Err)
	assert.Error(t, byName["products"].Err)
	assert.NoError(t, byName["sales"].Err)
}

func TestPrepareProductsFillsAndFences(t *testing.T) {
	cfg := testConfig(t)
	writeRaw(t, cfg, "products_data.csv",
		"ProductID,ProductName,Category,UnitPrice,QuantityInStock,Supplier",
		"P001,Laptop,Electronics,1000,10,Acme",
		"P001,Laptop Copy,Electronics,1000,10,Acme", // duplicate ProductID
		"P002,,Electronics,1050,5,Acme",             // missing name
		"P003,Cable,,950,50,Volta",                  // missing category
		"P004,Monitor,Electronics,,8,Acme",          // missing price, median filled
	)

	svc := NewService(cfg, nil)
	results, err := svc.PrepareAll([]string{"products"})
	require.NoError(t, err)

	result := results[0]
	require.NoError(t, result.Err)
	assert.Equal(t, 1, result.Report.DuplicatesDropped)

	out, err := os.Open(result.PreparedPath)
	require.NoError(t, err)
	defer out.Close()

	table, _, err := scrubber.ReadTable(out)
	require.NoError(t, err)
	require.Len(t, table.Rows, 4)

	nameIdx, _ := table.ColumnIndex("ProductName")
	catIdx, _ := table.ColumnIndex("Category")
	priceIdx, _ := table.ColumnIndex("UnitPrice")

	assert.Equal(t, "Unknown Product", table.Rows[1][nameIdx])
	assert.Equal(t, "Electronics", table.Rows[2][catIdx])
	assert.Equal(t, "1000", table.Rows[3][priceIdx])
}
