package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartsales/pkg/models"
)

func TestRunUnknownGoal(t *testing.T) {
	svc, _ := newMockWarehouse(t)
	cfg := models.DefaultConfig()
	cfg.Data.Results = t.TempDir()

	reporter := NewService(svc, cfg, nil)
	_, err := reporter.Run(context.Background(), []Goal{"profit-margins"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report goal")
}

func TestRunTopCustomersWritesCSV(t *testing.T) {
	svc, mock := newMockWarehouse(t)
	cfg := models.DefaultConfig()
	cfg.Data.Results = filepath.Join(t.TempDir(), "results")
	cfg.Reporting.TopCustomers = 5

	mock.ExpectQuery("FROM sale s").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(
			[]string{"CustomerID", "Name", "Region", "Purchases", "TotalSpent"}).
			AddRow("C001", "Alice", "East", 3, "750.00"))

	reporter := NewService(svc, cfg, nil)
	results, err := reporter.Run(context.Background(), []Goal{GoalTopCustomers})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, GoalTopCustomers, result.Goal)
	assert.Equal(t, "Top 5 Customers by Total Spend", result.Title)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, []string{"C001", "Alice", "East", "3", "750.00"}, result.Rows[0])

	content, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "CustomerID,Name,Region,Purchases,TotalSpent", lines[0])
	assert.Contains(t, lines[1], "C001")
}

func TestRunWeekdaySalesNotesLowestDay(t *testing.T) {
	svc, mock := newMockWarehouse(t)
	cfg := models.DefaultConfig()
	cfg.Data.Results = t.TempDir()

	mock.ExpectQuery("FROM sale s").
		WillReturnRows(sqlmock.NewRows(
			[]string{"Weekday", "Transactions", "TotalAmount", "AvgAmount"}).
			AddRow(2, 5, "900.00", "180.00").
			AddRow(4, 1, "20.00", "20.00"))

	reporter := NewService(svc, cfg, nil)
	results, err := reporter.Run(context.Background(), []Goal{GoalWeekdaySales})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Contains(t, results[0].Note, "Thursday")
	assert.Contains(t, results[0].Note, "20.00")
}

func TestRenderIncludesTitleAndNote(t *testing.T) {
	renderer := NewRenderer(false)
	out := renderer.Render(Result{
		Title:      "Sales by Day of Week",
		Headers:    []string{"Day", "Total"},
		Rows:       [][]string{{"Monday", "100.00"}},
		Note:       "Lowest revenue day: Monday (100.00)",
		OutputPath: "data/results/sales_by_weekday.csv",
	})

	assert.Contains(t, out, "Sales by Day of Week")
	assert.Contains(t, out, "Monday")
	assert.Contains(t, out, "Lowest revenue day")
	assert.Contains(t, out, "Saved to data/results/sales_by_weekday.csv")
}

func TestRenderEmptyResult(t *testing.T) {
	renderer := NewRenderer(false)
	out := renderer.Render(Result{Title: "Empty", Headers: []string{"A"}})
	assert.Contains(t, out, "No data.")
}
