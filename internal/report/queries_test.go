package report

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartsales/internal/warehouse"
)

func newMockWarehouse(t *testing.T) (*warehouse.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := warehouse.NewServiceWithDB(sqlx.NewDb(db, "sqlite3"), warehouse.Config{Path: "test.db"})
	return svc, mock
}

func TestTopCustomers(t *testing.T) {
	svc, mock := newMockWarehouse(t)

	mock.ExpectQuery("FROM sale s").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(
			[]string{"CustomerID", "Name", "Region", "Purchases", "TotalSpent"}).
			AddRow("C002", "Bob", "West", 4, "1200.50").
			AddRow("C001", "Alice", "East", 2, "800.00"))

	rows, err := TopCustomers(context.Background(), svc, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "C002", rows[0].CustomerID)
	assert.True(t, rows[0].TotalSpent.Equal(decimal.RequireFromString("1200.50")))
	assert.Equal(t, "C001", rows[1].CustomerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekdaySales(t *testing.T) {
	svc, mock := newMockWarehouse(t)

	mock.ExpectQuery("FROM sale s").
		WillReturnRows(sqlmock.NewRows(
			[]string{"Weekday", "Transactions", "TotalAmount", "AvgAmount"}).
			AddRow(0, 3, "300.00", "100.00").
			AddRow(1, 1, "50.00", "50.00").
			AddRow(6, 2, "400.00", "200.00"))

	rows, err := WeekdaySales(context.Background(), svc)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Sunday", rows[0].DayOfWeek)
	assert.Equal(t, "Monday", rows[1].DayOfWeek)
	assert.Equal(t, "Saturday", rows[2].DayOfWeek)

	lowest, ok := LowestRevenueDay(rows)
	require.True(t, ok)
	assert.Equal(t, "Monday", lowest.DayOfWeek)
}

func TestLowestRevenueDayEmpty(t *testing.T) {
	_, ok := LowestRevenueDay(nil)
	assert.False(t, ok)
}

func TestPeakSellTimes(t *testing.T) {
	svc, mock := newMockWarehouse(t)

	mock.ExpectQuery("FROM sale s").
		WillReturnRows(sqlmock.NewRows(
			[]string{"Region", "Supplier", "Weekday", "TotalAmount"}).
			AddRow("East", "Acme", 1, "100.00").
			AddRow("East", "Acme", 3, "500.00").
			AddRow("East", "Volta", 2, "50.00").
			AddRow("West", "Acme", 5, "75.00").
			AddRow("West", "Acme", 6, "75.00")) // tie, earlier weekday wins

	rows, err := PeakSellTimes(context.Background(), svc)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "East", rows[0].Region)
	assert.Equal(t, "Acme", rows[0].Supplier)
	assert.Equal(t, "Wednesday", rows[0].DayOfWeek)
	assert.True(t, rows[0].TotalAmount.Equal(decimal.RequireFromString("500.00")))

	assert.Equal(t, "Volta", rows[1].Supplier)
	assert.Equal(t, "Tuesday", rows[1].DayOfWeek)

	assert.Equal(t, "West", rows[2].Region)
	assert.Equal(t, "Friday", rows[2].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseFrequency(t *testing.T) {
	svc, mock := newMockWarehouse(t)

	mock.ExpectQuery("FROM sale s").
		WillReturnRows(sqlmock.NewRows(
			[]string{"Month", "Transactions", "ActiveCustomers", "TotalAmount"}).
			AddRow("01", 10, 4, "1000.00").
			AddRow("02", 3, 2, "300.00"))

	rows, err := PurchaseFrequency(context.Background(), svc)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "January", rows[0].Month)
	assert.True(t, rows[0].AvgPerCustomer.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, "February", rows[1].Month)
	assert.True(t, rows[1].AvgPerCustomer.Equal(decimal.RequireFromString("1.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryError(t *testing.T) {
	svc, mock := newMockWarehouse(t)

	mock.ExpectQuery("FROM sale s").
		WillReturnError(assert.AnError)

	_, err := WeekdaySales(context.Background(), svc)
	assert.Error(t, err)
}
