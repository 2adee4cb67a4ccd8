package report

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"smartsales/internal/warehouse"
	"smartsales/pkg/errors"
)

// TopCustomerRow is one line of the top-customers report
type TopCustomerRow struct {
	CustomerID string          `csv:"CustomerID" db:"CustomerID"`
	Name       string          `csv:"Name" db:"Name"`
	Region     string          `csv:"Region" db:"Region"`
	Purchases  int             `csv:"Purchases" db:"Purchases"`
	TotalSpent decimal.Decimal `csv:"TotalSpent" db:"TotalSpent"`
}

// WeekdaySalesRow is one line of the weekday-sales report
type WeekdaySalesRow struct {
	Weekday      int             `csv:"-" db:"Weekday"`
	DayOfWeek    string          `csv:"DayOfWeek" db:"-"`
	Transactions int             `csv:"Transactions" db:"Transactions"`
	TotalAmount  decimal.Decimal `csv:"TotalAmount" db:"TotalAmount"`
	AvgAmount    decimal.Decimal `csv:"AvgAmount" db:"AvgAmount"`
}

// PeakSellTimeRow is one line of the peak-sell-times report: per region and
// supplier, the weekday with the highest summed sale amount.
type PeakSellTimeRow struct {
	Region      string          `csv:"Region" db:"Region"`
	Supplier    string          `csv:"Supplier" db:"Supplier"`
	Weekday     int             `csv:"-" db:"Weekday"`
	DayOfWeek   string          `csv:"DayOfWeek" db:"-"`
	TotalAmount decimal.Decimal `csv:"TotalAmount" db:"TotalAmount"`
}

// PurchaseFrequencyRow is one line of the purchase-frequency report
type PurchaseFrequencyRow struct {
	Month           string          `csv:"Month" db:"Month"`
	Transactions    int             `csv:"Transactions" db:"Transactions"`
	ActiveCustomers int             `csv:"ActiveCustomers" db:"ActiveCustomers"`
	AvgPerCustomer  decimal.Decimal `csv:"AvgPerCustomer" db:"-"`
	TotalAmount     decimal.Decimal `csv:"TotalAmount" db:"TotalAmount"`
}

var monthNames = map[string]string{
	"01": "January", "02": "February", "03": "March", "04": "April",
	"05": "May", "06": "June", "07": "July", "08": "August",
	"09": "September", "10": "October", "11": "November", "12": "December",
}

const topCustomersSQL = `
	SELECT c.CustomerID AS CustomerID,
	       c.Name AS Name,
	       c.Region AS Region,
	       COUNT(s.TransactionID) AS Purchases,
	       SUM(s.SaleAmount) AS TotalSpent
	FROM sale s
	JOIN customer c ON c.CustomerID = s.CustomerID
	GROUP BY c.CustomerID, c.Name, c.Region
	ORDER BY TotalSpent DESC, c.CustomerID
	LIMIT ?`

// TopCustomers returns the highest-spending customers
func TopCustomers(ctx context.Context, svc *warehouse.Service, limit int) ([]TopCustomerRow, error) {
	var rows []TopCustomerRow
	if err := svc.DB().SelectContext(ctx, &rows, topCustomersSQL, limit); err != nil {
		return nil, errors.SQLError("top customers query failed", topCustomersSQL, err)
	}
	return rows, nil
}

const weekdaySalesSQL = `
	SELECT CAST(strftime('%w', s.SaleDate) AS INTEGER) AS Weekday,
	       COUNT(*) AS Transactions,
	       SUM(s.SaleAmount) AS TotalAmount,
	       AVG(s.SaleAmount) AS AvgAmount
	FROM sale s
	GROUP BY Weekday
	ORDER BY Weekday`

// WeekdaySales returns total and average sale amount per day of week
func WeekdaySales(ctx context.Context, svc *warehouse.Service) ([]WeekdaySalesRow, error) {
	var rows []WeekdaySalesRow
	if err := svc.DB().SelectContext(ctx, &rows, weekdaySalesSQL); err != nil {
		return nil, errors.SQLError("weekday sales query failed", weekdaySalesSQL, err)
	}
	for i := range rows {
		rows[i].DayOfWeek = weekdayName(rows[i].Weekday)
	}
	return rows, nil
}

// LowestRevenueDay returns the weekday with the smallest total sale amount
func LowestRevenueDay(rows []WeekdaySalesRow) (WeekdaySalesRow, bool) {
	if len(rows) == 0 {
		return WeekdaySalesRow{}, false
	}
	lowest := rows[0]
	for _, row := range rows[1:] {
		if row.TotalAmount.LessThan(lowest.TotalAmount) {
			lowest = row
		}
	}
	return lowest, true
}

const peakSellTimesSQL = `
	SELECT st.Region AS Region,
	       p.Supplier AS Supplier,
	       CAST(strftime('%w', s.SaleDate) AS INTEGER) AS Weekday,
	       SUM(s.SaleAmount) AS TotalAmount
	FROM sale s
	JOIN store st ON st.StoreID = s.StoreID
	JOIN product p ON p.ProductID = s.ProductID
	GROUP BY st.Region, p.Supplier, Weekday
	ORDER BY st.Region, p.Supplier, Weekday`

// PeakSellTimes returns, for every region and supplier pair, the weekday
// with the highest summed sale amount. Ties break to the earliest weekday.
func PeakSellTimes(ctx context.Context, svc *warehouse.Service) ([]PeakSellTimeRow, error) {
	var rows []PeakSellTimeRow
	if err := svc.DB().SelectContext(ctx, &rows, peakSellTimesSQL); err != nil {
		return nil, errors.SQLError("peak sell times query failed", peakSellTimesSQL, err)
	}

	type key struct{ region, supplier string }
	best := make(map[key]PeakSellTimeRow)
	order := make([]key, 0)

	for _, row := range rows {
		k := key{row.Region, row.Supplier}
		current, seen := best[k]
		if !seen {
			order = append(order, k)
		}
		if !seen || row.TotalAmount.GreaterThan(current.TotalAmount) {
			best[k] = row
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].region != order[j].region {
			return order[i].region < order[j].region
		}
		return order[i].supplier < order[j].supplier
	})

	peaks := make([]PeakSellTimeRow, 0, len(order))
	for _, k := range order {
		row := best[k]
		row.DayOfWeek = weekdayName(row.Weekday)
		peaks = append(peaks, row)
	}
	return peaks, nil
}

const purchaseFrequencySQL = `
	SELECT strftime('%m', s.SaleDate) AS Month,
	       COUNT(*) AS Transactions,
	       COUNT(DISTINCT s.CustomerID) AS ActiveCustomers,
	       SUM(s.SaleAmount) AS TotalAmount
	FROM sale s
	GROUP BY Month
	ORDER BY Month`

// PurchaseFrequency returns per-month purchase counts, the number of
// distinct purchasing customers, and total revenue.
func PurchaseFrequency(ctx context.Context, svc *warehouse.Service) ([]PurchaseFrequencyRow, error) {
	var rows []PurchaseFrequencyRow
	if err := svc.DB().SelectContext(ctx, &rows, purchaseFrequencySQL); err != nil {
		return nil, errors.SQLError("purchase frequency query failed", purchaseFrequencySQL, err)
	}
	for i := range rows {
		if name, ok := monthNames[rows[i].Month]; ok {
			rows[i].Month = name
		}
		if rows[i].ActiveCustomers > 0 {
			rows[i].AvgPerCustomer = decimal.NewFromInt(int64(rows[i].Transactions)).
				Div(decimal.NewFromInt(int64(rows[i].ActiveCustomers))).
				Round(2)
		}
	}
	return rows, nil
}

func weekdayName(weekday int) string {
	if weekday < 0 || weekday >= len(warehouse.WeekdayNames) {
		return "Unknown"
	}
	return warehouse.WeekdayNames[weekday]
}
