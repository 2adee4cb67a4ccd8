package report

import (
	"context"
	"fmt"
	"strconv"

	"smartsales/internal/observability"
	"smartsales/internal/warehouse"
	"smartsales/pkg/errors"
	"smartsales/pkg/models"
)

// Goal identifies one business-intelligence question answered from the
// warehouse.
type Goal string

const (
	GoalTopCustomers      Goal = "top-customers"
	GoalWeekdaySales      Goal = "weekday-sales"
	GoalPeakSellTimes     Goal = "peak-sell-times"
	GoalPurchaseFrequency Goal = "purchase-frequency"
)

// AllGoals lists every goal in report order
var AllGoals = []Goal{
	GoalTopCustomers,
	GoalWeekdaySales,
	GoalPeakSellTimes,
	GoalPurchaseFrequency,
}

// Result is a rendered report: console rows plus the CSV file written for
// downstream notebook and BI use.
type Result struct {
	Goal       Goal
	Title      string
	Headers    []string
	Rows       [][]string
	OutputPath string
	Note       string
}

// Service runs report goals against a connected warehouse
type Service struct {
	svc    *warehouse.Service
	cfg    *models.Config
	logger *observability.Logger
}

// NewService creates a reporting service
func NewService(svc *warehouse.Service, cfg *models.Config, logger *observability.Logger) *Service {
	if logger == nil {
		logger = observability.Default()
	}
	return &Service{svc: svc, cfg: cfg, logger: logger}
}

// Run executes the named goals, or every goal when the list is empty
func (s *Service) Run(ctx context.Context, goals []Goal) ([]Result, error) {
	if len(goals) == 0 {
		goals = AllGoals
	}

	results := make([]Result, 0, len(goals))
	for _, goal := range goals {
		result, err := s.runGoal(ctx, goal)
		if err != nil {
			return results, err
		}

		s.logger.InfoWithFields("report goal complete", map[string]interface{}{
			"goal":   string(goal),
			"rows":   len(result.Rows),
			"output": result.OutputPath,
		})
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) runGoal(ctx context.Context, goal Goal) (Result, error) {
	switch goal {
	case GoalTopCustomers:
		return s.topCustomers(ctx)
	case GoalWeekdaySales:
		return s.weekdaySales(ctx)
	case GoalPeakSellTimes:
		return s.peakSellTimes(ctx)
	case GoalPurchaseFrequency:
		return s.purchaseFrequency(ctx)
	default:
		return Result{}, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("unknown report goal %q", goal)).
			WithSuggestions("Known goals: top-customers, weekday-sales, peak-sell-times, purchase-frequency")
	}
}

func (s *Service) topCustomers(ctx context.Context) (Result, error) {
	limit := s.cfg.Reporting.TopCustomers
	if limit <= 0 {
		limit = 10
	}

	rows, err := TopCustomers(ctx, s.svc, limit)
	if err != nil {
		return Result{}, err
	}

	path, err := writeCSV(s.cfg.Data.Results, "top_customers.csv", rows)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Goal:       GoalTopCustomers,
		Title:      fmt.Sprintf("Top %d Customers by Total Spend", limit),
		Headers:    []string{"Customer ID", "Name", "Region", "Purchases", "Total Spent"},
		OutputPath: path,
	}
	for _, row := range rows {
		result.Rows = append(result.Rows, []string{
			row.CustomerID,
			row.Name,
			row.Region,
			strconv.Itoa(row.Purchases),
			row.TotalSpent.StringFixed(2),
		})
	}
	return result, nil
}

func (s *Service) weekdaySales(ctx context.Context) (Result, error) {
	rows, err := WeekdaySales(ctx, s.svc)
	if err != nil {
		return Result{}, err
	}

	path, err := writeCSV(s.cfg.Data.Results, "sales_by_weekday.csv", rows)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Goal:       GoalWeekdaySales,
		Title:      "Sales by Day of Week",
		Headers:    []string{"Day", "Transactions", "Total Amount", "Avg Amount"},
		OutputPath: path,
	}
	for _, row := range rows {
		result.Rows = append(result.Rows, []string{
			row.DayOfWeek,
			strconv.Itoa(row.Transactions),
			row.TotalAmount.StringFixed(2),
			row.AvgAmount.StringFixed(2),
		})
	}
	if lowest, ok := LowestRevenueDay(rows); ok {
		result.Note = fmt.Sprintf("Lowest revenue day: %s (%s)",
			lowest.DayOfWeek, lowest.TotalAmount.StringFixed(2))
	}
	return result, nil
}

func (s *Service) peakSellTimes(ctx context.Context) (Result, error) {
	rows, err := PeakSellTimes(ctx, s.svc)
	if err != nil {
		return Result{}, err
	}

	path, err := writeCSV(s.cfg.Data.Results, "peak_sell_times.csv", rows)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Goal:       GoalPeakSellTimes,
		Title:      "Peak Sell Times by Region and Supplier",
		Headers:    []string{"Region", "Supplier", "Peak Day", "Total Amount"},
		OutputPath: path,
	}
	for _, row := range rows {
		result.Rows = append(result.Rows, []string{
			row.Region,
			row.Supplier,
			row.DayOfWeek,
			row.TotalAmount.StringFixed(2),
		})
	}
	return result, nil
}

func (s *Service) purchaseFrequency(ctx context.Context) (Result, error) {
	rows, err := PurchaseFrequency(ctx, s.svc)
	if err != nil {
		return Result{}, err
	}

	path, err := writeCSV(s.cfg.Data.Results, "customer_purchase_frequency.csv", rows)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Goal:       GoalPurchaseFrequency,
		Title:      "Customer Purchase Frequency by Month",
		Headers:    []string{"Month", "Transactions", "Active Customers", "Avg per Customer", "Total Amount"},
		OutputPath: path,
	}
	for _, row := range rows {
		result.Rows = append(result.Rows, []string{
			row.Month,
			strconv.Itoa(row.Transactions),
			strconv.Itoa(row.ActiveCustomers),
			row.AvgPerCustomer.StringFixed(2),
			row.TotalAmount.StringFixed(2),
		})
	}
	return result, nil
}
