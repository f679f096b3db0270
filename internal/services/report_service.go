package services

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

// chartPalette is the fixed color cycle for breakdown charts. Colors are
// assigned by row position modulo the palette length, not by category
// identity, so a different row order yields different colors.
var chartPalette = []string{
	"#4E79A7", "#F28E2B", "#E15759", "#76B7B2", "#59A14F",
	"#EDC948", "#B07AA1", "#FF9DA7", "#9C755F", "#BAB0AC",
}

// Fixed 30/70 split assumption for the cash-flow waterfall estimate.
var (
	investingShare = decimal.NewFromFloat(0.3)
	financingShare = decimal.NewFromFloat(0.7)
)

const recentTransactionLimit = 10
const supplierBreakdownLimit = 5

// reportService is the aggregation engine: pure computation over ledger
// store query results, assembled into report view-models. It performs no
// authorization checks of its own.
type reportService struct {
	db          *gorm.DB
	ledger      LedgerServicer
	receivables ReceivableServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, ledger LedgerServicer, receivables ReceivableServicer) ReportServicer {
	return &reportService{db: db, ledger: ledger, receivables: receivables}
}

// aggFailed converts a store failure into the single error the engine
// surfaces. Reports never partially fail.
func aggFailed(err error) error {
	return apperrors.Wrap(apperrors.ErrAggregationFailed, err)
}

// paletteColor returns the palette entry for a breakdown row position.
func paletteColor(index int) string {
	return chartPalette[index%len(chartPalette)]
}

// growthRate returns the percentage change from previous to current
// profit. Zero, never NaN or infinity, when the previous profit is zero.
func growthRate(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	cur := current.InexactFloat64()
	prev := previous.InexactFloat64()
	return (cur - prev) / math.Abs(prev) * 100
}

// buildTrend merges per-kind month buckets into one trend entry per month,
// ascending by month key. Months with no transactions are omitted, not
// zero-filled.
func buildTrend(buckets []MonthlyBucket) []TrendPoint {
	var points []TrendPoint
	for _, b := range buckets {
		if len(points) == 0 || points[len(points)-1].Month != b.Month {
			points = append(points, TrendPoint{
				Month:   b.Month,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			})
		}
		p := &points[len(points)-1]
		switch b.Type {
		case models.TransactionTypeIncome:
			p.Income = p.Income.Add(b.Total)
		case models.TransactionTypeExpense:
			p.Expense = p.Expense.Add(b.Total)
		}
	}
	for i := range points {
		points[i].Profit = points[i].Income.Sub(points[i].Expense)
	}
	return points
}

// priorYearMonth returns the month key exactly twelve calendar months
// before the given YYYY-MM key.
func priorYearMonth(monthKey string) string {
	var year, month int
	if _, err := fmt.Sscanf(monthKey, "%d-%d", &year, &month); err != nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", year-1, month)
}

// applyGrowth fills MoM and YoY growth rates on a sorted trend series.
// The first month always reports MoM growth 0; a month whose counterpart
// a year earlier is absent reports YoY growth 0.
func applyGrowth(points []TrendPoint) {
	profitByMonth := make(map[string]decimal.Decimal, len(points))
	for _, p := range points {
		profitByMonth[p.Month] = p.Profit
	}

	for i := range points {
		if i > 0 {
			points[i].MoMGrowth = growthRate(points[i].Profit, points[i-1].Profit)
		}
		if prior, ok := profitByMonth[priorYearMonth(points[i].Month)]; ok {
			points[i].YoYGrowth = growthRate(points[i].Profit, prior)
		}
	}
}

// waterfall builds the illustrative cash-flow estimate. The 30/70
// investing/financing split of current expenses is a fixed assumption,
// not derived from data.
func waterfall(curIncome, curExpense, prevIncome, prevExpense decimal.Decimal) *CashFlowReport {
	report := &CashFlowReport{
		InitialCash:   prevIncome.Sub(prevExpense),
		OperatingCash: curIncome,
		InvestingCash: curExpense.Mul(investingShare).Neg(),
		FinancingCash: curExpense.Mul(financingShare).Neg(),
	}
	report.FinalCash = report.InitialCash.
		Add(report.OperatingCash).
		Add(report.InvestingCash).
		Add(report.FinancingCash)
	return report
}

// liabilityRatio returns expense as a percentage of income, 0 when there
// is no income.
func liabilityRatio(income, expense decimal.Decimal) float64 {
	if income.IsZero() {
		return 0
	}
	return expense.InexactFloat64() / income.InexactFloat64() * 100
}

// healthScore derives the 0-100 heuristic score from the liability
// ratio. Zero unless the period is net positive.
func healthScore(income, expense decimal.Decimal) int {
	if !income.Sub(expense).IsPositive() {
		return 0
	}
	score := 100 - liabilityRatio(income, expense)
	score = math.Min(math.Max(score, 0), 100)
	return int(math.Round(score))
}

// MonthlyTrend produces the per-month income/expense/profit series for a
// date range with growth rates attached.
func (s *reportService) MonthlyTrend(r DateRange) ([]TrendPoint, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	buckets, err := s.ledger.GroupByMonth(r)
	if err != nil {
		return nil, aggFailed(err)
	}

	points := buildTrend(buckets)
	applyGrowth(points)
	return points, nil
}

// YearlyTrend produces the per-year income/expense/profit series.
func (s *reportService) YearlyTrend(startYear, endYear int) ([]YearPoint, error) {
	if startYear > endYear {
		return nil, apperrors.ErrInvalidRange
	}

	buckets, err := s.ledger.GroupByYear(startYear, endYear)
	if err != nil {
		return nil, aggFailed(err)
	}

	var points []YearPoint
	for _, b := range buckets {
		if len(points) == 0 || points[len(points)-1].Year != b.Year {
			points = append(points, YearPoint{
				Year:    b.Year,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			})
		}
		p := &points[len(points)-1]
		switch b.Type {
		case models.TransactionTypeIncome:
			p.Income = p.Income.Add(b.Total)
		case models.TransactionTypeExpense:
			p.Expense = p.Expense.Add(b.Total)
		}
	}
	for i := range points {
		points[i].Profit = points[i].Income.Sub(points[i].Expense)
	}
	return points, nil
}

// DailyTrend produces the per-day income/expense series over the last
// days days, for the statistics page.
func (s *reportService) DailyTrend(days int, now time.Time) ([]DailyPoint, error) {
	if days <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be positive")
	}

	r := DateRange{Start: now.AddDate(0, 0, -days), End: now}
	buckets, err := s.ledger.GroupByDay(r)
	if err != nil {
		return nil, aggFailed(err)
	}

	var points []DailyPoint
	for _, b := range buckets {
		if len(points) == 0 || points[len(points)-1].Date != b.Date {
			points = append(points, DailyPoint{
				Date:    b.Date,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			})
		}
		p := &points[len(points)-1]
		switch b.Type {
		case models.TransactionTypeIncome:
			p.Income = p.Income.Add(b.Total)
		case models.TransactionTypeExpense:
			p.Expense = p.Expense.Add(b.Total)
		}
	}
	return points, nil
}

// CategoryBreakdown returns the per-category totals of a kind within a
// range as pie-chart slices, colored by row position.
func (s *reportService) CategoryBreakdown(txType models.TransactionType, r DateRange) ([]CategorySlice, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.ledger.GroupByCategory(txType, r)
	if err != nil {
		return nil, aggFailed(err)
	}

	slices := make([]CategorySlice, len(rows))
	for i, row := range rows {
		slices[i] = CategorySlice{
			Name:   row.Name,
			Amount: row.Total,
			Color:  paletteColor(i),
		}
	}
	return slices, nil
}

// CashFlow builds the waterfall estimate from the calendar month
// containing now and the month before it.
func (s *reportService) CashFlow(now time.Time) (*CashFlowReport, error) {
	current := MonthRange(now)
	previous := MonthRange(current.Start.AddDate(0, -1, 0))

	curIncome, err := s.ledger.SumAmount(models.TransactionTypeIncome, &current)
	if err != nil {
		return nil, aggFailed(err)
	}
	curExpense, err := s.ledger.SumAmount(models.TransactionTypeExpense, &current)
	if err != nil {
		return nil, aggFailed(err)
	}
	prevIncome, err := s.ledger.SumAmount(models.TransactionTypeIncome, &previous)
	if err != nil {
		return nil, aggFailed(err)
	}
	prevExpense, err := s.ledger.SumAmount(models.TransactionTypeExpense, &previous)
	if err != nil {
		return nil, aggFailed(err)
	}

	return waterfall(curIncome, curExpense, prevIncome, prevExpense), nil
}

// FinancialHealth computes the liability ratio and health score over a
// date range.
func (s *reportService) FinancialHealth(r DateRange) (*HealthReport, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	income, err := s.ledger.SumAmount(models.TransactionTypeIncome, &r)
	if err != nil {
		return nil, aggFailed(err)
	}
	expense, err := s.ledger.SumAmount(models.TransactionTypeExpense, &r)
	if err != nil {
		return nil, aggFailed(err)
	}

	return &HealthReport{
		Income:         income,
		Expense:        expense,
		LiabilityRatio: liabilityRatio(income, expense),
		HealthScore:    healthScore(income, expense),
	}, nil
}

// EmptyDashboardReport returns the all-zero report rendered when
// aggregation fails: a degraded dashboard rather than a mixed one.
func EmptyDashboardReport() *DashboardReport {
	return &DashboardReport{
		MonthIncome:        decimal.Zero,
		MonthExpense:       decimal.Zero,
		TotalIncome:        decimal.Zero,
		TotalExpense:       decimal.Zero,
		RecentTransactions: []models.Transaction{},
		CategoryBreakdown:  []CategorySlice{},
		SupplierBreakdown:  []SupplierTotal{},
		Receivables: ReceivableStats{
			TotalAmount:    decimal.Zero,
			ReceivedAmount: decimal.Zero,
			PendingAmount:  decimal.Zero,
			OverdueAmount:  decimal.Zero,
		},
	}
}

// Dashboard assembles the composite dashboard report. If any underlying
// store call fails, the whole assembly fails with AGGREGATION_FAILED and
// the all-zero report is returned for degraded rendering.
func (s *reportService) Dashboard(now time.Time) (*DashboardReport, error) {
	report, err := s.assembleDashboard(now)
	if err != nil {
		return EmptyDashboardReport(), aggFailed(err)
	}
	return report, nil
}

func (s *reportService) assembleDashboard(now time.Time) (*DashboardReport, error) {
	month := MonthRange(now)

	monthIncome, err := s.ledger.SumAmount(models.TransactionTypeIncome, &month)
	if err != nil {
		return nil, err
	}
	monthExpense, err := s.ledger.SumAmount(models.TransactionTypeExpense, &month)
	if err != nil {
		return nil, err
	}
	totalIncome, err := s.ledger.SumAmount(models.TransactionTypeIncome, nil)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.ledger.SumAmount(models.TransactionTypeExpense, nil)
	if err != nil {
		return nil, err
	}

	counts, err := s.countEntities()
	if err != nil {
		return nil, err
	}
	counts.Transactions, err = s.ledger.CountTransactions()
	if err != nil {
		return nil, err
	}

	recent, err := s.ledger.ListTransactions(TransactionFilter{}, pagination.PageRequest{Page: 1, PageSize: recentTransactionLimit})
	if err != nil {
		return nil, err
	}

	categoryRows, err := s.ledger.GroupByCategory(models.TransactionTypeExpense, month)
	if err != nil {
		return nil, err
	}
	categorySlices := make([]CategorySlice, len(categoryRows))
	for i, row := range categoryRows {
		categorySlices[i] = CategorySlice{Name: row.Name, Amount: row.Total, Color: paletteColor(i)}
	}

	supplierRows, err := s.ledger.GroupBySupplier(models.TransactionTypeExpense, month, supplierBreakdownLimit)
	if err != nil {
		return nil, err
	}

	receivableStats, err := s.receivables.Stats(now)
	if err != nil {
		return nil, err
	}

	return &DashboardReport{
		MonthIncome:        monthIncome,
		MonthExpense:       monthExpense,
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Counts:             counts,
		RecentTransactions: recent.Data,
		CategoryBreakdown:  categorySlices,
		SupplierBreakdown:  supplierRows,
		Receivables:        *receivableStats,
	}, nil
}

// countEntities gathers the dashboard entity counters.
func (s *reportService) countEntities() (DashboardCounts, error) {
	var counts DashboardCounts

	if err := s.db.Model(&models.User{}).Count(&counts.Users).Error; err != nil {
		return counts, storeErr(err)
	}
	if err := s.db.Model(&models.Supplier{}).Count(&counts.Suppliers).Error; err != nil {
		return counts, storeErr(err)
	}
	if err := s.db.Model(&models.Product{}).Count(&counts.Products).Error; err != nil {
		return counts, storeErr(err)
	}
	if err := s.db.Model(&models.Category{}).Count(&counts.Categories).Error; err != nil {
		return counts, storeErr(err)
	}
	if err := s.db.Model(&models.User{}).Where("is_active = ?", true).Count(&counts.ActiveUsers).Error; err != nil {
		return counts, storeErr(err)
	}
	if err := s.db.Model(&models.Supplier{}).Where("is_active = ?", true).Count(&counts.ActiveSuppliers).Error; err != nil {
		return counts, storeErr(err)
	}
	if err := s.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&counts.ActiveProducts).Error; err != nil {
		return counts, storeErr(err)
	}
	return counts, nil
}
