package services

import (
	"math"
	"testing"
	"time"

	"bizledger/internal/models"
	"bizledger/internal/testutil"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func approxEqual(got, want float64) bool {
	return math.Abs(got-want) < 0.01
}

func TestMonthlyTrend(t *testing.T) {
	t.Run("merges_months_and_computes_profit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)
		income := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)
		expense := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "100", date(2024, 1, 15))
		testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "40", date(2024, 1, 20))
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "50", date(2024, 2, 1))

		trend, err := svc.MonthlyTrend(DateRange{Start: date(2024, 1, 1), End: date(2024, 12, 31)})
		testutil.AssertNoError(t, err)

		if len(trend) != 2 {
			t.Fatalf("expected 2 trend points, got %d", len(trend))
		}
		if trend[0].Month != "2024-01" || trend[1].Month != "2024-02" {
			t.Errorf("unexpected month keys: %s, %s", trend[0].Month, trend[1].Month)
		}
		testutil.AssertDecimalEqual(t, trend[0].Income, "100")
		testutil.AssertDecimalEqual(t, trend[0].Expense, "40")
		testutil.AssertDecimalEqual(t, trend[0].Profit, "60")
		testutil.AssertDecimalEqual(t, trend[1].Profit, "50")

		// (50 - 60) / 60 * 100
		if !approxEqual(trend[1].MoMGrowth, -16.67) {
			t.Errorf("expected MoM growth -16.67, got %f", trend[1].MoMGrowth)
		}
		if trend[0].MoMGrowth != 0 {
			t.Errorf("first month MoM growth should be 0, got %f", trend[0].MoMGrowth)
		}
	})

	t.Run("omits_empty_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)
		income := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)

		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "100", date(2024, 1, 15))
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "200", date(2024, 4, 15))

		trend, err := svc.MonthlyTrend(DateRange{Start: date(2024, 1, 1), End: date(2024, 12, 31)})
		testutil.AssertNoError(t, err)

		if len(trend) != 2 {
			t.Fatalf("expected gap months to be omitted, got %d points", len(trend))
		}
		if trend[1].Month != "2024-04" {
			t.Errorf("expected 2024-04, got %s", trend[1].Month)
		}
	})

	t.Run("growth_zero_when_previous_profit_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)
		income := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)
		expense := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		// January nets to exactly zero.
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "75", date(2024, 1, 10))
		testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "75", date(2024, 1, 12))
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "30", date(2024, 2, 10))

		trend, err := svc.MonthlyTrend(DateRange{Start: date(2024, 1, 1), End: date(2024, 3, 1)})
		testutil.AssertNoError(t, err)

		if len(trend) != 2 {
			t.Fatalf("expected 2 trend points, got %d", len(trend))
		}
		if trend[1].MoMGrowth != 0 {
			t.Errorf("expected MoM growth 0 against zero profit, got %f", trend[1].MoMGrowth)
		}
	})

	t.Run("year_over_year_growth", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)
		income := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)

		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "100", date(2023, 3, 15))
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "150", date(2024, 3, 15))

		trend, err := svc.MonthlyTrend(DateRange{Start: date(2023, 1, 1), End: date(2024, 12, 31)})
		testutil.AssertNoError(t, err)

		if len(trend) != 2 {
			t.Fatalf("expected 2 trend points, got %d", len(trend))
		}
		if !approxEqual(trend[1].YoYGrowth, 50.0) {
			t.Errorf("expected YoY growth 50, got %f", trend[1].YoYGrowth)
		}
		if trend[0].YoYGrowth != 0 {
			t.Errorf("month without a prior-year counterpart should report 0, got %f", trend[0].YoYGrowth)
		}
	})

	t.Run("invalid_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))

		_, err := svc.MonthlyTrend(DateRange{Start: date(2024, 6, 1), End: date(2024, 1, 1)})
		testutil.AssertAppError(t, err, "INVALID_RANGE")
	})
}

func TestYearlyTrend(t *testing.T) {
	t.Run("per_year_totals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)
		income := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)
		expense := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "500", date(2023, 6, 1))
		testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "200", date(2023, 7, 1))
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "800", date(2024, 2, 1))

		points, err := svc.YearlyTrend(2023, 2024)
		testutil.AssertNoError(t, err)

		if len(points) != 2 {
			t.Fatalf("expected 2 year points, got %d", len(points))
		}
		testutil.AssertDecimalEqual(t, points[0].Profit, "300")
		testutil.AssertDecimalEqual(t, points[1].Profit, "800")
	})

	t.Run("invalid_year_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))

		_, err := svc.YearlyTrend(2025, 2020)
		testutil.AssertAppError(t, err, "INVALID_RANGE")
	})
}

func TestCategoryBreakdown(t *testing.T) {
	t.Run("colors_follow_row_position", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)

		// Descending totals pin the row order.
		amounts := []string{"300", "200", "100"}
		for _, amount := range amounts {
			category := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
			testutil.CreateTestTransaction(t, db, user.ID, category.ID, models.TransactionTypeExpense, amount, date(2024, 5, 10))
		}

		slices, err := svc.CategoryBreakdown(models.TransactionTypeExpense, DateRange{Start: date(2024, 5, 1), End: date(2024, 5, 31)})
		testutil.AssertNoError(t, err)

		if len(slices) != 3 {
			t.Fatalf("expected 3 slices, got %d", len(slices))
		}
		for i, slice := range slices {
			if slice.Color != chartPalette[i] {
				t.Errorf("slice %d: expected color %s, got %s", i, chartPalette[i], slice.Color)
			}
		}
		testutil.AssertDecimalEqual(t, slices[0].Amount, "300")
	})

	t.Run("palette_wraps_past_ten_rows", func(t *testing.T) {
		if paletteColor(10) != chartPalette[0] {
			t.Errorf("expected color %s at row 10, got %s", chartPalette[0], paletteColor(10))
		}
		if paletteColor(13) != chartPalette[3] {
			t.Errorf("expected color %s at row 13, got %s", chartPalette[3], paletteColor(13))
		}
	})

	t.Run("empty_categories_omitted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		slices, err := svc.CategoryBreakdown(models.TransactionTypeExpense, DateRange{Start: date(2024, 1, 1), End: date(2024, 12, 31)})
		testutil.AssertNoError(t, err)

		if len(slices) != 0 {
			t.Errorf("expected no slices for a category with no transactions, got %d", len(slices))
		}
	})
}

func TestCashFlow(t *testing.T) {
	t.Run("waterfall_legs", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)
		income := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)
		expense := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		now := date(2024, 6, 15)
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "200", date(2024, 5, 10))
		testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "80", date(2024, 5, 12))
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "100", date(2024, 6, 5))
		testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "50", date(2024, 6, 8))

		report, err := svc.CashFlow(now)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, report.InitialCash, "120")
		testutil.AssertDecimalEqual(t, report.OperatingCash, "100")
		testutil.AssertDecimalEqual(t, report.InvestingCash, "-15")
		testutil.AssertDecimalEqual(t, report.FinancingCash, "-35")
		testutil.AssertDecimalEqual(t, report.FinalCash, "170")
	})

	t.Run("empty_ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))

		report, err := svc.CashFlow(date(2024, 6, 15))
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, report.FinalCash, "0")
	})
}

func TestFinancialHealth(t *testing.T) {
	t.Run("score_from_liability_ratio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)
		income := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)
		expense := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "100", date(2024, 3, 5))
		testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "30", date(2024, 3, 10))

		report, err := svc.FinancialHealth(DateRange{Start: date(2024, 3, 1), End: date(2024, 3, 31)})
		testutil.AssertNoError(t, err)

		if !approxEqual(report.LiabilityRatio, 30.0) {
			t.Errorf("expected liability ratio 30, got %f", report.LiabilityRatio)
		}
		if report.HealthScore != 70 {
			t.Errorf("expected health score 70, got %d", report.HealthScore)
		}
	})

	t.Run("zero_score_when_not_profitable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)
		income := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)
		expense := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "50", date(2024, 3, 5))
		testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "80", date(2024, 3, 10))

		report, err := svc.FinancialHealth(DateRange{Start: date(2024, 3, 1), End: date(2024, 3, 31)})
		testutil.AssertNoError(t, err)

		if report.HealthScore != 0 {
			t.Errorf("expected health score 0 for a loss-making period, got %d", report.HealthScore)
		}
	})

	t.Run("zero_ratio_without_income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "80", date(2024, 3, 10))

		report, err := svc.FinancialHealth(DateRange{Start: date(2024, 3, 1), End: date(2024, 3, 31)})
		testutil.AssertNoError(t, err)

		if report.LiabilityRatio != 0 {
			t.Errorf("expected liability ratio 0 without income, got %f", report.LiabilityRatio)
		}
		if report.HealthScore != 0 {
			t.Errorf("expected health score 0, got %d", report.HealthScore)
		}
	})
}

func TestDashboard(t *testing.T) {
	t.Run("assembles_full_report", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)
		income := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)
		expense := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		testutil.CreateTestSupplier(t, db)
		testutil.CreateTestProduct(t, db, 5)

		now := date(2024, 6, 15)
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "300", date(2024, 6, 2))
		testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "120", date(2024, 6, 4))
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "50", date(2024, 1, 4))
		testutil.CreateTestReceivable(t, db, user.ID, "1000", date(2024, 7, 1))

		report, err := svc.Dashboard(now)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, report.MonthIncome, "300")
		testutil.AssertDecimalEqual(t, report.MonthExpense, "120")
		testutil.AssertDecimalEqual(t, report.TotalIncome, "350")
		if report.Counts.Transactions != 3 {
			t.Errorf("expected 3 transactions, got %d", report.Counts.Transactions)
		}
		if report.Counts.Suppliers != 1 || report.Counts.Products != 1 {
			t.Errorf("unexpected entity counts: %+v", report.Counts)
		}
		if len(report.RecentTransactions) != 3 {
			t.Errorf("expected 3 recent transactions, got %d", len(report.RecentTransactions))
		}
		if len(report.CategoryBreakdown) != 1 {
			t.Fatalf("expected 1 expense slice, got %d", len(report.CategoryBreakdown))
		}
		testutil.AssertDecimalEqual(t, report.CategoryBreakdown[0].Amount, "120")
		testutil.AssertDecimalEqual(t, report.Receivables.PendingAmount, "1000")
	})

	t.Run("degraded_report_on_store_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))

		// Closing the connection makes every store call fail.
		sqlDB, err := db.DB()
		testutil.AssertNoError(t, err)
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}

		report, err := svc.Dashboard(date(2024, 6, 15))
		testutil.AssertAppError(t, err, "AGGREGATION_FAILED")

		if report == nil {
			t.Fatal("expected an all-zero report alongside the error")
		}
		testutil.AssertDecimalEqual(t, report.TotalIncome, "0")
		if len(report.RecentTransactions) != 0 {
			t.Errorf("expected no recent transactions in degraded report, got %d", len(report.RecentTransactions))
		}
	})
}

func TestDailyTrend(t *testing.T) {
	t.Run("per_day_series", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))
		user := testutil.CreateTestUser(t, db)
		income := testutil.CreateTestCategory(t, db, models.CategoryTypeIncome)
		expense := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		now := date(2024, 6, 15)
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "40", date(2024, 6, 13))
		testutil.CreateTestTransaction(t, db, user.ID, expense.ID, models.TransactionTypeExpense, "10", date(2024, 6, 13))
		testutil.CreateTestTransaction(t, db, user.ID, income.ID, models.TransactionTypeIncome, "25", date(2024, 6, 14))

		points, err := svc.DailyTrend(7, now)
		testutil.AssertNoError(t, err)

		if len(points) != 2 {
			t.Fatalf("expected 2 daily points, got %d", len(points))
		}
		if points[0].Date != "2024-06-13" {
			t.Errorf("expected 2024-06-13 first, got %s", points[0].Date)
		}
		testutil.AssertDecimalEqual(t, points[0].Income, "40")
		testutil.AssertDecimalEqual(t, points[0].Expense, "10")
		testutil.AssertDecimalEqual(t, points[1].Income, "25")
	})

	t.Run("rejects_non_positive_days", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db, NewLedgerService(db), NewReceivableService(db))

		_, err := svc.DailyTrend(0, date(2024, 6, 15))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
