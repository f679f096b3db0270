package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/services"
)

// ReportHandler serves the aggregated reporting endpoints.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetDashboard returns the composite dashboard report
// @Summary     Dashboard report
// @Description Month-to-date and all-time totals, entity counts, recent transactions, category and supplier breakdowns, and receivable statistics. When aggregation fails an all-zero report is returned with a warning so the page can still render.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardReport "Dashboard report"
// @Router      /reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	report, err := h.reportService.Dashboard(time.Now())
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrAggregationFailed.Code {
			c.JSON(http.StatusOK, gin.H{
				"dashboard": report,
				"warning":   appErr.Message,
			})
			return
		}
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": report})
}

// GetMonthlyTrend returns the monthly income/expense/profit trend
// @Summary     Monthly trend
// @Description Per-month income, expense, and profit with month-over-month and year-over-year growth rates. Months with no transactions are omitted. Defaults to the trailing twelve months.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "Range start (YYYY-MM-DD)"
// @Param       to   query string false "Range end (YYYY-MM-DD)"
// @Success     200 {array} services.TrendPoint "Trend points"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Router      /reports/trends/monthly [get]
func (h *ReportHandler) GetMonthlyTrend(c *gin.Context) {
	now := time.Now()
	fallback := services.DateRange{
		Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0),
		End:   now,
	}
	rng, err := parseRangeQuery(c, fallback)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trend, err := h.reportService.MonthlyTrend(rng)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

// GetYearlyTrend returns the yearly income/expense/profit trend
// @Summary     Yearly trend
// @Description Per-year totals between start_year and end_year. Defaults to the last five years.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       start_year query int false "First year"
// @Param       end_year   query int false "Last year"
// @Success     200 {array} services.YearPoint "Year points"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Router      /reports/trends/yearly [get]
func (h *ReportHandler) GetYearlyTrend(c *gin.Context) {
	currentYear := time.Now().Year()
	startYear := currentYear - 4
	endYear := currentYear

	if v := c.Query("start_year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_year"))
			return
		}
		startYear = y
	}
	if v := c.Query("end_year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid end_year"))
			return
		}
		endYear = y
	}

	trend, err := h.reportService.YearlyTrend(startYear, endYear)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

// GetDailyTrend returns the recent daily income/expense series
// @Summary     Daily trend
// @Description Per-day income and expense totals for the trailing N days. Defaults to 30.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Number of trailing days (1-365)"
// @Success     200 {array} services.DailyPoint "Daily points"
// @Failure     400 {object} ErrorResponse "Invalid days"
// @Router      /reports/trends/daily [get]
func (h *ReportHandler) GetDailyTrend(c *gin.Context) {
	days := 30
	if v := c.Query("days"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 1 || d > 365 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be between 1 and 365"))
			return
		}
		days = d
	}

	trend, err := h.reportService.DailyTrend(days, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

// GetCategoryBreakdown returns the per-category pie breakdown
// @Summary     Category breakdown
// @Description Per-category totals with display colors assigned by row position. Defaults to expenses in the current month.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       type      query string false "Transaction type (income or expense)"
// @Param       from query string false "Range start (YYYY-MM-DD)"
// @Param       to   query string false "Range end (YYYY-MM-DD)"
// @Success     200 {array} services.CategorySlice "Category slices"
// @Failure     400 {object} ErrorResponse "Invalid range or type"
// @Router      /reports/categories [get]
func (h *ReportHandler) GetCategoryBreakdown(c *gin.Context) {
	txType := models.TransactionTypeExpense
	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		if t != models.TransactionTypeIncome && t != models.TransactionTypeExpense {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense"))
			return
		}
		txType = t
	}

	rng, err := parseRangeQuery(c, services.MonthRange(time.Now()))
	if err != nil {
		respondWithError(c, err)
		return
	}

	breakdown, err := h.reportService.CategoryBreakdown(txType, rng)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

// GetCashFlow returns the monthly cash-flow waterfall estimate
// @Summary     Cash-flow waterfall
// @Description Illustrative waterfall built from the current and previous month's totals. Investing and financing legs are fixed shares of the current month's expense.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.CashFlowReport "Cash-flow report"
// @Router      /reports/cashflow [get]
func (h *ReportHandler) GetCashFlow(c *gin.Context) {
	report, err := h.reportService.CashFlow(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cashflow": report})
}

// GetFinancialHealth returns the liability ratio and health score
// @Summary     Financial health
// @Description Liability ratio (expense over income) and a 0-100 health score for the requested range. Defaults to the current month.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "Range start (YYYY-MM-DD)"
// @Param       to   query string false "Range end (YYYY-MM-DD)"
// @Success     200 {object} services.HealthReport "Health report"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Router      /reports/health [get]
func (h *ReportHandler) GetFinancialHealth(c *gin.Context) {
	rng, err := parseRangeQuery(c, services.MonthRange(time.Now()))
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.FinancialHealth(rng)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"health": report})
}
