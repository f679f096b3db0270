package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bizledger/internal/pagination"
	"bizledger/internal/services"
)

// ExportHandler serves CSV downloads of ledger data and reports.
type ExportHandler struct {
	ledgerService services.LedgerServicer
	reportService services.ReportServicer
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(ledgerService services.LedgerServicer, reportService services.ReportServicer) *ExportHandler {
	return &ExportHandler{ledgerService: ledgerService, reportService: reportService}
}

func writeCSV(c *gin.Context, filename string, header []string, rows [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(header)
	for _, row := range rows {
		_ = w.Write(row)
	}
	w.Flush()
}

// ExportTransactions streams the filtered transaction list as CSV
// @Summary     Export transactions as CSV
// @Tags        exports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       from_date   query string false "Range start (YYYY-MM-DD)"
// @Param       to_date     query string false "Range end (YYYY-MM-DD)"
// @Param       type        query string false "Transaction type (income or expense)"
// @Param       category_id query int    false "Category ID"
// @Success     200 {string} string "CSV payload"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /exports/transactions [get]
func (h *ExportHandler) ExportTransactions(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Exports ignore pagination and fetch every matching row.
	page := pagination.PageRequest{Page: 1, PageSize: 100}
	rows := make([][]string, 0)
	for {
		resp, err := h.ledgerService.ListTransactions(filter, page)
		if err != nil {
			respondWithError(c, err)
			return
		}
		for _, tx := range resp.Data {
			category := ""
			if tx.Category.ID != 0 {
				category = tx.Category.Name
			}
			supplier := ""
			if tx.Supplier != nil {
				supplier = tx.Supplier.Name
			}
			rows = append(rows, []string{
				strconv.FormatUint(uint64(tx.ID), 10),
				tx.Date.Format("2006-01-02"),
				string(tx.Type),
				tx.Amount.StringFixed(2),
				category,
				supplier,
				tx.Description,
			})
		}
		if page.Page >= resp.TotalPages {
			break
		}
		page.Page++
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("20060102"))
	writeCSV(c, filename, []string{"id", "date", "type", "amount", "category", "supplier", "description"}, rows)
}

// ExportMonthlyTrend streams the monthly trend report as CSV
// @Summary     Export monthly trend as CSV
// @Tags        exports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       from query string false "Range start (YYYY-MM-DD)"
// @Param       to   query string false "Range end (YYYY-MM-DD)"
// @Success     200 {string} string "CSV payload"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Router      /exports/trends/monthly [get]
func (h *ExportHandler) ExportMonthlyTrend(c *gin.Context) {
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

	rows := make([][]string, 0, len(trend))
	for _, point := range trend {
		rows = append(rows, []string{
			point.Month,
			point.Income.StringFixed(2),
			point.Expense.StringFixed(2),
			point.Profit.StringFixed(2),
			strconv.FormatFloat(point.MoMGrowth, 'f', 2, 64),
			strconv.FormatFloat(point.YoYGrowth, 'f', 2, 64),
		})
	}

	filename := fmt.Sprintf("monthly-trend-%s.csv", now.Format("20060102"))
	writeCSV(c, filename, []string{"month", "income", "expense", "profit", "mom_growth", "yoy_growth"}, rows)
}
