package services

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

// DateRange bounds a query on transaction dates, inclusive on both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Validate rejects ranges whose start falls after the end. Bounds are
// never silently swapped.
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return apperrors.ErrInvalidRange
	}
	return nil
}

// MonthRange returns the calendar-month range containing t.
func MonthRange(t time.Time) DateRange {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return DateRange{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

// TransactionFilter holds optional filter parameters for listing
// transactions. Filters are conjunctive; absent filters are ignored.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
}

// Validate rejects filters whose from-date falls after the to-date.
func (f TransactionFilter) Validate() error {
	if f.FromDate != nil && f.ToDate != nil && f.FromDate.After(*f.ToDate) {
		return apperrors.ErrInvalidRange
	}
	return nil
}

// TransactionInput carries the caller-supplied fields for creating or
// updating a transaction.
type TransactionInput struct {
	Amount      decimal.Decimal
	Type        models.TransactionType
	Description string
	CategoryID  uint
	SupplierID  *uint
	ProductID   *uint
	Date        time.Time
	Quantity    *float64
	UnitPrice   *decimal.Decimal
}

// MonthlyBucket is one group-by-month aggregation row. Only months with
// at least one transaction of the kind appear.
type MonthlyBucket struct {
	Month string                 `json:"month"` // YYYY-MM
	Type  models.TransactionType `json:"type"`
	Total decimal.Decimal        `json:"total"`
}

// YearlyBucket is one group-by-year aggregation row.
type YearlyBucket struct {
	Year  int                    `json:"year"`
	Type  models.TransactionType `json:"type"`
	Total decimal.Decimal        `json:"total"`
}

// DailyBucket is one group-by-day aggregation row.
type DailyBucket struct {
	Date  string                 `json:"date"` // YYYY-MM-DD
	Type  models.TransactionType `json:"type"`
	Total decimal.Decimal        `json:"total"`
}

// CategoryTotal is one group-by-category aggregation row. Categories with
// no matching transactions are omitted.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// SupplierTotal is one group-by-supplier aggregation row.
type SupplierTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// LedgerServicer defines the transaction CRUD and aggregate query
// contract of the ledger store.
type LedgerServicer interface {
	CreateTransaction(userID uint, input TransactionInput) (*models.Transaction, error)
	GetTransactionByID(id uint) (*models.Transaction, error)
	UpdateTransaction(id uint, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(id uint) error
	ListTransactions(filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)

	SumAmount(txType models.TransactionType, r *DateRange) (decimal.Decimal, error)
	GroupByCategory(txType models.TransactionType, r DateRange) ([]CategoryTotal, error)
	GroupBySupplier(txType models.TransactionType, r DateRange, limit int) ([]SupplierTotal, error)
	GroupByMonth(r DateRange) ([]MonthlyBucket, error)
	GroupByYear(startYear, endYear int) ([]YearlyBucket, error)
	GroupByDay(r DateRange) ([]DailyBucket, error)
	CountTransactions() (int64, error)
}

// CategoryServicer defines the contract for category management.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType, color string) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	GetCategoryByID(id uint) (*models.Category, error)
	UpdateCategory(id uint, name string, categoryType models.CategoryType, color string) (*models.Category, error)
	DeleteCategory(id uint) error
}

// SupplierInput carries caller-supplied supplier fields.
type SupplierInput struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	Notes         string
	SupplierType  string
	SupplyMethod  string
	IsActive      bool
}

// SupplierServicer defines the contract for supplier management.
type SupplierServicer interface {
	CreateSupplier(input SupplierInput) (*models.Supplier, error)
	ListSuppliers(activeOnly bool) ([]models.Supplier, error)
	GetSupplierByID(id uint) (*models.Supplier, error)
	UpdateSupplier(id uint, input SupplierInput) (*models.Supplier, error)
	DeleteSupplier(id uint) error
	AddImage(supplierID uint, imagePath string) (*models.SupplierImage, error)
	RemoveImage(supplierID, imageID uint) error
}

// ProductInput carries caller-supplied product fields.
type ProductInput struct {
	Name         string
	Category     string
	SupplierID   *uint
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	Unit         string
	Description  string
	ImagePath    string
	IsActive     bool
}

// ProductServicer defines the contract for product and stock management.
type ProductServicer interface {
	CreateProduct(input ProductInput) (*models.Product, error)
	ListProducts(activeOnly bool) ([]models.Product, error)
	GetProductByID(id uint) (*models.Product, error)
	UpdateProduct(id uint, input ProductInput) (*models.Product, error)
	DeleteProduct(id uint) error
	ApplyStockOp(productID uint, op models.StockOp, quantity int, note string) (*models.Product, error)
	ListStockMovements(productID uint, page pagination.PageRequest) (*pagination.PageResponse[models.StockMovement], error)
}

// ReceivableInput carries caller-supplied receivable fields. When DueDate
// is nil the due date is computed as invoice date plus payment terms.
type ReceivableInput struct {
	ReceivableNumber string
	Title            string
	Amount           decimal.Decimal
	InvoiceDate      time.Time
	DueDate          *time.Time
	PaymentTerms     int
	ContactPerson    string
	ContactPhone     string
	ContactAddress   string
	Notes            string
}

// ReceivableStats aggregates the full receivable set.
type ReceivableStats struct {
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
	OverdueAmount  decimal.Decimal `json:"overdue_amount"`
	TotalCount     int             `json:"total_count"`
	OverdueCount   int             `json:"overdue_count"`
}

// ReceivableServicer defines the contract for receivable tracking.
type ReceivableServicer interface {
	CreateReceivable(userID uint, input ReceivableInput) (*models.Receivable, error)
	ListReceivables() ([]models.Receivable, error)
	GetReceivableByID(id uint) (*models.Receivable, error)
	RecordReceipt(id uint, amount decimal.Decimal) (*models.Receivable, error)
	DeleteReceivable(id uint) error
	Stats(today time.Time) (*ReceivableStats, error)
}

// UserServicer defines the contract for user management and login.
type UserServicer interface {
	CreateUser(username, email, password string, role models.UserRole) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
	ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
}

// TrendPoint is one month of the trend series with growth rates against
// the previous month and the same month a year earlier.
type TrendPoint struct {
	Month     string          `json:"month"` // YYYY-MM
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Profit    decimal.Decimal `json:"profit"`
	MoMGrowth float64         `json:"mom_growth"`
	YoYGrowth float64         `json:"yoy_growth"`
}

// YearPoint is one year of the yearly trend series.
type YearPoint struct {
	Year    int             `json:"year"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// DailyPoint is one day of the daily income/expense series.
type DailyPoint struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategorySlice is one slice of a category breakdown pie chart. Color is
// assigned by row position, not category identity.
type CategorySlice struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Color  string          `json:"color"`
}

// CashFlowReport is an illustrative waterfall estimate built from the
// current and previous month's income and expense.
type CashFlowReport struct {
	InitialCash   decimal.Decimal `json:"initial_cash"`
	OperatingCash decimal.Decimal `json:"operating_cash"`
	InvestingCash decimal.Decimal `json:"investing_cash"`
	FinancingCash decimal.Decimal `json:"financing_cash"`
	FinalCash     decimal.Decimal `json:"final_cash"`
}

// HealthReport carries the liability ratio and the derived health score.
type HealthReport struct {
	Income         decimal.Decimal `json:"income"`
	Expense        decimal.Decimal `json:"expense"`
	LiabilityRatio float64         `json:"liability_ratio"`
	HealthScore    int             `json:"health_score"`
}

// DashboardCounts carries the entity counters shown on the dashboard.
type DashboardCounts struct {
	Transactions    int64 `json:"transactions"`
	Users           int64 `json:"users"`
	Suppliers       int64 `json:"suppliers"`
	Products        int64 `json:"products"`
	Categories      int64 `json:"categories"`
	ActiveSuppliers int64 `json:"active_suppliers"`
	ActiveProducts  int64 `json:"active_products"`
	ActiveUsers     int64 `json:"active_users"`
}

// DashboardReport is the composite view-model behind the dashboard page.
type DashboardReport struct {
	MonthIncome        decimal.Decimal      `json:"month_income"`
	MonthExpense       decimal.Decimal      `json:"month_expense"`
	TotalIncome        decimal.Decimal      `json:"total_income"`
	TotalExpense       decimal.Decimal      `json:"total_expense"`
	Counts             DashboardCounts      `json:"counts"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
	CategoryBreakdown  []CategorySlice      `json:"category_breakdown"`
	SupplierBreakdown  []SupplierTotal      `json:"supplier_breakdown"`
	Receivables        ReceivableStats      `json:"receivables"`
}

// ReportServicer defines the contract of the aggregation engine. Methods
// never partially fail: a store error during assembly surfaces as
// AGGREGATION_FAILED wrapping the cause.
type ReportServicer interface {
	MonthlyTrend(r DateRange) ([]TrendPoint, error)
	YearlyTrend(startYear, endYear int) ([]YearPoint, error)
	DailyTrend(days int, now time.Time) ([]DailyPoint, error)
	CategoryBreakdown(txType models.TransactionType, r DateRange) ([]CategorySlice, error)
	CashFlow(now time.Time) (*CashFlowReport, error)
	FinancialHealth(r DateRange) (*HealthReport, error)
	Dashboard(now time.Time) (*DashboardReport, error)
}
