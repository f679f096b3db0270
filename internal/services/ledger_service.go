package services

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

// ledgerService owns transaction records and the aggregate read queries
// the reporting engine consumes.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

// storeErr classifies a raw store failure.
func storeErr(err error) error {
	return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
}

// CreateTransaction records a new dated money movement.
func (s *ledgerService) CreateTransaction(userID uint, input TransactionInput) (*models.Transaction, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		SupplierID:  input.SupplierID,
		ProductID:   input.ProductID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
		Date:        date,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, storeErr(err)
	}
	return transaction, nil
}

func (s *ledgerService) validateInput(input TransactionInput) error {
	if input.Amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if input.Type != models.TransactionTypeIncome && input.Type != models.TransactionTypeExpense {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense")
	}
	if input.CategoryID == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", input.CategoryID).Count(&count).Error; err != nil {
		return storeErr(err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}

	if input.SupplierID != nil {
		if err := s.db.Model(&models.Supplier{}).Where("id = ?", *input.SupplierID).Count(&count).Error; err != nil {
			return storeErr(err)
		}
		if count == 0 {
			return apperrors.ErrSupplierNotFound
		}
	}
	if input.ProductID != nil {
		if err := s.db.Model(&models.Product{}).Where("id = ?", *input.ProductID).Count(&count).Error; err != nil {
			return storeErr(err)
		}
		if count == 0 {
			return apperrors.ErrProductNotFound
		}
	}
	return nil
}

// GetTransactionByID retrieves a transaction with its references loaded.
func (s *ledgerService) GetTransactionByID(id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.Preload("Category").Preload("Supplier").Preload("Product").
		First(&transaction, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, storeErr(err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces the mutable fields of an existing transaction.
func (s *ledgerService) UpdateTransaction(id uint, input TransactionInput) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	transaction.Amount = input.Amount
	transaction.Type = input.Type
	transaction.Description = input.Description
	transaction.CategoryID = input.CategoryID
	transaction.SupplierID = input.SupplierID
	transaction.ProductID = input.ProductID
	transaction.Quantity = input.Quantity
	transaction.UnitPrice = input.UnitPrice
	if !input.Date.IsZero() {
		transaction.Date = input.Date
	}

	if err := s.db.Save(transaction).Error; err != nil {
		return nil, storeErr(err)
	}
	return transaction, nil
}

// DeleteTransaction removes a transaction. Transactions are never merged
// or split, only deleted explicitly.
func (s *ledgerService) DeleteTransaction(id uint) error {
	transaction, err := s.GetTransactionByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(transaction).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

// ListTransactions retrieves a filtered, paginated transaction list
// ordered by date descending, ties broken by insertion order.
func (s *ledgerService) ListTransactions(filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Transaction{})
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, storeErr(err)
	}

	var transactions []models.Transaction
	err := base.Scopes(pagination.Paginate(page)).
		Preload("Category").Preload("Supplier").Preload("Product").
		Order("date DESC, id ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, storeErr(err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// SumAmount returns the sum of transaction amounts of the given kind,
// optionally restricted to a date range. Zero, never null, when no rows
// match.
func (s *ledgerService) SumAmount(txType models.TransactionType, r *DateRange) (decimal.Decimal, error) {
	q := s.db.Model(&models.Transaction{}).Where("type = ?", txType)
	if r != nil {
		if err := r.Validate(); err != nil {
			return decimal.Zero, err
		}
		q = q.Where("date BETWEEN ? AND ?", r.Start, r.End)
	}

	var sum decimal.Decimal
	row := q.Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, storeErr(err)
	}
	return sum, nil
}

// GroupByCategory returns one row per category with at least one matching
// transaction in the range, largest totals first.
func (s *ledgerService) GroupByCategory(txType models.TransactionType, r DateRange) ([]CategoryTotal, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var rows []CategoryTotal
	err := s.db.Model(&models.Transaction{}).
		Select("categories.name AS name, SUM(transactions.amount) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.type = ?", txType).
		Where("transactions.date BETWEEN ? AND ?", r.Start, r.End).
		Group("categories.name").
		Order("total DESC, categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return rows, nil
}

// GroupBySupplier returns per-supplier totals for transactions that carry
// a supplier reference, largest first, capped at limit when limit > 0.
func (s *ledgerService) GroupBySupplier(txType models.TransactionType, r DateRange, limit int) ([]SupplierTotal, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	q := s.db.Model(&models.Transaction{}).
		Select("suppliers.name AS name, SUM(transactions.amount) AS total").
		Joins("JOIN suppliers ON suppliers.id = transactions.supplier_id").
		Where("transactions.type = ?", txType).
		Where("transactions.date BETWEEN ? AND ?", r.Start, r.End).
		Group("suppliers.name").
		Order("total DESC, suppliers.name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []SupplierTotal
	if err := q.Scan(&rows).Error; err != nil {
		return nil, storeErr(err)
	}
	return rows, nil
}

// GroupByMonth buckets transactions in the range by calendar month and
// kind. Bucketing happens in-process so the same query serves every SQL
// dialect the store runs on. Months without transactions of a kind are
// omitted.
func (s *ledgerService) GroupByMonth(r DateRange) ([]MonthlyBucket, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var txs []models.Transaction
	err := s.db.Select("date", "type", "amount").
		Where("date BETWEEN ? AND ?", r.Start, r.End).
		Find(&txs).Error
	if err != nil {
		return nil, storeErr(err)
	}

	type key struct {
		month string
		kind  models.TransactionType
	}
	totals := make(map[key]decimal.Decimal)
	for _, tx := range txs {
		k := key{month: tx.Date.Format("2006-01"), kind: tx.Type}
		totals[k] = totals[k].Add(tx.Amount)
	}

	buckets := make([]MonthlyBucket, 0, len(totals))
	for k, total := range totals {
		buckets = append(buckets, MonthlyBucket{Month: k.month, Type: k.kind, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Month != buckets[j].Month {
			return buckets[i].Month < buckets[j].Month
		}
		// income before expense within a month
		return buckets[i].Type == models.TransactionTypeIncome && buckets[j].Type == models.TransactionTypeExpense
	})
	return buckets, nil
}

// GroupByYear buckets transactions by calendar year over [startYear, endYear].
func (s *ledgerService) GroupByYear(startYear, endYear int) ([]YearlyBucket, error) {
	if startYear > endYear {
		return nil, apperrors.ErrInvalidRange
	}

	start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(endYear+1, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)

	var txs []models.Transaction
	err := s.db.Select("date", "type", "amount").
		Where("date BETWEEN ? AND ?", start, end).
		Find(&txs).Error
	if err != nil {
		return nil, storeErr(err)
	}

	type key struct {
		year int
		kind models.TransactionType
	}
	totals := make(map[key]decimal.Decimal)
	for _, tx := range txs {
		k := key{year: tx.Date.Year(), kind: tx.Type}
		totals[k] = totals[k].Add(tx.Amount)
	}

	buckets := make([]YearlyBucket, 0, len(totals))
	for k, total := range totals {
		buckets = append(buckets, YearlyBucket{Year: k.year, Type: k.kind, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		return buckets[i].Type == models.TransactionTypeIncome && buckets[j].Type == models.TransactionTypeExpense
	})
	return buckets, nil
}

// GroupByDay buckets transactions in the range by calendar day and kind.
func (s *ledgerService) GroupByDay(r DateRange) ([]DailyBucket, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var txs []models.Transaction
	err := s.db.Select("date", "type", "amount").
		Where("date BETWEEN ? AND ?", r.Start, r.End).
		Find(&txs).Error
	if err != nil {
		return nil, storeErr(err)
	}

	type key struct {
		day  string
		kind models.TransactionType
	}
	totals := make(map[key]decimal.Decimal)
	for _, tx := range txs {
		k := key{day: tx.Date.Format("2006-01-02"), kind: tx.Type}
		totals[k] = totals[k].Add(tx.Amount)
	}

	buckets := make([]DailyBucket, 0, len(totals))
	for k, total := range totals {
		buckets = append(buckets, DailyBucket{Date: k.day, Type: k.kind, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Date != buckets[j].Date {
			return buckets[i].Date < buckets[j].Date
		}
		return buckets[i].Type == models.TransactionTypeIncome && buckets[j].Type == models.TransactionTypeExpense
	})
	return buckets, nil
}

// CountTransactions returns the total number of ledger transactions.
func (s *ledgerService) CountTransactions() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}
