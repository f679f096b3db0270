package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
)

// receivableService tracks amounts owed to the business. Receivables are
// visible to every authenticated user; the creator is kept on the row.
type receivableService struct {
	db *gorm.DB
}

// NewReceivableService creates a new ReceivableServicer.
func NewReceivableService(db *gorm.DB) ReceivableServicer {
	return &receivableService{db: db}
}

// newReceivableNumber generates a short unique receivable number.
func newReceivableNumber() string {
	return "RCV-" + strings.ToUpper(uuid.New().String()[:8])
}

// CreateReceivable records a new receivable with nothing received yet.
// When no due date is given it is computed as invoice date plus the
// payment-terms day count.
func (s *receivableService) CreateReceivable(userID uint, input ReceivableInput) (*models.Receivable, error) {
	if input.Title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}

	invoiceDate := input.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	paymentTerms := input.PaymentTerms
	if paymentTerms <= 0 {
		paymentTerms = models.DefaultPaymentTerms
	}

	dueDate := invoiceDate.AddDate(0, 0, paymentTerms)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	number := input.ReceivableNumber
	if number == "" {
		number = newReceivableNumber()
	}

	receivable := &models.Receivable{
		ReceivableNumber: number,
		Title:            input.Title,
		Amount:           input.Amount,
		ReceivedAmount:   decimal.Zero,
		Status:           models.ReceivableStatusPending,
		InvoiceDate:      invoiceDate,
		DueDate:          dueDate,
		PaymentTerms:     paymentTerms,
		ContactPerson:    input.ContactPerson,
		ContactPhone:     input.ContactPhone,
		ContactAddress:   input.ContactAddress,
		Notes:            input.Notes,
		UserID:           userID,
	}

	if err := s.db.Create(receivable).Error; err != nil {
		return nil, storeErr(err)
	}
	return receivable, nil
}

// ListReceivables retrieves all receivables, newest first.
func (s *receivableService) ListReceivables() ([]models.Receivable, error) {
	var receivables []models.Receivable
	if err := s.db.Order("created_at DESC, id DESC").Find(&receivables).Error; err != nil {
		return nil, storeErr(err)
	}
	return receivables, nil
}

// GetReceivableByID retrieves a receivable by ID
func (s *receivableService) GetReceivableByID(id uint) (*models.Receivable, error) {
	var receivable models.Receivable
	if err := s.db.First(&receivable, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReceivableNotFound
		}
		return nil, storeErr(err)
	}
	return &receivable, nil
}

// RecordReceipt adds a receipt to the receivable and recomputes its
// status. ReceivedAmount only ever increases.
func (s *receivableService) RecordReceipt(id uint, amount decimal.Decimal) (*models.Receivable, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "receipt amount must be positive")
	}

	receivable, err := s.GetReceivableByID(id)
	if err != nil {
		return nil, err
	}
	if receivable.Status == models.ReceivableStatusReceived {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "receivable is already fully received")
	}

	receivable.ReceivedAmount = receivable.ReceivedAmount.Add(amount)
	receivable.Status = receivable.DeriveStatus()
	if receivable.Status == models.ReceivableStatusReceived {
		now := time.Now()
		receivable.ReceivedAt = &now
	}

	if err := s.db.Save(receivable).Error; err != nil {
		return nil, storeErr(err)
	}
	return receivable, nil
}

// DeleteReceivable removes a receivable. No referential lock applies.
func (s *receivableService) DeleteReceivable(id uint) error {
	receivable, err := s.GetReceivableByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(receivable).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

// Stats aggregates the full receivable set: totals, what has been
// received, what is still pending, and how much of the pending amount is
// past due as of today.
func (s *receivableService) Stats(today time.Time) (*ReceivableStats, error) {
	receivables, err := s.ListReceivables()
	if err != nil {
		return nil, err
	}

	stats := &ReceivableStats{
		TotalAmount:    decimal.Zero,
		ReceivedAmount: decimal.Zero,
		PendingAmount:  decimal.Zero,
		OverdueAmount:  decimal.Zero,
		TotalCount:     len(receivables),
	}
	for i := range receivables {
		r := &receivables[i]
		stats.TotalAmount = stats.TotalAmount.Add(r.Amount)
		stats.ReceivedAmount = stats.ReceivedAmount.Add(r.ReceivedAmount)
		if r.OverdueDays(today) > 0 {
			stats.OverdueAmount = stats.OverdueAmount.Add(r.RemainingAmount())
			stats.OverdueCount++
		}
	}
	stats.PendingAmount = stats.TotalAmount.Sub(stats.ReceivedAmount)
	return stats, nil
}
