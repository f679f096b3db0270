package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivableStatus is derived from amount and received_amount:
// pending when nothing received, partial when partly received,
// received once received_amount covers amount.
type ReceivableStatus string

const (
	ReceivableStatusPending  ReceivableStatus = "pending"
	ReceivableStatusPartial  ReceivableStatus = "partial"
	ReceivableStatusReceived ReceivableStatus = "received"
)

// DefaultPaymentTerms is the day count used to compute a due date when
// none is given explicitly.
const DefaultPaymentTerms = 30

// Receivable represents an amount owed to the business by a counterparty,
// tracked to partial or full receipt. ReceivedAmount only ever increases.
type Receivable struct {
	Base
	ReceivableNumber string           `gorm:"size:50;uniqueIndex" json:"receivable_number"`
	Title            string           `gorm:"size:200;not null" json:"title"`
	Amount           decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"amount"`
	ReceivedAmount   decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"received_amount"`
	Status           ReceivableStatus `gorm:"size:20;not null;default:pending" json:"status"`
	InvoiceDate      time.Time        `json:"invoice_date"`
	DueDate          time.Time        `json:"due_date"`
	PaymentTerms     int              `gorm:"default:30" json:"payment_terms"`
	ReceivedAt       *time.Time       `json:"received_at,omitempty"`
	ContactPerson    string           `gorm:"size:100" json:"contact_person"`
	ContactPhone     string           `gorm:"size:20" json:"contact_phone"`
	ContactAddress   string           `json:"contact_address"`
	Notes            string           `json:"notes"`
	UserID           uint             `gorm:"not null" json:"user_id"`
}

// RemainingAmount returns amount - received_amount, floored at zero.
func (r *Receivable) RemainingAmount() decimal.Decimal {
	remaining := r.Amount.Sub(r.ReceivedAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// DeriveStatus computes the status implied by the current amounts.
func (r *Receivable) DeriveStatus() ReceivableStatus {
	switch {
	case r.ReceivedAmount.GreaterThanOrEqual(r.Amount):
		return ReceivableStatusReceived
	case r.ReceivedAmount.IsPositive():
		return ReceivableStatusPartial
	default:
		return ReceivableStatusPending
	}
}

// OverdueDays returns the number of whole days past the due date as of
// today. Fully received receivables are never overdue.
func (r *Receivable) OverdueDays(today time.Time) int {
	if r.Status == ReceivableStatusReceived {
		return 0
	}
	days := int(today.Sub(r.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DaysUntilDue returns the number of whole days until the due date, or 0
// when the receivable is overdue or fully received.
func (r *Receivable) DaysUntilDue(today time.Time) int {
	if r.Status == ReceivableStatusReceived || r.OverdueDays(today) > 0 {
		return 0
	}
	days := int(r.DueDate.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
