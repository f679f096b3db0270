package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single dated money movement in the ledger.
// Quantity and UnitPrice are informational only and are not reconciled
// against Amount.
type Transaction struct {
	Base
	UserID      uint             `gorm:"not null" json:"user_id"`
	CategoryID  uint             `gorm:"not null;index" json:"category_id"`
	SupplierID  *uint            `gorm:"index" json:"supplier_id,omitempty"`
	ProductID   *uint            `gorm:"index" json:"product_id,omitempty"`
	Type        TransactionType  `gorm:"size:10;not null" json:"type"`
	Amount      decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string           `gorm:"size:200" json:"description"`
	Date        time.Time        `gorm:"not null;index" json:"date"`
	Quantity    *float64         `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price,omitempty"`

	// Relationships
	Category Category  `gorm:"foreignKey:CategoryID" json:"category"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
