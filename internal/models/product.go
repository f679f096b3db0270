package models

import "github.com/shopspring/decimal"

// Product represents a catalog item. Stock is mutated only through
// explicit stock operations; it is never reconciled against transactions.
type Product struct {
	Base
	Name         string          `gorm:"size:100;not null" json:"name"`
	Category     string          `gorm:"size:50" json:"category"`
	SupplierID   *uint           `json:"supplier_id,omitempty"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2)" json:"cost_price"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"selling_price"`
	Unit         string          `gorm:"size:20" json:"unit"`
	Stock        int             `gorm:"default:0" json:"stock"`
	Description  string          `json:"description"`
	ImagePath    string          `gorm:"size:255" json:"image_path"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	Supplier     *Supplier     `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:ProductID" json:"transactions,omitempty"`
}

// StockOp represents the kind of a stock movement.
type StockOp string

const (
	StockOpIn     StockOp = "in"
	StockOpOut    StockOp = "out"
	StockOpAdjust StockOp = "adjust"
)

// StockMovement records a single explicit stock operation on a product.
type StockMovement struct {
	Base
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Op        StockOp `gorm:"size:10;not null" json:"op"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Note      string  `gorm:"size:200" json:"note"`
}
