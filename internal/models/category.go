package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. A category cannot be
// deleted while any transaction references it.
type Category struct {
	Base
	Name  string       `gorm:"size:50;not null" json:"name"`
	Type  CategoryType `gorm:"size:10;not null" json:"type"`
	Color string       `gorm:"size:7;not null" json:"color"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
