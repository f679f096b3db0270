package models

// Supplier represents a counterparty the business purchases from.
// A supplier cannot be deleted while referenced by a transaction or product.
type Supplier struct {
	Base
	Name          string `gorm:"size:100;not null" json:"name"`
	ContactPerson string `gorm:"size:50" json:"contact_person"`
	Phone         string `gorm:"size:20" json:"phone"`
	Email         string `gorm:"size:120" json:"email"`
	Address       string `gorm:"size:200" json:"address"`
	Notes         string `json:"notes"`
	SupplierType  string `gorm:"size:50" json:"supplier_type"`
	SupplyMethod  string `gorm:"size:50" json:"supply_method"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Images       []SupplierImage `gorm:"foreignKey:SupplierID" json:"images,omitempty"`
	Products     []Product       `gorm:"foreignKey:SupplierID" json:"products,omitempty"`
	Transactions []Transaction   `gorm:"foreignKey:SupplierID" json:"transactions,omitempty"`
}

// SupplierImage holds the storage path of an uploaded supplier image.
// File bytes live with the upload collaborator; only the path is recorded here.
type SupplierImage struct {
	Base
	SupplierID uint   `gorm:"not null;index" json:"supplier_id"`
	ImagePath  string `gorm:"size:255;not null" json:"image_path"`
}
