package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

// productService handles product catalog and stock business logic.
type productService struct {
	db *gorm.DB
}

// NewProductService creates a new ProductServicer.
func NewProductService(db *gorm.DB) ProductServicer {
	return &productService{db: db}
}

// CreateProduct creates a new catalog item with zero stock.
func (s *productService) CreateProduct(input ProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "product name is required")
	}
	if input.SupplierID != nil {
		var count int64
		if err := s.db.Model(&models.Supplier{}).Where("id = ?", *input.SupplierID).Count(&count).Error; err != nil {
			return nil, storeErr(err)
		}
		if count == 0 {
			return nil, apperrors.ErrSupplierNotFound
		}
	}

	product := &models.Product{
		Name:         input.Name,
		Category:     input.Category,
		SupplierID:   input.SupplierID,
		CostPrice:    input.CostPrice,
		SellingPrice: input.SellingPrice,
		Unit:         input.Unit,
		Description:  input.Description,
		ImagePath:    input.ImagePath,
		IsActive:     true,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, storeErr(err)
	}
	return product, nil
}

// ListProducts retrieves products, optionally only active ones.
func (s *productService) ListProducts(activeOnly bool) ([]models.Product, error) {
	q := s.db.Preload("Supplier").Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, storeErr(err)
	}
	return products, nil
}

// GetProductByID retrieves a product by ID
func (s *productService) GetProductByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Supplier").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, storeErr(err)
	}
	return &product, nil
}

// UpdateProduct updates an existing product. Stock is not touched here;
// it only moves through ApplyStockOp.
func (s *productService) UpdateProduct(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "product name is required")
	}
	if input.SupplierID != nil {
		var count int64
		if err := s.db.Model(&models.Supplier{}).Where("id = ?", *input.SupplierID).Count(&count).Error; err != nil {
			return nil, storeErr(err)
		}
		if count == 0 {
			return nil, apperrors.ErrSupplierNotFound
		}
	}

	product.Name = input.Name
	product.Category = input.Category
	product.SupplierID = input.SupplierID
	product.CostPrice = input.CostPrice
	product.SellingPrice = input.SellingPrice
	product.Unit = input.Unit
	product.Description = input.Description
	product.ImagePath = input.ImagePath
	product.IsActive = input.IsActive

	if err := s.db.Save(product).Error; err != nil {
		return nil, storeErr(err)
	}
	return product, nil
}

// DeleteProduct removes a product. Deletion is blocked while any
// transaction references the product.
func (s *productService) DeleteProduct(id uint) error {
	product, err := s.GetProductByID(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Transaction{}).Where("product_id = ?", id).Count(&count).Error; err != nil {
		return storeErr(err)
	}
	if count > 0 {
		return apperrors.ErrProductInUse
	}

	if err := s.db.Delete(product).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

// ApplyStockOp mutates product stock through an explicit in/out/adjust
// operation and records the movement. Stock never goes below zero, and
// stock changes are independent of financial transactions.
func (s *productService) ApplyStockOp(productID uint, op models.StockOp, quantity int, note string) (*models.Product, error) {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	var newStock int
	switch op {
	case models.StockOpIn:
		if quantity <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
		}
		newStock = product.Stock + quantity
	case models.StockOpOut:
		if quantity <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
		}
		newStock = product.Stock - quantity
	case models.StockOpAdjust:
		newStock = quantity
	default:
		return nil, apperrors.ErrInvalidStockOp
	}

	if newStock < 0 {
		return nil, apperrors.ErrInsufficientStock
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		movement := &models.StockMovement{
			ProductID: productID,
			Op:        op,
			Quantity:  quantity,
			Note:      note,
		}
		if err := tx.Create(movement).Error; err != nil {
			return storeErr(err)
		}
		if err := tx.Model(product).Update("stock", newStock).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	product.Stock = newStock
	return product, nil
}

// ListStockMovements retrieves the movement history of a product, most
// recent first.
func (s *productService) ListStockMovements(productID uint, page pagination.PageRequest) (*pagination.PageResponse[models.StockMovement], error) {
	if _, err := s.GetProductByID(productID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.StockMovement{}).Where("product_id = ?", productID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, storeErr(err)
	}

	var movements []models.StockMovement
	err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC, id DESC").
		Find(&movements).Error
	if err != nil {
		return nil, storeErr(err)
	}

	result := pagination.NewPageResponse(movements, page.Page, page.PageSize, totalItems)
	return &result, nil
}
