package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
)

// supplierService handles supplier-related business logic.
type supplierService struct {
	db *gorm.DB
}

// NewSupplierService creates a new SupplierServicer.
func NewSupplierService(db *gorm.DB) SupplierServicer {
	return &supplierService{db: db}
}

// CreateSupplier creates a new supplier
func (s *supplierService) CreateSupplier(input SupplierInput) (*models.Supplier, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "supplier name is required")
	}

	supplier := &models.Supplier{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		Notes:         input.Notes,
		SupplierType:  input.SupplierType,
		SupplyMethod:  input.SupplyMethod,
		IsActive:      true,
	}

	if err := s.db.Create(supplier).Error; err != nil {
		return nil, storeErr(err)
	}
	return supplier, nil
}

// ListSuppliers retrieves suppliers, optionally only active ones.
func (s *supplierService) ListSuppliers(activeOnly bool) ([]models.Supplier, error) {
	q := s.db.Preload("Images").Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var suppliers []models.Supplier
	if err := q.Find(&suppliers).Error; err != nil {
		return nil, storeErr(err)
	}
	return suppliers, nil
}

// GetSupplierByID retrieves a supplier with its images.
func (s *supplierService) GetSupplierByID(id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.Preload("Images").First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSupplierNotFound
		}
		return nil, storeErr(err)
	}
	return &supplier, nil
}

// UpdateSupplier updates an existing supplier
func (s *supplierService) UpdateSupplier(id uint, input SupplierInput) (*models.Supplier, error) {
	supplier, err := s.GetSupplierByID(id)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "supplier name is required")
	}

	supplier.Name = input.Name
	supplier.ContactPerson = input.ContactPerson
	supplier.Phone = input.Phone
	supplier.Email = input.Email
	supplier.Address = input.Address
	supplier.Notes = input.Notes
	supplier.SupplierType = input.SupplierType
	supplier.SupplyMethod = input.SupplyMethod
	supplier.IsActive = input.IsActive

	if err := s.db.Save(supplier).Error; err != nil {
		return nil, storeErr(err)
	}
	return supplier, nil
}

// DeleteSupplier removes a supplier. Deletion is blocked while any
// transaction or product references the supplier.
func (s *supplierService) DeleteSupplier(id uint) error {
	supplier, err := s.GetSupplierByID(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Transaction{}).Where("supplier_id = ?", id).Count(&count).Error; err != nil {
		return storeErr(err)
	}
	if count > 0 {
		return apperrors.ErrSupplierInUse
	}
	if err := s.db.Model(&models.Product{}).Where("supplier_id = ?", id).Count(&count).Error; err != nil {
		return storeErr(err)
	}
	if count > 0 {
		return apperrors.ErrSupplierInUse
	}

	// Image rows go with the supplier; only path strings are stored here.
	if err := s.db.Where("supplier_id = ?", id).Delete(&models.SupplierImage{}).Error; err != nil {
		return storeErr(err)
	}
	if err := s.db.Delete(supplier).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

// AddImage records the storage path of an uploaded supplier image.
func (s *supplierService) AddImage(supplierID uint, imagePath string) (*models.SupplierImage, error) {
	if imagePath == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "image path is required")
	}
	if _, err := s.GetSupplierByID(supplierID); err != nil {
		return nil, err
	}

	image := &models.SupplierImage{
		SupplierID: supplierID,
		ImagePath:  imagePath,
	}
	if err := s.db.Create(image).Error; err != nil {
		return nil, storeErr(err)
	}
	return image, nil
}

// RemoveImage deletes a supplier image record.
func (s *supplierService) RemoveImage(supplierID, imageID uint) error {
	var image models.SupplierImage
	err := s.db.Where("id = ? AND supplier_id = ?", imageID, supplierID).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WithMessage(apperrors.ErrNotFound, "supplier image not found")
		}
		return storeErr(err)
	}
	if err := s.db.Delete(&image).Error; err != nil {
		return storeErr(err)
	}
	return nil
}
