package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/services"
)

// SupplierHandler handles supplier-related requests.
type SupplierHandler struct {
	supplierService services.SupplierServicer
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(supplierService services.SupplierServicer) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// SupplierRequest represents the payload for creating or updating a supplier
type SupplierRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	ContactPerson string `json:"contact_person" binding:"max=50"`
	Phone         string `json:"phone" binding:"max=20"`
	Email         string `json:"email" binding:"omitempty,email,max=120"`
	Address       string `json:"address" binding:"max=200"`
	Notes         string `json:"notes"`
	SupplierType  string `json:"supplier_type" binding:"max=50"`
	SupplyMethod  string `json:"supply_method" binding:"max=50"`
	IsActive      *bool  `json:"is_active"`
}

func (r SupplierRequest) toInput() services.SupplierInput {
	input := services.SupplierInput{
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
		Notes:         r.Notes,
		SupplierType:  r.SupplierType,
		SupplyMethod:  r.SupplyMethod,
		IsActive:      true,
	}
	if r.IsActive != nil {
		input.IsActive = *r.IsActive
	}
	return input
}

// SupplierImageRequest represents the payload for attaching a supplier image path
type SupplierImageRequest struct {
	ImagePath string `json:"image_path" binding:"required,max=255"`
}

// CreateSupplier handles the creation of a new supplier
// @Summary     Create a supplier
// @Tags        suppliers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SupplierRequest true "Supplier details"
// @Success     201 {object} models.Supplier "Supplier created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /suppliers [post]
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	supplier, err := h.supplierService.CreateSupplier(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"supplier": supplier})
}

// ListSuppliers returns all suppliers
// @Summary     List suppliers
// @Tags        suppliers
// @Produce     json
// @Security    BearerAuth
// @Param       active query bool false "Only active suppliers"
// @Success     200 {array} models.Supplier "Suppliers"
// @Router      /suppliers [get]
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	suppliers, err := h.supplierService.ListSuppliers(activeOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

// GetSupplierByID returns a single supplier with its images
// @Summary     Get supplier by ID
// @Tags        suppliers
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Supplier ID"
// @Success     200 {object} models.Supplier "Supplier details"
// @Failure     404 {object} ErrorResponse "Supplier not found"
// @Router      /suppliers/{id} [get]
func (h *SupplierHandler) GetSupplierByID(c *gin.Context) {
	supplierID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	supplier, err := h.supplierService.GetSupplierByID(supplierID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

// UpdateSupplier handles updating an existing supplier
// @Summary     Update supplier
// @Tags        suppliers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int             true "Supplier ID"
// @Param       request body SupplierRequest true "Supplier details"
// @Success     200 {object} models.Supplier "Updated supplier"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Supplier not found"
// @Router      /suppliers/{id} [put]
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	supplierID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(supplierID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

// DeleteSupplier handles the deletion of a supplier
// @Summary     Delete supplier
// @Description Delete a supplier. Fails while any transaction or product references it.
// @Tags        suppliers
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Supplier ID"
// @Success     200 {object} MessageResponse "Supplier deleted"
// @Failure     404 {object} ErrorResponse "Supplier not found"
// @Failure     409 {object} ErrorResponse "Supplier is in use"
// @Router      /suppliers/{id} [delete]
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	supplierID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.supplierService.DeleteSupplier(supplierID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}

// AddSupplierImage attaches an uploaded image path to a supplier
// @Summary     Attach supplier image
// @Description Record the storage path of an uploaded supplier image. File bytes are managed by the upload collaborator.
// @Tags        suppliers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Supplier ID"
// @Param       request body SupplierImageRequest true "Image path"
// @Success     201 {object} models.SupplierImage "Image attached"
// @Failure     404 {object} ErrorResponse "Supplier not found"
// @Router      /suppliers/{id}/images [post]
func (h *SupplierHandler) AddSupplierImage(c *gin.Context) {
	supplierID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SupplierImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	image, err := h.supplierService.AddImage(supplierID, req.ImagePath)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image": image})
}

// RemoveSupplierImage detaches an image path from a supplier
// @Summary     Remove supplier image
// @Tags        suppliers
// @Produce     json
// @Security    BearerAuth
// @Param       id       path int true "Supplier ID"
// @Param       image_id path int true "Image ID"
// @Success     200 {object} MessageResponse "Image removed"
// @Failure     404 {object} ErrorResponse "Image not found"
// @Router      /suppliers/{id}/images/{image_id} [delete]
func (h *SupplierHandler) RemoveSupplierImage(c *gin.Context) {
	supplierID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	imageID, err := parsePathID(c, "image_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.supplierService.RemoveImage(supplierID, imageID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier image removed successfully"})
}
