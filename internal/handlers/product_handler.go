package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
	"bizledger/internal/services"
)

// ProductHandler handles product and stock-related requests.
type ProductHandler struct {
	productService services.ProductServicer
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService services.ProductServicer) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductRequest represents the payload for creating or updating a product
type ProductRequest struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Category     string          `json:"category" binding:"max=50"`
	SupplierID   *uint           `json:"supplier_id"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Unit         string          `json:"unit" binding:"max=20"`
	Description  string          `json:"description"`
	ImagePath    string          `json:"image_path" binding:"max=255"`
	IsActive     *bool           `json:"is_active"`
}

func (r ProductRequest) toInput() services.ProductInput {
	input := services.ProductInput{
		Name:         r.Name,
		Category:     r.Category,
		SupplierID:   r.SupplierID,
		CostPrice:    r.CostPrice,
		SellingPrice: r.SellingPrice,
		Unit:         r.Unit,
		Description:  r.Description,
		ImagePath:    r.ImagePath,
		IsActive:     true,
	}
	if r.IsActive != nil {
		input.IsActive = *r.IsActive
	}
	return input
}

// StockOpRequest represents the payload for a stock operation
type StockOpRequest struct {
	Operation models.StockOp `json:"operation" binding:"required,stock_op"`
	Quantity  int            `json:"quantity" binding:"required"`
	Note      string         `json:"note" binding:"max=200"`
}

// CreateProduct handles the creation of a new product
// @Summary     Create a product
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ProductRequest true "Product details"
// @Success     201 {object} models.Product "Product created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := h.productService.CreateProduct(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// ListProducts returns all products
// @Summary     List products
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       active query bool false "Only active products"
// @Success     200 {array} models.Product "Products"
// @Router      /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	products, err := h.productService.ListProducts(activeOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProductByID returns a single product
// @Summary     Get product by ID
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Product ID"
// @Success     200 {object} models.Product "Product details"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Router      /products/{id} [get]
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// UpdateProduct handles updating an existing product
// @Summary     Update product
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int            true "Product ID"
// @Param       request body ProductRequest true "Product details"
// @Success     200 {object} models.Product "Updated product"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Router      /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := h.productService.UpdateProduct(productID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct handles the deletion of a product
// @Summary     Delete product
// @Description Delete a product. Fails while any transaction references it.
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Product ID"
// @Success     200 {object} MessageResponse "Product deleted"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Failure     409 {object} ErrorResponse "Product is in use"
// @Router      /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.productService.DeleteProduct(productID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// ApplyStockOp adjusts a product's stock level
// @Summary     Apply a stock operation
// @Description Apply an in, out, or adjust operation to a product's stock. Stock never goes negative.
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int            true "Product ID"
// @Param       request body StockOpRequest true "Stock operation"
// @Success     200 {object} models.Product "Updated product"
// @Failure     400 {object} ErrorResponse "Invalid operation or insufficient stock"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Router      /products/{id}/stock [post]
func (h *ProductHandler) ApplyStockOp(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StockOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := h.productService.ApplyStockOp(productID, req.Operation, req.Quantity, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// ListStockMovements returns the stock movement history for a product
// @Summary     List stock movements
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "Product ID"
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.StockMovement] "Stock movements"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Router      /products/{id}/movements [get]
func (h *ProductHandler) ListStockMovements(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	movements, err := h.productService.ListStockMovements(productID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, movements)
}
