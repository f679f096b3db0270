package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/services"
)

// ReceivableHandler handles accounts-receivable requests.
type ReceivableHandler struct {
	receivableService services.ReceivableServicer
}

// NewReceivableHandler creates a new ReceivableHandler.
func NewReceivableHandler(receivableService services.ReceivableServicer) *ReceivableHandler {
	return &ReceivableHandler{receivableService: receivableService}
}

// ReceivableRequest represents the payload for creating a receivable
type ReceivableRequest struct {
	ReceivableNumber string          `json:"receivable_number" binding:"max=30"`
	Title            string          `json:"title" binding:"required,max=120"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	InvoiceDate      string          `json:"invoice_date"`
	DueDate          string          `json:"due_date"`
	PaymentTerms     int             `json:"payment_terms" binding:"omitempty,min=1,max=365"`
	ContactPerson    string          `json:"contact_person" binding:"max=50"`
	ContactPhone     string          `json:"contact_phone" binding:"max=20"`
	ContactAddress   string          `json:"contact_address" binding:"max=200"`
	Notes            string          `json:"notes"`
}

func (r ReceivableRequest) toInput() (services.ReceivableInput, error) {
	input := services.ReceivableInput{
		ReceivableNumber: r.ReceivableNumber,
		Title:            r.Title,
		Amount:           r.Amount,
		PaymentTerms:     r.PaymentTerms,
		ContactPerson:    r.ContactPerson,
		ContactPhone:     r.ContactPhone,
		ContactAddress:   r.ContactAddress,
		Notes:            r.Notes,
	}
	if r.InvoiceDate != "" {
		t, err := parseFlexibleTime(r.InvoiceDate)
		if err != nil {
			return input, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid invoice_date format")
		}
		input.InvoiceDate = t
	}
	if r.DueDate != "" {
		t, err := parseFlexibleTime(r.DueDate)
		if err != nil {
			return input, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid due_date format")
		}
		input.DueDate = &t
	}
	return input, nil
}

// ReceiptRequest represents the payload for recording a payment receipt
type ReceiptRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateReceivable handles the creation of a new receivable
// @Summary     Create a receivable
// @Description Record an outstanding invoice. When due_date is omitted it is computed from the invoice date plus payment terms.
// @Tags        receivables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ReceivableRequest true "Receivable details"
// @Success     201 {object} models.Receivable "Receivable created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /receivables [post]
func (h *ReceivableHandler) CreateReceivable(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	receivable, err := h.receivableService.CreateReceivable(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"receivable": receivable})
}

// ListReceivables returns all receivables, newest first
// @Summary     List receivables
// @Tags        receivables
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Receivable "Receivables"
// @Router      /receivables [get]
func (h *ReceivableHandler) ListReceivables(c *gin.Context) {
	receivables, err := h.receivableService.ListReceivables()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"receivables": receivables})
}

// GetReceivableByID returns a single receivable
// @Summary     Get receivable by ID
// @Tags        receivables
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Receivable ID"
// @Success     200 {object} models.Receivable "Receivable details"
// @Failure     404 {object} ErrorResponse "Receivable not found"
// @Router      /receivables/{id} [get]
func (h *ReceivableHandler) GetReceivableByID(c *gin.Context) {
	receivableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	receivable, err := h.receivableService.GetReceivableByID(receivableID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"receivable": receivable})
}

// RecordReceipt records a full or partial payment against a receivable
// @Summary     Record a payment receipt
// @Description Add a received amount to a receivable. The status moves to partial or received based on the running total.
// @Tags        receivables
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int            true "Receivable ID"
// @Param       request body ReceiptRequest true "Receipt amount"
// @Success     200 {object} models.Receivable "Updated receivable"
// @Failure     400 {object} ErrorResponse "Invalid amount or already received"
// @Failure     404 {object} ErrorResponse "Receivable not found"
// @Router      /receivables/{id}/receipts [post]
func (h *ReceivableHandler) RecordReceipt(c *gin.Context) {
	receivableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	receivable, err := h.receivableService.RecordReceipt(receivableID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"receivable": receivable})
}

// DeleteReceivable handles the deletion of a receivable
// @Summary     Delete receivable
// @Tags        receivables
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Receivable ID"
// @Success     200 {object} MessageResponse "Receivable deleted"
// @Failure     404 {object} ErrorResponse "Receivable not found"
// @Router      /receivables/{id} [delete]
func (h *ReceivableHandler) DeleteReceivable(c *gin.Context) {
	receivableID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.receivableService.DeleteReceivable(receivableID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Receivable deleted successfully"})
}

// GetReceivableStats returns aggregate receivable totals
// @Summary     Receivable statistics
// @Description Totals across all receivables: amounts billed, received, pending, and overdue.
// @Tags        receivables
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ReceivableStats "Receivable statistics"
// @Router      /receivables/stats [get]
func (h *ReceivableHandler) GetReceivableStats(c *gin.Context) {
	stats, err := h.receivableService.Stats(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
