package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/billing_app/internal/core/ports/services"
	"github.com/SscSPs/billing_app/internal/dto"
	"github.com/SscSPs/billing_app/internal/middleware"
	"github.com/SscSPs/billing_app/internal/utils"
	"github.com/SscSPs/billing_app/internal/utils/paymentlink"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices and their line items.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	linkBuilder    *paymentlink.Builder
	posthogClient  *utils.PosthogClientWrapper
}

// RegisterInvoiceRoutes registers routes related to invoices.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, linkBuilder *paymentlink.Builder, posthogClient *utils.PosthogClientWrapper) {
	registerCustomValidators()
	h := &invoiceHandler{
		invoiceService: invoiceService,
		linkBuilder:    linkBuilder,
		posthogClient:  posthogClient,
	}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.PUT("/:invoiceID", h.updateInvoice)
		invoices.DELETE("/:invoiceID", h.deleteInvoice)
		invoices.PATCH("/:invoiceID/status", h.updateInvoiceStatus)
		invoices.GET("/:invoiceID/payment-link", h.getPaymentLink)
		invoices.POST("/:invoiceID/items", h.addItem)
		invoices.DELETE("/:invoiceID/items/:itemID", h.removeItem)
	}
}

// createInvoice godoc
// @Summary Create a new invoice
// @Description Creates an unpaid invoice for the logged-in user, optionally with initial line items
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create invoice"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to create invoice", slog.String("customer_name", req.CustomerName), slog.Int("item_count", len(req.Items)))

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "create invoice")
		return
	}

	logger.Info("Invoice created successfully", slog.String("invoice_id", invoice.InvoiceID()))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices for the logged-in user
// @Tags invoices
// @Produce  json
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "list invoices")
		return
	}

	logger.Info("Invoices listed successfully", slog.Int("count", len(invoices)))
	c.JSON(http.StatusOK, dto.ToListInvoicesResponse(invoices))
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Description Retrieves an invoice with its line items and computed totals
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (accessing another user's invoice)"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to retrieve invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID))
	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondWithError(c, logger, err, "retrieve invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// updateInvoice godoc
// @Summary Update invoice details
// @Description Changes customer name, tax percentage, discount or currency. Omitted fields are kept.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to update invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID), slog.String("updater_user_id", userID))
	logger.Info("Received request to update invoice")

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "update invoice")
		return
	}

	logger.Info("Invoice updated successfully")
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Description Permanently removes an invoice and its line items
// @Tags invoices
// @Param   invoiceID path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to delete invoice"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID), slog.String("deleter_user_id", userID))
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), invoiceID, userID); err != nil {
		respondWithError(c, logger, err, "delete invoice")
		return
	}

	logger.Info("Invoice deleted successfully")
	c.Status(http.StatusNoContent)
}

// updateInvoiceStatus godoc
// @Summary Mark an invoice paid or unpaid
// @Description Setting the current status again is a no-op
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   status body dto.UpdateInvoiceStatusRequest true "Target status"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to update invoice status"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/status [patch]
func (h *invoiceHandler) updateInvoiceStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	var req dto.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateInvoiceStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID), slog.String("target_status", req.Status))
	logger.Info("Received request to change invoice status")

	markStatus := h.invoiceService.MarkUnpaid
	if req.Status == "PAID" {
		markStatus = h.invoiceService.MarkPaid
	}

	invoice, err := markStatus(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondWithError(c, logger, err, "update invoice status")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "invoice_status_changed", map[string]any{
		"invoice_id": invoiceID,
		"status":     string(invoice.Status()),
		"currency":   invoice.Currency().String(),
	})

	logger.Info("Invoice status updated", slog.String("status", string(invoice.Status())))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// getPaymentLink godoc
// @Summary Get the payment link of an invoice
// @Description Returns a payment URI carrying the invoice ID, total and currency, suitable for a QR code
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.PaymentLinkResponse
// @Failure 400 {object} map[string]string "Invoice total is negative"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to build payment link"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/payment-link [get]
func (h *invoiceHandler) getPaymentLink(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if h.linkBuilder == nil {
		logger.Error("Payment link builder is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build payment link"})
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID))
	details, err := h.invoiceService.GetPaymentDetails(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondWithError(c, logger, err, "build payment link")
		return
	}

	link, err := h.linkBuilder.Build(*details)
	if err != nil {
		respondWithError(c, logger, err, "build payment link")
		return
	}

	c.JSON(http.StatusOK, dto.PaymentLinkResponse{
		InvoiceID:   details.InvoiceID,
		Amount:      details.Total,
		Currency:    details.Currency.String(),
		PaymentLink: link,
	})
}

// addItem godoc
// @Summary Add a line item to an invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   item body dto.CreateLineItemRequest true "Line item"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to add line item"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/items [post]
func (h *invoiceHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	var req dto.CreateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID))
	invoice, err := h.invoiceService.AddItem(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "add line item")
		return
	}

	logger.Info("Line item added", slog.String("total", invoice.Total().String()))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// removeItem godoc
// @Summary Remove a line item from an invoice
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   itemID path string true "Line item ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Invoice or line item not found"
// @Failure 500 {object} map[string]string "Failed to remove line item"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/items/{itemID} [delete]
func (h *invoiceHandler) removeItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	itemID := c.Param("itemID")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("invoice_id", invoiceID), slog.String("item_id", itemID))
	invoice, err := h.invoiceService.RemoveItem(c.Request.Context(), invoiceID, itemID, userID)
	if err != nil {
		respondWithError(c, logger, err, "remove line item")
		return
	}

	logger.Info("Line item removed", slog.String("total", invoice.Total().String()))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}
