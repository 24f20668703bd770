package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
)

type InvoiceController struct {
	Svc      *services.BillingService
	Settings *services.SettingsService
}

func NewInvoiceController(svc *services.BillingService, settings *services.SettingsService) *InvoiceController {
	return &InvoiceController{Svc: svc, Settings: settings}
}

type createInvoicePayload struct {
	BookingID uint                   `json:"booking_id" binding:"required"`
	Extras    []services.ExtraCharge `json:"extras"`
}

func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	var payload createInvoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	invoice, err := ic.Svc.CreateInvoice(payload.BookingID, payload.Extras)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, invoice)
}

type markPaidPayload struct {
	Method string `json:"method" binding:"required"`
}

func (ic *InvoiceController) MarkPaid(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload markPaidPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	invoice, err := ic.Svc.MarkPaid(id, payload.Method)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoice)
}

func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	invoice, err := ic.Svc.GetInvoice(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoice)
}

// ListInvoices supports ?booking_id= filtering.
func (ic *InvoiceController) ListInvoices(c *gin.Context) {
	var bookingID uint
	if v := c.Query("booking_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid booking_id filter.")
			return
		}
		bookingID = uint(id)
	}

	invoices, err := ic.Svc.ListInvoices(bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoices)
}

// DownloadDocument renders the invoice on demand (GET /invoices/:id/document).
func (ic *InvoiceController) DownloadDocument(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	invoice, err := ic.Svc.GetInvoice(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	settings, err := ic.Settings.Get()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	document, err := services.RenderInvoiceDocument(invoice, settings)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice-"+invoice.Number+".html"))
	c.Data(http.StatusOK, "text/html; charset=utf-8", document)
}
