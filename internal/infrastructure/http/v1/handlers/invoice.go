package handlers

import (
	"github.com/gin-gonic/gin"

	"fatturo/internal/core/apperror"
	"fatturo/internal/domain/invoice"
	"fatturo/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Create handles invoice creation.
// POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid opportunity id").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Create(c.Request.Context(), inv); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, inv.ID.String())
}

// Get returns one invoice by ID.
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	invID, ok := h.ParseID(c)
	if !ok {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), invID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(inv))
}

// List returns a filtered page of invoices.
// GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var req dto.ListInvoicesRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.Defaults()

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid opportunity id").WithDetail("error", err.Error()))
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromInvoices(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Update handles invoice edits (descriptive fields only).
// PUT /api/v1/invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	invID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), invID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(inv); err != nil {
		h.Error(c, apperror.NewValidation("invalid opportunity id").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Update(c.Request.Context(), inv); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(inv))
}

// SetStatus moves an invoice through its lifecycle.
// POST /api/v1/invoices/:id/status
func (h *InvoiceHandler) SetStatus(c *gin.Context) {
	invID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.SetInvoiceStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.SetStatus(c.Request.Context(), invID, req.ToTransition())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInvoice(inv))
}

// Delete removes an invoice.
// DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	invID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), invID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
