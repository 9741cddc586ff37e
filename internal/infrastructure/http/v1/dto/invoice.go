package dto

import (
	"time"

	"fatturo/internal/core/id"
	"fatturo/internal/core/types"
	"fatturo/internal/domain/invoice"
)

// --- Request DTOs ---

// CreateInvoiceRequest is the request body for creating an invoice.
// An empty invoiceNumber gets the next sequential number assigned.
type CreateInvoiceRequest struct {
	InvoiceNumber string      `json:"invoiceNumber"`
	OpportunityID *string     `json:"opportunityId"`
	Amount        types.Money `json:"amount"`
	DueDate       *time.Time  `json:"dueDate"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateInvoiceRequest) ToEntity() (*invoice.Invoice, error) {
	var oppID *id.ID
	if r.OpportunityID != nil && *r.OpportunityID != "" {
		parsed, err := id.Parse(*r.OpportunityID)
		if err != nil {
			return nil, err
		}
		oppID = &parsed
	}

	inv := invoice.New(r.InvoiceNumber, r.Amount, oppID)
	inv.DueDate = r.DueDate
	return inv, nil
}

// UpdateInvoiceRequest is the request body for updating an invoice.
// Status changes go through the dedicated status endpoint.
type UpdateInvoiceRequest struct {
	InvoiceNumber string      `json:"invoiceNumber" binding:"required"`
	OpportunityID *string     `json:"opportunityId"`
	Amount        types.Money `json:"amount"`
	DueDate       *time.Time  `json:"dueDate"`
	Version       int         `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateInvoiceRequest) ApplyTo(inv *invoice.Invoice) error {
	inv.InvoiceNumber = r.InvoiceNumber
	inv.Amount = r.Amount
	inv.DueDate = r.DueDate
	inv.Version = r.Version

	inv.OpportunityID = nil
	if r.OpportunityID != nil && *r.OpportunityID != "" {
		parsed, err := id.Parse(*r.OpportunityID)
		if err != nil {
			return err
		}
		inv.OpportunityID = &parsed
	}
	return nil
}

// SetInvoiceStatusRequest moves an invoice to a new lifecycle state.
type SetInvoiceStatusRequest struct {
	Status    invoice.Status `json:"status" binding:"required"`
	IssueDate *time.Time     `json:"issueDate"`
	PaidDate  *time.Time     `json:"paidDate"`
}

// ToTransition converts DTO to a domain transition.
func (r *SetInvoiceStatusRequest) ToTransition() invoice.StatusTransition {
	return invoice.StatusTransition{
		NewStatus: r.Status,
		IssueDate: r.IssueDate,
		PaidDate:  r.PaidDate,
	}
}

// ListInvoicesRequest contains list filter parameters.
type ListInvoicesRequest struct {
	PaginationRequest
	Status        *invoice.Status `form:"status"`
	Year          *int            `form:"year"`
	OpportunityID *string         `form:"opportunityId"`
	Search        string          `form:"search"`
}

// ToFilter converts DTO to a repository filter.
func (r *ListInvoicesRequest) ToFilter() (invoice.ListFilter, error) {
	filter := invoice.ListFilter{
		Status: r.Status,
		Year:   r.Year,
		Search: r.Search,
		Limit:  r.Limit,
		Offset: r.Offset,
	}
	if r.OpportunityID != nil && *r.OpportunityID != "" {
		parsed, err := id.Parse(*r.OpportunityID)
		if err != nil {
			return filter, err
		}
		filter.OpportunityID = &parsed
	}
	return filter, nil
}

// --- Response DTOs ---

// InvoiceResponse is the response body for an invoice.
type InvoiceResponse struct {
	ID            string         `json:"id"`
	InvoiceNumber string         `json:"invoiceNumber"`
	OpportunityID *string        `json:"opportunityId,omitempty"`
	Amount        types.Money    `json:"amount"`
	Status        invoice.Status `json:"status"`
	IssueDate     *time.Time     `json:"issueDate,omitempty"`
	DueDate       *time.Time     `json:"dueDate,omitempty"`
	PaidDate      *time.Time     `json:"paidDate,omitempty"`
	Version       int            `json:"version"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// FromInvoice creates response DTO from domain entity.
func FromInvoice(inv *invoice.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount,
		Status:        inv.Status,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		PaidDate:      inv.PaidDate,
		Version:       inv.Version,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if inv.OpportunityID != nil {
		s := inv.OpportunityID.String()
		resp.OpportunityID = &s
	}
	return resp
}

// FromInvoices maps a slice of entities to response DTOs.
func FromInvoices(invs []*invoice.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, FromInvoice(inv))
	}
	return out
}
