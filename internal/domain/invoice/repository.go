package invoice

import (
	"context"

	"fatturo/internal/core/id"
)

// ListFilter narrows down List results.
type ListFilter struct {
	// Status filters to a single lifecycle state when set.
	Status *Status

	// Year filters by issue date year when set.
	Year *int

	// OpportunityID filters invoices linked to one opportunity.
	OpportunityID *id.ID

	// Search matches the invoice number (ILIKE).
	Search string

	Limit  int
	Offset int
}

// ListResult carries a page of invoices with the total count.
type ListResult struct {
	Items      []*Invoice
	TotalCount int64
	Limit      int
	Offset     int
}

// Repository defines the interface for Invoice persistence.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, invID id.ID) error
	GetByID(ctx context.Context, invID id.ID) (*Invoice, error)
	List(ctx context.Context, filter ListFilter) (ListResult, error)

	// ListAll returns the full materialized snapshot for the aggregator.
	ListAll(ctx context.Context) ([]*Invoice, error)
}
