package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"fatturo/internal/domain/invoice"
)

// InvoiceRepo persists invoices.
type InvoiceRepo struct {
	*BaseRepo[*invoice.Invoice]
}

// Compile-time check.
var _ invoice.Repository = (*InvoiceRepo)(nil)

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txManager *TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseRepo: NewBaseRepo(
			"invoices",
			ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
			txManager,
		),
	}
}

// List returns a filtered, paginated page of invoices plus the total count.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (invoice.ListResult, error) {
	q := r.BaseSelect()

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Year != nil {
		q = q.Where(squirrel.Expr("EXTRACT(YEAR FROM issue_date) = ?", *filter.Year))
	}
	if filter.OpportunityID != nil {
		q = q.Where(squirrel.Eq{"opportunity_id": *filter.OpportunityID})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"invoice_number": "%" + filter.Search + "%"})
	}

	total, err := r.Count(ctx, q)
	if err != nil {
		return invoice.ListResult{}, fmt.Errorf("count invoices: %w", err)
	}

	q = q.OrderBy("issue_date DESC NULLS LAST", "id")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	items, err := r.SelectMany(ctx, q)
	if err != nil {
		return invoice.ListResult{}, err
	}

	return invoice.ListResult{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// ListAll returns the full snapshot for the aggregator.
func (r *InvoiceRepo) ListAll(ctx context.Context) ([]*invoice.Invoice, error) {
	q := r.BaseSelect().OrderBy("created_at", "id")
	return r.SelectMany(ctx, q)
}
