package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"fatturo/internal/core/id"
	"fatturo/internal/domain/opportunity"
)

// OpportunityRepo persists opportunities.
type OpportunityRepo struct {
	*BaseRepo[*opportunity.Opportunity]
}

// Compile-time check.
var _ opportunity.Repository = (*OpportunityRepo)(nil)

// NewOpportunityRepo creates a new opportunity repository.
func NewOpportunityRepo(txManager *TxManager) *OpportunityRepo {
	return &OpportunityRepo{
		BaseRepo: NewBaseRepo(
			"opportunities",
			ExtractDBColumns[opportunity.Opportunity](),
			func() *opportunity.Opportunity { return &opportunity.Opportunity{} },
			txManager,
		),
	}
}

// List returns a filtered, paginated page of opportunities plus the total count.
func (r *OpportunityRepo) List(ctx context.Context, filter opportunity.ListFilter) (opportunity.ListResult, error) {
	q := r.BaseSelect()

	if filter.Stage != nil {
		q = q.Where(squirrel.Eq{"stage": *filter.Stage})
	}
	if filter.OnlyWon {
		q = q.Where(squirrel.Eq{"stage": opportunity.StageWon})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"company": pattern},
		})
	}

	total, err := r.Count(ctx, q)
	if err != nil {
		return opportunity.ListResult{}, fmt.Errorf("count opportunities: %w", err)
	}

	q = q.OrderBy("open_date DESC", "id")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	items, err := r.SelectMany(ctx, q)
	if err != nil {
		return opportunity.ListResult{}, err
	}

	return opportunity.ListResult{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// ListWon returns every closed-won opportunity without pagination.
func (r *OpportunityRepo) ListWon(ctx context.Context) ([]*opportunity.Opportunity, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"stage": opportunity.StageWon}).
		OrderBy("close_date", "id")
	return r.SelectMany(ctx, q)
}

// ListAll returns the full snapshot, oldest first.
func (r *OpportunityRepo) ListAll(ctx context.Context) ([]*opportunity.Opportunity, error) {
	q := r.BaseSelect().OrderBy("open_date", "id")
	return r.SelectMany(ctx, q)
}

// GetByID narrows the generic lookup to the domain type.
func (r *OpportunityRepo) GetByID(ctx context.Context, oppID id.ID) (*opportunity.Opportunity, error) {
	return r.BaseRepo.GetByID(ctx, oppID)
}
