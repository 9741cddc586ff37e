package opportunity

import (
	"context"

	"fatturo/internal/core/id"
)

// ListFilter narrows down List results.
type ListFilter struct {
	// Stage filters to a single stage when set.
	Stage *Stage

	// OnlyWon restricts to closed-won deals (used by the delivery rollup).
	OnlyWon bool

	// Search matches title or company (ILIKE).
	Search string

	Limit  int
	Offset int
}

// ListResult carries a page of opportunities with the total count.
type ListResult struct {
	Items      []*Opportunity
	TotalCount int64
	Limit      int
	Offset     int
}

// Repository defines the interface for Opportunity persistence.
type Repository interface {
	Create(ctx context.Context, opp *Opportunity) error
	Update(ctx context.Context, opp *Opportunity) error
	Delete(ctx context.Context, oppID id.ID) error
	GetByID(ctx context.Context, oppID id.ID) (*Opportunity, error)
	List(ctx context.Context, filter ListFilter) (ListResult, error)

	// ListWon returns every closed-won opportunity (no pagination);
	// input for the analytics reductions.
	ListWon(ctx context.Context) ([]*Opportunity, error)

	// ListAll returns the full materialized snapshot for the projector.
	ListAll(ctx context.Context) ([]*Opportunity, error)
}
