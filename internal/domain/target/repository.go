package target

import (
	"context"
)

// Repository defines the interface for MonthlyTarget persistence.
// There is at most one row per (year, month); Upsert keeps it that way.
type Repository interface {
	Upsert(ctx context.Context, t *MonthlyTarget) error
	ListByYear(ctx context.Context, year int) ([]*MonthlyTarget, error)
}
