package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"fatturo/internal/domain/target"
)

// TargetRepo persists monthly revenue targets.
// The (year, month) pair is unique; Upsert keeps one row per slot.
type TargetRepo struct {
	*BaseRepo[*target.MonthlyTarget]
}

// Compile-time check.
var _ target.Repository = (*TargetRepo)(nil)

// NewTargetRepo creates a new target repository.
func NewTargetRepo(txManager *TxManager) *TargetRepo {
	return &TargetRepo{
		BaseRepo: NewBaseRepo(
			"monthly_targets",
			ExtractDBColumns[target.MonthlyTarget](),
			func() *target.MonthlyTarget { return &target.MonthlyTarget{} },
			txManager,
		),
	}
}

// Upsert inserts or overwrites the target for one (year, month) slot.
func (r *TargetRepo) Upsert(ctx context.Context, t *target.MonthlyTarget) error {
	q := r.Builder().
		Insert("monthly_targets").
		Columns("id", "version", "year", "month", "target").
		Values(t.ID, t.Version, t.Year, t.Month, t.Target).
		Suffix(`ON CONFLICT (year, month) DO UPDATE
			SET target = EXCLUDED.target,
			    version = monthly_targets.version + 1`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert monthly target: %w", err)
	}
	return nil
}

// ListByYear returns the stored targets for one year, month ascending.
// Months without a row are absent; the service fills in zeros.
func (r *TargetRepo) ListByYear(ctx context.Context, year int) ([]*target.MonthlyTarget, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"year": year}).
		OrderBy("month")
	return r.SelectMany(ctx, q)
}
