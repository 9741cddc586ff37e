// Package target provides monthly revenue targets.
// The annual target is the sum of its 12 monthly rows; there is no separate
// authoritative annual record.
package target

import (
	"context"

	"fatturo/internal/core/apperror"
	"fatturo/internal/core/entity"
	"fatturo/internal/core/types"
)

// MonthlyTarget is the planned revenue for one calendar month.
// Month is zero-based (0 = January, 11 = December).
type MonthlyTarget struct {
	entity.BaseEntity

	Year   int         `db:"year" json:"year"`
	Month  int         `db:"month" json:"month"`
	Target types.Money `db:"target" json:"target"`
}

// New creates a monthly target.
func New(year, month int, amount types.Money) *MonthlyTarget {
	return &MonthlyTarget{
		BaseEntity: entity.NewBaseEntity(),
		Year:       year,
		Month:      month,
		Target:     amount,
	}
}

// Validate implements entity.Validatable.
func (t *MonthlyTarget) Validate(ctx context.Context) error {
	if t.Year < 2000 || t.Year > 2100 {
		return apperror.NewValidation("year out of range").
			WithDetail("field", "year").
			WithDetail("value", t.Year)
	}
	if t.Month < 0 || t.Month > 11 {
		return apperror.NewValidation("month must be between 0 and 11").
			WithDetail("field", "month").
			WithDetail("value", t.Month)
	}
	if t.Target.IsNegative() {
		return apperror.NewValidation("target must not be negative").
			WithDetail("field", "target").
			WithDetail("value", t.Target.String())
	}
	return nil
}

// AnnualTarget sums a year's monthly targets.
func AnnualTarget(targets []*MonthlyTarget) types.Money {
	total := types.Zero()
	for _, t := range targets {
		total = total.Add(t.Target)
	}
	return total
}
