package target

import (
	"context"

	"fatturo/internal/core/tx"
	"fatturo/internal/core/types"
	"fatturo/pkg/logger"
)

// Service provides business operations for monthly targets.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new target service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Set upserts the target for one month.
func (s *Service) Set(ctx context.Context, t *MonthlyTarget) error {
	if err := t.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Upsert(ctx, t)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "monthly target set",
		"year", t.Year,
		"month", t.Month,
		"target", t.Target.String())

	return nil
}

// SetYear upserts all 12 targets for a year in one transaction.
// Months missing from amounts keep their previous value.
func (s *Service) SetYear(ctx context.Context, year int, amounts map[int]types.Money) error {
	targets := make([]*MonthlyTarget, 0, len(amounts))
	for month, amount := range amounts {
		t := New(year, month, amount)
		if err := t.Validate(ctx); err != nil {
			return err
		}
		targets = append(targets, t)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, t := range targets {
			if err := s.repo.Upsert(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetYear returns the year's targets as a 12-element slice indexed by month.
// Months without a stored row default to zero.
func (s *Service) GetYear(ctx context.Context, year int) ([]*MonthlyTarget, error) {
	stored, err := s.repo.ListByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[int]*MonthlyTarget, len(stored))
	for _, t := range stored {
		byMonth[t.Month] = t
	}

	full := make([]*MonthlyTarget, 12)
	for month := 0; month < 12; month++ {
		if t, ok := byMonth[month]; ok {
			full[month] = t
		} else {
			full[month] = New(year, month, types.Zero())
		}
	}
	return full, nil
}
