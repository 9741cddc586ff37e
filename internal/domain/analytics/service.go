package analytics

import (
	"context"
	"time"

	"fatturo/internal/core/apperror"
	"fatturo/internal/core/types"
	"fatturo/internal/domain/invoice"
	"fatturo/internal/domain/opportunity"
	"fatturo/internal/domain/target"
)

// Config holds analytics configuration.
type Config struct {
	// ForfettarioLimit is the statutory annual cap on collected revenue.
	ForfettarioLimit types.Money

	// Thresholds are the warning/danger levels as fractions of the cap.
	Thresholds Thresholds

	// EnableTitleFallback turns on weak invoice matching in the rollup.
	EnableTitleFallback bool
}

// Service materializes record snapshots and runs the pure reductions over
// them. The snapshots are fetched once per call; every computation below
// that point is side-effect free.
type Service struct {
	opportunities opportunity.Repository
	invoices      invoice.Repository
	targets       target.Repository
	cfg           Config
	now           func() time.Time
}

// NewService creates a new analytics service.
func NewService(
	opportunities opportunity.Repository,
	invoices invoice.Repository,
	targets target.Repository,
	cfg Config,
) *Service {
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}
	return &Service{
		opportunities: opportunities,
		invoices:      invoices,
		targets:       targets,
		cfg:           cfg,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. For tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RevenueStats computes the revenue figures for a year or AllYears.
func (s *Service) RevenueStats(ctx context.Context, year int) (RevenueStats, error) {
	invoices, err := s.invoices.ListAll(ctx)
	if err != nil {
		return RevenueStats{}, err
	}
	return RevenueStatsFor(invoices, year, s.now()), nil
}

// ForfettarioStats computes the position against the statutory cap.
// Year-scoped only: the AllYears sentinel is rejected because the cap
// resets every calendar year.
func (s *Service) ForfettarioStats(ctx context.Context, year int) (ForfettarioStats, error) {
	if year == AllYears {
		return ForfettarioStats{}, apperror.NewValidation("forfettario stats require a concrete year").
			WithDetail("field", "year")
	}

	invoices, err := s.invoices.ListAll(ctx)
	if err != nil {
		return ForfettarioStats{}, err
	}
	return ForfettarioStatsFor(invoices, year, s.cfg.ForfettarioLimit, s.cfg.Thresholds), nil
}

// MonthlyCumulative builds the 12-bucket projection for a year.
func (s *Service) MonthlyCumulative(ctx context.Context, year int) (MonthlyCumulativeReport, error) {
	if year == AllYears {
		return MonthlyCumulativeReport{}, apperror.NewValidation("monthly projection requires a concrete year").
			WithDetail("field", "year")
	}

	opportunities, err := s.opportunities.ListAll(ctx)
	if err != nil {
		return MonthlyCumulativeReport{}, err
	}
	invoices, err := s.invoices.ListAll(ctx)
	if err != nil {
		return MonthlyCumulativeReport{}, err
	}
	targets, err := s.targets.ListByYear(ctx, year)
	if err != nil {
		return MonthlyCumulativeReport{}, err
	}

	return BuildMonthlyCumulative(opportunities, invoices, targets, year, s.now()), nil
}

// WonRollup classifies won deals for delivery triage.
func (s *Service) WonRollup(ctx context.Context) (WonRollup, error) {
	won, err := s.opportunities.ListWon(ctx)
	if err != nil {
		return WonRollup{}, err
	}
	invoices, err := s.invoices.ListAll(ctx)
	if err != nil {
		return WonRollup{}, err
	}

	cfg := RollupConfig{EnableTitleFallback: s.cfg.EnableTitleFallback}
	return BuildWonRollup(won, invoices, cfg, s.now()), nil
}
