package analytics

import (
	"fatturo/internal/core/types"
	"fatturo/internal/domain/invoice"
)

// Thresholds configure the alert levels as fractions of the cap.
type Thresholds struct {
	Warning float64
	Danger  float64
}

// DefaultThresholds are the standard alert levels.
func DefaultThresholds() Thresholds {
	return Thresholds{Warning: 0.75, Danger: 0.90}
}

// ForfettarioStatsFor derives the position against the statutory cap from
// collected revenue for one calendar year.
//
// Only meaningful for a concrete year: the cap resets every January, so
// callers must not pass the AllYears sentinel (the service layer rejects
// it). A zero or negative limit yields progress 0, not a division error.
func ForfettarioStatsFor(invoices []*invoice.Invoice, year int, limit types.Money, thresholds Thresholds) ForfettarioStats {
	incassato := Incassato(invoices, year)

	progress := 0.0
	if limit.IsPositive() {
		progress, _ = incassato.Div(limit).Float64()
	}

	stats := ForfettarioStats{
		Incassato:       incassato,
		Limit:           limit,
		Remaining:       types.MaxMoney(types.Zero(), limit.Sub(incassato)),
		Progress:        progress,
		ProgressPercent: progress * 100,
	}

	switch {
	case progress >= 1.0:
		stats.Status = ForfettarioOver
	case progress >= thresholds.Danger:
		stats.Status = ForfettarioDanger
	case progress >= thresholds.Warning:
		stats.Status = ForfettarioWarning
	default:
		stats.Status = ForfettarioOK
	}

	return stats
}
