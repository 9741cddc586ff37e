package opportunity

import (
	"time"

	"fatturo/internal/core/apperror"
)

// StageTransition describes a requested stage change.
// Probability overrides the stage default when set. Forecast dates are
// mandatory when the target stage is Chiuso Vinto.
type StageTransition struct {
	NewStage            Stage
	Probability         *int
	ExpectedInvoiceDate *time.Time
	ExpectedPaymentDate *time.Time
}

// TransitionStage applies a stage change to the opportunity.
//
// Rules:
//   - Same stage: no-op, no side effects.
//   - Chiuso Vinto requires both forecast dates supplied atomically. This
//     holds for re-winning a reopened deal too: the dates must be supplied
//     again and replace any stored values, while an earlier ProjectStatus
//     is kept.
//   - Probability is set to the stage default unless explicitly overridden.
//   - Entering a closed stage stamps CloseDate (if unset); leaving a closed
//     stage back to an open one clears it (deals can be reopened).
//
// The record passed in is the only thing mutated; now is injected so the
// machine stays deterministic under test.
func (o *Opportunity) TransitionStage(t StageTransition, now time.Time) error {
	if t.NewStage == "" {
		return apperror.NewValidation("stage is required").
			WithDetail("field", "stage")
	}

	// No-op guard.
	if t.NewStage == o.Stage {
		return nil
	}

	if t.NewStage == StageWon {
		if t.ExpectedInvoiceDate == nil || t.ExpectedPaymentDate == nil {
			return apperror.NewMissingForecastDates().
				WithDetail("opportunity_id", o.ID.String())
		}
		o.ExpectedInvoiceDate = t.ExpectedInvoiceDate
		o.ExpectedPaymentDate = t.ExpectedPaymentDate
		if o.ProjectStatus == nil {
			status := ProjectInLavorazione
			o.ProjectStatus = &status
		}
	}

	wasClosed := IsClosed(o.Stage)
	o.Stage = t.NewStage

	if t.Probability != nil {
		o.Probability = *t.Probability
	} else {
		o.Probability = DefaultProbability(t.NewStage)
	}

	switch {
	case IsClosed(t.NewStage):
		if o.CloseDate == nil {
			closeDate := now
			o.CloseDate = &closeDate
		}
	case wasClosed:
		// Reopening a closed deal clears the close date. Intentional:
		// deals do get reopened, the close date belongs to the final close.
		o.CloseDate = nil
	}

	return nil
}
