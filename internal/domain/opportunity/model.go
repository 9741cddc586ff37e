// Package opportunity provides the sales opportunity record and its stage
// state machine. Winning a deal is the one hard gate of the engine: the
// transition into Chiuso Vinto requires both forecast dates atomically,
// because they feed the monthly cumulative projection.
package opportunity

import (
	"context"
	"time"

	"fatturo/internal/core/apperror"
	"fatturo/internal/core/entity"
	"fatturo/internal/core/id"
	"fatturo/internal/core/types"
)

// Stage identifies a pipeline stage. The vocabulary is open: unknown custom
// stages are accepted and fall back to the default probability.
type Stage string

const (
	StageLead       Stage = "Lead"
	StageInContatto Stage = "In contatto"
	StageFollowUp   Stage = "Follow Up da fare"
	StageRevisione  Stage = "Revisionare offerta"
	StageWon        Stage = "Chiuso Vinto"
	StageLost       Stage = "Chiuso Perso"
)

// stageProbabilities maps stages to their default win probability.
var stageProbabilities = map[Stage]int{
	StageLead:       10,
	StageInContatto: 20,
	StageFollowUp:   40,
	StageRevisione:  60,
	StageWon:        100,
	StageLost:       0,
}

// customStageProbability applies to stages outside the known vocabulary.
const customStageProbability = 30

// DefaultProbability returns the default win probability for a stage.
func DefaultProbability(stage Stage) int {
	if p, ok := stageProbabilities[stage]; ok {
		return p
	}
	return customStageProbability
}

// IsClosed reports whether a stage is terminal (won or lost).
// This is the single canonical predicate; call sites must not
// string-match stage names.
func IsClosed(stage Stage) bool {
	return stage == StageWon || stage == StageLost
}

// ProjectStatus tracks delivery progress of a won opportunity.
type ProjectStatus string

const (
	ProjectInLavorazione ProjectStatus = "in_lavorazione"
	ProjectInRevisione   ProjectStatus = "in_revisione"
	ProjectConsegnato    ProjectStatus = "consegnato"
	ProjectChiuso        ProjectStatus = "chiuso"
)

// IsValidProjectStatus reports whether s is a known project status.
func IsValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectInLavorazione, ProjectInRevisione, ProjectConsegnato, ProjectChiuso:
		return true
	}
	return false
}

// Opportunity represents a sales opportunity tracked through the pipeline.
type Opportunity struct {
	entity.BaseDocument

	Title     string `db:"title" json:"title"`
	Company   string `db:"company" json:"company"`
	OwnerName string `db:"owner_name" json:"ownerName"`

	// Value is the deal amount. Non-negative, decimal precision.
	Value types.Money `db:"value" json:"value"`

	Stage Stage `db:"stage" json:"stage"`

	// Probability is 0-100, kept consistent with Stage unless explicitly
	// overridden during a transition.
	Probability int `db:"probability" json:"probability"`

	OpenDate  time.Time  `db:"open_date" json:"openDate"`
	CloseDate *time.Time `db:"close_date" json:"closeDate,omitempty"`

	// Forecast dates, required the moment the deal is won.
	ExpectedInvoiceDate *time.Time `db:"expected_invoice_date" json:"expectedInvoiceDate,omitempty"`
	ExpectedPaymentDate *time.Time `db:"expected_payment_date" json:"expectedPaymentDate,omitempty"`

	ProjectStatus *ProjectStatus `db:"project_status" json:"projectStatus,omitempty"`
}

// New creates an opportunity in the Lead stage.
func New(title, company, ownerName string, value types.Money, now time.Time) *Opportunity {
	return &Opportunity{
		BaseDocument: entity.NewBaseDocument(),
		Title:        title,
		Company:      company,
		OwnerName:    ownerName,
		Value:        value,
		Stage:        StageLead,
		Probability:  DefaultProbability(StageLead),
		OpenDate:     now,
	}
}

// Validate implements entity.Validatable.
func (o *Opportunity) Validate(ctx context.Context) error {
	if o.Title == "" {
		return apperror.NewValidation("title is required").
			WithDetail("field", "title")
	}
	if o.Stage == "" {
		return apperror.NewValidation("stage is required").
			WithDetail("field", "stage")
	}
	if o.Value.IsNegative() {
		return apperror.NewValidation("value must not be negative").
			WithDetail("field", "value").
			WithDetail("value", o.Value.String())
	}
	if o.Probability < 0 || o.Probability > 100 {
		return apperror.NewValidation("probability must be between 0 and 100").
			WithDetail("field", "probability").
			WithDetail("value", o.Probability)
	}
	if o.ProjectStatus != nil && !IsValidProjectStatus(*o.ProjectStatus) {
		return apperror.NewValidation("invalid project status").
			WithDetail("field", "projectStatus").
			WithDetail("value", string(*o.ProjectStatus))
	}
	// A closed deal always carries its close date.
	if IsClosed(o.Stage) && o.CloseDate == nil {
		return apperror.NewValidation("closed opportunity requires closeDate").
			WithDetail("field", "closeDate")
	}
	return nil
}

// IsWon reports whether the deal is closed-won.
func (o *Opportunity) IsWon() bool {
	return o.Stage == StageWon
}

// HasForecastDates reports whether both forecast dates are set.
func (o *Opportunity) HasForecastDates() bool {
	return o.ExpectedInvoiceDate != nil && o.ExpectedPaymentDate != nil
}

// OpportunityID is exported for weak references from invoices.
func (o *Opportunity) OpportunityID() id.ID {
	return o.ID
}
