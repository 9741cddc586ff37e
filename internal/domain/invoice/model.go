// Package invoice provides the invoice record and its status lifecycle.
// The conventional path is da_emettere → emessa → pagata, but backfilled
// data may be created directly in any state; the machine only enforces the
// date invariants at the moment of a transition.
package invoice

import (
	"context"
	"time"

	"fatturo/internal/core/apperror"
	"fatturo/internal/core/entity"
	"fatturo/internal/core/id"
	"fatturo/internal/core/types"
)

// Status identifies the invoice lifecycle state.
type Status string

const (
	StatusDaEmettere Status = "da_emettere" // not yet issued
	StatusEmessa     Status = "emessa"      // issued, awaiting payment
	StatusPagata     Status = "pagata"      // paid; counts toward the cap
)

// IsValidStatus reports whether s is a recognized status.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusDaEmettere, StatusEmessa, StatusPagata:
		return true
	}
	return false
}

// IsTerminalStatus reports whether s ends the lifecycle.
func IsTerminalStatus(s Status) bool {
	return s == StatusPagata
}

// Invoice represents an issued or planned invoice.
type Invoice struct {
	entity.BaseDocument

	// InvoiceNumber is free text; unique by convention, not enforced.
	InvoiceNumber string `db:"invoice_number" json:"invoiceNumber"`

	// OpportunityID is a weak back-reference; a dangling id is tolerated.
	OpportunityID *id.ID `db:"opportunity_id" json:"opportunityId,omitempty"`

	Amount types.Money `db:"amount" json:"amount"`
	Status Status      `db:"status" json:"status"`

	// IssueDate is required once status is emessa or beyond.
	IssueDate *time.Time `db:"issue_date" json:"issueDate,omitempty"`

	// DueDate is the payment terms deadline, independent of status.
	DueDate *time.Time `db:"due_date" json:"dueDate,omitempty"`

	// PaidDate is required once status is pagata. This is the only date
	// that counts toward the regulatory cap.
	PaidDate *time.Time `db:"paid_date" json:"paidDate,omitempty"`
}

// New creates an invoice in da_emettere.
func New(invoiceNumber string, amount types.Money, opportunityID *id.ID) *Invoice {
	return &Invoice{
		BaseDocument:  entity.NewBaseDocument(),
		InvoiceNumber: invoiceNumber,
		OpportunityID: opportunityID,
		Amount:        amount,
		Status:        StatusDaEmettere,
	}
}

// Validate implements entity.Validatable.
func (i *Invoice) Validate(ctx context.Context) error {
	if i.InvoiceNumber == "" {
		return apperror.NewValidation("invoice number is required").
			WithDetail("field", "invoiceNumber")
	}
	if !IsValidStatus(i.Status) {
		return apperror.NewBusinessRule(
			apperror.CodeInvalidInvoiceStatus,
			"unrecognized invoice status",
		).WithDetail("status", string(i.Status))
	}
	if !i.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", i.Amount.String())
	}
	// Date invariants: issued implies issue date, paid implies paid date.
	if (i.Status == StatusEmessa || i.Status == StatusPagata) && i.IssueDate == nil {
		return apperror.NewValidation("issued invoice requires issueDate").
			WithDetail("field", "issueDate")
	}
	if i.Status == StatusPagata && i.PaidDate == nil {
		return apperror.NewValidation("paid invoice requires paidDate").
			WithDetail("field", "paidDate")
	}
	return nil
}

// IsIssued reports whether the invoice has been issued (emessa or pagata).
func (i *Invoice) IsIssued() bool {
	return i.Status == StatusEmessa || i.Status == StatusPagata
}

// IsPaid reports whether the invoice has been collected.
func (i *Invoice) IsPaid() bool {
	return i.Status == StatusPagata
}

// IsOverdue reports whether an issued, unpaid invoice is past its due date.
// Comparison is at day granularity; time of day is ignored.
func (i *Invoice) IsOverdue(today time.Time) bool {
	if i.Status != StatusEmessa || i.DueDate == nil {
		return false
	}
	return dayOf(*i.DueDate).Before(dayOf(today))
}

// dayOf truncates a timestamp to its calendar day (UTC).
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
