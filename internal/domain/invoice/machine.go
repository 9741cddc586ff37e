package invoice

import (
	"time"

	"fatturo/internal/core/apperror"
)

// StatusTransition describes a requested status change. Date overrides are
// used instead of "today" when stamping dates during the transition.
type StatusTransition struct {
	NewStatus Status
	IssueDate *time.Time
	PaidDate  *time.Time
}

// SetStatus applies a status change to the invoice.
//
// Entering emessa stamps IssueDate with today (or the override) when unset.
// Entering pagata stamps PaidDate, and backfills IssueDate as well: an
// invoice cannot be paid without ever having been issued. Dates are only
// auto-filled here, during a transition, never during arbitrary edits.
//
// Arbitrary jumps (including backwards) are allowed; only an unrecognized
// status is rejected.
func (i *Invoice) SetStatus(t StatusTransition, now time.Time) error {
	if !IsValidStatus(t.NewStatus) {
		return apperror.NewBusinessRule(
			apperror.CodeInvalidInvoiceStatus,
			"unrecognized invoice status",
		).WithDetail("status", string(t.NewStatus)).
			WithDetail("invoice_id", i.ID.String())
	}

	if t.NewStatus == i.Status {
		return nil
	}

	switch t.NewStatus {
	case StatusEmessa:
		if t.IssueDate != nil {
			i.IssueDate = t.IssueDate
		} else if i.IssueDate == nil {
			issued := now
			i.IssueDate = &issued
		}
	case StatusPagata:
		if t.PaidDate != nil {
			i.PaidDate = t.PaidDate
		} else if i.PaidDate == nil {
			paid := now
			i.PaidDate = &paid
		}
		if t.IssueDate != nil {
			i.IssueDate = t.IssueDate
		} else if i.IssueDate == nil {
			issued := now
			i.IssueDate = &issued
		}
	}

	i.Status = t.NewStatus
	return nil
}
