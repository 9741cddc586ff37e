package analytics

import (
	"time"

	"fatturo/internal/core/types"
	"fatturo/internal/domain/invoice"
)

// Fatturato sums issued revenue (emessa or pagata) keyed by issue date.
// Invoices lacking an issue date are excluded rather than failing the
// aggregate. Pass AllYears to skip the year filter.
func Fatturato(invoices []*invoice.Invoice, year int) types.Money {
	total := types.Zero()
	for _, inv := range invoices {
		if inv == nil || !inv.IsIssued() {
			continue
		}
		if inv.IssueDate == nil {
			continue
		}
		if year != AllYears && inv.IssueDate.Year() != year {
			continue
		}
		total = total.Add(inv.Amount)
	}
	return total
}

// Incassato sums collected revenue, keyed strictly by paid date. This is
// the figure that matters for the regulatory cap; issue dates never affect
// it. A paid invoice with no opportunity link still counts fully.
func Incassato(invoices []*invoice.Invoice, year int) types.Money {
	total := types.Zero()
	for _, inv := range invoices {
		if inv == nil || !inv.IsPaid() {
			continue
		}
		if inv.PaidDate == nil {
			continue
		}
		if year != AllYears && inv.PaidDate.Year() != year {
			continue
		}
		total = total.Add(inv.Amount)
	}
	return total
}

// DaIncassare sums issued, unpaid amounts. Year-independent: pending
// invoices are always pending now.
func DaIncassare(invoices []*invoice.Invoice) types.Money {
	total := types.Zero()
	for _, inv := range invoices {
		if inv == nil || inv.Status != invoice.StatusEmessa {
			continue
		}
		total = total.Add(inv.Amount)
	}
	return total
}

// DaEmettere sums amounts not yet issued.
func DaEmettere(invoices []*invoice.Invoice) types.Money {
	total := types.Zero()
	for _, inv := range invoices {
		if inv == nil || inv.Status != invoice.StatusDaEmettere {
			continue
		}
		total = total.Add(inv.Amount)
	}
	return total
}

// Overdue sums issued, unpaid amounts past their due date. Comparison is
// at day granularity; invoices without a due date are excluded.
func Overdue(invoices []*invoice.Invoice, today time.Time) types.Money {
	total := types.Zero()
	for _, inv := range invoices {
		if inv == nil || !inv.IsOverdue(today) {
			continue
		}
		total = total.Add(inv.Amount)
	}
	return total
}

// RevenueStatsFor computes all five figures in one pass-friendly call.
func RevenueStatsFor(invoices []*invoice.Invoice, year int, today time.Time) RevenueStats {
	return RevenueStats{
		Fatturato:   Fatturato(invoices, year),
		Incassato:   Incassato(invoices, year),
		DaIncassare: DaIncassare(invoices),
		DaEmettere:  DaEmettere(invoices),
		Overdue:     Overdue(invoices, today),
	}
}
