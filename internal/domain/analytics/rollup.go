package analytics

import (
	"sort"
	"strings"
	"time"

	"fatturo/internal/domain/invoice"
	"fatturo/internal/domain/opportunity"
)

// InvoiceMatcher links invoices to a won opportunity.
// The primary strategy matches by opportunity id; the title+company
// fallback exists for legacy data without reliable links and can be
// disabled or audited independently.
type InvoiceMatcher interface {
	// Name identifies the strategy for auditing ("id", "title").
	Name() string

	Match(opp *opportunity.Opportunity, invoices []*invoice.Invoice) []*invoice.Invoice
}

// IDMatcher matches invoices by their opportunity id back-reference.
type IDMatcher struct{}

func (IDMatcher) Name() string { return "id" }

func (IDMatcher) Match(opp *opportunity.Opportunity, invoices []*invoice.Invoice) []*invoice.Invoice {
	var matched []*invoice.Invoice
	for _, inv := range invoices {
		if inv == nil || inv.OpportunityID == nil {
			continue
		}
		if *inv.OpportunityID == opp.ID {
			matched = append(matched, inv)
		}
	}
	return matched
}

// TitleMatcher is the weak fallback: it matches an invoice whose number or
// free-text reference contains the deal title together with the company.
// Duplicate titles can produce false positives; classification only needs
// "any paid / any issued", so the first match is acceptable, but every
// fallback match is reported via WonItem.MatchedBy for auditing.
type TitleMatcher struct{}

func (TitleMatcher) Name() string { return "title" }

func (TitleMatcher) Match(opp *opportunity.Opportunity, invoices []*invoice.Invoice) []*invoice.Invoice {
	if opp.Title == "" {
		return nil
	}
	title := strings.ToLower(opp.Title)
	company := strings.ToLower(opp.Company)

	var matched []*invoice.Invoice
	for _, inv := range invoices {
		if inv == nil || inv.OpportunityID != nil {
			// Linked invoices belong to the id strategy.
			continue
		}
		number := strings.ToLower(inv.InvoiceNumber)
		if strings.Contains(number, title) && (company == "" || strings.Contains(number, company)) {
			matched = append(matched, inv)
		}
	}
	return matched
}

// RollupConfig controls the won rollup.
type RollupConfig struct {
	// EnableTitleFallback turns on the weak title+company matching for
	// invoices without an opportunity link.
	EnableTitleFallback bool
}

// BuildWonRollup classifies every won opportunity by its invoicing and
// collection state and sorts urgent classes first.
func BuildWonRollup(
	won []*opportunity.Opportunity,
	invoices []*invoice.Invoice,
	cfg RollupConfig,
	today time.Time,
) WonRollup {
	matchers := []InvoiceMatcher{IDMatcher{}}
	if cfg.EnableTitleFallback {
		matchers = append(matchers, TitleMatcher{})
	}

	rollup := WonRollup{Items: make([]WonItem, 0, len(won))}
	for _, opp := range won {
		if opp == nil || !opp.IsWon() {
			continue
		}

		var matched []*invoice.Invoice
		matchedBy := ""
		for _, m := range matchers {
			matched = m.Match(opp, invoices)
			if len(matched) > 0 {
				matchedBy = m.Name()
				break
			}
		}

		status, detail := classifyWon(opp, matched, today)
		rollup.Items = append(rollup.Items, WonItem{
			OpportunityID:       opp.ID.String(),
			Title:               opp.Title,
			Company:             opp.Company,
			Value:               opp.Value,
			Status:              status,
			Detail:              detail,
			Priority:            status.Priority(),
			MatchedBy:           matchedBy,
			ExpectedInvoiceDate: opp.ExpectedInvoiceDate,
			ExpectedPaymentDate: opp.ExpectedPaymentDate,
		})

		switch status {
		case WonUrgentOverdue:
			rollup.UrgentCount++
		case WonToInvoice:
			rollup.ToInvoiceCount++
		case WonInvoiced:
			rollup.InvoicedCount++
		case WonCollected:
			rollup.CollectedCount++
		}
	}

	sort.SliceStable(rollup.Items, func(a, b int) bool {
		return rollup.Items[a].Priority < rollup.Items[b].Priority
	})

	return rollup
}

// classifyWon decides the triage class for one won deal.
func classifyWon(opp *opportunity.Opportunity, matched []*invoice.Invoice, today time.Time) (WonStatus, WonDetail) {
	anyPaid := false
	anyIssued := false
	anyOverdue := false
	for _, inv := range matched {
		if inv.IsPaid() {
			anyPaid = true
		}
		if inv.IsIssued() {
			anyIssued = true
		}
		if inv.IsOverdue(today) {
			anyOverdue = true
		}
	}

	switch {
	case anyPaid:
		return WonCollected, ""
	case anyIssued && anyOverdue:
		return WonUrgentOverdue, DetailInvoiceOverdue
	case anyIssued:
		return WonInvoiced, ""
	case forecastInvoicePassed(opp, today):
		return WonUrgentOverdue, DetailNotInvoiced
	default:
		return WonToInvoice, ""
	}
}

// forecastInvoicePassed reports whether the forecast invoice date has gone
// by with no invoice, at day granularity.
func forecastInvoicePassed(opp *opportunity.Opportunity, today time.Time) bool {
	if opp.ExpectedInvoiceDate == nil {
		return false
	}
	d := *opp.ExpectedInvoiceDate
	dy, dm, dd := d.UTC().Date()
	ty, tm, td := today.UTC().Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC).
		Before(time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC))
}
