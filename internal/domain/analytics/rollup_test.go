package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatturo/internal/core/types"
	"fatturo/internal/domain/invoice"
	"fatturo/internal/domain/opportunity"
)

var rollupToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func linkedInvoice(opp *opportunity.Opportunity, amount int64, status invoice.Status, issue, due, paid *time.Time) *invoice.Invoice {
	inv := invoice.New("FT-"+opp.Title, types.NewMoneyFromInt(amount), &opp.ID)
	inv.Status = status
	inv.IssueDate = issue
	inv.DueDate = due
	inv.PaidDate = paid
	return inv
}

func TestBuildWonRollup_Collected(t *testing.T) {
	opp := wonOpportunity(10000, datePtr(2025, 2, 1), datePtr(2025, 3, 1), datePtr(2025, 4, 1))
	invoices := []*invoice.Invoice{
		linkedInvoice(opp, 10000, invoice.StatusPagata, datePtr(2025, 3, 1), nil, datePtr(2025, 4, 1)),
	}

	rollup := BuildWonRollup([]*opportunity.Opportunity{opp}, invoices, RollupConfig{}, rollupToday)

	require.Len(t, rollup.Items, 1)
	assert.Equal(t, WonCollected, rollup.Items[0].Status)
	assert.Equal(t, "id", rollup.Items[0].MatchedBy)
	assert.Equal(t, 1, rollup.CollectedCount)
}

func TestBuildWonRollup_AnyPaidWins(t *testing.T) {
	// One paid acconto beats an overdue saldo: the deal counts as
	// collected, not urgent.
	opp := wonOpportunity(10000, datePtr(2025, 2, 1), datePtr(2025, 3, 1), datePtr(2025, 4, 1))
	invoices := []*invoice.Invoice{
		linkedInvoice(opp, 5000, invoice.StatusPagata, datePtr(2025, 3, 1), nil, datePtr(2025, 4, 1)),
		linkedInvoice(opp, 5000, invoice.StatusEmessa, datePtr(2025, 3, 1), datePtr(2025, 4, 1), nil),
	}

	rollup := BuildWonRollup([]*opportunity.Opportunity{opp}, invoices, RollupConfig{}, rollupToday)
	require.Len(t, rollup.Items, 1)
	assert.Equal(t, WonCollected, rollup.Items[0].Status)
}

func TestBuildWonRollup_InvoiceOverdue(t *testing.T) {
	opp := wonOpportunity(10000, datePtr(2025, 2, 1), datePtr(2025, 3, 1), datePtr(2025, 4, 1))
	invoices := []*invoice.Invoice{
		linkedInvoice(opp, 10000, invoice.StatusEmessa, datePtr(2025, 3, 1), datePtr(2025, 4, 1), nil),
	}

	rollup := BuildWonRollup([]*opportunity.Opportunity{opp}, invoices, RollupConfig{}, rollupToday)

	require.Len(t, rollup.Items, 1)
	assert.Equal(t, WonUrgentOverdue, rollup.Items[0].Status)
	assert.Equal(t, DetailInvoiceOverdue, rollup.Items[0].Detail)
	assert.Equal(t, 1, rollup.UrgentCount)
}

func TestBuildWonRollup_Invoiced(t *testing.T) {
	opp := wonOpportunity(10000, datePtr(2025, 2, 1), datePtr(2025, 3, 1), datePtr(2025, 4, 1))
	invoices := []*invoice.Invoice{
		linkedInvoice(opp, 10000, invoice.StatusEmessa, datePtr(2025, 6, 1), datePtr(2025, 7, 1), nil),
	}

	rollup := BuildWonRollup([]*opportunity.Opportunity{opp}, invoices, RollupConfig{}, rollupToday)
	require.Len(t, rollup.Items, 1)
	assert.Equal(t, WonInvoiced, rollup.Items[0].Status)
}

func TestBuildWonRollup_NotInvoicedPastForecast(t *testing.T) {
	// Forecast invoice date has gone by, no invoice exists: urgent.
	opp := wonOpportunity(10000, datePtr(2025, 2, 1), datePtr(2025, 5, 1), datePtr(2025, 6, 1))

	rollup := BuildWonRollup([]*opportunity.Opportunity{opp}, nil, RollupConfig{}, rollupToday)

	require.Len(t, rollup.Items, 1)
	assert.Equal(t, WonUrgentOverdue, rollup.Items[0].Status)
	assert.Equal(t, DetailNotInvoiced, rollup.Items[0].Detail)
}

func TestBuildWonRollup_ToInvoice(t *testing.T) {
	// Forecast invoice date still ahead, nothing issued yet.
	opp := wonOpportunity(10000, datePtr(2025, 6, 1), datePtr(2025, 7, 1), datePtr(2025, 8, 1))

	rollup := BuildWonRollup([]*opportunity.Opportunity{opp}, nil, RollupConfig{}, rollupToday)

	require.Len(t, rollup.Items, 1)
	assert.Equal(t, WonToInvoice, rollup.Items[0].Status)
	assert.Equal(t, 1, rollup.ToInvoiceCount)
	assert.Empty(t, rollup.Items[0].MatchedBy)
}

func TestBuildWonRollup_TitleFallback(t *testing.T) {
	opp := wonOpportunity(10000, datePtr(2025, 2, 1), datePtr(2025, 3, 1), datePtr(2025, 4, 1))
	opp.Title = "Sito web"
	opp.Company = "Rossi SRL"

	// Legacy invoice without an opportunity link but with the deal title
	// and company in its free-text number.
	legacy := invoice.New("FT-042 sito web rossi srl acconto", types.NewMoneyFromInt(5000), nil)
	legacy.Status = invoice.StatusPagata
	legacy.IssueDate = datePtr(2025, 3, 1)
	legacy.PaidDate = datePtr(2025, 4, 1)

	withFallback := BuildWonRollup(
		[]*opportunity.Opportunity{opp},
		[]*invoice.Invoice{legacy},
		RollupConfig{EnableTitleFallback: true},
		rollupToday,
	)
	require.Len(t, withFallback.Items, 1)
	assert.Equal(t, WonCollected, withFallback.Items[0].Status)
	assert.Equal(t, "title", withFallback.Items[0].MatchedBy)

	// With the fallback disabled the same deal shows as urgent: its
	// forecast invoice date has passed and no linked invoice exists.
	withoutFallback := BuildWonRollup(
		[]*opportunity.Opportunity{opp},
		[]*invoice.Invoice{legacy},
		RollupConfig{},
		rollupToday,
	)
	require.Len(t, withoutFallback.Items, 1)
	assert.Equal(t, WonUrgentOverdue, withoutFallback.Items[0].Status)
}

func TestBuildWonRollup_TitleFallbackIgnoresLinkedInvoices(t *testing.T) {
	oppA := wonOpportunity(10000, datePtr(2025, 2, 1), datePtr(2025, 7, 1), datePtr(2025, 8, 1))
	oppA.Title = "Sito web"
	oppA.Company = "Rossi"

	oppB := wonOpportunity(5000, datePtr(2025, 2, 1), datePtr(2025, 7, 1), datePtr(2025, 8, 1))

	// Invoice linked to B happens to mention A's title; the link wins.
	inv := linkedInvoice(oppB, 5000, invoice.StatusPagata, datePtr(2025, 3, 1), nil, datePtr(2025, 4, 1))
	inv.InvoiceNumber = "FT-001 sito web rossi"

	rollup := BuildWonRollup(
		[]*opportunity.Opportunity{oppA, oppB},
		[]*invoice.Invoice{inv},
		RollupConfig{EnableTitleFallback: true},
		rollupToday,
	)

	require.Len(t, rollup.Items, 2)
	byTitle := map[string]WonItem{}
	for _, item := range rollup.Items {
		byTitle[item.Title] = item
	}
	assert.Equal(t, WonToInvoice, byTitle["Sito web"].Status)
	assert.Equal(t, WonCollected, byTitle["Progetto"].Status)
}

func TestBuildWonRollup_UrgentSortsFirst(t *testing.T) {
	collected := wonOpportunity(1000, datePtr(2025, 1, 1), datePtr(2025, 2, 1), datePtr(2025, 3, 1))
	collected.Title = "Incassato"
	urgent := wonOpportunity(2000, datePtr(2025, 1, 1), datePtr(2025, 5, 1), datePtr(2025, 6, 1))
	urgent.Title = "Urgente"

	invoices := []*invoice.Invoice{
		linkedInvoice(collected, 1000, invoice.StatusPagata, datePtr(2025, 2, 1), nil, datePtr(2025, 3, 1)),
	}

	rollup := BuildWonRollup(
		[]*opportunity.Opportunity{collected, urgent},
		invoices,
		RollupConfig{},
		rollupToday,
	)

	require.Len(t, rollup.Items, 2)
	assert.Equal(t, "Urgente", rollup.Items[0].Title)
	assert.Equal(t, "Incassato", rollup.Items[1].Title)
}
