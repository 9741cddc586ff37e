package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatturo/internal/core/types"
	"fatturo/internal/domain/invoice"
	"fatturo/internal/domain/opportunity"
	"fatturo/internal/domain/target"
)

func wonOpportunity(value int64, closeDate, invoiceDate, paymentDate *time.Time) *opportunity.Opportunity {
	opp := opportunity.New("Progetto", "Cliente", "Mario", types.NewMoneyFromInt(value), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	opp.Stage = opportunity.StageWon
	opp.Probability = 100
	opp.CloseDate = closeDate
	opp.ExpectedInvoiceDate = invoiceDate
	opp.ExpectedPaymentDate = paymentDate
	return opp
}

func TestBuildMonthlyCumulative_Series(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) // June

	opps := []*opportunity.Opportunity{
		// Won in February, forecast invoice March, forecast payment April.
		wonOpportunity(10000, datePtr(2025, 2, 10), datePtr(2025, 3, 10), datePtr(2025, 4, 10)),
		// Open deal: contributes nothing.
		opportunity.New("Aperto", "X", "Mario", types.NewMoneyFromInt(99999), now),
	}

	invoices := []*invoice.Invoice{
		makeInvoice(6000, invoice.StatusPagata, datePtr(2025, 3, 12), nil, datePtr(2025, 4, 20)),
		makeInvoice(4000, invoice.StatusEmessa, datePtr(2025, 5, 2), nil, nil),
	}

	targets := []*target.MonthlyTarget{
		target.New(2025, 0, types.NewMoneyFromInt(5000)),
		target.New(2025, 1, types.NewMoneyFromInt(5000)),
	}

	report := BuildMonthlyCumulative(opps, invoices, targets, 2025, now)
	require.Len(t, report.Rows, 12)

	// February: the won deal lands in ordinato.
	assert.True(t, report.Rows[1].Ordinato.Equal(types.NewMoneyFromInt(10000)))
	// March: forecast invoicing plus the real invoice issued that month.
	assert.True(t, report.Rows[2].IpotesiFatturato.Equal(types.NewMoneyFromInt(10000)))
	assert.True(t, report.Rows[2].FatturatoReale.Equal(types.NewMoneyFromInt(6000)))
	// April: forecast collection and the real payment.
	assert.True(t, report.Rows[3].IpotesiIncassato.Equal(types.NewMoneyFromInt(10000)))
	assert.True(t, report.Rows[3].IncassatoReale.Equal(types.NewMoneyFromInt(6000)))
	// Missing target months default to zero.
	assert.True(t, report.Rows[5].Target.IsZero())
}

func TestBuildMonthlyCumulative_CumulativeMonotone(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	invoices := []*invoice.Invoice{
		makeInvoice(1000, invoice.StatusEmessa, datePtr(2025, 1, 10), nil, nil),
		makeInvoice(2000, invoice.StatusEmessa, datePtr(2025, 4, 10), nil, nil),
		makeInvoice(3000, invoice.StatusEmessa, datePtr(2025, 9, 10), nil, nil),
	}

	report := BuildMonthlyCumulative(nil, invoices, nil, 2025, now)

	for m := 1; m < 12; m++ {
		prev := report.Rows[m-1].CumFatturatoReale
		cur := report.Rows[m].CumFatturatoReale
		assert.True(t, cur.GreaterThanOrEqual(prev), "month %d", m)
	}
	assert.True(t, report.Rows[11].CumFatturatoReale.Equal(types.NewMoneyFromInt(6000)))
}

func TestBuildMonthlyCumulative_MonthFlags(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) // June = index 5

	report := BuildMonthlyCumulative(nil, nil, nil, 2025, now)
	assert.True(t, report.Rows[4].IsPast)
	assert.True(t, report.Rows[5].IsCurrent)
	assert.True(t, report.Rows[6].IsFuture)

	past := BuildMonthlyCumulative(nil, nil, nil, 2023, now)
	for _, row := range past.Rows {
		assert.True(t, row.IsPast)
	}

	future := BuildMonthlyCumulative(nil, nil, nil, 2027, now)
	for _, row := range future.Rows {
		assert.True(t, row.IsFuture)
	}
}

func TestBuildMonthlyCumulative_LinearProjection(t *testing.T) {
	// 20000 collected by end of March, three months elapsed:
	// projected year-end collection is 20000/3*12 = 80000.
	now := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	invoices := []*invoice.Invoice{
		makeInvoice(20000, invoice.StatusPagata, datePtr(2025, 2, 1), nil, datePtr(2025, 3, 1)),
	}

	report := BuildMonthlyCumulative(nil, invoices, nil, 2025, now)

	assert.Equal(t, 3, report.MonthsElapsed)
	assert.True(t, report.YTDIncassatoReale.Equal(types.NewMoneyFromInt(20000)))
	assert.True(t, report.ProjectedIncassato.Equal(types.NewMoneyFromInt(80000)),
		"got %s", report.ProjectedIncassato)
}

func TestBuildMonthlyCumulative_PastYearUsesFullYear(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	invoices := []*invoice.Invoice{
		makeInvoice(12000, invoice.StatusPagata, datePtr(2024, 10, 1), nil, datePtr(2024, 11, 1)),
	}

	report := BuildMonthlyCumulative(nil, invoices, nil, 2024, now)

	assert.Equal(t, 12, report.MonthsElapsed)
	assert.True(t, report.YTDIncassatoReale.Equal(types.NewMoneyFromInt(12000)))
	// A closed year projects to itself.
	assert.True(t, report.ProjectedIncassato.Equal(types.NewMoneyFromInt(12000)))
}

func TestBuildMonthlyCumulative_GapMetrics(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	opps := []*opportunity.Opportunity{
		wonOpportunity(10000, datePtr(2025, 2, 10), datePtr(2025, 3, 10), datePtr(2025, 4, 10)),
	}
	invoices := []*invoice.Invoice{
		makeInvoice(6000, invoice.StatusPagata, datePtr(2025, 3, 12), nil, datePtr(2025, 4, 20)),
	}
	targets := []*target.MonthlyTarget{
		target.New(2025, 0, types.NewMoneyFromInt(2000)),
	}

	report := BuildMonthlyCumulative(opps, invoices, targets, 2025, now)

	// Sold 10000, invoiced 6000: 4000 still to invoice.
	assert.True(t, report.GapOrdinatoFatturato.Equal(types.NewMoneyFromInt(4000)))
	// Invoiced 6000, collected 6000: nothing outstanding.
	assert.True(t, report.GapFatturatoIncassato.IsZero())
	// Sold 10000 against a 2000 plan: 8000 ahead.
	assert.True(t, report.GapOrdinatoTarget.Equal(types.NewMoneyFromInt(8000)))
}

func TestBuildMonthlyCumulative_SkipsRecordsOutsideYear(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	opps := []*opportunity.Opportunity{
		// Won in 2024 but forecast to invoice in 2025: only the ipotesi
		// series sees it this year.
		wonOpportunity(5000, datePtr(2024, 12, 20), datePtr(2025, 1, 15), datePtr(2025, 2, 15)),
	}

	report := BuildMonthlyCumulative(opps, nil, nil, 2025, now)

	assert.True(t, report.YTDOrdinato.IsZero())
	assert.True(t, report.Rows[0].IpotesiFatturato.Equal(types.NewMoneyFromInt(5000)))
	assert.True(t, report.Rows[1].IpotesiIncassato.Equal(types.NewMoneyFromInt(5000)))
}
