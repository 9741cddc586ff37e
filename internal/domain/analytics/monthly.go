package analytics

import (
	"strconv"
	"time"

	"fatturo/internal/core/types"
	"fatturo/internal/domain/invoice"
	"fatturo/internal/domain/opportunity"
	"fatturo/internal/domain/target"
)

// BuildMonthlyCumulative produces the 12-bucket time series for one year:
// committed pipeline (ordinato), forecast and real invoicing/collection,
// monthly targets, running cumulative sums, YTD summary, linear end-of-year
// projections and gap metrics.
//
// targets may contain fewer than 12 rows; missing months count as zero.
// now decides which months are past/current/future and how many months have
// elapsed for the projection.
func BuildMonthlyCumulative(
	opportunities []*opportunity.Opportunity,
	invoices []*invoice.Invoice,
	targets []*target.MonthlyTarget,
	year int,
	now time.Time,
) MonthlyCumulativeReport {
	targetByMonth := make(map[int]types.Money, len(targets))
	for _, t := range targets {
		if t == nil || t.Year != year {
			continue
		}
		targetByMonth[t.Month] = t.Target
	}

	rows := make([]MonthlyCumulativeRow, 12)
	for month := 0; month < 12; month++ {
		rows[month] = MonthlyCumulativeRow{
			Month:            month,
			Target:           targetByMonth[month],
			Ordinato:         types.Zero(),
			IpotesiFatturato: types.Zero(),
			IpotesiIncassato: types.Zero(),
			FatturatoReale:   types.Zero(),
			IncassatoReale:   types.Zero(),
		}
		if _, ok := targetByMonth[month]; !ok {
			rows[month].Target = types.Zero()
		}
	}

	// Won opportunities: close date drives ordinato, forecast dates drive
	// the two ipotesi series. Partially populated records are skipped per
	// missing field, never an error.
	for _, opp := range opportunities {
		if opp == nil || !opp.IsWon() {
			continue
		}
		if m, ok := monthIn(opp.CloseDate, year); ok {
			rows[m].Ordinato = rows[m].Ordinato.Add(opp.Value)
		}
		if m, ok := monthIn(opp.ExpectedInvoiceDate, year); ok {
			rows[m].IpotesiFatturato = rows[m].IpotesiFatturato.Add(opp.Value)
		}
		if m, ok := monthIn(opp.ExpectedPaymentDate, year); ok {
			rows[m].IpotesiIncassato = rows[m].IpotesiIncassato.Add(opp.Value)
		}
	}

	for _, inv := range invoices {
		if inv == nil {
			continue
		}
		if inv.IsIssued() {
			if m, ok := monthIn(inv.IssueDate, year); ok {
				rows[m].FatturatoReale = rows[m].FatturatoReale.Add(inv.Amount)
			}
		}
		if inv.IsPaid() {
			if m, ok := monthIn(inv.PaidDate, year); ok {
				rows[m].IncassatoReale = rows[m].IncassatoReale.Add(inv.Amount)
			}
		}
	}

	// Month flags are only meaningful for the current year; a past year is
	// all past, a future year all future.
	currentYear := now.Year()
	currentMonth := int(now.Month()) - 1
	for month := range rows {
		switch {
		case year < currentYear:
			rows[month].IsPast = true
		case year > currentYear:
			rows[month].IsFuture = true
		case month < currentMonth:
			rows[month].IsPast = true
		case month == currentMonth:
			rows[month].IsCurrent = true
		default:
			rows[month].IsFuture = true
		}
	}

	// Left-to-right cumulative scan over all six series.
	cumTarget := types.Zero()
	cumOrdinato := types.Zero()
	cumIpoFatt := types.Zero()
	cumIpoInc := types.Zero()
	cumFatt := types.Zero()
	cumInc := types.Zero()
	for month := range rows {
		cumTarget = cumTarget.Add(rows[month].Target)
		cumOrdinato = cumOrdinato.Add(rows[month].Ordinato)
		cumIpoFatt = cumIpoFatt.Add(rows[month].IpotesiFatturato)
		cumIpoInc = cumIpoInc.Add(rows[month].IpotesiIncassato)
		cumFatt = cumFatt.Add(rows[month].FatturatoReale)
		cumInc = cumInc.Add(rows[month].IncassatoReale)

		rows[month].CumTarget = cumTarget
		rows[month].CumOrdinato = cumOrdinato
		rows[month].CumIpotesiFatturato = cumIpoFatt
		rows[month].CumIpotesiIncassato = cumIpoInc
		rows[month].CumFatturatoReale = cumFatt
		rows[month].CumIncassatoReale = cumInc
	}

	// YTD is read at the current month for the current year, else at the
	// full-year index.
	refMonth := 11
	monthsElapsed := 12
	if year == currentYear {
		refMonth = currentMonth
		monthsElapsed = currentMonth + 1
	}

	ref := rows[refMonth]
	report := MonthlyCumulativeReport{
		Year:              strconv.Itoa(year),
		Rows:              rows,
		MonthsElapsed:     monthsElapsed,
		YTDTarget:         ref.CumTarget,
		YTDOrdinato:       ref.CumOrdinato,
		YTDFatturatoReale: ref.CumFatturatoReale,
		YTDIncassatoReale: ref.CumIncassatoReale,

		ProjectedOrdinato:  projectLinear(ref.CumOrdinato, monthsElapsed),
		ProjectedFatturato: projectLinear(ref.CumFatturatoReale, monthsElapsed),
		ProjectedIncassato: projectLinear(ref.CumIncassatoReale, monthsElapsed),

		GapOrdinatoFatturato:  ref.CumOrdinato.Sub(ref.CumFatturatoReale),
		GapFatturatoIncassato: ref.CumFatturatoReale.Sub(ref.CumIncassatoReale),
		GapOrdinatoTarget:     ref.CumOrdinato.Sub(ref.CumTarget),
	}

	return report
}

// projectLinear extrapolates a YTD value to a full year. Zero months
// elapsed yields zero, never a division error. Multiply before dividing
// so that exact twelfths stay exact.
func projectLinear(ytd types.Money, monthsElapsed int) types.Money {
	if monthsElapsed <= 0 {
		return types.Zero()
	}
	return ytd.Mul(types.NewMoneyFromInt(12)).Div(types.NewMoneyFromInt(int64(monthsElapsed)))
}

// monthIn returns the zero-based month of d when d falls in year.
func monthIn(d *time.Time, year int) (int, bool) {
	if d == nil || d.Year() != year {
		return 0, false
	}
	return int(d.Month()) - 1, true
}
