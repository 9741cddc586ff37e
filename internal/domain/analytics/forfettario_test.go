package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fatturo/internal/core/types"
	"fatturo/internal/domain/invoice"
)

func paidInvoice(amount int64, paid time.Time) *invoice.Invoice {
	issue := paid.AddDate(0, 0, -10)
	return makeInvoice(amount, invoice.StatusPagata, &issue, nil, &paid)
}

func TestForfettarioStatsFor_StatusLevels(t *testing.T) {
	limit := types.NewMoneyFromInt(85000)
	year := 2025
	pay := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		collected int64
		want      ForfettarioStatus
	}{
		{"well below", 50000, ForfettarioOK},
		{"at warning", 63750, ForfettarioWarning}, // exactly 75%
		{"at danger", 76500, ForfettarioDanger},   // exactly 90%
		{"at the cap", 85000, ForfettarioOver},
		{"over the cap", 90000, ForfettarioOver},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			invoices := []*invoice.Invoice{paidInvoice(tc.collected, pay)}
			stats := ForfettarioStatsFor(invoices, year, limit, DefaultThresholds())
			assert.Equal(t, tc.want, stats.Status)
		})
	}
}

func TestForfettarioStatsFor_RemainingNeverNegative(t *testing.T) {
	limit := types.NewMoneyFromInt(85000)
	pay := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	invoices := []*invoice.Invoice{paidInvoice(90000, pay)}

	stats := ForfettarioStatsFor(invoices, 2025, limit, DefaultThresholds())

	assert.Equal(t, ForfettarioOver, stats.Status)
	assert.True(t, stats.Remaining.IsZero())
	assert.InDelta(t, 90000.0/85000.0, stats.Progress, 1e-9)
	assert.Greater(t, stats.ProgressPercent, 100.0)
}

func TestForfettarioStatsFor_OnlyPaidInvoicesCount(t *testing.T) {
	limit := types.NewMoneyFromInt(85000)
	invoices := []*invoice.Invoice{
		paidInvoice(10000, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		// Issued but unpaid: irrelevant to the cap.
		makeInvoice(80000, invoice.StatusEmessa, datePtr(2025, 4, 1), nil, nil),
		// Paid in a different year.
		paidInvoice(80000, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	stats := ForfettarioStatsFor(invoices, 2025, limit, DefaultThresholds())
	assert.True(t, stats.Incassato.Equal(types.NewMoneyFromInt(10000)))
	assert.Equal(t, ForfettarioOK, stats.Status)
}

func TestForfettarioStatsFor_ZeroLimit(t *testing.T) {
	invoices := []*invoice.Invoice{paidInvoice(10000, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))}

	stats := ForfettarioStatsFor(invoices, 2025, types.Zero(), DefaultThresholds())
	assert.Equal(t, 0.0, stats.Progress)
}
