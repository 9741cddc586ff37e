// Package analytics turns opportunity, invoice and target snapshots into
// business-health figures: revenue stats, the forfettario cap monitor, the
// monthly cumulative projection and the won-deal delivery rollup.
//
// Every computation here is a pure reduction over immutable input slices.
// "Today" is always a parameter, never read from the wall clock, so
// concurrent callers can share snapshots without locking and tests stay
// deterministic.
package analytics

import (
	"time"

	"fatturo/internal/core/types"
)

// AllYears is the sentinel year meaning "no year filter".
const AllYears = 0

// RevenueStats are the four first-class revenue figures plus overdue
// exposure for a fiscal year (or all years).
type RevenueStats struct {
	// Fatturato is invoiced revenue: issued or paid, keyed by issue date.
	Fatturato types.Money `json:"fatturato"`

	// Incassato is collected revenue, keyed by paid date. This is the
	// figure that counts against the regulatory cap.
	Incassato types.Money `json:"incassato"`

	// DaIncassare is issued but not yet collected (always "pending now").
	DaIncassare types.Money `json:"daIncassare"`

	// DaEmettere is not yet issued.
	DaEmettere types.Money `json:"daEmettere"`

	// Overdue is the issued, unpaid amount past its due date.
	Overdue types.Money `json:"overdue"`
}

// ForfettarioStatus classifies collected revenue against the cap.
type ForfettarioStatus string

const (
	ForfettarioOK      ForfettarioStatus = "ok"
	ForfettarioWarning ForfettarioStatus = "warning"
	ForfettarioDanger  ForfettarioStatus = "danger"
	ForfettarioOver    ForfettarioStatus = "over"
)

// ForfettarioStats describes the position against the statutory cap.
type ForfettarioStats struct {
	Incassato types.Money `json:"incassato"`
	Limit     types.Money `json:"limit"`

	// Remaining headroom, never negative.
	Remaining types.Money `json:"remaining"`

	// Progress is incassato/limit as a ratio; may exceed 1.0 over the cap.
	Progress float64 `json:"progress"`

	// ProgressPercent is Progress * 100 (uncapped, for display).
	ProgressPercent float64 `json:"progressPercent"`

	Status ForfettarioStatus `json:"status"`
}

// MonthlyCumulativeRow is one calendar-month bucket of the projection.
type MonthlyCumulativeRow struct {
	// Month is zero-based (0 = January).
	Month int `json:"month"`

	Target types.Money `json:"target"`

	// Ordinato is the value of deals won that month (by close date).
	Ordinato types.Money `json:"ordinato"`

	// IpotesiFatturato is won value forecast to be invoiced that month.
	IpotesiFatturato types.Money `json:"ipotesiFatturato"`

	// IpotesiIncassato is won value forecast to be collected that month.
	IpotesiIncassato types.Money `json:"ipotesiIncassato"`

	// FatturatoReale is invoiced amount by issue date.
	FatturatoReale types.Money `json:"fatturatoReale"`

	// IncassatoReale is collected amount by paid date.
	IncassatoReale types.Money `json:"incassatoReale"`

	// Running cumulative sums, month 0 through this month.
	CumTarget           types.Money `json:"cumTarget"`
	CumOrdinato         types.Money `json:"cumOrdinato"`
	CumIpotesiFatturato types.Money `json:"cumIpotesiFatturato"`
	CumIpotesiIncassato types.Money `json:"cumIpotesiIncassato"`
	CumFatturatoReale   types.Money `json:"cumFatturatoReale"`
	CumIncassatoReale   types.Money `json:"cumIncassatoReale"`

	IsPast    bool `json:"isPast"`
	IsCurrent bool `json:"isCurrent"`
	IsFuture  bool `json:"isFuture"`
}

// MonthlyCumulativeReport is the full 12-bucket series with YTD summary,
// end-of-year linear projections and gap metrics.
type MonthlyCumulativeReport struct {
	Year string                 `json:"year"`
	Rows []MonthlyCumulativeRow `json:"rows"`

	// MonthsElapsed is currentMonth+1 for the current year, 12 otherwise.
	MonthsElapsed int `json:"monthsElapsed"`

	// YTD values read off the cumulative series at the reference month.
	YTDTarget         types.Money `json:"ytdTarget"`
	YTDOrdinato       types.Money `json:"ytdOrdinato"`
	YTDFatturatoReale types.Money `json:"ytdFatturatoReale"`
	YTDIncassatoReale types.Money `json:"ytdIncassatoReale"`

	// Linear end-of-year projections: ytd / monthsElapsed * 12.
	ProjectedOrdinato  types.Money `json:"projectedOrdinato"`
	ProjectedFatturato types.Money `json:"projectedFatturato"`
	ProjectedIncassato types.Money `json:"projectedIncassato"`

	// Gap metrics, signed YTD-cumulative differences.
	GapOrdinatoFatturato  types.Money `json:"gapOrdinatoFatturato"`  // sold, not yet invoiced
	GapFatturatoIncassato types.Money `json:"gapFatturatoIncassato"` // invoiced, not yet collected
	GapOrdinatoTarget     types.Money `json:"gapOrdinatoTarget"`     // ahead/behind plan
}

// WonStatus classifies a won deal for operational triage.
type WonStatus string

const (
	// WonUrgentOverdue: either an issued invoice is past due, or the
	// forecast invoice date passed with no invoice at all.
	WonUrgentOverdue WonStatus = "urgent-overdue"
	WonToInvoice     WonStatus = "to-invoice"
	WonInvoiced      WonStatus = "invoiced"
	WonCollected     WonStatus = "collected"
)

// Priority returns the display sort order: urgent classes first.
func (s WonStatus) Priority() int {
	switch s {
	case WonUrgentOverdue:
		return 0
	case WonToInvoice:
		return 1
	case WonInvoiced:
		return 2
	case WonCollected:
		return 3
	}
	return 3
}

// WonDetail refines an urgent-overdue classification.
type WonDetail string

const (
	DetailInvoiceOverdue WonDetail = "invoice_overdue"
	DetailNotInvoiced    WonDetail = "not_invoiced"
)

// WonItem is one won opportunity with its triage classification.
type WonItem struct {
	OpportunityID string      `json:"opportunityId"`
	Title         string      `json:"title"`
	Company       string      `json:"company"`
	Value         types.Money `json:"value"`
	Status        WonStatus   `json:"status"`
	Detail        WonDetail   `json:"detail,omitempty"`
	Priority      int         `json:"priority"`

	// MatchedBy names the strategy that linked invoices to the deal
	// ("id", "title", or empty when nothing matched).
	MatchedBy string `json:"matchedBy,omitempty"`

	ExpectedInvoiceDate *time.Time `json:"expectedInvoiceDate,omitempty"`
	ExpectedPaymentDate *time.Time `json:"expectedPaymentDate,omitempty"`
}

// WonRollup groups won deals by classification, urgent first.
type WonRollup struct {
	Items []WonItem `json:"items"`

	// Totals per class.
	UrgentCount    int `json:"urgentCount"`
	ToInvoiceCount int `json:"toInvoiceCount"`
	InvoicedCount  int `json:"invoicedCount"`
	CollectedCount int `json:"collectedCount"`
}
