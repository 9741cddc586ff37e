package dto

// Analytics responses are served directly from the domain report types
// (analytics.RevenueStats, analytics.ForfettarioStats,
// analytics.MonthlyCumulativeReport, analytics.WonRollup). They are
// read-only aggregates with stable JSON tags, so an extra mapping layer
// would add nothing.

// AnalyticsYearRequest selects the reporting year.
// Year 0 means all years where the report supports it.
type AnalyticsYearRequest struct {
	Year int `form:"year" binding:"omitempty,min=0,max=2100"`
}
