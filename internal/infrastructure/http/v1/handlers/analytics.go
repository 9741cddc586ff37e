package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fatturo/internal/domain/analytics"
	"fatturo/internal/infrastructure/http/v1/dto"
)

// AnalyticsHandler serves the revenue reports.
type AnalyticsHandler struct {
	*BaseHandler
	service *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Revenue returns the headline revenue figures for one year (or all years).
// GET /api/v1/analytics/revenue?year=2025
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	var req dto.AnalyticsYearRequest
	if !h.BindQuery(c, &req) {
		return
	}

	stats, err := h.service.RevenueStats(c.Request.Context(), req.Year)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, stats)
}

// Forfettario returns the regulatory threshold report for one year.
// An omitted year means the current one.
// GET /api/v1/analytics/forfettario?year=2025
func (h *AnalyticsHandler) Forfettario(c *gin.Context) {
	var req dto.AnalyticsYearRequest
	if !h.BindQuery(c, &req) {
		return
	}

	stats, err := h.service.ForfettarioStats(c.Request.Context(), yearOrCurrent(req.Year))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, stats)
}

// MonthlyCumulative returns the twelve-row projection table for one year.
// An omitted year means the current one.
// GET /api/v1/analytics/monthly?year=2025
func (h *AnalyticsHandler) MonthlyCumulative(c *gin.Context) {
	var req dto.AnalyticsYearRequest
	if !h.BindQuery(c, &req) {
		return
	}

	report, err := h.service.MonthlyCumulative(c.Request.Context(), yearOrCurrent(req.Year))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// yearOrCurrent substitutes the current year for an omitted year parameter.
func yearOrCurrent(year int) int {
	if year == analytics.AllYears {
		return time.Now().UTC().Year()
	}
	return year
}

// WonRollup returns the delivery status rollup of closed-won deals.
// GET /api/v1/analytics/won
func (h *AnalyticsHandler) WonRollup(c *gin.Context) {
	rollup, err := h.service.WonRollup(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rollup)
}
