package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fatturo/internal/core/apperror"
	"fatturo/internal/domain/target"
	"fatturo/internal/infrastructure/http/v1/dto"
)

// TargetHandler handles monthly revenue target endpoints.
type TargetHandler struct {
	*BaseHandler
	service *target.Service
}

// NewTargetHandler creates a new target handler.
func NewTargetHandler(service *target.Service) *TargetHandler {
	return &TargetHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Set upserts the target for one (year, month) slot.
// PUT /api/v1/targets
func (h *TargetHandler) Set(c *gin.Context) {
	var req dto.SetTargetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Set(c.Request.Context(), req.ToEntity()); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "target saved")
}

// SetYear replaces the given months of one year in a single transaction.
// PUT /api/v1/targets/year
func (h *TargetHandler) SetYear(c *gin.Context) {
	var req dto.SetYearTargetsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetYear(c.Request.Context(), req.Year, req.Amounts); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "targets saved")
}

// GetYear returns all twelve months of one year, zeros included.
// GET /api/v1/targets/:year
func (h *TargetHandler) GetYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid year").WithDetail("year", c.Param("year")))
		return
	}

	targets, err := h.service.GetYear(c.Request.Context(), year)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromTargets(year, targets))
}
