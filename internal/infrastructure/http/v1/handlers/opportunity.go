package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"fatturo/internal/domain/opportunity"
	"fatturo/internal/infrastructure/http/v1/dto"
)

// OpportunityHandler handles opportunity endpoints.
type OpportunityHandler struct {
	*BaseHandler
	service *opportunity.Service
}

// NewOpportunityHandler creates a new opportunity handler.
func NewOpportunityHandler(service *opportunity.Service) *OpportunityHandler {
	return &OpportunityHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Create handles opportunity creation.
// POST /api/v1/opportunities
func (h *OpportunityHandler) Create(c *gin.Context) {
	var req dto.CreateOpportunityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	opp := req.ToEntity(time.Now().UTC())
	if err := h.service.Create(c.Request.Context(), opp); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, opp.ID.String())
}

// Get returns one opportunity by ID.
// GET /api/v1/opportunities/:id
func (h *OpportunityHandler) Get(c *gin.Context) {
	oppID, ok := h.ParseID(c)
	if !ok {
		return
	}

	opp, err := h.service.GetByID(c.Request.Context(), oppID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOpportunity(opp))
}

// List returns a filtered page of opportunities.
// GET /api/v1/opportunities
func (h *OpportunityHandler) List(c *gin.Context) {
	var req dto.ListOpportunitiesRequest
	if !h.BindQuery(c, &req) {
		return
	}
	req.Defaults()

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromOpportunities(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Update handles opportunity edits (descriptive fields only).
// PUT /api/v1/opportunities/:id
func (h *OpportunityHandler) Update(c *gin.Context) {
	oppID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateOpportunityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	opp, err := h.service.GetByID(c.Request.Context(), oppID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(opp)
	if err := h.service.Update(c.Request.Context(), opp); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOpportunity(opp))
}

// TransitionStage moves an opportunity through the pipeline.
// POST /api/v1/opportunities/:id/transition
func (h *OpportunityHandler) TransitionStage(c *gin.Context) {
	oppID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.TransitionStageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	opp, err := h.service.TransitionStage(c.Request.Context(), oppID, req.ToTransition())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromOpportunity(opp))
}

// Delete removes an opportunity.
// DELETE /api/v1/opportunities/:id
func (h *OpportunityHandler) Delete(c *gin.Context) {
	oppID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), oppID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
