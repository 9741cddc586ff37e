package dto

import (
	"time"

	"fatturo/internal/core/types"
	"fatturo/internal/domain/opportunity"
)

// --- Request DTOs ---

// CreateOpportunityRequest is the request body for creating an opportunity.
type CreateOpportunityRequest struct {
	Title     string      `json:"title" binding:"required"`
	Company   string      `json:"company"`
	OwnerName string      `json:"ownerName"`
	Value     types.Money `json:"value"`
	OpenDate  *time.Time  `json:"openDate"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateOpportunityRequest) ToEntity(now time.Time) *opportunity.Opportunity {
	opp := opportunity.New(r.Title, r.Company, r.OwnerName, r.Value, now)
	if r.OpenDate != nil {
		opp.OpenDate = *r.OpenDate
	}
	return opp
}

// UpdateOpportunityRequest is the request body for updating an opportunity.
// Stage changes go through the dedicated transition endpoint; this one
// edits descriptive fields only.
type UpdateOpportunityRequest struct {
	Title     string      `json:"title" binding:"required"`
	Company   string      `json:"company"`
	OwnerName string      `json:"ownerName"`
	Value     types.Money `json:"value"`
	OpenDate  *time.Time  `json:"openDate"`
	Version   int         `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateOpportunityRequest) ApplyTo(opp *opportunity.Opportunity) {
	opp.Title = r.Title
	opp.Company = r.Company
	opp.OwnerName = r.OwnerName
	opp.Value = r.Value
	if r.OpenDate != nil {
		opp.OpenDate = *r.OpenDate
	}
	opp.Version = r.Version
}

// TransitionStageRequest moves an opportunity to a new pipeline stage.
type TransitionStageRequest struct {
	Stage               opportunity.Stage `json:"stage" binding:"required"`
	Probability         *int              `json:"probability"`
	ExpectedInvoiceDate *time.Time        `json:"expectedInvoiceDate"`
	ExpectedPaymentDate *time.Time        `json:"expectedPaymentDate"`
}

// ToTransition converts DTO to a domain transition.
func (r *TransitionStageRequest) ToTransition() opportunity.StageTransition {
	return opportunity.StageTransition{
		NewStage:            r.Stage,
		Probability:         r.Probability,
		ExpectedInvoiceDate: r.ExpectedInvoiceDate,
		ExpectedPaymentDate: r.ExpectedPaymentDate,
	}
}

// ListOpportunitiesRequest contains list filter parameters.
type ListOpportunitiesRequest struct {
	PaginationRequest
	Stage   *opportunity.Stage `form:"stage"`
	OnlyWon bool               `form:"onlyWon"`
	Search  string             `form:"search"`
}

// ToFilter converts DTO to a repository filter.
func (r *ListOpportunitiesRequest) ToFilter() opportunity.ListFilter {
	return opportunity.ListFilter{
		Stage:   r.Stage,
		OnlyWon: r.OnlyWon,
		Search:  r.Search,
		Limit:   r.Limit,
		Offset:  r.Offset,
	}
}

// --- Response DTOs ---

// OpportunityResponse is the response body for an opportunity.
type OpportunityResponse struct {
	ID                  string                     `json:"id"`
	Title               string                     `json:"title"`
	Company             string                     `json:"company"`
	OwnerName           string                     `json:"ownerName"`
	Value               types.Money                `json:"value"`
	Stage               opportunity.Stage          `json:"stage"`
	Probability         int                        `json:"probability"`
	OpenDate            time.Time                  `json:"openDate"`
	CloseDate           *time.Time                 `json:"closeDate,omitempty"`
	ExpectedInvoiceDate *time.Time                 `json:"expectedInvoiceDate,omitempty"`
	ExpectedPaymentDate *time.Time                 `json:"expectedPaymentDate,omitempty"`
	ProjectStatus       *opportunity.ProjectStatus `json:"projectStatus,omitempty"`
	Version             int                        `json:"version"`
	CreatedAt           time.Time                  `json:"createdAt"`
	UpdatedAt           time.Time                  `json:"updatedAt"`
}

// FromOpportunity creates response DTO from domain entity.
func FromOpportunity(opp *opportunity.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:                  opp.ID.String(),
		Title:               opp.Title,
		Company:             opp.Company,
		OwnerName:           opp.OwnerName,
		Value:               opp.Value,
		Stage:               opp.Stage,
		Probability:         opp.Probability,
		OpenDate:            opp.OpenDate,
		CloseDate:           opp.CloseDate,
		ExpectedInvoiceDate: opp.ExpectedInvoiceDate,
		ExpectedPaymentDate: opp.ExpectedPaymentDate,
		ProjectStatus:       opp.ProjectStatus,
		Version:             opp.Version,
		CreatedAt:           opp.CreatedAt,
		UpdatedAt:           opp.UpdatedAt,
	}
}

// FromOpportunities maps a slice of entities to response DTOs.
func FromOpportunities(opps []*opportunity.Opportunity) []OpportunityResponse {
	out := make([]OpportunityResponse, 0, len(opps))
	for _, opp := range opps {
		out = append(out, FromOpportunity(opp))
	}
	return out
}
