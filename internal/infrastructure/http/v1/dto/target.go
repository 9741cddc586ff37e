package dto

import (
	"fatturo/internal/core/types"
	"fatturo/internal/domain/target"
)

// --- Request DTOs ---

// SetTargetRequest sets the target for one (year, month) slot.
type SetTargetRequest struct {
	Year   int         `json:"year" binding:"required,min=2000,max=2100"`
	Month  int         `json:"month" binding:"min=0,max=11"`
	Target types.Money `json:"target"`
}

// ToEntity converts DTO to domain entity.
func (r *SetTargetRequest) ToEntity() *target.MonthlyTarget {
	return target.New(r.Year, r.Month, r.Target)
}

// SetYearTargetsRequest replaces the targets for a whole year.
// Months are keyed 0-11; omitted months are left untouched.
type SetYearTargetsRequest struct {
	Year    int                 `json:"year" binding:"required,min=2000,max=2100"`
	Amounts map[int]types.Money `json:"amounts" binding:"required"`
}

// --- Response DTOs ---

// TargetResponse is the response body for one monthly target.
type TargetResponse struct {
	Year   int         `json:"year"`
	Month  int         `json:"month"`
	Target types.Money `json:"target"`
}

// YearTargetsResponse carries all twelve months of one year.
type YearTargetsResponse struct {
	Year    int              `json:"year"`
	Months  []TargetResponse `json:"months"`
	Annual  types.Money      `json:"annual"`
}

// FromTargets creates a year response from the service's 12-slice.
func FromTargets(year int, targets []*target.MonthlyTarget) YearTargetsResponse {
	months := make([]TargetResponse, 0, len(targets))
	annual := types.Zero()
	for _, t := range targets {
		months = append(months, TargetResponse{
			Year:   t.Year,
			Month:  t.Month,
			Target: t.Target,
		})
		annual = annual.Add(t.Target)
	}
	return YearTargetsResponse{
		Year:   year,
		Months: months,
		Annual: annual,
	}
}
