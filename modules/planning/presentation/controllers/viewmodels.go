package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/goal"
	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/kpi"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/businessunit"
)

type unitResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toUnitResponse(unit *businessunit.BusinessUnit) unitResponse {
	return unitResponse{
		ID:          unit.ID,
		Name:        unit.Name,
		Description: unit.Description,
		CreatedAt:   unit.CreatedAt,
		UpdatedAt:   unit.UpdatedAt,
	}
}

type goalResponse struct {
	ID             uuid.UUID  `json:"id"`
	BusinessUnitID uuid.UUID  `json:"businessUnitId"`
	StakeholderID  *uuid.UUID `json:"stakeholderId,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	ProgressNotes  string     `json:"progressNotes"`
	Year           int        `json:"year"`
	Quarter        int        `json:"quarter"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func toGoalResponse(g *goal.Goal) goalResponse {
	return goalResponse{
		ID:             g.ID(),
		BusinessUnitID: g.BusinessUnitID(),
		StakeholderID:  g.StakeholderID(),
		Title:          g.Title(),
		Description:    g.Description(),
		ProgressNotes:  g.ProgressNotes(),
		Year:           g.Year(),
		Quarter:        g.Quarter(),
		CreatedAt:      g.CreatedAt(),
		UpdatedAt:      g.UpdatedAt(),
	}
}

type kpiResponse struct {
	ID               uuid.UUID   `json:"id"`
	OrganizationID   uuid.UUID   `json:"organizationId"`
	TeamID           *uuid.UUID  `json:"teamId,omitempty"`
	Initiative       string      `json:"initiative,omitempty"`
	BusinessUnitIDs  []uuid.UUID `json:"businessUnitIds"`
	Name             string      `json:"name"`
	Target           *float64    `json:"target"`
	ActualMetric     float64     `json:"actualMetric"`
	MetTarget        *bool       `json:"metTarget"`
	MetTargetPercent *float64    `json:"metTargetPercent"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

func toKpiResponse(k *kpi.Kpi) kpiResponse {
	return kpiResponse{
		ID:               k.ID(),
		OrganizationID:   k.OrganizationID(),
		TeamID:           k.TeamID(),
		Initiative:       k.Initiative(),
		BusinessUnitIDs:  k.BusinessUnitIDs(),
		Name:             k.Name(),
		Target:           k.Target(),
		ActualMetric:     k.ActualMetric(),
		MetTarget:        k.MetTarget(),
		MetTargetPercent: k.MetTargetPercent(),
		CreatedAt:        k.CreatedAt(),
		UpdatedAt:        k.UpdatedAt(),
	}
}
