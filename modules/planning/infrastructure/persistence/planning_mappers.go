package persistence

import (
	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/goal"
	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/kpi"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/businessunit"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/opsreview"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/stakeholder"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/team"
	"github.com/northstarhq/northstar/modules/planning/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/mapping"
)

func toDomainBusinessUnit(m *models.BusinessUnit) *businessunit.BusinessUnit {
	return &businessunit.BusinessUnit{
		ID:          mapping.PgUUIDToUUID(m.ID),
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.Time,
		UpdatedAt:   m.UpdatedAt.Time,
	}
}

func toDomainTeam(m *models.Team) *team.Team {
	return &team.Team{
		ID:             mapping.PgUUIDToUUID(m.ID),
		OrganizationID: mapping.PgUUIDToUUID(m.OrganizationID),
		Name:           m.Name,
		BusinessUnitID: mapping.PgUUIDToPointer(m.BusinessUnitID),
		CreatedAt:      m.CreatedAt.Time,
		UpdatedAt:      m.UpdatedAt.Time,
	}
}

func toDomainStakeholder(m *models.Stakeholder) *stakeholder.Stakeholder {
	return &stakeholder.Stakeholder{
		ID:             mapping.PgUUIDToUUID(m.ID),
		BusinessUnitID: mapping.PgUUIDToUUID(m.BusinessUnitID),
		TeamID:         mapping.PgUUIDToUUID(m.TeamID),
		MemberName:     m.MemberName,
		MemberEmail:    m.MemberEmail,
		ReportsTo:      mapping.PgUUIDToPointer(m.ReportsTo),
		CreatedAt:      m.CreatedAt.Time,
		UpdatedAt:      m.UpdatedAt.Time,
	}
}

func toDomainOpsReview(m *models.OpsReview) *opsreview.OpsReview {
	return &opsreview.OpsReview{
		ID:        mapping.PgUUIDToUUID(m.ID),
		TeamID:    mapping.PgUUIDToUUID(m.TeamID),
		Title:     m.Title,
		Cadence:   m.Cadence,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt.Time,
		UpdatedAt: m.UpdatedAt.Time,
	}
}

func toDomainGoal(m *models.Goal) *goal.Goal {
	return goal.Hydrate(
		mapping.PgUUIDToUUID(m.ID),
		mapping.PgUUIDToUUID(m.BusinessUnitID),
		mapping.PgUUIDToPointer(m.StakeholderID),
		m.Title,
		m.Description,
		m.ProgressNotes,
		int(m.Year),
		int(m.Quarter),
		m.CreatedAt.Time,
		m.UpdatedAt.Time,
	)
}

func toDomainKpi(m *models.Kpi) *kpi.Kpi {
	return kpi.Hydrate(
		mapping.PgUUIDToUUID(m.ID),
		mapping.PgUUIDToUUID(m.OrganizationID),
		mapping.PgUUIDToPointer(m.TeamID),
		m.Initiative,
		mapping.PgUUIDsToUUIDs(m.BusinessUnitIDs),
		m.Name,
		mapping.SQLNullFloat64ToPointer(m.Target),
		m.ActualMetric,
		mapping.SQLNullBoolToPointer(m.MetTarget),
		mapping.SQLNullFloat64ToPointer(m.MetTargetPercent),
		m.CreatedAt.Time,
		m.UpdatedAt.Time,
	)
}

func toDomainKpiStatus(m *models.KpiStatus) *kpi.Status {
	return &kpi.Status{
		ID:        mapping.PgUUIDToUUID(m.ID),
		KpiID:     mapping.PgUUIDToUUID(m.KpiID),
		Year:      int(m.Year),
		Quarter:   int(m.Quarter),
		Amount:    m.Amount,
		CreatedAt: m.CreatedAt.Time,
		UpdatedAt: m.UpdatedAt.Time,
	}
}
