package models

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgtype"
)

type BusinessUnit struct {
	ID          pgtype.UUID
	Name        string
	Description string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type Team struct {
	ID             pgtype.UUID
	OrganizationID pgtype.UUID
	Name           string
	BusinessUnitID pgtype.UUID
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type Stakeholder struct {
	ID             pgtype.UUID
	BusinessUnitID pgtype.UUID
	TeamID         pgtype.UUID
	MemberName     string
	MemberEmail    string
	ReportsTo      pgtype.UUID
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type OpsReview struct {
	ID        pgtype.UUID
	TeamID    pgtype.UUID
	Title     string
	Cadence   string
	Notes     string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type Goal struct {
	ID             pgtype.UUID
	BusinessUnitID pgtype.UUID
	StakeholderID  pgtype.UUID
	Title          string
	Description    string
	ProgressNotes  string
	Year           int32
	Quarter        int32
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type Kpi struct {
	ID               pgtype.UUID
	OrganizationID   pgtype.UUID
	TeamID           pgtype.UUID
	Initiative       string
	BusinessUnitIDs  []pgtype.UUID
	Name             string
	Target           sql.NullFloat64
	ActualMetric     float64
	MetTarget        sql.NullBool
	MetTargetPercent sql.NullFloat64
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

type KpiStatus struct {
	ID        pgtype.UUID
	KpiID     pgtype.UUID
	Year      int32
	Quarter   int32
	Amount    float64
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}
