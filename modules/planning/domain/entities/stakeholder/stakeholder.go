package stakeholder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var (
	ErrNotFound      = serrors.NotFound("stakeholder not found")
	ErrSelfReporting = serrors.Validation("stakeholder cannot report to itself")
)

// Stakeholder wraps a team member with unit-scoped fields. ReportsTo is an
// adjacency by id; the graph may contain cycles, only self-reference is
// rejected at the validation boundary.
type Stakeholder struct {
	ID             uuid.UUID
	BusinessUnitID uuid.UUID
	TeamID         uuid.UUID
	MemberName     string
	MemberEmail    string
	ReportsTo      *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s *Stakeholder) Validate() error {
	if s.ReportsTo != nil && *s.ReportsTo == s.ID {
		return ErrSelfReporting
	}
	return nil
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Stakeholder, error)
	ListByBusinessUnit(ctx context.Context, unitID uuid.UUID) ([]*Stakeholder, error)
	ListByTeams(ctx context.Context, teamIDs []uuid.UUID) ([]*Stakeholder, error)
	Create(ctx context.Context, s *Stakeholder) error
	Update(ctx context.Context, s *Stakeholder) error
	Delete(ctx context.Context, id uuid.UUID) error
}
