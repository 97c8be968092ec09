package team

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var ErrNotFound = serrors.NotFound("team not found")

// Team belongs to one organization. The optional business-unit link is the
// only direct path from an organization to a business unit.
type Team struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	BusinessUnitID *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]*Team, error)
	ListByBusinessUnit(ctx context.Context, unitID uuid.UUID) ([]*Team, error)
	Create(ctx context.Context, t *Team) error
	Update(ctx context.Context, t *Team) error
	Delete(ctx context.Context, id uuid.UUID) error
}
