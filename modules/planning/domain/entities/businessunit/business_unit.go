package businessunit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var ErrNotFound = serrors.NotFound("business unit not found")

// BusinessUnit carries no owner reference. It is reachable only through
// teams that link to it, stakeholders placed in it, or KPIs that name it,
// which is why access checks go through the guard rather than a foreign key.
type BusinessUnit struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BusinessUnit, error)
	List(ctx context.Context) ([]*BusinessUnit, error)
	Create(ctx context.Context, unit *BusinessUnit) error
	Update(ctx context.Context, unit *BusinessUnit) error
	Delete(ctx context.Context, id uuid.UUID) error
}
