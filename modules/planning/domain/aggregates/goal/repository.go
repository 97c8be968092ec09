package goal

import (
	"context"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var (
	ErrNotFound = serrors.NotFound("goal not found")
	// ErrDuplicateQuarter maps the storage uniqueness constraint on
	// (business_unit_id, title, year, quarter).
	ErrDuplicateQuarter = serrors.Conflict("a goal for this quarter already exists in the series")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Goal, error)
	// ListBySeries returns every row sharing the series key. No ordering
	// contract.
	ListBySeries(ctx context.Context, businessUnitID uuid.UUID, title string, year int) ([]*Goal, error)
	// ExistsInSeries reports whether a row exists for the series key and
	// quarter.
	ExistsInSeries(ctx context.Context, businessUnitID uuid.UUID, title string, year int, quarter int) (bool, error)
	ListByBusinessUnit(ctx context.Context, unitID uuid.UUID) ([]*Goal, error)
	Create(ctx context.Context, g *Goal) error
	Update(ctx context.Context, g *Goal) error
	Delete(ctx context.Context, id uuid.UUID) error
}
