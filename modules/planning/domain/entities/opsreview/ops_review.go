package opsreview

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var ErrNotFound = serrors.NotFound("ops review not found")

type OpsReview struct {
	ID        uuid.UUID
	TeamID    uuid.UUID
	Title     string
	Cadence   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OpsReview, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*OpsReview, error)
	Create(ctx context.Context, r *OpsReview) error
	Update(ctx context.Context, r *OpsReview) error
	Delete(ctx context.Context, id uuid.UUID) error
}
