package kpi

import (
	"context"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var (
	ErrNotFound       = serrors.NotFound("kpi not found")
	ErrStatusNotFound = serrors.NotFound("kpi status not found")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Kpi, error)
	ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]*Kpi, error)
	Create(ctx context.Context, k *Kpi) error
	Update(ctx context.Context, k *Kpi) error
	// UpdateDerived persists only the cached aggregate fields. Returns
	// ErrNotFound when the row no longer exists.
	UpdateDerived(ctx context.Context, id uuid.UUID, actual float64, metTarget *bool, metTargetPercent *float64) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetStatus(ctx context.Context, statusID uuid.UUID) (*Status, error)
	ListStatuses(ctx context.Context, kpiID uuid.UUID) ([]*Status, error)
	// SumStatusAmounts returns 0 when the KPI has no ledger rows.
	SumStatusAmounts(ctx context.Context, kpiID uuid.UUID) (float64, error)
	CreateStatus(ctx context.Context, s *Status) error
	UpdateStatus(ctx context.Context, s *Status) error
	DeleteStatus(ctx context.Context, statusID uuid.UUID) error
}
