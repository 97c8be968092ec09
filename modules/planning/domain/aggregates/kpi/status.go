package kpi

import (
	"time"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var ErrStatusInvalidQuarter = serrors.Validation("status quarter must be between 1 and 4")

// Status is one ledger row. The sum of a KPI's rows defines its actualMetric.
type Status struct {
	ID        uuid.UUID
	KpiID     uuid.UUID
	Year      int
	Quarter   int
	Amount    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Status) Validate() error {
	if s.Quarter < 1 || s.Quarter > 4 {
		return ErrStatusInvalidQuarter
	}
	return nil
}
