package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/kpi"
	"github.com/northstarhq/northstar/pkg/constants"
	"github.com/northstarhq/northstar/pkg/eventbus"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type KpiService struct {
	kpis      kpi.Repository
	scope     ScopeResolver
	publisher eventbus.EventBus
	logger    *logrus.Logger
}

func NewKpiService(kpis kpi.Repository, scope ScopeResolver, publisher eventbus.EventBus, logger *logrus.Logger) *KpiService {
	return &KpiService{
		kpis:      kpis,
		scope:     scope,
		publisher: publisher,
		logger:    logger,
	}
}

type KpiCreateDTO struct {
	OrganizationID  uuid.UUID  `validate:"required"`
	TeamID          *uuid.UUID `validate:"omitempty"`
	Initiative      string
	BusinessUnitIDs []uuid.UUID
	Name            string   `validate:"required"`
	Target          *float64 `validate:"omitempty"`
}

func (s *KpiService) Get(ctx context.Context, principalID, kpiID uuid.UUID) (*kpi.Kpi, error) {
	k, err := s.kpis.GetByID(ctx, kpiID)
	if err != nil {
		return nil, err
	}
	if err := s.assertOrgInScope(ctx, principalID, k.OrganizationID()); err != nil {
		return nil, err
	}
	return k, nil
}

func (s *KpiService) List(ctx context.Context, principalID uuid.UUID) ([]*kpi.Kpi, error) {
	scope, err := s.scope.ResolveOrgIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}
	return s.kpis.ListByOrganizations(ctx, scope)
}

func (s *KpiService) ListStatuses(ctx context.Context, principalID, kpiID uuid.UUID) ([]*kpi.Status, error) {
	if _, err := s.Get(ctx, principalID, kpiID); err != nil {
		return nil, err
	}
	return s.kpis.ListStatuses(ctx, kpiID)
}

func (s *KpiService) Create(ctx context.Context, principalID uuid.UUID, dto *KpiCreateDTO) (*kpi.Kpi, error) {
	if err := constants.Validate.Struct(dto); err != nil {
		return nil, serrors.Validation(err.Error())
	}
	if err := s.assertOrgInScope(ctx, principalID, dto.OrganizationID); err != nil {
		return nil, err
	}

	k, err := kpi.New(dto.OrganizationID, dto.TeamID, dto.Initiative, dto.BusinessUnitIDs, dto.Name, dto.Target)
	if err != nil {
		return nil, err
	}
	if err := inTxFn(ctx, func(txCtx context.Context) error {
		return s.kpis.Create(txCtx, k)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&KpiCreatedEvent{Kpi: k})
	return k, nil
}

// SetTarget changes the target and recomputes the cached aggregate in the
// same transaction, so metTarget and metTargetPercent never reflect a stale
// target.
func (s *KpiService) SetTarget(ctx context.Context, principalID, kpiID uuid.UUID, target *float64) (*kpi.Kpi, error) {
	if err := s.assertKpiInScope(ctx, principalID, kpiID); err != nil {
		return nil, err
	}

	var updated *kpi.Kpi
	err := inTxFn(ctx, func(txCtx context.Context) error {
		k, err := s.kpis.GetByID(txCtx, kpiID)
		if err != nil {
			return err
		}
		k.SetTarget(target)
		if err := s.kpis.Update(txCtx, k); err != nil {
			return err
		}
		updated, err = s.recompute(txCtx, kpiID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddStatus appends a ledger row and recomputes inside one transaction.
func (s *KpiService) AddStatus(ctx context.Context, principalID, kpiID uuid.UUID, year, quarter int, amount float64) (*kpi.Status, error) {
	if err := s.assertKpiInScope(ctx, principalID, kpiID); err != nil {
		return nil, err
	}

	status := &kpi.Status{
		ID:      uuid.New(),
		KpiID:   kpiID,
		Year:    year,
		Quarter: quarter,
		Amount:  amount,
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	err := inTxFn(ctx, func(txCtx context.Context) error {
		if err := s.kpis.CreateStatus(txCtx, status); err != nil {
			return err
		}
		_, err := s.recompute(txCtx, kpiID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (s *KpiService) UpdateStatus(ctx context.Context, principalID, statusID uuid.UUID, year, quarter int, amount float64) (*kpi.Status, error) {
	status, err := s.kpis.GetStatus(ctx, statusID)
	if err != nil {
		return nil, err
	}
	if err := s.assertKpiInScope(ctx, principalID, status.KpiID); err != nil {
		return nil, err
	}

	status.Year = year
	status.Quarter = quarter
	status.Amount = amount
	if err := status.Validate(); err != nil {
		return nil, err
	}
	err = inTxFn(ctx, func(txCtx context.Context) error {
		if err := s.kpis.UpdateStatus(txCtx, status); err != nil {
			return err
		}
		_, err := s.recompute(txCtx, status.KpiID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (s *KpiService) DeleteStatus(ctx context.Context, principalID, statusID uuid.UUID) error {
	status, err := s.kpis.GetStatus(ctx, statusID)
	if err != nil {
		return err
	}
	if err := s.assertKpiInScope(ctx, principalID, status.KpiID); err != nil {
		return err
	}

	return inTxFn(ctx, func(txCtx context.Context) error {
		if err := s.kpis.DeleteStatus(txCtx, statusID); err != nil {
			return err
		}
		_, err := s.recompute(txCtx, status.KpiID)
		return err
	})
}

// Recompute rebuilds the cached aggregate from the ledger. Exposed for the
// admin CLI; ledger mutations trigger it in their own transaction.
func (s *KpiService) Recompute(ctx context.Context, kpiID uuid.UUID) (*kpi.Kpi, error) {
	var k *kpi.Kpi
	err := inTxFn(ctx, func(txCtx context.Context) error {
		var innerErr error
		k, innerErr = s.recompute(txCtx, kpiID)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return k, nil
}

// recompute sums the ledger and persists the derived fields. A KPI deleted
// between the ledger write and the persist is not an error: the delete
// cascade already removed the ledger, so there is nothing left to cache.
func (s *KpiService) recompute(ctx context.Context, kpiID uuid.UUID) (*kpi.Kpi, error) {
	k, err := s.kpis.GetByID(ctx, kpiID)
	if err != nil {
		if errors.Is(err, kpi.ErrNotFound) {
			s.logger.WithField("kpi_id", kpiID).Warn("kpi vanished before recompute, skipping")
			return nil, nil
		}
		return nil, err
	}

	actual, err := s.kpis.SumStatusAmounts(ctx, kpiID)
	if err != nil {
		return nil, err
	}
	k.RecomputeFrom(actual)

	if err := s.kpis.UpdateDerived(ctx, kpiID, k.ActualMetric(), k.MetTarget(), k.MetTargetPercent()); err != nil {
		if errors.Is(err, kpi.ErrNotFound) {
			s.logger.WithField("kpi_id", kpiID).Warn("kpi deleted concurrently, aggregate discarded")
			return nil, nil
		}
		return nil, err
	}
	s.publisher.Publish(&KpiRecomputedEvent{Kpi: k})
	return k, nil
}

func (s *KpiService) assertKpiInScope(ctx context.Context, principalID, kpiID uuid.UUID) error {
	k, err := s.kpis.GetByID(ctx, kpiID)
	if err != nil {
		return err
	}
	return s.assertOrgInScope(ctx, principalID, k.OrganizationID())
}

func (s *KpiService) assertOrgInScope(ctx context.Context, principalID, orgID uuid.UUID) error {
	scope, err := s.scope.ResolveOrgIDs(ctx, principalID)
	if err != nil {
		return err
	}
	for _, id := range scope {
		if id == orgID {
			return nil
		}
	}
	return serrors.ErrForbidden
}

type KpiCreatedEvent struct {
	Kpi *kpi.Kpi
}

type KpiRecomputedEvent struct {
	Kpi *kpi.Kpi
}
