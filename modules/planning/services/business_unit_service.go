package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/modules/planning/domain/entities/businessunit"
	"github.com/northstarhq/northstar/pkg/eventbus"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type BusinessUnitService struct {
	units     businessunit.Repository
	guard     *AccessGuard
	publisher eventbus.EventBus
}

func NewBusinessUnitService(units businessunit.Repository, guard *AccessGuard, publisher eventbus.EventBus) *BusinessUnitService {
	return &BusinessUnitService{units: units, guard: guard, publisher: publisher}
}

func (s *BusinessUnitService) Get(ctx context.Context, principalID, unitID uuid.UUID) (*businessunit.BusinessUnit, error) {
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, unitID); err != nil {
		return nil, err
	}
	return s.units.GetByID(ctx, unitID)
}

// List returns only the units reachable from the principal's scope.
func (s *BusinessUnitService) List(ctx context.Context, principalID uuid.UUID) ([]*businessunit.BusinessUnit, error) {
	reachable, err := s.guard.ReachableBusinessUnitIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if len(reachable) == 0 {
		return nil, nil
	}
	set := idSet(reachable)

	units, err := s.units.List(ctx)
	if err != nil {
		return nil, err
	}
	out := units[:0]
	for _, unit := range units {
		if set[unit.ID] {
			out = append(out, unit)
		}
	}
	return out, nil
}

func (s *BusinessUnitService) Create(ctx context.Context, principalID uuid.UUID, name, description string) (*businessunit.BusinessUnit, error) {
	if name == "" {
		return nil, serrors.Validation("business unit name cannot be empty")
	}
	scope, err := s.guard.scope.ResolveOrgIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return nil, serrors.ErrForbidden
	}

	unit := &businessunit.BusinessUnit{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}
	if err := inTxFn(ctx, func(txCtx context.Context) error {
		return s.units.Create(txCtx, unit)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&BusinessUnitCreatedEvent{Unit: unit})
	return unit, nil
}

func (s *BusinessUnitService) Update(ctx context.Context, principalID, unitID uuid.UUID, name, description string) (*businessunit.BusinessUnit, error) {
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, unitID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, serrors.Validation("business unit name cannot be empty")
	}

	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	unit.Name = name
	unit.Description = description
	if err := inTxFn(ctx, func(txCtx context.Context) error {
		return s.units.Update(txCtx, unit)
	}); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *BusinessUnitService) Delete(ctx context.Context, principalID, unitID uuid.UUID) error {
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, unitID); err != nil {
		return err
	}
	return inTxFn(ctx, func(txCtx context.Context) error {
		return s.units.Delete(txCtx, unitID)
	})
}

type BusinessUnitCreatedEvent struct {
	Unit *businessunit.BusinessUnit
}
