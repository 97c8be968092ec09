package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/modules/planning/domain/entities/stakeholder"
	"github.com/northstarhq/northstar/pkg/eventbus"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type StakeholderService struct {
	stakeholders stakeholder.Repository
	guard        *AccessGuard
	publisher    eventbus.EventBus
}

func NewStakeholderService(stakeholders stakeholder.Repository, guard *AccessGuard, publisher eventbus.EventBus) *StakeholderService {
	return &StakeholderService{stakeholders: stakeholders, guard: guard, publisher: publisher}
}

func (s *StakeholderService) Get(ctx context.Context, principalID, stakeholderID uuid.UUID) (*stakeholder.Stakeholder, error) {
	sh, err := s.stakeholders.GetByID(ctx, stakeholderID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, sh.BusinessUnitID); err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *StakeholderService) ListByBusinessUnit(ctx context.Context, principalID, unitID uuid.UUID) ([]*stakeholder.Stakeholder, error) {
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, unitID); err != nil {
		return nil, err
	}
	return s.stakeholders.ListByBusinessUnit(ctx, unitID)
}

func (s *StakeholderService) Create(ctx context.Context, principalID uuid.UUID, sh *stakeholder.Stakeholder) (*stakeholder.Stakeholder, error) {
	if sh.MemberName == "" {
		return nil, serrors.Validation("stakeholder member name cannot be empty")
	}
	if sh.ID == uuid.Nil {
		sh.ID = uuid.New()
	}
	if err := sh.Validate(); err != nil {
		return nil, err
	}
	if err := s.guard.AssertTeamAccess(ctx, principalID, sh.TeamID); err != nil {
		return nil, err
	}
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, sh.BusinessUnitID); err != nil {
		return nil, err
	}

	if err := inTxFn(ctx, func(txCtx context.Context) error {
		return s.stakeholders.Create(txCtx, sh)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&StakeholderCreatedEvent{Stakeholder: sh})
	return sh, nil
}

func (s *StakeholderService) Update(ctx context.Context, principalID uuid.UUID, sh *stakeholder.Stakeholder) (*stakeholder.Stakeholder, error) {
	if _, err := s.Get(ctx, principalID, sh.ID); err != nil {
		return nil, err
	}
	if err := sh.Validate(); err != nil {
		return nil, err
	}
	// The update may move the stakeholder; the new team and unit must be
	// accessible too, same as on create.
	if err := s.guard.AssertTeamAccess(ctx, principalID, sh.TeamID); err != nil {
		return nil, err
	}
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, sh.BusinessUnitID); err != nil {
		return nil, err
	}
	if err := inTxFn(ctx, func(txCtx context.Context) error {
		return s.stakeholders.Update(txCtx, sh)
	}); err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *StakeholderService) Delete(ctx context.Context, principalID, stakeholderID uuid.UUID) error {
	if _, err := s.Get(ctx, principalID, stakeholderID); err != nil {
		return err
	}
	return inTxFn(ctx, func(txCtx context.Context) error {
		return s.stakeholders.Delete(txCtx, stakeholderID)
	})
}

type StakeholderCreatedEvent struct {
	Stakeholder *stakeholder.Stakeholder
}
