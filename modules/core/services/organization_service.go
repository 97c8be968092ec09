package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/modules/core/domain/entities/organization"
	"github.com/northstarhq/northstar/pkg/eventbus"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type OrganizationService struct {
	repo      organization.Repository
	scope     *ScopeService
	publisher eventbus.EventBus
}

func NewOrganizationService(repo organization.Repository, scope *ScopeService, publisher eventbus.EventBus) *OrganizationService {
	return &OrganizationService{repo: repo, scope: scope, publisher: publisher}
}

// List returns the organizations in the principal's scope.
func (s *OrganizationService) List(ctx context.Context, principalID uuid.UUID) ([]organization.Organization, error) {
	ids, err := s.scope.ResolveOrgIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	// All ids share one account, so one account-level list suffices.
	org, err := s.repo.GetByID(ctx, ids[0])
	if err != nil {
		return nil, err
	}
	return s.repo.ListByAccount(ctx, org.AccountID())
}

func (s *OrganizationService) Get(ctx context.Context, principalID, orgID uuid.UUID) (organization.Organization, error) {
	ok, err := s.scope.InScope(ctx, principalID, orgID)
	if err != nil {
		return organization.Organization{}, err
	}
	if !ok {
		return organization.Organization{}, serrors.Forbidden("organization outside principal scope")
	}
	return s.repo.GetByID(ctx, orgID)
}

func (s *OrganizationService) Create(ctx context.Context, accountID uuid.UUID, name string, parentID *uuid.UUID) (organization.Organization, error) {
	if name == "" {
		return organization.Organization{}, serrors.Validation("organization name is required")
	}
	entity, err := organization.New(accountID, name, parentID)
	if err != nil {
		return organization.Organization{}, err
	}

	var created organization.Organization
	err = inTxFn(ctx, func(txCtx context.Context) error {
		var innerErr error
		created, innerErr = s.repo.Create(txCtx, entity)
		return innerErr
	})
	if err != nil {
		return organization.Organization{}, err
	}
	s.publisher.Publish(&OrganizationCreatedEvent{Organization: created})
	return created, nil
}

type OrganizationCreatedEvent struct {
	Organization organization.Organization
}
