package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/modules/planning/domain/entities/team"
	"github.com/northstarhq/northstar/pkg/eventbus"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type TeamService struct {
	teams     team.Repository
	scope     ScopeResolver
	guard     *AccessGuard
	publisher eventbus.EventBus
}

func NewTeamService(teams team.Repository, scope ScopeResolver, guard *AccessGuard, publisher eventbus.EventBus) *TeamService {
	return &TeamService{teams: teams, scope: scope, guard: guard, publisher: publisher}
}

func (s *TeamService) Get(ctx context.Context, principalID, teamID uuid.UUID) (*team.Team, error) {
	if err := s.guard.AssertTeamAccess(ctx, principalID, teamID); err != nil {
		return nil, err
	}
	return s.teams.GetByID(ctx, teamID)
}

func (s *TeamService) List(ctx context.Context, principalID uuid.UUID) ([]*team.Team, error) {
	scope, err := s.scope.ResolveOrgIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}
	return s.teams.ListByOrganizations(ctx, scope)
}

func (s *TeamService) Create(ctx context.Context, principalID, orgID uuid.UUID, name string, businessUnitID *uuid.UUID) (*team.Team, error) {
	if name == "" {
		return nil, serrors.Validation("team name cannot be empty")
	}
	if err := s.assertOrgInScope(ctx, principalID, orgID); err != nil {
		return nil, err
	}
	// Linking a unit grants every principal of the team's organization
	// access to it, so the link target itself must be accessible first.
	if businessUnitID != nil {
		if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, *businessUnitID); err != nil {
			return nil, err
		}
	}

	t := &team.Team{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		BusinessUnitID: businessUnitID,
	}
	if err := inTxFn(ctx, func(txCtx context.Context) error {
		return s.teams.Create(txCtx, t)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&TeamCreatedEvent{Team: t})
	return t, nil
}

func (s *TeamService) Update(ctx context.Context, principalID, teamID uuid.UUID, name string, businessUnitID *uuid.UUID) (*team.Team, error) {
	if err := s.guard.AssertTeamAccess(ctx, principalID, teamID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, serrors.Validation("team name cannot be empty")
	}
	if businessUnitID != nil {
		if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, *businessUnitID); err != nil {
			return nil, err
		}
	}

	t, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	t.Name = name
	t.BusinessUnitID = businessUnitID
	if err := inTxFn(ctx, func(txCtx context.Context) error {
		return s.teams.Update(txCtx, t)
	}); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TeamService) Delete(ctx context.Context, principalID, teamID uuid.UUID) error {
	if err := s.guard.AssertTeamAccess(ctx, principalID, teamID); err != nil {
		return err
	}
	return inTxFn(ctx, func(txCtx context.Context) error {
		return s.teams.Delete(txCtx, teamID)
	})
}

func (s *TeamService) assertOrgInScope(ctx context.Context, principalID, orgID uuid.UUID) error {
	scope, err := s.scope.ResolveOrgIDs(ctx, principalID)
	if err != nil {
		return err
	}
	if idSet(scope)[orgID] {
		return nil
	}
	return serrors.ErrForbidden
}

type TeamCreatedEvent struct {
	Team *team.Team
}
