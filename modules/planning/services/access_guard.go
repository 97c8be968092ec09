package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/kpi"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/businessunit"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/opsreview"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/stakeholder"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/team"
	"github.com/northstarhq/northstar/pkg/serrors"
)

// AccessGuard enforces the tenant boundary on planning entities. Business
// units carry no owner reference, so every check walks one of the indirect
// paths from the principal's organizations. Guards are side-effect-free and
// fail closed: an empty or unresolvable scope always denies.
type AccessGuard struct {
	scope        ScopeResolver
	units        businessunit.Repository
	teams        team.Repository
	stakeholders stakeholder.Repository
	reviews      opsreview.Repository
	kpis         kpi.Repository
}

func NewAccessGuard(
	scope ScopeResolver,
	units businessunit.Repository,
	teams team.Repository,
	stakeholders stakeholder.Repository,
	reviews opsreview.Repository,
	kpis kpi.Repository,
) *AccessGuard {
	return &AccessGuard{
		scope:        scope,
		units:        units,
		teams:        teams,
		stakeholders: stakeholders,
		reviews:      reviews,
		kpis:         kpis,
	}
}

// AssertBusinessUnitAccess allows a unit with zero linking teams
// unconditionally once the principal has any scope at all: such an orphan
// unit is not yet attached to any tenant, and denying it would make it
// uneditable forever. Otherwise at least one linking team's organization
// must be in scope.
func (g *AccessGuard) AssertBusinessUnitAccess(ctx context.Context, principalID, unitID uuid.UUID) error {
	if _, err := g.units.GetByID(ctx, unitID); err != nil {
		return err
	}

	scope, err := g.scope.ResolveOrgIDs(ctx, principalID)
	if err != nil {
		return err
	}
	if len(scope) == 0 {
		return serrors.ErrForbidden
	}

	linking, err := g.teams.ListByBusinessUnit(ctx, unitID)
	if err != nil {
		return err
	}
	if len(linking) == 0 {
		return nil
	}

	inScope := idSet(scope)
	for _, t := range linking {
		if inScope[t.OrganizationID] {
			return nil
		}
	}
	return serrors.ErrForbidden
}

func (g *AccessGuard) AssertTeamAccess(ctx context.Context, principalID, teamID uuid.UUID) error {
	t, err := g.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	return g.assertOrgInScope(ctx, principalID, t.OrganizationID)
}

func (g *AccessGuard) AssertOpsReviewAccess(ctx context.Context, principalID, reviewID uuid.UUID) error {
	review, err := g.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	t, err := g.teams.GetByID(ctx, review.TeamID)
	if err != nil {
		return err
	}
	return g.assertOrgInScope(ctx, principalID, t.OrganizationID)
}

// ReachableBusinessUnitIDs computes the full set of unit ids the principal
// can see. Three paths contribute: teams in scope that link a unit,
// stakeholders sitting in teams in scope, and KPIs owned by organizations in
// scope that name units. Keeping the traversal in one place keeps the
// isolation invariant testable in one place.
func (g *AccessGuard) ReachableBusinessUnitIDs(ctx context.Context, principalID uuid.UUID) ([]uuid.UUID, error) {
	scope, err := g.scope.ResolveOrgIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return nil, nil
	}

	reachable := map[uuid.UUID]struct{}{}

	teams, err := g.teams.ListByOrganizations(ctx, scope)
	if err != nil {
		return nil, err
	}
	teamIDs := make([]uuid.UUID, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
		if t.BusinessUnitID != nil {
			reachable[*t.BusinessUnitID] = struct{}{}
		}
	}

	stakeholders, err := g.stakeholders.ListByTeams(ctx, teamIDs)
	if err != nil {
		return nil, err
	}
	for _, s := range stakeholders {
		reachable[s.BusinessUnitID] = struct{}{}
	}

	kpis, err := g.kpis.ListByOrganizations(ctx, scope)
	if err != nil {
		return nil, err
	}
	for _, k := range kpis {
		for _, unitID := range k.BusinessUnitIDs() {
			reachable[unitID] = struct{}{}
		}
	}

	ids := make([]uuid.UUID, 0, len(reachable))
	for id := range reachable {
		ids = append(ids, id)
	}
	return ids, nil
}

func (g *AccessGuard) assertOrgInScope(ctx context.Context, principalID, orgID uuid.UUID) error {
	scope, err := g.scope.ResolveOrgIDs(ctx, principalID)
	if err != nil {
		return err
	}
	if idSet(scope)[orgID] {
		return nil
	}
	return serrors.ErrForbidden
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
