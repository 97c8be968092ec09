package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/kpi"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/businessunit"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/opsreview"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/stakeholder"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/team"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type guardFixture struct {
	guard        *AccessGuard
	scope        *stubScope
	units        *mockUnitRepo
	teams        *mockTeamRepo
	stakeholders *mockStakeholderRepo
	reviews      *mockReviewRepo
	kpis         *mockKpiRepo
}

func newGuardFixture() *guardFixture {
	f := &guardFixture{
		scope:        newStubScope(),
		units:        newMockUnitRepo(),
		teams:        newMockTeamRepo(),
		stakeholders: newMockStakeholderRepo(),
		reviews:      newMockReviewRepo(),
		kpis:         newMockKpiRepo(),
	}
	f.guard = NewAccessGuard(f.scope, f.units, f.teams, f.stakeholders, f.reviews, f.kpis)
	return f
}

func (f *guardFixture) seedUnit(name string) *businessunit.BusinessUnit {
	u := &businessunit.BusinessUnit{ID: uuid.New(), Name: name}
	f.units.units[u.ID] = u
	return u
}

func (f *guardFixture) seedTeam(orgID uuid.UUID, unitID *uuid.UUID) *team.Team {
	t := &team.Team{ID: uuid.New(), OrganizationID: orgID, Name: "team", BusinessUnitID: unitID}
	f.teams.teams[t.ID] = t
	return t
}

func TestAccessGuard_BusinessUnit_EmptyScopeDenies(t *testing.T) {
	f := newGuardFixture()
	principalID := uuid.New()
	unit := f.seedUnit("Growth")

	err := f.guard.AssertBusinessUnitAccess(context.Background(), principalID, unit.ID)
	require.ErrorIs(t, err, serrors.ErrForbidden)
}

func TestAccessGuard_BusinessUnit_UnknownUnit(t *testing.T) {
	f := newGuardFixture()
	principalID := uuid.New()
	f.scope.grant(principalID, uuid.New())

	err := f.guard.AssertBusinessUnitAccess(context.Background(), principalID, uuid.New())
	require.ErrorIs(t, err, businessunit.ErrNotFound)
}

func TestAccessGuard_BusinessUnit_OrphanUnitAllowed(t *testing.T) {
	f := newGuardFixture()
	principalID := uuid.New()
	f.scope.grant(principalID, uuid.New())
	unit := f.seedUnit("Unlinked")

	require.NoError(t, f.guard.AssertBusinessUnitAccess(context.Background(), principalID, unit.ID))
}

func TestAccessGuard_BusinessUnit_LinkedUnit(t *testing.T) {
	f := newGuardFixture()
	myOrg := uuid.New()
	otherOrg := uuid.New()
	me := uuid.New()
	stranger := uuid.New()
	f.scope.grant(me, myOrg)
	f.scope.grant(stranger, otherOrg)

	unit := f.seedUnit("Growth")
	f.seedTeam(myOrg, &unit.ID)

	require.NoError(t, f.guard.AssertBusinessUnitAccess(context.Background(), me, unit.ID))
	require.ErrorIs(t, f.guard.AssertBusinessUnitAccess(context.Background(), stranger, unit.ID), serrors.ErrForbidden)
}

func TestAccessGuard_BusinessUnit_AnyLinkingTeamSuffices(t *testing.T) {
	f := newGuardFixture()
	myOrg := uuid.New()
	me := uuid.New()
	f.scope.grant(me, myOrg)

	unit := f.seedUnit("Shared")
	f.seedTeam(uuid.New(), &unit.ID)
	f.seedTeam(myOrg, &unit.ID)

	require.NoError(t, f.guard.AssertBusinessUnitAccess(context.Background(), me, unit.ID))
}

func TestAccessGuard_Team(t *testing.T) {
	f := newGuardFixture()
	myOrg := uuid.New()
	me := uuid.New()
	stranger := uuid.New()
	f.scope.grant(me, myOrg)
	f.scope.grant(stranger, uuid.New())

	tm := f.seedTeam(myOrg, nil)

	require.NoError(t, f.guard.AssertTeamAccess(context.Background(), me, tm.ID))
	require.ErrorIs(t, f.guard.AssertTeamAccess(context.Background(), stranger, tm.ID), serrors.ErrForbidden)
	require.ErrorIs(t, f.guard.AssertTeamAccess(context.Background(), me, uuid.New()), team.ErrNotFound)
}

func TestAccessGuard_OpsReview(t *testing.T) {
	f := newGuardFixture()
	myOrg := uuid.New()
	me := uuid.New()
	stranger := uuid.New()
	f.scope.grant(me, myOrg)
	f.scope.grant(stranger, uuid.New())

	tm := f.seedTeam(myOrg, nil)
	review := &opsreview.OpsReview{ID: uuid.New(), TeamID: tm.ID, Title: "Weekly ops", Cadence: "weekly"}
	f.reviews.reviews[review.ID] = review

	require.NoError(t, f.guard.AssertOpsReviewAccess(context.Background(), me, review.ID))
	require.ErrorIs(t, f.guard.AssertOpsReviewAccess(context.Background(), stranger, review.ID), serrors.ErrForbidden)
}

func TestAccessGuard_Reachable_EmptyScope(t *testing.T) {
	f := newGuardFixture()
	f.seedUnit("Growth")

	ids, err := f.guard.ReachableBusinessUnitIDs(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAccessGuard_Reachable_AllThreePaths(t *testing.T) {
	f := newGuardFixture()
	myOrg := uuid.New()
	otherOrg := uuid.New()
	me := uuid.New()
	f.scope.grant(me, myOrg)

	viaTeam := f.seedUnit("via team")
	viaStakeholder := f.seedUnit("via stakeholder")
	viaKpi := f.seedUnit("via kpi")
	unreachable := f.seedUnit("foreign")

	myTeam := f.seedTeam(myOrg, &viaTeam.ID)
	foreignTeam := f.seedTeam(otherOrg, &unreachable.ID)

	f.stakeholders.stakeholders[uuid.New()] = &stakeholder.Stakeholder{
		ID:             uuid.New(),
		BusinessUnitID: viaStakeholder.ID,
		TeamID:         myTeam.ID,
		MemberName:     "Ada",
	}
	// Stakeholder in a foreign team must not leak its unit.
	f.stakeholders.stakeholders[uuid.New()] = &stakeholder.Stakeholder{
		ID:             uuid.New(),
		BusinessUnitID: unreachable.ID,
		TeamID:         foreignTeam.ID,
		MemberName:     "Eve",
	}

	k, err := kpi.New(myOrg, nil, "", []uuid.UUID{viaKpi.ID}, "pipeline coverage", nil)
	require.NoError(t, err)
	f.kpis.kpis[k.ID()] = k

	foreign, err := kpi.New(otherOrg, nil, "", []uuid.UUID{unreachable.ID}, "foreign kpi", nil)
	require.NoError(t, err)
	f.kpis.kpis[foreign.ID()] = foreign

	ids, err := f.guard.ReachableBusinessUnitIDs(context.Background(), me)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{viaTeam.ID, viaStakeholder.ID, viaKpi.ID}, ids)
}
