package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northstarhq/northstar/pkg/serrors"
)

type teamFixture struct {
	*guardFixture
	svc *TeamService
}

func newTeamFixture() *teamFixture {
	gf := newGuardFixture()
	return &teamFixture{
		guardFixture: gf,
		svc:          NewTeamService(gf.teams, gf.scope, gf.guard, &recordingBus{}),
	}
}

func TestTeamService_Create_LinksOwnUnit(t *testing.T) {
	f := newTeamFixture()
	myOrg := uuid.New()
	me := uuid.New()
	f.scope.grant(me, myOrg)

	unit := f.seedUnit("Growth")
	f.seedTeam(myOrg, &unit.ID)

	tm, err := f.svc.Create(context.Background(), me, myOrg, "second team", &unit.ID)
	require.NoError(t, err)
	require.NotNil(t, tm.BusinessUnitID)
	assert.Equal(t, unit.ID, *tm.BusinessUnitID)
}

func TestTeamService_Create_LinksOrphanUnit(t *testing.T) {
	f := newTeamFixture()
	myOrg := uuid.New()
	me := uuid.New()
	f.scope.grant(me, myOrg)

	// A unit with no linking team yet can be claimed by any tenant.
	unit := f.seedUnit("Fresh")

	_, err := f.svc.Create(context.Background(), me, myOrg, "claiming team", &unit.ID)
	require.NoError(t, err)
}

func TestTeamService_Create_ForeignUnitLinkDenied(t *testing.T) {
	f := newTeamFixture()
	victimOrg := uuid.New()
	attackerOrg := uuid.New()
	attacker := uuid.New()
	f.scope.grant(uuid.New(), victimOrg)
	f.scope.grant(attacker, attackerOrg)

	victimUnit := f.seedUnit("Victim")
	f.seedTeam(victimOrg, &victimUnit.ID)

	_, err := f.svc.Create(context.Background(), attacker, attackerOrg, "attacker team", &victimUnit.ID)
	require.ErrorIs(t, err, serrors.ErrForbidden)
}

func TestTeamService_Update_ForeignUnitLinkDenied(t *testing.T) {
	f := newTeamFixture()
	victimOrg := uuid.New()
	attackerOrg := uuid.New()
	attacker := uuid.New()
	f.scope.grant(attacker, attackerOrg)

	victimUnit := f.seedUnit("Victim")
	f.seedTeam(victimOrg, &victimUnit.ID)
	attackerTeam := f.seedTeam(attackerOrg, nil)

	_, err := f.svc.Update(context.Background(), attacker, attackerTeam.ID, "renamed", &victimUnit.ID)
	require.ErrorIs(t, err, serrors.ErrForbidden)

	// The link was never written, so the guard still denies the unit.
	require.ErrorIs(t,
		f.guard.AssertBusinessUnitAccess(context.Background(), attacker, victimUnit.ID),
		serrors.ErrForbidden,
	)
}

func TestTeamService_Update_UnlinkAllowed(t *testing.T) {
	f := newTeamFixture()
	myOrg := uuid.New()
	me := uuid.New()
	f.scope.grant(me, myOrg)

	unit := f.seedUnit("Growth")
	tm := f.seedTeam(myOrg, &unit.ID)

	updated, err := f.svc.Update(context.Background(), me, tm.ID, "renamed", nil)
	require.NoError(t, err)
	assert.Nil(t, updated.BusinessUnitID)
}

func TestTeamService_List_ScopedToOwnOrganizations(t *testing.T) {
	f := newTeamFixture()
	myOrg := uuid.New()
	me := uuid.New()
	f.scope.grant(me, myOrg)

	mine := f.seedTeam(myOrg, nil)
	f.seedTeam(uuid.New(), nil)

	teams, err := f.svc.List(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, mine.ID, teams[0].ID)
}
