package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northstarhq/northstar/modules/planning/domain/entities/businessunit"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/stakeholder"
	"github.com/northstarhq/northstar/pkg/serrors"
)

func TestBusinessUnitService_List_FiltersByReachability(t *testing.T) {
	f := newGuardFixture()
	bus := &recordingBus{}
	svc := NewBusinessUnitService(f.units, f.guard, bus)

	myOrg := uuid.New()
	me := uuid.New()
	f.scope.grant(me, myOrg)

	mine := f.seedUnit("mine")
	f.seedTeam(myOrg, &mine.ID)

	foreign := f.seedUnit("foreign")
	f.seedTeam(uuid.New(), &foreign.ID)

	// Orphan units are editable when addressed directly but are not listed:
	// nothing in scope reaches them.
	f.seedUnit("orphan")

	units, err := svc.List(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, mine.ID, units[0].ID)
}

func TestBusinessUnitService_List_EmptyScope(t *testing.T) {
	f := newGuardFixture()
	svc := NewBusinessUnitService(f.units, f.guard, &recordingBus{})
	f.seedUnit("Growth")

	units, err := svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestBusinessUnitService_Create_RequiresScope(t *testing.T) {
	f := newGuardFixture()
	svc := NewBusinessUnitService(f.units, f.guard, &recordingBus{})

	_, err := svc.Create(context.Background(), uuid.New(), "Growth", "")
	require.ErrorIs(t, err, serrors.ErrForbidden)
}

func TestBusinessUnitService_CreateAndUpdate(t *testing.T) {
	f := newGuardFixture()
	bus := &recordingBus{}
	svc := NewBusinessUnitService(f.units, f.guard, bus)

	me := uuid.New()
	f.scope.grant(me, uuid.New())

	unit, err := svc.Create(context.Background(), me, "Growth", "expansion bets")
	require.NoError(t, err)
	require.Len(t, bus.events, 1)

	// Freshly created units have no linking team yet, so the creator can
	// keep editing them.
	updated, err := svc.Update(context.Background(), me, unit.ID, "Growth EMEA", "")
	require.NoError(t, err)
	assert.Equal(t, "Growth EMEA", updated.Name)
}

func TestBusinessUnitService_Get_NotFound(t *testing.T) {
	f := newGuardFixture()
	svc := NewBusinessUnitService(f.units, f.guard, &recordingBus{})
	me := uuid.New()
	f.scope.grant(me, uuid.New())

	_, err := svc.Get(context.Background(), me, uuid.New())
	require.ErrorIs(t, err, businessunit.ErrNotFound)
}

func TestStakeholderService_Create_RejectsSelfReporting(t *testing.T) {
	f := newGuardFixture()
	svc := NewStakeholderService(f.stakeholders, f.guard, &recordingBus{})

	myOrg := uuid.New()
	me := uuid.New()
	f.scope.grant(me, myOrg)
	unit := f.seedUnit("Growth")
	tm := f.seedTeam(myOrg, &unit.ID)

	id := uuid.New()
	_, err := svc.Create(context.Background(), me, &stakeholder.Stakeholder{
		ID:             id,
		BusinessUnitID: unit.ID,
		TeamID:         tm.ID,
		MemberName:     "Ada",
		ReportsTo:      &id,
	})
	require.ErrorIs(t, err, stakeholder.ErrSelfReporting)
}

func TestStakeholderService_Update_ForeignUnitDenied(t *testing.T) {
	f := newGuardFixture()
	svc := NewStakeholderService(f.stakeholders, f.guard, &recordingBus{})

	victimOrg := uuid.New()
	attackerOrg := uuid.New()
	attacker := uuid.New()
	f.scope.grant(attacker, attackerOrg)

	victimUnit := f.seedUnit("Victim")
	f.seedTeam(victimOrg, &victimUnit.ID)

	attackerUnit := f.seedUnit("Own")
	attackerTeam := f.seedTeam(attackerOrg, &attackerUnit.ID)

	sh, err := svc.Create(context.Background(), attacker, &stakeholder.Stakeholder{
		BusinessUnitID: attackerUnit.ID,
		TeamID:         attackerTeam.ID,
		MemberName:     "Mallory",
	})
	require.NoError(t, err)

	// Moving the stakeholder into another tenant's unit must fail like a
	// fresh create into that unit would.
	moved := *sh
	moved.BusinessUnitID = victimUnit.ID
	_, err = svc.Update(context.Background(), attacker, &moved)
	require.ErrorIs(t, err, serrors.ErrForbidden)
}

func TestStakeholderService_Create(t *testing.T) {
	f := newGuardFixture()
	svc := NewStakeholderService(f.stakeholders, f.guard, &recordingBus{})

	myOrg := uuid.New()
	me := uuid.New()
	f.scope.grant(me, myOrg)
	unit := f.seedUnit("Growth")
	tm := f.seedTeam(myOrg, &unit.ID)

	sh, err := svc.Create(context.Background(), me, &stakeholder.Stakeholder{
		BusinessUnitID: unit.ID,
		TeamID:         tm.ID,
		MemberName:     "Ada",
		MemberEmail:    "ada@example.com",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sh.ID)

	listed, err := svc.ListByBusinessUnit(context.Background(), me, unit.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}
