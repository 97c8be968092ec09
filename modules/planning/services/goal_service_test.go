package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/goal"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/stakeholder"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type goalFixture struct {
	*guardFixture
	svc         *GoalService
	goals       *mockGoalRepo
	bus         *recordingBus
	principalID uuid.UUID
	orgID       uuid.UUID
	unitID      uuid.UUID
}

// newGoalFixture seeds one principal with one organization, plus a business
// unit linked to it through a team so the guards let the principal through.
func newGoalFixture(t *testing.T) *goalFixture {
	t.Helper()
	gf := newGuardFixture()
	f := &goalFixture{
		guardFixture: gf,
		bus:          &recordingBus{},
		principalID:  uuid.New(),
		orgID:        uuid.New(),
	}
	f.scope.grant(f.principalID, f.orgID)

	unit := f.seedUnit("Growth")
	f.unitID = unit.ID
	f.seedTeam(f.orgID, &unit.ID)

	goals := newMockGoalRepo()
	f.svc = NewGoalService(goals, f.stakeholders, f.guard, f.bus)
	f.goals = goals
	return f
}

func (f *goalFixture) seedGoal(t *testing.T, title string, year, quarter int) *goal.Goal {
	t.Helper()
	g, err := goal.New(f.unitID, nil, title, "", "", year, quarter)
	require.NoError(t, err)
	require.NoError(t, f.goals.Create(context.Background(), g))
	return g
}

func (f *goalFixture) reconcileDTO(title string, year int, quarters ...int) *goal.ReconcileDTO {
	return &goal.ReconcileDTO{
		BusinessUnitID: f.unitID,
		Title:          title,
		Year:           year,
		Quarters:       quarters,
	}
}

func TestGoalService_Create(t *testing.T) {
	f := newGoalFixture(t)

	g, err := f.svc.Create(context.Background(), f.principalID, &goal.CreateDTO{
		BusinessUnitID: f.unitID,
		Title:          "Grow ARR",
		Year:           2026,
		Quarter:        1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Grow ARR", g.Title())

	require.Len(t, f.bus.events, 1)
	created, ok := f.bus.events[0].(*GoalCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, g.ID(), created.Goal.ID())
}

func TestGoalService_Create_ForeignPrincipalDenied(t *testing.T) {
	f := newGoalFixture(t)
	stranger := uuid.New()
	f.scope.grant(stranger, uuid.New())

	_, err := f.svc.Create(context.Background(), stranger, &goal.CreateDTO{
		BusinessUnitID: f.unitID,
		Title:          "Grow ARR",
		Year:           2026,
		Quarter:        1,
	})
	require.ErrorIs(t, err, serrors.ErrForbidden)
}

func TestGoalService_Reconcile_ExpandsSeries(t *testing.T) {
	f := newGoalFixture(t)
	g := f.seedGoal(t, "Grow ARR", 2026, 1)

	result, err := f.svc.ReconcileSeries(context.Background(), f.principalID, g.ID(), f.reconcileDTO("Grow ARR", 2026, 1, 2, 3))
	require.NoError(t, err)

	assert.Equal(t, g.ID(), result.Updated.ID())
	assert.Equal(t, 1, result.Updated.Quarter())
	require.Len(t, result.Created, 2)
	assert.ElementsMatch(t, []int{2, 3}, []int{result.Created[0].Quarter(), result.Created[1].Quarter()})
	assert.Equal(t, 0, result.DeletedCount)

	rows, err := f.goals.ListBySeries(context.Background(), f.unitID, "Grow ARR", 2026)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestGoalService_Reconcile_Idempotent(t *testing.T) {
	f := newGoalFixture(t)
	g := f.seedGoal(t, "Grow ARR", 2026, 1)

	dto := f.reconcileDTO("Grow ARR", 2026, 1, 2, 3)
	_, err := f.svc.ReconcileSeries(context.Background(), f.principalID, g.ID(), dto)
	require.NoError(t, err)

	result, err := f.svc.ReconcileSeries(context.Background(), f.principalID, g.ID(), dto)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Equal(t, 0, result.DeletedCount)

	rows, err := f.goals.ListBySeries(context.Background(), f.unitID, "Grow ARR", 2026)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestGoalService_Reconcile_ShrinksSeries(t *testing.T) {
	f := newGoalFixture(t)
	g := f.seedGoal(t, "Grow ARR", 2026, 1)
	f.seedGoal(t, "Grow ARR", 2026, 2)
	f.seedGoal(t, "Grow ARR", 2026, 3)

	result, err := f.svc.ReconcileSeries(context.Background(), f.principalID, g.ID(), f.reconcileDTO("Grow ARR", 2026, 1))
	require.NoError(t, err)

	// The pre-existing Q2 and Q3 rows fall outside the requested set and
	// are removed.
	assert.Equal(t, 1, result.Updated.Quarter())
	assert.Empty(t, result.Created)
	assert.Equal(t, 2, result.DeletedCount)

	rows, err := f.goals.ListBySeries(context.Background(), f.unitID, "Grow ARR", 2026)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, g.ID(), rows[0].ID())
}

func TestGoalService_Reconcile_RenameStrandsOldSeries(t *testing.T) {
	f := newGoalFixture(t)
	g := f.seedGoal(t, "Grow ARR", 2026, 1)
	f.seedGoal(t, "Grow ARR", 2026, 2)

	result, err := f.svc.ReconcileSeries(context.Background(), f.principalID, g.ID(), f.reconcileDTO("Grow NRR", 2026, 1))
	require.NoError(t, err)

	assert.Equal(t, "Grow NRR", result.Updated.Title())
	assert.Equal(t, 0, result.DeletedCount)

	// The Q2 row of the old series survives under the old title.
	oldRows, err := f.goals.ListBySeries(context.Background(), f.unitID, "Grow ARR", 2026)
	require.NoError(t, err)
	require.Len(t, oldRows, 1)
	assert.Equal(t, 2, oldRows[0].Quarter())

	newRows, err := f.goals.ListBySeries(context.Background(), f.unitID, "Grow NRR", 2026)
	require.NoError(t, err)
	assert.Len(t, newRows, 1)
}

func TestGoalService_Reconcile_StakeholderUnitMismatch(t *testing.T) {
	f := newGoalFixture(t)
	g := f.seedGoal(t, "Grow ARR", 2026, 1)

	sh := &stakeholder.Stakeholder{ID: uuid.New(), BusinessUnitID: uuid.New(), MemberName: "Ada"}
	require.NoError(t, f.stakeholders.Create(context.Background(), sh))

	dto := f.reconcileDTO("Grow ARR", 2026, 1)
	dto.StakeholderID = &sh.ID
	_, err := f.svc.ReconcileSeries(context.Background(), f.principalID, g.ID(), dto)
	require.ErrorIs(t, err, ErrStakeholderUnitMismatch)
}

func TestGoalService_Reconcile_ForeignGoalDenied(t *testing.T) {
	f := newGoalFixture(t)
	victim := f.seedGoal(t, "Grow ARR", 2026, 1)

	// A second tenant with its own organization and linked unit.
	stranger := uuid.New()
	strangerOrg := uuid.New()
	f.scope.grant(stranger, strangerOrg)
	strangerUnit := f.seedUnit("Competitor")
	f.seedTeam(strangerOrg, &strangerUnit.ID)

	dto := &goal.ReconcileDTO{
		BusinessUnitID: strangerUnit.ID,
		Title:          "stolen",
		Year:           2026,
		Quarters:       []int{1},
	}
	_, err := f.svc.ReconcileSeries(context.Background(), stranger, victim.ID(), dto)
	require.ErrorIs(t, err, serrors.ErrForbidden)

	// The row is untouched.
	kept, err := f.goals.GetByID(context.Background(), victim.ID())
	require.NoError(t, err)
	assert.Equal(t, "Grow ARR", kept.Title())
	assert.Equal(t, f.unitID, kept.BusinessUnitID())
}

func TestGoalService_Reconcile_OccupiedQuarterConflicts(t *testing.T) {
	f := newGoalFixture(t)
	g := f.seedGoal(t, "Grow ARR", 2026, 1)
	f.seedGoal(t, "Grow ARR", 2026, 2)

	// Moving the edited row onto a quarter an existing sibling holds trips
	// the series uniqueness constraint.
	_, err := f.svc.ReconcileSeries(context.Background(), f.principalID, g.ID(), f.reconcileDTO("Grow ARR", 2026, 2))
	require.ErrorIs(t, err, goal.ErrDuplicateQuarter)
	require.ErrorIs(t, err, serrors.ErrConflict)
}

func TestGoalService_Reconcile_UnknownGoal(t *testing.T) {
	f := newGoalFixture(t)

	_, err := f.svc.ReconcileSeries(context.Background(), f.principalID, uuid.New(), f.reconcileDTO("Grow ARR", 2026, 1))
	require.ErrorIs(t, err, goal.ErrNotFound)
}

func TestGoalService_Reconcile_RejectsBadQuarter(t *testing.T) {
	f := newGoalFixture(t)
	g := f.seedGoal(t, "Grow ARR", 2026, 1)

	_, err := f.svc.ReconcileSeries(context.Background(), f.principalID, g.ID(), f.reconcileDTO("Grow ARR", 2026, 1, 5))
	require.ErrorIs(t, err, serrors.ErrValidation)
}

func TestGoalService_Delete(t *testing.T) {
	f := newGoalFixture(t)
	g := f.seedGoal(t, "Grow ARR", 2026, 1)

	require.NoError(t, f.svc.Delete(context.Background(), f.principalID, g.ID()))
	_, err := f.goals.GetByID(context.Background(), g.ID())
	require.ErrorIs(t, err, goal.ErrNotFound)
}
