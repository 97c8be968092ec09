package services

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/goal"
	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/kpi"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/businessunit"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/opsreview"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/stakeholder"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/team"
)

func TestMain(m *testing.M) {
	inTxFn = func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	}
	os.Exit(m.Run())
}

// stubScope maps principal ids to fixed organization scopes.
type stubScope struct {
	orgs map[uuid.UUID][]uuid.UUID
	err  error
}

func newStubScope() *stubScope {
	return &stubScope{orgs: map[uuid.UUID][]uuid.UUID{}}
}

func (s *stubScope) grant(principalID uuid.UUID, orgIDs ...uuid.UUID) {
	s.orgs[principalID] = orgIDs
}

func (s *stubScope) ResolveOrgIDs(_ context.Context, principalID uuid.UUID) ([]uuid.UUID, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.orgs[principalID], nil
}

type recordingBus struct {
	events []interface{}
}

func (b *recordingBus) Publish(args ...interface{}) { b.events = append(b.events, args...) }
func (b *recordingBus) Subscribe(interface{})       {}
func (b *recordingBus) Unsubscribe(interface{})     {}
func (b *recordingBus) Clear()                      { b.events = nil }
func (b *recordingBus) SubscribersCount() int       { return 0 }

type mockUnitRepo struct {
	units map[uuid.UUID]*businessunit.BusinessUnit
}

func newMockUnitRepo() *mockUnitRepo {
	return &mockUnitRepo{units: map[uuid.UUID]*businessunit.BusinessUnit{}}
}

func (m *mockUnitRepo) GetByID(_ context.Context, id uuid.UUID) (*businessunit.BusinessUnit, error) {
	u, ok := m.units[id]
	if !ok {
		return nil, businessunit.ErrNotFound
	}
	return u, nil
}

func (m *mockUnitRepo) List(_ context.Context) ([]*businessunit.BusinessUnit, error) {
	var out []*businessunit.BusinessUnit
	for _, u := range m.units {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUnitRepo) Create(_ context.Context, unit *businessunit.BusinessUnit) error {
	m.units[unit.ID] = unit
	return nil
}

func (m *mockUnitRepo) Update(_ context.Context, unit *businessunit.BusinessUnit) error {
	if _, ok := m.units[unit.ID]; !ok {
		return businessunit.ErrNotFound
	}
	m.units[unit.ID] = unit
	return nil
}

func (m *mockUnitRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.units, id)
	return nil
}

type mockTeamRepo struct {
	teams map[uuid.UUID]*team.Team
}

func newMockTeamRepo() *mockTeamRepo {
	return &mockTeamRepo{teams: map[uuid.UUID]*team.Team{}}
}

func (m *mockTeamRepo) GetByID(_ context.Context, id uuid.UUID) (*team.Team, error) {
	t, ok := m.teams[id]
	if !ok {
		return nil, team.ErrNotFound
	}
	return t, nil
}

func (m *mockTeamRepo) ListByOrganizations(_ context.Context, orgIDs []uuid.UUID) ([]*team.Team, error) {
	set := idSet(orgIDs)
	var out []*team.Team
	for _, t := range m.teams {
		if set[t.OrganizationID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTeamRepo) ListByBusinessUnit(_ context.Context, unitID uuid.UUID) ([]*team.Team, error) {
	var out []*team.Team
	for _, t := range m.teams {
		if t.BusinessUnitID != nil && *t.BusinessUnitID == unitID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTeamRepo) Create(_ context.Context, t *team.Team) error {
	m.teams[t.ID] = t
	return nil
}

func (m *mockTeamRepo) Update(_ context.Context, t *team.Team) error {
	if _, ok := m.teams[t.ID]; !ok {
		return team.ErrNotFound
	}
	m.teams[t.ID] = t
	return nil
}

func (m *mockTeamRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.teams, id)
	return nil
}

type mockStakeholderRepo struct {
	stakeholders map[uuid.UUID]*stakeholder.Stakeholder
}

func newMockStakeholderRepo() *mockStakeholderRepo {
	return &mockStakeholderRepo{stakeholders: map[uuid.UUID]*stakeholder.Stakeholder{}}
}

func (m *mockStakeholderRepo) GetByID(_ context.Context, id uuid.UUID) (*stakeholder.Stakeholder, error) {
	s, ok := m.stakeholders[id]
	if !ok {
		return nil, stakeholder.ErrNotFound
	}
	return s, nil
}

func (m *mockStakeholderRepo) ListByBusinessUnit(_ context.Context, unitID uuid.UUID) ([]*stakeholder.Stakeholder, error) {
	var out []*stakeholder.Stakeholder
	for _, s := range m.stakeholders {
		if s.BusinessUnitID == unitID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStakeholderRepo) ListByTeams(_ context.Context, teamIDs []uuid.UUID) ([]*stakeholder.Stakeholder, error) {
	set := idSet(teamIDs)
	var out []*stakeholder.Stakeholder
	for _, s := range m.stakeholders {
		if set[s.TeamID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStakeholderRepo) Create(_ context.Context, s *stakeholder.Stakeholder) error {
	m.stakeholders[s.ID] = s
	return nil
}

func (m *mockStakeholderRepo) Update(_ context.Context, s *stakeholder.Stakeholder) error {
	if _, ok := m.stakeholders[s.ID]; !ok {
		return stakeholder.ErrNotFound
	}
	m.stakeholders[s.ID] = s
	return nil
}

func (m *mockStakeholderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.stakeholders, id)
	return nil
}

type mockReviewRepo struct {
	reviews map[uuid.UUID]*opsreview.OpsReview
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: map[uuid.UUID]*opsreview.OpsReview{}}
}

func (m *mockReviewRepo) GetByID(_ context.Context, id uuid.UUID) (*opsreview.OpsReview, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, opsreview.ErrNotFound
	}
	return r, nil
}

func (m *mockReviewRepo) ListByTeam(_ context.Context, teamID uuid.UUID) ([]*opsreview.OpsReview, error) {
	var out []*opsreview.OpsReview
	for _, r := range m.reviews {
		if r.TeamID == teamID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) Create(_ context.Context, r *opsreview.OpsReview) error {
	m.reviews[r.ID] = r
	return nil
}

func (m *mockReviewRepo) Update(_ context.Context, r *opsreview.OpsReview) error {
	if _, ok := m.reviews[r.ID]; !ok {
		return opsreview.ErrNotFound
	}
	m.reviews[r.ID] = r
	return nil
}

func (m *mockReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.reviews, id)
	return nil
}

type mockGoalRepo struct {
	goals map[uuid.UUID]*goal.Goal
}

func newMockGoalRepo() *mockGoalRepo {
	return &mockGoalRepo{goals: map[uuid.UUID]*goal.Goal{}}
}

func (m *mockGoalRepo) GetByID(_ context.Context, id uuid.UUID) (*goal.Goal, error) {
	g, ok := m.goals[id]
	if !ok {
		return nil, goal.ErrNotFound
	}
	return g, nil
}

func (m *mockGoalRepo) ListBySeries(_ context.Context, businessUnitID uuid.UUID, title string, year int) ([]*goal.Goal, error) {
	var out []*goal.Goal
	for _, g := range m.goals {
		if g.BusinessUnitID() == businessUnitID && g.Title() == title && g.Year() == year {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockGoalRepo) ExistsInSeries(_ context.Context, businessUnitID uuid.UUID, title string, year, quarter int) (bool, error) {
	for _, g := range m.goals {
		if g.BusinessUnitID() == businessUnitID && g.Title() == title && g.Year() == year && g.Quarter() == quarter {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGoalRepo) ListByBusinessUnit(_ context.Context, unitID uuid.UUID) ([]*goal.Goal, error) {
	var out []*goal.Goal
	for _, g := range m.goals {
		if g.BusinessUnitID() == unitID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockGoalRepo) Create(_ context.Context, g *goal.Goal) error {
	for _, existing := range m.goals {
		if existing.BusinessUnitID() == g.BusinessUnitID() &&
			existing.Title() == g.Title() &&
			existing.Year() == g.Year() &&
			existing.Quarter() == g.Quarter() {
			return goal.ErrDuplicateQuarter
		}
	}
	m.goals[g.ID()] = g
	return nil
}

func (m *mockGoalRepo) Update(_ context.Context, g *goal.Goal) error {
	if _, ok := m.goals[g.ID()]; !ok {
		return goal.ErrNotFound
	}
	for _, existing := range m.goals {
		if existing.ID() != g.ID() &&
			existing.BusinessUnitID() == g.BusinessUnitID() &&
			existing.Title() == g.Title() &&
			existing.Year() == g.Year() &&
			existing.Quarter() == g.Quarter() {
			return goal.ErrDuplicateQuarter
		}
	}
	m.goals[g.ID()] = g
	return nil
}

func (m *mockGoalRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.goals, id)
	return nil
}

type mockKpiRepo struct {
	kpis     map[uuid.UUID]*kpi.Kpi
	statuses map[uuid.UUID]*kpi.Status
}

func newMockKpiRepo() *mockKpiRepo {
	return &mockKpiRepo{
		kpis:     map[uuid.UUID]*kpi.Kpi{},
		statuses: map[uuid.UUID]*kpi.Status{},
	}
}

func (m *mockKpiRepo) GetByID(_ context.Context, id uuid.UUID) (*kpi.Kpi, error) {
	k, ok := m.kpis[id]
	if !ok {
		return nil, kpi.ErrNotFound
	}
	return k, nil
}

func (m *mockKpiRepo) ListByOrganizations(_ context.Context, orgIDs []uuid.UUID) ([]*kpi.Kpi, error) {
	set := idSet(orgIDs)
	var out []*kpi.Kpi
	for _, k := range m.kpis {
		if set[k.OrganizationID()] {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *mockKpiRepo) Create(_ context.Context, k *kpi.Kpi) error {
	m.kpis[k.ID()] = k
	return nil
}

func (m *mockKpiRepo) Update(_ context.Context, k *kpi.Kpi) error {
	if _, ok := m.kpis[k.ID()]; !ok {
		return kpi.ErrNotFound
	}
	m.kpis[k.ID()] = k
	return nil
}

func (m *mockKpiRepo) UpdateDerived(_ context.Context, id uuid.UUID, actual float64, metTarget *bool, metTargetPercent *float64) error {
	k, ok := m.kpis[id]
	if !ok {
		return kpi.ErrNotFound
	}
	m.kpis[id] = kpi.Hydrate(
		k.ID(), k.OrganizationID(), k.TeamID(), k.Initiative(), k.BusinessUnitIDs(),
		k.Name(), k.Target(), actual, metTarget, metTargetPercent,
		k.CreatedAt(), k.UpdatedAt(),
	)
	return nil
}

func (m *mockKpiRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.kpis, id)
	for sid, s := range m.statuses {
		if s.KpiID == id {
			delete(m.statuses, sid)
		}
	}
	return nil
}

func (m *mockKpiRepo) GetStatus(_ context.Context, statusID uuid.UUID) (*kpi.Status, error) {
	s, ok := m.statuses[statusID]
	if !ok {
		return nil, kpi.ErrStatusNotFound
	}
	return s, nil
}

func (m *mockKpiRepo) ListStatuses(_ context.Context, kpiID uuid.UUID) ([]*kpi.Status, error) {
	var out []*kpi.Status
	for _, s := range m.statuses {
		if s.KpiID == kpiID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockKpiRepo) SumStatusAmounts(_ context.Context, kpiID uuid.UUID) (float64, error) {
	var sum float64
	for _, s := range m.statuses {
		if s.KpiID == kpiID {
			sum += s.Amount
		}
	}
	return sum, nil
}

func (m *mockKpiRepo) CreateStatus(_ context.Context, s *kpi.Status) error {
	m.statuses[s.ID] = s
	return nil
}

func (m *mockKpiRepo) UpdateStatus(_ context.Context, s *kpi.Status) error {
	if _, ok := m.statuses[s.ID]; !ok {
		return kpi.ErrStatusNotFound
	}
	m.statuses[s.ID] = s
	return nil
}

func (m *mockKpiRepo) DeleteStatus(_ context.Context, statusID uuid.UUID) error {
	delete(m.statuses, statusID)
	return nil
}
