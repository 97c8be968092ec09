package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/goal"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/opsreview"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/stakeholder"
	"github.com/northstarhq/northstar/modules/planning/services"
	"github.com/northstarhq/northstar/pkg/application"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/httpapi"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type PlanningController struct {
	app          application.Application
	units        *services.BusinessUnitService
	teams        *services.TeamService
	stakeholders *services.StakeholderService
	reviews      *services.OpsReviewService
	goals        *services.GoalService
	kpis         *services.KpiService
	basePath     string
}

func NewPlanningController(app application.Application) application.Controller {
	return &PlanningController{
		app:          app,
		units:        app.Service(services.BusinessUnitService{}).(*services.BusinessUnitService),
		teams:        app.Service(services.TeamService{}).(*services.TeamService),
		stakeholders: app.Service(services.StakeholderService{}).(*services.StakeholderService),
		reviews:      app.Service(services.OpsReviewService{}).(*services.OpsReviewService),
		goals:        app.Service(services.GoalService{}).(*services.GoalService),
		kpis:         app.Service(services.KpiService{}).(*services.KpiService),
		basePath:     "/planning/api",
	}
}

func (c *PlanningController) Key() string {
	return c.basePath
}

func (c *PlanningController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.HandleFunc("/units", c.listUnits).Methods(http.MethodGet)
	router.HandleFunc("/units", c.createUnit).Methods(http.MethodPost)
	router.HandleFunc("/units/{id}", c.getUnit).Methods(http.MethodGet)
	router.HandleFunc("/units/{id}", c.updateUnit).Methods(http.MethodPut)
	router.HandleFunc("/units/{id}", c.deleteUnit).Methods(http.MethodDelete)
	router.HandleFunc("/units/{id}/goals", c.listUnitGoals).Methods(http.MethodGet)
	router.HandleFunc("/units/{id}/stakeholders", c.listUnitStakeholders).Methods(http.MethodGet)

	router.HandleFunc("/teams", c.listTeams).Methods(http.MethodGet)
	router.HandleFunc("/teams", c.createTeam).Methods(http.MethodPost)
	router.HandleFunc("/teams/{id}", c.getTeam).Methods(http.MethodGet)
	router.HandleFunc("/teams/{id}", c.updateTeam).Methods(http.MethodPut)
	router.HandleFunc("/teams/{id}", c.deleteTeam).Methods(http.MethodDelete)
	router.HandleFunc("/teams/{id}/reviews", c.listTeamReviews).Methods(http.MethodGet)

	router.HandleFunc("/stakeholders", c.createStakeholder).Methods(http.MethodPost)
	router.HandleFunc("/stakeholders/{id}", c.deleteStakeholder).Methods(http.MethodDelete)

	router.HandleFunc("/reviews", c.createReview).Methods(http.MethodPost)
	router.HandleFunc("/reviews/{id}", c.getReview).Methods(http.MethodGet)
	router.HandleFunc("/reviews/{id}", c.deleteReview).Methods(http.MethodDelete)

	router.HandleFunc("/goals", c.createGoal).Methods(http.MethodPost)
	router.HandleFunc("/goals/{id}", c.getGoal).Methods(http.MethodGet)
	router.HandleFunc("/goals/{id}", c.reconcileGoal).Methods(http.MethodPut)
	router.HandleFunc("/goals/{id}", c.deleteGoal).Methods(http.MethodDelete)

	router.HandleFunc("/kpis", c.listKpis).Methods(http.MethodGet)
	router.HandleFunc("/kpis", c.createKpi).Methods(http.MethodPost)
	router.HandleFunc("/kpis/{id}", c.getKpi).Methods(http.MethodGet)
	router.HandleFunc("/kpis/{id}/target", c.setKpiTarget).Methods(http.MethodPut)
	router.HandleFunc("/kpis/{id}/statuses", c.listKpiStatuses).Methods(http.MethodGet)
	router.HandleFunc("/kpis/{id}/statuses", c.addKpiStatus).Methods(http.MethodPost)
	router.HandleFunc("/kpi-statuses/{id}", c.updateKpiStatus).Methods(http.MethodPut)
	router.HandleFunc("/kpi-statuses/{id}", c.deleteKpiStatus).Methods(http.MethodDelete)
}

func (c *PlanningController) principal(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	principalID, err := composables.UsePrincipalID(r.Context())
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.ErrUnauthenticated)
		return uuid.Nil, false
	}
	return principalID, true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid request body"))
		return false
	}
	return true
}

// --- business units ---

type unitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *PlanningController) listUnits(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	units, err := c.units.List(r.Context(), principalID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	out := make([]unitResponse, 0, len(units))
	for _, unit := range units {
		out = append(out, toUnitResponse(unit))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *PlanningController) createUnit(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	var req unitRequest
	if !decode(w, r, &req) {
		return
	}
	unit, err := c.units.Create(r.Context(), principalID, req.Name, req.Description)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toUnitResponse(unit))
}

func (c *PlanningController) getUnit(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	unit, err := c.units.Get(r.Context(), principalID, id)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toUnitResponse(unit))
}

func (c *PlanningController) updateUnit(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req unitRequest
	if !decode(w, r, &req) {
		return
	}
	unit, err := c.units.Update(r.Context(), principalID, id, req.Name, req.Description)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toUnitResponse(unit))
}

func (c *PlanningController) deleteUnit(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.units.Delete(r.Context(), principalID, id); err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *PlanningController) listUnitGoals(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	goals, err := c.goals.ListByBusinessUnit(r.Context(), principalID, id)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *PlanningController) listUnitStakeholders(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	stakeholders, err := c.stakeholders.ListByBusinessUnit(r.Context(), principalID, id)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, stakeholders)
}

// --- teams ---

type teamRequest struct {
	OrganizationID string  `json:"organizationId"`
	Name           string  `json:"name"`
	BusinessUnitID *string `json:"businessUnitId"`
}

func (c *PlanningController) listTeams(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	teams, err := c.teams.List(r.Context(), principalID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, teams)
}

func (c *PlanningController) createTeam(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	var req teamRequest
	if !decode(w, r, &req) {
		return
	}
	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid organization id"))
		return
	}
	unitID, err := parseOptionalUUID(req.BusinessUnitID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid business unit id"))
		return
	}
	t, err := c.teams.Create(r.Context(), principalID, orgID, req.Name, unitID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, t)
}

func (c *PlanningController) getTeam(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := c.teams.Get(r.Context(), principalID, id)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, t)
}

func (c *PlanningController) updateTeam(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req teamRequest
	if !decode(w, r, &req) {
		return
	}
	unitID, err := parseOptionalUUID(req.BusinessUnitID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid business unit id"))
		return
	}
	t, err := c.teams.Update(r.Context(), principalID, id, req.Name, unitID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, t)
}

func (c *PlanningController) deleteTeam(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.teams.Delete(r.Context(), principalID, id); err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *PlanningController) listTeamReviews(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	reviews, err := c.reviews.ListByTeam(r.Context(), principalID, id)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, reviews)
}

// --- stakeholders ---

type stakeholderRequest struct {
	BusinessUnitID string  `json:"businessUnitId"`
	TeamID         string  `json:"teamId"`
	MemberName     string  `json:"memberName"`
	MemberEmail    string  `json:"memberEmail"`
	ReportsTo      *string `json:"reportsTo"`
}

func (c *PlanningController) createStakeholder(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	var req stakeholderRequest
	if !decode(w, r, &req) {
		return
	}
	unitID, err := uuid.Parse(req.BusinessUnitID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid business unit id"))
		return
	}
	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid team id"))
		return
	}
	reportsTo, err := parseOptionalUUID(req.ReportsTo)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid reports-to id"))
		return
	}
	sh, err := c.stakeholders.Create(r.Context(), principalID, &stakeholder.Stakeholder{
		BusinessUnitID: unitID,
		TeamID:         teamID,
		MemberName:     req.MemberName,
		MemberEmail:    req.MemberEmail,
		ReportsTo:      reportsTo,
	})
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, sh)
}

func (c *PlanningController) deleteStakeholder(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.stakeholders.Delete(r.Context(), principalID, id); err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- ops reviews ---

type reviewRequest struct {
	TeamID  string `json:"teamId"`
	Title   string `json:"title"`
	Cadence string `json:"cadence"`
	Notes   string `json:"notes"`
}

func (c *PlanningController) createReview(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if !decode(w, r, &req) {
		return
	}
	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid team id"))
		return
	}
	review, err := c.reviews.Create(r.Context(), principalID, &opsreview.OpsReview{
		TeamID:  teamID,
		Title:   req.Title,
		Cadence: req.Cadence,
		Notes:   req.Notes,
	})
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, review)
}

func (c *PlanningController) getReview(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	review, err := c.reviews.Get(r.Context(), principalID, id)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, review)
}

func (c *PlanningController) deleteReview(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.reviews.Delete(r.Context(), principalID, id); err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- goals ---

type goalCreateRequest struct {
	BusinessUnitID string  `json:"businessUnitId"`
	StakeholderID  *string `json:"stakeholderId"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	ProgressNotes  string  `json:"progressNotes"`
	Year           int     `json:"year"`
	Quarter        int     `json:"quarter"`
}

type goalReconcileRequest struct {
	BusinessUnitID string  `json:"businessUnitId"`
	StakeholderID  *string `json:"stakeholderId"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	ProgressNotes  string  `json:"progressNotes"`
	Year           int     `json:"year"`
	Quarters       []int   `json:"quarters"`
}

func (c *PlanningController) createGoal(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	var req goalCreateRequest
	if !decode(w, r, &req) {
		return
	}
	unitID, err := uuid.Parse(req.BusinessUnitID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid business unit id"))
		return
	}
	stakeholderID, err := parseOptionalUUID(req.StakeholderID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid stakeholder id"))
		return
	}
	g, err := c.goals.Create(r.Context(), principalID, &goal.CreateDTO{
		BusinessUnitID: unitID,
		StakeholderID:  stakeholderID,
		Title:          req.Title,
		Description:    req.Description,
		ProgressNotes:  req.ProgressNotes,
		Year:           req.Year,
		Quarter:        req.Quarter,
	})
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toGoalResponse(g))
}

func (c *PlanningController) getGoal(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	g, err := c.goals.Get(r.Context(), principalID, id)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toGoalResponse(g))
}

func (c *PlanningController) reconcileGoal(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req goalReconcileRequest
	if !decode(w, r, &req) {
		return
	}
	unitID, err := uuid.Parse(req.BusinessUnitID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid business unit id"))
		return
	}
	stakeholderID, err := parseOptionalUUID(req.StakeholderID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid stakeholder id"))
		return
	}
	result, err := c.goals.ReconcileSeries(r.Context(), principalID, id, &goal.ReconcileDTO{
		BusinessUnitID: unitID,
		StakeholderID:  stakeholderID,
		Title:          req.Title,
		Description:    req.Description,
		ProgressNotes:  req.ProgressNotes,
		Year:           req.Year,
		Quarters:       req.Quarters,
	})
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}

	created := make([]goalResponse, 0, len(result.Created))
	for _, g := range result.Created {
		created = append(created, toGoalResponse(g))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"updated":      toGoalResponse(result.Updated),
		"created":      created,
		"deletedCount": result.DeletedCount,
	})
}

func (c *PlanningController) deleteGoal(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.goals.Delete(r.Context(), principalID, id); err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- kpis ---

type kpiCreateRequest struct {
	OrganizationID  string   `json:"organizationId"`
	TeamID          *string  `json:"teamId"`
	Initiative      string   `json:"initiative"`
	BusinessUnitIDs []string `json:"businessUnitIds"`
	Name            string   `json:"name"`
	Target          *float64 `json:"target"`
}

type kpiStatusRequest struct {
	Year    int     `json:"year"`
	Quarter int     `json:"quarter"`
	Amount  float64 `json:"amount"`
}

func (c *PlanningController) listKpis(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	kpis, err := c.kpis.List(r.Context(), principalID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	out := make([]kpiResponse, 0, len(kpis))
	for _, k := range kpis {
		out = append(out, toKpiResponse(k))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *PlanningController) createKpi(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	var req kpiCreateRequest
	if !decode(w, r, &req) {
		return
	}
	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid organization id"))
		return
	}
	teamID, err := parseOptionalUUID(req.TeamID)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid team id"))
		return
	}
	unitIDs := make([]uuid.UUID, 0, len(req.BusinessUnitIDs))
	for _, raw := range req.BusinessUnitIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			_ = httpapi.WriteTaxonomyError(w, serrors.Validation("invalid business unit id"))
			return
		}
		unitIDs = append(unitIDs, id)
	}
	k, err := c.kpis.Create(r.Context(), principalID, &services.KpiCreateDTO{
		OrganizationID:  orgID,
		TeamID:          teamID,
		Initiative:      req.Initiative,
		BusinessUnitIDs: unitIDs,
		Name:            req.Name,
		Target:          req.Target,
	})
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toKpiResponse(k))
}

func (c *PlanningController) getKpi(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	k, err := c.kpis.Get(r.Context(), principalID, id)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toKpiResponse(k))
}

func (c *PlanningController) setKpiTarget(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Target *float64 `json:"target"`
	}
	if !decode(w, r, &req) {
		return
	}
	k, err := c.kpis.SetTarget(r.Context(), principalID, id, req.Target)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toKpiResponse(k))
}

func (c *PlanningController) listKpiStatuses(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	statuses, err := c.kpis.ListStatuses(r.Context(), principalID, id)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, statuses)
}

func (c *PlanningController) addKpiStatus(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req kpiStatusRequest
	if !decode(w, r, &req) {
		return
	}
	status, err := c.kpis.AddStatus(r.Context(), principalID, id, req.Year, req.Quarter, req.Amount)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, status)
}

func (c *PlanningController) updateKpiStatus(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req kpiStatusRequest
	if !decode(w, r, &req) {
		return
	}
	status, err := c.kpis.UpdateStatus(r.Context(), principalID, id, req.Year, req.Quarter, req.Amount)
	if err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, status)
}

func (c *PlanningController) deleteKpiStatus(w http.ResponseWriter, r *http.Request) {
	principalID, ok := c.principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.kpis.DeleteStatus(r.Context(), principalID, id); err != nil {
		_ = httpapi.WriteTaxonomyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
