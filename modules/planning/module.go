package planning

import (
	"embed"

	coreservices "github.com/northstarhq/northstar/modules/core/services"
	"github.com/northstarhq/northstar/modules/planning/infrastructure/persistence"
	"github.com/northstarhq/northstar/modules/planning/presentation/controllers"
	"github.com/northstarhq/northstar/modules/planning/services"
	"github.com/northstarhq/northstar/pkg/application"
)

//go:embed infrastructure/persistence/schema/planning-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)

	unitRepo := persistence.NewBusinessUnitRepository()
	teamRepo := persistence.NewTeamRepository()
	stakeholderRepo := persistence.NewStakeholderRepository()
	reviewRepo := persistence.NewOpsReviewRepository()
	goalRepo := persistence.NewGoalRepository()
	kpiRepo := persistence.NewKpiRepository()

	scope := app.Service(coreservices.ScopeService{}).(*coreservices.ScopeService)
	guard := services.NewAccessGuard(scope, unitRepo, teamRepo, stakeholderRepo, reviewRepo, kpiRepo)

	app.RegisterServices(
		guard,
		services.NewBusinessUnitService(unitRepo, guard, app.EventPublisher()),
		services.NewTeamService(teamRepo, scope, guard, app.EventPublisher()),
		services.NewStakeholderService(stakeholderRepo, guard, app.EventPublisher()),
		services.NewOpsReviewService(reviewRepo, guard, app.EventPublisher()),
		services.NewGoalService(goalRepo, stakeholderRepo, guard, app.EventPublisher()),
		services.NewKpiService(kpiRepo, scope, app.EventPublisher(), app.Logger()),
	)
	app.RegisterControllers(
		controllers.NewPlanningController(app),
	)
	registerAuditSubscribers(app.EventPublisher(), app.Logger())
	return nil
}

func (m *Module) Name() string {
	return "planning"
}
