package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	coreservices "github.com/northstarhq/northstar/modules/core/services"
	planningservices "github.com/northstarhq/northstar/modules/planning/services"
	"github.com/northstarhq/northstar/pkg/application"
	"github.com/northstarhq/northstar/pkg/composables"
)

// SeedDatabase provisions a demo tenant end to end: a principal with a known
// password, its account and organization, one business unit linked through a
// team, and a KPI with an initial ledger row.
func SeedDatabase(mods ...application.Module) error {
	app, pool, err := newApplication(mods...)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx := composables.WithPool(context.Background(), pool)
	if err := app.Migrations().Apply(ctx, pool); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	users := app.Service(coreservices.UserService{}).(*coreservices.UserService)
	accounts := app.Service(coreservices.AccountService{}).(*coreservices.AccountService)
	orgs := app.Service(coreservices.OrganizationService{}).(*coreservices.OrganizationService)
	units := app.Service(planningservices.BusinessUnitService{}).(*planningservices.BusinessUnitService)
	teams := app.Service(planningservices.TeamService{}).(*planningservices.TeamService)
	kpis := app.Service(planningservices.KpiService{}).(*planningservices.KpiService)

	principal, err := users.Register(ctx, "demo@northstar.local", "+10000000000", "DemoPass123!")
	if err != nil {
		return fmt.Errorf("failed to seed principal: %w", err)
	}
	account, err := accounts.Create(ctx, principal.ID(), "Demo Account")
	if err != nil {
		return fmt.Errorf("failed to seed account: %w", err)
	}
	org, err := orgs.Create(ctx, account.ID(), "Demo Organization", nil)
	if err != nil {
		return fmt.Errorf("failed to seed organization: %w", err)
	}

	unit, err := units.Create(ctx, principal.ID(), "Growth", "Demo business unit")
	if err != nil {
		return fmt.Errorf("failed to seed business unit: %w", err)
	}
	unitID := unit.ID
	if _, err := teams.Create(ctx, principal.ID(), org.ID(), "Growth Team", &unitID); err != nil {
		return fmt.Errorf("failed to seed team: %w", err)
	}

	target := 100.0
	k, err := kpis.Create(ctx, principal.ID(), &planningservices.KpiCreateDTO{
		OrganizationID:  org.ID(),
		BusinessUnitIDs: []uuid.UUID{unitID},
		Name:            "Monthly Active Users",
		Target:          &target,
	})
	if err != nil {
		return fmt.Errorf("failed to seed kpi: %w", err)
	}
	if _, err := kpis.AddStatus(ctx, principal.ID(), k.ID(), 2026, 1, 42); err != nil {
		return fmt.Errorf("failed to seed kpi status: %w", err)
	}

	fmt.Printf("seeded demo tenant: principal=%s account=%s organization=%s\n", principal.ID(), account.ID(), org.ID())
	return nil
}
