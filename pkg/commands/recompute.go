package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	planningservices "github.com/northstarhq/northstar/modules/planning/services"
	"github.com/northstarhq/northstar/pkg/application"
	"github.com/northstarhq/northstar/pkg/composables"
)

// RecomputeKpis walks every KPI row and rebuilds its cached aggregate from
// the status ledger. Safe to run at any time; recompute is idempotent.
func RecomputeKpis(mods ...application.Module) error {
	app, pool, err := newApplication(mods...)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx := composables.WithPool(context.Background(), pool)

	rows, err := pool.Query(ctx, `SELECT id FROM kpis`)
	if err != nil {
		return fmt.Errorf("failed to list kpis: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan kpi id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	kpis := app.Service(planningservices.KpiService{}).(*planningservices.KpiService)
	for _, id := range ids {
		if _, err := kpis.Recompute(ctx, id); err != nil {
			return fmt.Errorf("failed to recompute kpi %s: %w", id, err)
		}
	}
	fmt.Printf("recomputed %d kpis\n", len(ids))
	return nil
}
