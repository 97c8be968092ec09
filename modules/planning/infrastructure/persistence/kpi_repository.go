package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/kpi"
	"github.com/northstarhq/northstar/modules/planning/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/mapping"
)

const kpiFindQuery = `
	SELECT id, organization_id, team_id, initiative, business_unit_ids, name, target,
	       actual_metric, met_target, met_target_percent, created_at, updated_at
	FROM kpis`

const kpiStatusFindQuery = `SELECT id, kpi_id, year, quarter, amount, created_at, updated_at FROM kpi_statuses`

type KpiRepository struct{}

func NewKpiRepository() kpi.Repository {
	return &KpiRepository{}
}

func (r *KpiRepository) GetByID(ctx context.Context, id uuid.UUID) (*kpi.Kpi, error) {
	kpis, err := r.queryKpis(ctx, kpiFindQuery+" WHERE id = $1", mapping.UUIDToPgUUID(id))
	if err != nil {
		return nil, err
	}
	if len(kpis) == 0 {
		return nil, kpi.ErrNotFound
	}
	return kpis[0], nil
}

func (r *KpiRepository) ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]*kpi.Kpi, error) {
	if len(orgIDs) == 0 {
		return nil, nil
	}
	return r.queryKpis(ctx, kpiFindQuery+" WHERE organization_id = ANY($1)", mapping.UUIDsToPgUUIDs(orgIDs))
}

func (r *KpiRepository) Create(ctx context.Context, k *kpi.Kpi) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO kpis (id, organization_id, team_id, initiative, business_unit_ids, name, target)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		mapping.UUIDToPgUUID(k.ID()),
		mapping.UUIDToPgUUID(k.OrganizationID()),
		mapping.PointerToPgUUID(k.TeamID()),
		k.Initiative(),
		mapping.UUIDsToPgUUIDs(k.BusinessUnitIDs()),
		k.Name(),
		mapping.PointerToSQLNullFloat64(k.Target()),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create kpi")
	}
	return nil
}

func (r *KpiRepository) Update(ctx context.Context, k *kpi.Kpi) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`UPDATE kpis SET organization_id = $1, team_id = $2, initiative = $3, business_unit_ids = $4,
		 name = $5, target = $6, updated_at = now() WHERE id = $7`,
		mapping.UUIDToPgUUID(k.OrganizationID()),
		mapping.PointerToPgUUID(k.TeamID()),
		k.Initiative(),
		mapping.UUIDsToPgUUIDs(k.BusinessUnitIDs()),
		k.Name(),
		mapping.PointerToSQLNullFloat64(k.Target()),
		mapping.UUIDToPgUUID(k.ID()),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update kpi")
	}
	return nil
}

func (r *KpiRepository) UpdateDerived(ctx context.Context, id uuid.UUID, actual float64, metTarget *bool, metTargetPercent *float64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(
		ctx,
		`UPDATE kpis SET actual_metric = $1, met_target = $2, met_target_percent = $3, updated_at = now() WHERE id = $4`,
		actual,
		mapping.PointerToSQLNullBool(metTarget),
		mapping.PointerToSQLNullFloat64(metTargetPercent),
		mapping.UUIDToPgUUID(id),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update kpi aggregate")
	}
	if tag.RowsAffected() == 0 {
		return kpi.ErrNotFound
	}
	return nil
}

func (r *KpiRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM kpis WHERE id = $1`, mapping.UUIDToPgUUID(id))
	return err
}

func (r *KpiRepository) GetStatus(ctx context.Context, statusID uuid.UUID) (*kpi.Status, error) {
	statuses, err := r.queryStatuses(ctx, kpiStatusFindQuery+" WHERE id = $1", mapping.UUIDToPgUUID(statusID))
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, kpi.ErrStatusNotFound
	}
	return statuses[0], nil
}

func (r *KpiRepository) ListStatuses(ctx context.Context, kpiID uuid.UUID) ([]*kpi.Status, error) {
	return r.queryStatuses(ctx, kpiStatusFindQuery+" WHERE kpi_id = $1 ORDER BY year, quarter", mapping.UUIDToPgUUID(kpiID))
}

func (r *KpiRepository) SumStatusAmounts(ctx context.Context, kpiID uuid.UUID) (float64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	var sum float64
	err = tx.QueryRow(
		ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM kpi_statuses WHERE kpi_id = $1`,
		mapping.UUIDToPgUUID(kpiID),
	).Scan(&sum)
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum kpi statuses")
	}
	return sum, nil
}

func (r *KpiRepository) CreateStatus(ctx context.Context, s *kpi.Status) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO kpi_statuses (id, kpi_id, year, quarter, amount) VALUES ($1, $2, $3, $4, $5)`,
		mapping.UUIDToPgUUID(s.ID),
		mapping.UUIDToPgUUID(s.KpiID),
		int32(s.Year),
		int32(s.Quarter),
		s.Amount,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create kpi status")
	}
	return nil
}

func (r *KpiRepository) UpdateStatus(ctx context.Context, s *kpi.Status) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(
		ctx,
		`UPDATE kpi_statuses SET year = $1, quarter = $2, amount = $3, updated_at = now() WHERE id = $4`,
		int32(s.Year),
		int32(s.Quarter),
		s.Amount,
		mapping.UUIDToPgUUID(s.ID),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update kpi status")
	}
	if tag.RowsAffected() == 0 {
		return kpi.ErrStatusNotFound
	}
	return nil
}

func (r *KpiRepository) DeleteStatus(ctx context.Context, statusID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM kpi_statuses WHERE id = $1`, mapping.UUIDToPgUUID(statusID))
	return err
}

func (r *KpiRepository) queryKpis(ctx context.Context, query string, args ...interface{}) ([]*kpi.Kpi, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var kpis []*kpi.Kpi
	for rows.Next() {
		var m models.Kpi
		if err := rows.Scan(
			&m.ID,
			&m.OrganizationID,
			&m.TeamID,
			&m.Initiative,
			&m.BusinessUnitIDs,
			&m.Name,
			&m.Target,
			&m.ActualMetric,
			&m.MetTarget,
			&m.MetTargetPercent,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan kpi row")
		}
		kpis = append(kpis, toDomainKpi(&m))
	}
	return kpis, rows.Err()
}

func (r *KpiRepository) queryStatuses(ctx context.Context, query string, args ...interface{}) ([]*kpi.Status, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var statuses []*kpi.Status
	for rows.Next() {
		var m models.KpiStatus
		if err := rows.Scan(
			&m.ID,
			&m.KpiID,
			&m.Year,
			&m.Quarter,
			&m.Amount,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan kpi status row")
		}
		statuses = append(statuses, toDomainKpiStatus(&m))
	}
	return statuses, rows.Err()
}
