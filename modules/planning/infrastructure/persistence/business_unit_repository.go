package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/northstarhq/northstar/modules/planning/domain/entities/businessunit"
	"github.com/northstarhq/northstar/modules/planning/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/mapping"
)

const businessUnitFindQuery = `SELECT id, name, description, created_at, updated_at FROM business_units`

type BusinessUnitRepository struct{}

func NewBusinessUnitRepository() businessunit.Repository {
	return &BusinessUnitRepository{}
}

func (r *BusinessUnitRepository) GetByID(ctx context.Context, id uuid.UUID) (*businessunit.BusinessUnit, error) {
	units, err := r.queryUnits(ctx, businessUnitFindQuery+" WHERE id = $1", mapping.UUIDToPgUUID(id))
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, businessunit.ErrNotFound
	}
	return units[0], nil
}

func (r *BusinessUnitRepository) List(ctx context.Context) ([]*businessunit.BusinessUnit, error) {
	return r.queryUnits(ctx, businessUnitFindQuery+" ORDER BY name")
}

func (r *BusinessUnitRepository) Create(ctx context.Context, unit *businessunit.BusinessUnit) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO business_units (id, name, description) VALUES ($1, $2, $3)`,
		mapping.UUIDToPgUUID(unit.ID),
		unit.Name,
		unit.Description,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create business unit")
	}
	return nil
}

func (r *BusinessUnitRepository) Update(ctx context.Context, unit *businessunit.BusinessUnit) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`UPDATE business_units SET name = $1, description = $2, updated_at = now() WHERE id = $3`,
		unit.Name,
		unit.Description,
		mapping.UUIDToPgUUID(unit.ID),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update business unit")
	}
	return nil
}

func (r *BusinessUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM business_units WHERE id = $1`, mapping.UUIDToPgUUID(id))
	return err
}

func (r *BusinessUnitRepository) queryUnits(ctx context.Context, query string, args ...interface{}) ([]*businessunit.BusinessUnit, error) {
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

	var units []*businessunit.BusinessUnit
	for rows.Next() {
		var m models.BusinessUnit
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Description,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan business unit row")
		}
		units = append(units, toDomainBusinessUnit(&m))
	}
	return units, rows.Err()
}
