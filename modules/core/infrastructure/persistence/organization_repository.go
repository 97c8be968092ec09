package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/northstarhq/northstar/modules/core/domain/entities/organization"
	"github.com/northstarhq/northstar/modules/core/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/mapping"
)

const orgFindQuery = `SELECT id, account_id, name, parent_id, created_at, updated_at FROM organizations`

type OrganizationRepository struct{}

func NewOrganizationRepository() organization.Repository {
	return &OrganizationRepository{}
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (organization.Organization, error) {
	orgs, err := r.queryOrganizations(ctx, orgFindQuery+" WHERE id = $1", mapping.UUIDToPgUUID(id))
	if err != nil {
		return organization.Organization{}, err
	}
	if len(orgs) == 0 {
		return organization.Organization{}, organization.ErrNotFound
	}
	return orgs[0], nil
}

func (r *OrganizationRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]organization.Organization, error) {
	return r.queryOrganizations(ctx, orgFindQuery+" WHERE account_id = $1", mapping.UUIDToPgUUID(accountID))
}

func (r *OrganizationRepository) ListIDsByAccount(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, `SELECT id FROM organizations WHERE account_id = $1`, mapping.UUIDToPgUUID(accountID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list organization ids")
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan organization id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *OrganizationRepository) Create(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO organizations (id, account_id, name, parent_id) VALUES ($1, $2, $3, $4)`,
		mapping.UUIDToPgUUID(o.ID()),
		mapping.UUIDToPgUUID(o.AccountID()),
		o.Name(),
		mapping.PointerToPgUUID(o.ParentID()),
	)
	if err != nil {
		return organization.Organization{}, errors.Wrap(err, "failed to create organization")
	}
	return r.GetByID(ctx, o.ID())
}

func (r *OrganizationRepository) Update(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	_, err = tx.Exec(
		ctx,
		`UPDATE organizations SET name = $1, parent_id = $2, updated_at = now() WHERE id = $3`,
		o.Name(),
		mapping.PointerToPgUUID(o.ParentID()),
		mapping.UUIDToPgUUID(o.ID()),
	)
	if err != nil {
		return organization.Organization{}, errors.Wrap(err, "failed to update organization")
	}
	return r.GetByID(ctx, o.ID())
}

func (r *OrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, mapping.UUIDToPgUUID(id))
	return err
}

func (r *OrganizationRepository) queryOrganizations(ctx context.Context, query string, args ...interface{}) ([]organization.Organization, error) {
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

	var orgs []organization.Organization
	for rows.Next() {
		var m models.Organization
		if err := rows.Scan(
			&m.ID,
			&m.AccountID,
			&m.Name,
			&m.ParentID,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan organization row")
		}
		orgs = append(orgs, toDomainOrganization(&m))
	}
	return orgs, rows.Err()
}
