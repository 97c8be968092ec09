package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/northstarhq/northstar/modules/planning/domain/entities/team"
	"github.com/northstarhq/northstar/modules/planning/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/mapping"
)

const teamFindQuery = `SELECT id, organization_id, name, business_unit_id, created_at, updated_at FROM teams`

type TeamRepository struct{}

func NewTeamRepository() team.Repository {
	return &TeamRepository{}
}

func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	teams, err := r.queryTeams(ctx, teamFindQuery+" WHERE id = $1", mapping.UUIDToPgUUID(id))
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, team.ErrNotFound
	}
	return teams[0], nil
}

func (r *TeamRepository) ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]*team.Team, error) {
	if len(orgIDs) == 0 {
		return nil, nil
	}
	return r.queryTeams(ctx, teamFindQuery+" WHERE organization_id = ANY($1)", mapping.UUIDsToPgUUIDs(orgIDs))
}

func (r *TeamRepository) ListByBusinessUnit(ctx context.Context, unitID uuid.UUID) ([]*team.Team, error) {
	return r.queryTeams(ctx, teamFindQuery+" WHERE business_unit_id = $1", mapping.UUIDToPgUUID(unitID))
}

func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO teams (id, organization_id, name, business_unit_id) VALUES ($1, $2, $3, $4)`,
		mapping.UUIDToPgUUID(t.ID),
		mapping.UUIDToPgUUID(t.OrganizationID),
		t.Name,
		mapping.PointerToPgUUID(t.BusinessUnitID),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create team")
	}
	return nil
}

func (r *TeamRepository) Update(ctx context.Context, t *team.Team) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`UPDATE teams SET name = $1, business_unit_id = $2, updated_at = now() WHERE id = $3`,
		t.Name,
		mapping.PointerToPgUUID(t.BusinessUnitID),
		mapping.UUIDToPgUUID(t.ID),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update team")
	}
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, mapping.UUIDToPgUUID(id))
	return err
}

func (r *TeamRepository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]*team.Team, error) {
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

	var teams []*team.Team
	for rows.Next() {
		var m models.Team
		if err := rows.Scan(
			&m.ID,
			&m.OrganizationID,
			&m.Name,
			&m.BusinessUnitID,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan team row")
		}
		teams = append(teams, toDomainTeam(&m))
	}
	return teams, rows.Err()
}
