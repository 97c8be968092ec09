package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/northstarhq/northstar/modules/planning/domain/entities/stakeholder"
	"github.com/northstarhq/northstar/modules/planning/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/mapping"
)

const stakeholderFindQuery = `
	SELECT id, business_unit_id, team_id, member_name, member_email, reports_to, created_at, updated_at
	FROM stakeholders`

type StakeholderRepository struct{}

func NewStakeholderRepository() stakeholder.Repository {
	return &StakeholderRepository{}
}

func (r *StakeholderRepository) GetByID(ctx context.Context, id uuid.UUID) (*stakeholder.Stakeholder, error) {
	stakeholders, err := r.queryStakeholders(ctx, stakeholderFindQuery+" WHERE id = $1", mapping.UUIDToPgUUID(id))
	if err != nil {
		return nil, err
	}
	if len(stakeholders) == 0 {
		return nil, stakeholder.ErrNotFound
	}
	return stakeholders[0], nil
}

func (r *StakeholderRepository) ListByBusinessUnit(ctx context.Context, unitID uuid.UUID) ([]*stakeholder.Stakeholder, error) {
	return r.queryStakeholders(ctx, stakeholderFindQuery+" WHERE business_unit_id = $1", mapping.UUIDToPgUUID(unitID))
}

func (r *StakeholderRepository) ListByTeams(ctx context.Context, teamIDs []uuid.UUID) ([]*stakeholder.Stakeholder, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	return r.queryStakeholders(ctx, stakeholderFindQuery+" WHERE team_id = ANY($1)", mapping.UUIDsToPgUUIDs(teamIDs))
}

func (r *StakeholderRepository) Create(ctx context.Context, s *stakeholder.Stakeholder) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO stakeholders (id, business_unit_id, team_id, member_name, member_email, reports_to)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		mapping.UUIDToPgUUID(s.ID),
		mapping.UUIDToPgUUID(s.BusinessUnitID),
		mapping.UUIDToPgUUID(s.TeamID),
		s.MemberName,
		s.MemberEmail,
		mapping.PointerToPgUUID(s.ReportsTo),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create stakeholder")
	}
	return nil
}

func (r *StakeholderRepository) Update(ctx context.Context, s *stakeholder.Stakeholder) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`UPDATE stakeholders SET business_unit_id = $1, team_id = $2, member_name = $3, member_email = $4,
		 reports_to = $5, updated_at = now() WHERE id = $6`,
		mapping.UUIDToPgUUID(s.BusinessUnitID),
		mapping.UUIDToPgUUID(s.TeamID),
		s.MemberName,
		s.MemberEmail,
		mapping.PointerToPgUUID(s.ReportsTo),
		mapping.UUIDToPgUUID(s.ID),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update stakeholder")
	}
	return nil
}

func (r *StakeholderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM stakeholders WHERE id = $1`, mapping.UUIDToPgUUID(id))
	return err
}

func (r *StakeholderRepository) queryStakeholders(ctx context.Context, query string, args ...interface{}) ([]*stakeholder.Stakeholder, error) {
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

	var stakeholders []*stakeholder.Stakeholder
	for rows.Next() {
		var m models.Stakeholder
		if err := rows.Scan(
			&m.ID,
			&m.BusinessUnitID,
			&m.TeamID,
			&m.MemberName,
			&m.MemberEmail,
			&m.ReportsTo,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan stakeholder row")
		}
		stakeholders = append(stakeholders, toDomainStakeholder(&m))
	}
	return stakeholders, rows.Err()
}
