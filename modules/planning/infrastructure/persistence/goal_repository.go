package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/goal"
	"github.com/northstarhq/northstar/modules/planning/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/mapping"
)

const goalFindQuery = `
	SELECT id, business_unit_id, stakeholder_id, title, description, progress_notes, year, quarter, created_at, updated_at
	FROM goals`

type GoalRepository struct{}

func NewGoalRepository() goal.Repository {
	return &GoalRepository{}
}

func (r *GoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	goals, err := r.queryGoals(ctx, goalFindQuery+" WHERE id = $1", mapping.UUIDToPgUUID(id))
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, goal.ErrNotFound
	}
	return goals[0], nil
}

func (r *GoalRepository) ListBySeries(ctx context.Context, businessUnitID uuid.UUID, title string, year int) ([]*goal.Goal, error) {
	return r.queryGoals(
		ctx,
		goalFindQuery+" WHERE business_unit_id = $1 AND title = $2 AND year = $3",
		mapping.UUIDToPgUUID(businessUnitID),
		title,
		int32(year),
	)
}

func (r *GoalRepository) ExistsInSeries(ctx context.Context, businessUnitID uuid.UUID, title string, year int, quarter int) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to get transaction")
	}

	var exists bool
	err = tx.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM goals WHERE business_unit_id = $1 AND title = $2 AND year = $3 AND quarter = $4)`,
		mapping.UUIDToPgUUID(businessUnitID),
		title,
		int32(year),
		int32(quarter),
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check series quarter")
	}
	return exists, nil
}

func (r *GoalRepository) ListByBusinessUnit(ctx context.Context, unitID uuid.UUID) ([]*goal.Goal, error) {
	return r.queryGoals(
		ctx,
		goalFindQuery+" WHERE business_unit_id = $1 ORDER BY year, quarter",
		mapping.UUIDToPgUUID(unitID),
	)
}

func (r *GoalRepository) Create(ctx context.Context, g *goal.Goal) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO goals (id, business_unit_id, stakeholder_id, title, description, progress_notes, year, quarter)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		mapping.UUIDToPgUUID(g.ID()),
		mapping.UUIDToPgUUID(g.BusinessUnitID()),
		mapping.PointerToPgUUID(g.StakeholderID()),
		g.Title(),
		g.Description(),
		g.ProgressNotes(),
		int32(g.Year()),
		int32(g.Quarter()),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
			return goal.ErrDuplicateQuarter
		}
		return errors.Wrap(err, "failed to create goal")
	}
	return nil
}

func (r *GoalRepository) Update(ctx context.Context, g *goal.Goal) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`UPDATE goals SET business_unit_id = $1, stakeholder_id = $2, title = $3, description = $4,
		 progress_notes = $5, year = $6, quarter = $7, updated_at = now() WHERE id = $8`,
		mapping.UUIDToPgUUID(g.BusinessUnitID()),
		mapping.PointerToPgUUID(g.StakeholderID()),
		g.Title(),
		g.Description(),
		g.ProgressNotes(),
		int32(g.Year()),
		int32(g.Quarter()),
		mapping.UUIDToPgUUID(g.ID()),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
			return goal.ErrDuplicateQuarter
		}
		return errors.Wrap(err, "failed to update goal")
	}
	return nil
}

func (r *GoalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM goals WHERE id = $1`, mapping.UUIDToPgUUID(id))
	return err
}

func (r *GoalRepository) queryGoals(ctx context.Context, query string, args ...interface{}) ([]*goal.Goal, error) {
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

	var goals []*goal.Goal
	for rows.Next() {
		var m models.Goal
		if err := rows.Scan(
			&m.ID,
			&m.BusinessUnitID,
			&m.StakeholderID,
			&m.Title,
			&m.Description,
			&m.ProgressNotes,
			&m.Year,
			&m.Quarter,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan goal row")
		}
		goals = append(goals, toDomainGoal(&m))
	}
	return goals, rows.Err()
}
