package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/northstarhq/northstar/modules/planning/domain/entities/opsreview"
	"github.com/northstarhq/northstar/modules/planning/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/mapping"
)

const opsReviewFindQuery = `SELECT id, team_id, title, cadence, notes, created_at, updated_at FROM ops_reviews`

type OpsReviewRepository struct{}

func NewOpsReviewRepository() opsreview.Repository {
	return &OpsReviewRepository{}
}

func (r *OpsReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*opsreview.OpsReview, error) {
	reviews, err := r.queryReviews(ctx, opsReviewFindQuery+" WHERE id = $1", mapping.UUIDToPgUUID(id))
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, opsreview.ErrNotFound
	}
	return reviews[0], nil
}

func (r *OpsReviewRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*opsreview.OpsReview, error) {
	return r.queryReviews(ctx, opsReviewFindQuery+" WHERE team_id = $1", mapping.UUIDToPgUUID(teamID))
}

func (r *OpsReviewRepository) Create(ctx context.Context, review *opsreview.OpsReview) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO ops_reviews (id, team_id, title, cadence, notes) VALUES ($1, $2, $3, $4, $5)`,
		mapping.UUIDToPgUUID(review.ID),
		mapping.UUIDToPgUUID(review.TeamID),
		review.Title,
		review.Cadence,
		review.Notes,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create ops review")
	}
	return nil
}

func (r *OpsReviewRepository) Update(ctx context.Context, review *opsreview.OpsReview) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`UPDATE ops_reviews SET title = $1, cadence = $2, notes = $3, updated_at = now() WHERE id = $4`,
		review.Title,
		review.Cadence,
		review.Notes,
		mapping.UUIDToPgUUID(review.ID),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update ops review")
	}
	return nil
}

func (r *OpsReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM ops_reviews WHERE id = $1`, mapping.UUIDToPgUUID(id))
	return err
}

func (r *OpsReviewRepository) queryReviews(ctx context.Context, query string, args ...interface{}) ([]*opsreview.OpsReview, error) {
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

	var reviews []*opsreview.OpsReview
	for rows.Next() {
		var m models.OpsReview
		if err := rows.Scan(
			&m.ID,
			&m.TeamID,
			&m.Title,
			&m.Cadence,
			&m.Notes,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan ops review row")
		}
		reviews = append(reviews, toDomainOpsReview(&m))
	}
	return reviews, rows.Err()
}
