package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/northstarhq/northstar/modules/core/domain/entities/otp"
	"github.com/northstarhq/northstar/modules/core/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/mapping"
)

type OtpRepository struct{}

func NewOtpRepository() otp.Repository {
	return &OtpRepository{}
}

func (r *OtpRepository) Create(ctx context.Context, c *otp.Challenge) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO otp_challenges (id, principal_id, code, expires_at) VALUES ($1, $2, $3, $4)`,
		mapping.UUIDToPgUUID(c.ID),
		mapping.UUIDToPgUUID(c.PrincipalID),
		c.Code,
		c.ExpiresAt,
	)
	return errors.Wrap(err, "failed to create otp challenge")
}

func (r *OtpRepository) GetActive(ctx context.Context, principalID uuid.UUID, code string) (*otp.Challenge, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	var m models.OtpChallenge
	if err := tx.QueryRow(
		ctx,
		`SELECT id, principal_id, code, expires_at, consumed, created_at
		 FROM otp_challenges
		 WHERE principal_id = $1 AND code = $2 AND NOT consumed AND expires_at > now()
		 ORDER BY created_at DESC
		 LIMIT 1`,
		mapping.UUIDToPgUUID(principalID),
		code,
	).Scan(
		&m.ID,
		&m.PrincipalID,
		&m.Code,
		&m.ExpiresAt,
		&m.Consumed,
		&m.CreatedAt,
	); err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, otp.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to scan otp challenge row")
	}
	return toDomainChallenge(&m), nil
}

func (r *OtpRepository) Consume(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `UPDATE otp_challenges SET consumed = true WHERE id = $1 AND NOT consumed`, mapping.UUIDToPgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return otp.ErrNotFound
	}
	return nil
}

func (r *OtpRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM otp_challenges WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
