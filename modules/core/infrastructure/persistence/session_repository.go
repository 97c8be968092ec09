package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/northstarhq/northstar/modules/core/domain/entities/session"
	"github.com/northstarhq/northstar/modules/core/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/mapping"
)

type SessionRepository struct{}

func NewSessionRepository() session.Repository {
	return &SessionRepository{}
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	var m models.Session
	if err := tx.QueryRow(
		ctx,
		`SELECT token, principal_id, ip, user_agent, expires_at, created_at FROM sessions WHERE token = $1`,
		token,
	).Scan(
		&m.Token,
		&m.PrincipalID,
		&m.IP,
		&m.UserAgent,
		&m.ExpiresAt,
		&m.CreatedAt,
	); err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to scan session row")
	}
	return toDomainSession(&m), nil
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO sessions (token, principal_id, ip, user_agent, expires_at) VALUES ($1, $2, $3, $4, $5)`,
		s.Token,
		mapping.UUIDToPgUUID(s.PrincipalID),
		s.IP,
		s.UserAgent,
		s.ExpiresAt,
	)
	return errors.Wrap(err, "failed to create session")
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
