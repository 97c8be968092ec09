package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/northstarhq/northstar/modules/core/domain/aggregates/user"
	"github.com/northstarhq/northstar/modules/core/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/mapping"
)

const userFindQuery = `SELECT id, email, phone, password_hash, created_at, updated_at FROM users`

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	users, err := r.queryUsers(ctx, userFindQuery+" WHERE id = $1", mapping.UUIDToPgUUID(id))
	if err != nil {
		return user.User{}, err
	}
	if len(users) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return users[0], nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	users, err := r.queryUsers(ctx, userFindQuery+" WHERE email = lower($1)", email)
	if err != nil {
		return user.User{}, err
	}
	if len(users) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return users[0], nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO users (id, email, phone, password_hash) VALUES ($1, $2, $3, $4)`,
		mapping.UUIDToPgUUID(u.ID()),
		u.Email(),
		u.Phone(),
		u.PasswordHash(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, errors.Wrap(err, "failed to create user")
	}
	return r.GetByID(ctx, u.ID())
}

func (r *UserRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	_, err = tx.Exec(
		ctx,
		`UPDATE users SET email = $1, phone = $2, password_hash = $3, updated_at = now() WHERE id = $4`,
		u.Email(),
		u.Phone(),
		u.PasswordHash(),
		mapping.UUIDToPgUUID(u.ID()),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "failed to update user")
	}
	return r.GetByID(ctx, u.ID())
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]user.User, error) {
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

	var users []user.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(
			&m.ID,
			&m.Email,
			&m.Phone,
			&m.PasswordHash,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user row")
		}
		users = append(users, toDomainUser(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return users, nil
}
