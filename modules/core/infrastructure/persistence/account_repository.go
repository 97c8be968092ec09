package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/northstarhq/northstar/modules/core/domain/entities/account"
	"github.com/northstarhq/northstar/modules/core/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/composables"
	"github.com/northstarhq/northstar/pkg/mapping"
)

const accountFindQuery = `SELECT id, principal_id, name, created_at, updated_at FROM accounts`

type AccountRepository struct{}

func NewAccountRepository() account.Repository {
	return &AccountRepository{}
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	return r.queryOne(ctx, accountFindQuery+" WHERE id = $1", mapping.UUIDToPgUUID(id))
}

func (r *AccountRepository) GetByPrincipal(ctx context.Context, principalID uuid.UUID) (account.Account, error) {
	return r.queryOne(ctx, accountFindQuery+" WHERE principal_id = $1", mapping.UUIDToPgUUID(principalID))
}

func (r *AccountRepository) Create(ctx context.Context, a account.Account) (account.Account, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return account.Account{}, err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO accounts (id, principal_id, name) VALUES ($1, $2, $3)`,
		mapping.UUIDToPgUUID(a.ID()),
		mapping.UUIDToPgUUID(a.PrincipalID()),
		a.Name(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
			return account.Account{}, account.ErrAlreadyExists
		}
		return account.Account{}, errors.Wrap(err, "failed to create account")
	}
	return r.GetByID(ctx, a.ID())
}

func (r *AccountRepository) queryOne(ctx context.Context, query string, args ...interface{}) (account.Account, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return account.Account{}, errors.Wrap(err, "failed to get transaction")
	}

	var m models.Account
	if err := tx.QueryRow(ctx, query, args...).Scan(
		&m.ID,
		&m.PrincipalID,
		&m.Name,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, errors.Wrap(err, "failed to scan account row")
	}
	return toDomainAccount(&m), nil
}
