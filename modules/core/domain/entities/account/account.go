package account

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var (
	ErrNotFound      = serrors.NotFound("account not found")
	ErrAlreadyExists = serrors.Conflict("principal already owns an account")
)

// Account is the tenant root: everything a principal controls is reachable
// through the organizations under its account.
type Account struct {
	id          uuid.UUID
	principalID uuid.UUID
	name        string
	createdAt   time.Time
	updatedAt   time.Time
}

func New(principalID uuid.UUID, name string) Account {
	return Account{
		id:          uuid.New(),
		principalID: principalID,
		name:        strings.TrimSpace(name),
	}
}

func Hydrate(id, principalID uuid.UUID, name string, createdAt, updatedAt time.Time) Account {
	return Account{
		id:          id,
		principalID: principalID,
		name:        strings.TrimSpace(name),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (a Account) ID() uuid.UUID          { return a.id }
func (a Account) PrincipalID() uuid.UUID { return a.principalID }
func (a Account) Name() string           { return a.name }
func (a Account) CreatedAt() time.Time   { return a.createdAt }
func (a Account) UpdatedAt() time.Time   { return a.updatedAt }
func (a Account) IsZero() bool           { return a.id == uuid.Nil }

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	// GetByPrincipal returns ErrNotFound when the principal owns no account,
	// which is a legitimate state, not a failure.
	GetByPrincipal(ctx context.Context, principalID uuid.UUID) (Account, error)
	Create(ctx context.Context, a Account) (Account, error)
}
