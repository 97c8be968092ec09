package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var (
	ErrNotFound   = serrors.NotFound("user not found")
	ErrEmailTaken = serrors.Conflict("email already registered")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) (User, error)
}
