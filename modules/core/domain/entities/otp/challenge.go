package otp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var ErrNotFound = serrors.NotFound("otp challenge not found")

// Challenge is a single-use step-up code. It is consumed on first successful
// verification and useless afterwards.
type Challenge struct {
	ID          uuid.UUID
	PrincipalID uuid.UUID
	Code        string
	ExpiresAt   time.Time
	Consumed    bool
	CreatedAt   time.Time
}

func (c *Challenge) Usable(now time.Time) bool {
	return !c.Consumed && now.Before(c.ExpiresAt)
}

type Repository interface {
	Create(ctx context.Context, c *Challenge) error
	// GetActive returns the newest unconsumed, unexpired challenge matching
	// the principal and code.
	GetActive(ctx context.Context, principalID uuid.UUID, code string) (*Challenge, error)
	Consume(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
