package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/constants"
)

var (
	ErrNoPrincipalFound = errors.New("no principal found in context")
	ErrNoTenantIDFound  = errors.New("no tenant id found in context")
)

func WithPrincipalID(ctx context.Context, principalID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.PrincipalKey, principalID)
}

// UsePrincipalID returns the authenticated principal's id.
// Absence maps to the Unauthenticated outcome downstream.
func UsePrincipalID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(constants.PrincipalKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrNoPrincipalFound
	}
	return id, nil
}

func WithTenantID(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, accountID)
}

// UseTenantID returns the account id of the current tenant, when the request
// principal owns one. Principals without an account legitimately have none.
func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(constants.TenantIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrNoTenantIDFound
	}
	return id, nil
}
