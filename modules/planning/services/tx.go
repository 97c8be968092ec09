package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/composables"
)

// inTxFn is swapped out in tests to run the closure without a database pool.
var inTxFn = composables.InTenantTx

// ScopeResolver is the tenant boundary the guards are built on. Satisfied by
// the core module's ScopeService.
type ScopeResolver interface {
	ResolveOrgIDs(ctx context.Context, principalID uuid.UUID) ([]uuid.UUID, error)
}
