package composables

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestApplyTenantRLS_NoopWhenDisabled(t *testing.T) {
	// RLS_ENFORCE defaults to disabled; the transaction must not be
	// touched at all, so a nil tx is safe here.
	err := ApplyTenantRLS(context.Background(), nil)
	require.NoError(t, err)
}

func TestUseTenantID(t *testing.T) {
	_, err := UseTenantID(context.Background())
	require.ErrorIs(t, err, ErrNoTenantIDFound)

	accountID := uuid.New()
	ctx := WithTenantID(context.Background(), accountID)
	got, err := UseTenantID(ctx)
	require.NoError(t, err)
	require.Equal(t, accountID, got)
}
