package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/northstarhq/northstar/modules/core/domain/entities/account"
	"github.com/northstarhq/northstar/modules/core/domain/entities/organization"
)

func seedTenant(t *testing.T, accounts *mockAccountRepo, orgs *mockOrgRepo, orgCount int) (uuid.UUID, []uuid.UUID) {
	t.Helper()

	principalID := uuid.New()
	acc, err := accounts.Create(context.Background(), account.New(principalID, "acme"))
	require.NoError(t, err)

	orgIDs := make([]uuid.UUID, 0, orgCount)
	for i := 0; i < orgCount; i++ {
		org, err := organization.New(acc.ID(), "org", nil)
		require.NoError(t, err)
		created, err := orgs.Create(context.Background(), org)
		require.NoError(t, err)
		orgIDs = append(orgIDs, created.ID())
	}
	return principalID, orgIDs
}

func TestScopeService_ResolveOrgIDs(t *testing.T) {
	accounts := newMockAccountRepo()
	orgs := newMockOrgRepo()
	svc := NewScopeService(accounts, orgs)

	principalID, orgIDs := seedTenant(t, accounts, orgs, 3)

	resolved, err := svc.ResolveOrgIDs(context.Background(), principalID)
	require.NoError(t, err)
	require.ElementsMatch(t, orgIDs, resolved)
}

func TestScopeService_ResolveOrgIDs_NoAccount(t *testing.T) {
	svc := NewScopeService(newMockAccountRepo(), newMockOrgRepo())

	resolved, err := svc.ResolveOrgIDs(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Empty(t, resolved)
}

func TestScopeService_ResolveOrgIDs_ExcludesOtherTenants(t *testing.T) {
	accounts := newMockAccountRepo()
	orgs := newMockOrgRepo()
	svc := NewScopeService(accounts, orgs)

	principalA, orgsA := seedTenant(t, accounts, orgs, 2)
	principalB, orgsB := seedTenant(t, accounts, orgs, 1)

	resolvedA, err := svc.ResolveOrgIDs(context.Background(), principalA)
	require.NoError(t, err)
	require.ElementsMatch(t, orgsA, resolvedA)
	require.NotContains(t, resolvedA, orgsB[0])

	resolvedB, err := svc.ResolveOrgIDs(context.Background(), principalB)
	require.NoError(t, err)
	require.ElementsMatch(t, orgsB, resolvedB)
}

func TestScopeService_InScope(t *testing.T) {
	accounts := newMockAccountRepo()
	orgs := newMockOrgRepo()
	svc := NewScopeService(accounts, orgs)

	principalA, orgsA := seedTenant(t, accounts, orgs, 1)
	_, orgsB := seedTenant(t, accounts, orgs, 1)

	ok, err := svc.InScope(context.Background(), principalA, orgsA[0])
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.InScope(context.Background(), principalA, orgsB[0])
	require.NoError(t, err)
	require.False(t, ok)
}
