package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/modules/core/domain/entities/account"
	"github.com/northstarhq/northstar/modules/core/domain/entities/organization"
)

// ScopeService resolves the tenant boundary: the set of organization ids a
// principal's account controls. Every access guard is built on it.
type ScopeService struct {
	accounts account.Repository
	orgs     organization.Repository
}

func NewScopeService(accounts account.Repository, orgs organization.Repository) *ScopeService {
	return &ScopeService{accounts: accounts, orgs: orgs}
}

// ResolveOrgIDs returns the organizations under the principal's account.
// Principals without an account resolve to the empty set, never an error;
// downstream guards turn that into a denial.
func (s *ScopeService) ResolveOrgIDs(ctx context.Context, principalID uuid.UUID) ([]uuid.UUID, error) {
	acc, err := s.accounts.GetByPrincipal(ctx, principalID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.orgs.ListIDsByAccount(ctx, acc.ID())
}

// InScope reports whether orgID belongs to the principal's resolved scope.
func (s *ScopeService) InScope(ctx context.Context, principalID, orgID uuid.UUID) (bool, error) {
	ids, err := s.ResolveOrgIDs(ctx, principalID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == orgID {
			return true, nil
		}
	}
	return false, nil
}
