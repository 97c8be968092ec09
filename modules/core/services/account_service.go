package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/modules/core/domain/entities/account"
	"github.com/northstarhq/northstar/modules/core/domain/entities/organization"
	"github.com/northstarhq/northstar/pkg/eventbus"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type AccountService struct {
	accounts  account.Repository
	orgs      organization.Repository
	publisher eventbus.EventBus
}

func NewAccountService(accounts account.Repository, orgs organization.Repository, publisher eventbus.EventBus) *AccountService {
	return &AccountService{accounts: accounts, orgs: orgs, publisher: publisher}
}

func (s *AccountService) GetByPrincipal(ctx context.Context, principalID uuid.UUID) (account.Account, error) {
	return s.accounts.GetByPrincipal(ctx, principalID)
}

// Create opens a tenant for the principal. One account per principal; the
// storage-level unique constraint is the backstop for concurrent creates.
func (s *AccountService) Create(ctx context.Context, principalID uuid.UUID, name string) (account.Account, error) {
	if name == "" {
		return account.Account{}, serrors.Validation("account name is required")
	}
	var created account.Account
	err := inTxFn(ctx, func(txCtx context.Context) error {
		var innerErr error
		created, innerErr = s.accounts.Create(txCtx, account.New(principalID, name))
		return innerErr
	})
	if err != nil {
		return account.Account{}, err
	}
	s.publisher.Publish(&AccountCreatedEvent{Account: created})
	return created, nil
}

type AccountCreatedEvent struct {
	Account account.Account
}
