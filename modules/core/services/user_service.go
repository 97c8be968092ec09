package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/northstarhq/northstar/modules/core/domain/aggregates/user"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type UserService struct {
	repo user.Repository
}

func NewUserService(repo user.Repository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) Register(ctx context.Context, email, phone, password string) (user.User, error) {
	if email == "" || password == "" {
		return user.User{}, serrors.Validation("email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, err
	}

	var created user.User
	err = inTxFn(ctx, func(txCtx context.Context) error {
		var innerErr error
		created, innerErr = s.repo.Create(txCtx, user.New(email, phone, string(hash)))
		return innerErr
	})
	if err != nil {
		return user.User{}, err
	}
	return created, nil
}
