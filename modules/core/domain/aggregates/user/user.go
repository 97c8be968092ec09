package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the login principal. A principal owns at most one account; tenancy
// hangs off the account, never off the principal directly.
type User struct {
	id           uuid.UUID
	email        string
	phone        string
	passwordHash string
	createdAt    time.Time
	updatedAt    time.Time
}

func New(email, phone, passwordHash string) User {
	return User{
		id:           uuid.New(),
		email:        normalizeEmail(email),
		phone:        strings.TrimSpace(phone),
		passwordHash: passwordHash,
	}
}

func Hydrate(
	id uuid.UUID,
	email string,
	phone string,
	passwordHash string,
	createdAt time.Time,
	updatedAt time.Time,
) User {
	return User{
		id:           id,
		email:        normalizeEmail(email),
		phone:        strings.TrimSpace(phone),
		passwordHash: passwordHash,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u User) ID() uuid.UUID        { return u.id }
func (u User) Email() string        { return u.email }
func (u User) Phone() string        { return u.phone }
func (u User) PasswordHash() string { return u.passwordHash }
func (u User) CreatedAt() time.Time { return u.createdAt }
func (u User) UpdatedAt() time.Time { return u.updatedAt }
func (u User) IsZero() bool         { return u.id == uuid.Nil && u.email == "" }

func normalizeEmail(v string) string { return strings.ToLower(strings.TrimSpace(v)) }
