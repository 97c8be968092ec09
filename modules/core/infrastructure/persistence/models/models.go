package models

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID           pgtype.UUID
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type Account struct {
	ID          pgtype.UUID
	PrincipalID pgtype.UUID
	Name        string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type Organization struct {
	ID        pgtype.UUID
	AccountID pgtype.UUID
	Name      string
	ParentID  pgtype.UUID
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type Session struct {
	Token       string
	PrincipalID pgtype.UUID
	IP          sql.NullString
	UserAgent   sql.NullString
	ExpiresAt   pgtype.Timestamptz
	CreatedAt   pgtype.Timestamptz
}

type OtpChallenge struct {
	ID          pgtype.UUID
	PrincipalID pgtype.UUID
	Code        string
	ExpiresAt   pgtype.Timestamptz
	Consumed    bool
	CreatedAt   pgtype.Timestamptz
}
