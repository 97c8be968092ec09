package persistence

import (
	"github.com/northstarhq/northstar/modules/core/domain/aggregates/user"
	"github.com/northstarhq/northstar/modules/core/domain/entities/account"
	"github.com/northstarhq/northstar/modules/core/domain/entities/organization"
	"github.com/northstarhq/northstar/modules/core/domain/entities/session"
	"github.com/northstarhq/northstar/modules/core/domain/entities/otp"
	"github.com/northstarhq/northstar/modules/core/infrastructure/persistence/models"
	"github.com/northstarhq/northstar/pkg/mapping"
)

func toDomainUser(m *models.User) user.User {
	return user.Hydrate(
		mapping.PgUUIDToUUID(m.ID),
		m.Email,
		m.Phone,
		m.PasswordHash,
		m.CreatedAt.Time,
		m.UpdatedAt.Time,
	)
}

func toDomainAccount(m *models.Account) account.Account {
	return account.Hydrate(
		mapping.PgUUIDToUUID(m.ID),
		mapping.PgUUIDToUUID(m.PrincipalID),
		m.Name,
		m.CreatedAt.Time,
		m.UpdatedAt.Time,
	)
}

func toDomainOrganization(m *models.Organization) organization.Organization {
	return organization.Hydrate(
		mapping.PgUUIDToUUID(m.ID),
		mapping.PgUUIDToUUID(m.AccountID),
		m.Name,
		mapping.PgUUIDToPointer(m.ParentID),
		m.CreatedAt.Time,
		m.UpdatedAt.Time,
	)
}

func toDomainSession(m *models.Session) *session.Session {
	return &session.Session{
		Token:       m.Token,
		PrincipalID: mapping.PgUUIDToUUID(m.PrincipalID),
		IP:          mapping.SQLNullStringToValue(m.IP),
		UserAgent:   mapping.SQLNullStringToValue(m.UserAgent),
		ExpiresAt:   m.ExpiresAt.Time,
		CreatedAt:   m.CreatedAt.Time,
	}
}

func toDomainChallenge(m *models.OtpChallenge) *otp.Challenge {
	return &otp.Challenge{
		ID:          mapping.PgUUIDToUUID(m.ID),
		PrincipalID: mapping.PgUUIDToUUID(m.PrincipalID),
		Code:        m.Code,
		ExpiresAt:   m.ExpiresAt.Time,
		Consumed:    m.Consumed,
		CreatedAt:   m.CreatedAt.Time,
	}
}
