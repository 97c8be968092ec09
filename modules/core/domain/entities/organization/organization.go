package organization

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var (
	ErrNotFound   = serrors.NotFound("organization not found")
	ErrSelfParent = serrors.Validation("organization cannot be its own parent")
)

// Organization belongs to one account. The optional parent forms a general
// graph held as an adjacency by id; scope resolution flattens it and is not
// hierarchy-aware.
type Organization struct {
	id        uuid.UUID
	accountID uuid.UUID
	name      string
	parentID  *uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

func New(accountID uuid.UUID, name string, parentID *uuid.UUID) (Organization, error) {
	org := Organization{
		id:        uuid.New(),
		accountID: accountID,
		name:      strings.TrimSpace(name),
		parentID:  parentID,
	}
	if parentID != nil && *parentID == org.id {
		return Organization{}, ErrSelfParent
	}
	return org, nil
}

func Hydrate(
	id uuid.UUID,
	accountID uuid.UUID,
	name string,
	parentID *uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) Organization {
	return Organization{
		id:        id,
		accountID: accountID,
		name:      strings.TrimSpace(name),
		parentID:  parentID,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (o Organization) ID() uuid.UUID        { return o.id }
func (o Organization) AccountID() uuid.UUID { return o.accountID }
func (o Organization) Name() string         { return o.name }
func (o Organization) ParentID() *uuid.UUID { return o.parentID }
func (o Organization) CreatedAt() time.Time { return o.createdAt }
func (o Organization) UpdatedAt() time.Time { return o.updatedAt }
func (o Organization) IsZero() bool         { return o.id == uuid.Nil }

// Reparent rejects self-reference at the validation boundary; cycles deeper
// in the graph are tolerated, matching the flattened scope semantics.
func (o *Organization) Reparent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == o.id {
		return ErrSelfParent
	}
	o.parentID = parentID
	return nil
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Organization, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Organization, error)
	// ListIDsByAccount returns the identifiers of every organization under
	// the account. No ordering contract.
	ListIDsByAccount(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error)
	Create(ctx context.Context, o Organization) (Organization, error)
	Update(ctx context.Context, o Organization) (Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
