package goal

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var (
	ErrInvalidQuarter = serrors.Validation("quarter must be between 1 and 4")
	ErrEmptyTitle     = serrors.Validation("goal title cannot be empty")
)

// Goal is one row of a series. The series key is (businessUnitID, title,
// year); within a series at most one row exists per quarter, enforced by a
// storage uniqueness constraint.
type Goal struct {
	id             uuid.UUID
	businessUnitID uuid.UUID
	stakeholderID  *uuid.UUID
	title          string
	description    string
	progressNotes  string
	year           int
	quarter        int
	createdAt      time.Time
	updatedAt      time.Time
}

func New(
	businessUnitID uuid.UUID,
	stakeholderID *uuid.UUID,
	title string,
	description string,
	progressNotes string,
	year int,
	quarter int,
) (*Goal, error) {
	g := &Goal{
		id:             uuid.New(),
		businessUnitID: businessUnitID,
		stakeholderID:  stakeholderID,
		title:          strings.TrimSpace(title),
		description:    description,
		progressNotes:  progressNotes,
		year:           year,
		quarter:        quarter,
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func Hydrate(
	id uuid.UUID,
	businessUnitID uuid.UUID,
	stakeholderID *uuid.UUID,
	title string,
	description string,
	progressNotes string,
	year int,
	quarter int,
	createdAt time.Time,
	updatedAt time.Time,
) *Goal {
	return &Goal{
		id:             id,
		businessUnitID: businessUnitID,
		stakeholderID:  stakeholderID,
		title:          title,
		description:    description,
		progressNotes:  progressNotes,
		year:           year,
		quarter:        quarter,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (g *Goal) ID() uuid.UUID             { return g.id }
func (g *Goal) BusinessUnitID() uuid.UUID { return g.businessUnitID }
func (g *Goal) StakeholderID() *uuid.UUID { return g.stakeholderID }
func (g *Goal) Title() string             { return g.title }
func (g *Goal) Description() string       { return g.description }
func (g *Goal) ProgressNotes() string     { return g.progressNotes }
func (g *Goal) Year() int                 { return g.year }
func (g *Goal) Quarter() int              { return g.quarter }
func (g *Goal) CreatedAt() time.Time      { return g.createdAt }
func (g *Goal) UpdatedAt() time.Time      { return g.updatedAt }

// Revise rewrites the row for a series edit. The row may move to another
// business unit and another quarter in the same call.
func (g *Goal) Revise(
	businessUnitID uuid.UUID,
	stakeholderID *uuid.UUID,
	title string,
	description string,
	progressNotes string,
	year int,
	quarter int,
) error {
	revised := *g
	revised.businessUnitID = businessUnitID
	revised.stakeholderID = stakeholderID
	revised.title = strings.TrimSpace(title)
	revised.description = description
	revised.progressNotes = progressNotes
	revised.year = year
	revised.quarter = quarter
	if err := revised.validate(); err != nil {
		return err
	}
	*g = revised
	return nil
}

// Sibling returns a fresh row in the same series for another quarter,
// sharing every field except the identifier.
func (g *Goal) Sibling(quarter int) (*Goal, error) {
	return New(
		g.businessUnitID,
		g.stakeholderID,
		g.title,
		g.description,
		g.progressNotes,
		g.year,
		quarter,
	)
}

func (g *Goal) validate() error {
	if g.title == "" {
		return ErrEmptyTitle
	}
	if g.quarter < 1 || g.quarter > 4 {
		return ErrInvalidQuarter
	}
	return nil
}
