package goal

import "github.com/google/uuid"

// CreateDTO opens a new series with a single row.
type CreateDTO struct {
	BusinessUnitID uuid.UUID  `validate:"required"`
	StakeholderID  *uuid.UUID `validate:"omitempty"`
	Title          string     `validate:"required"`
	Description    string
	ProgressNotes  string
	Year           int `validate:"required,gte=2000,lte=2100"`
	Quarter        int `validate:"required,gte=1,lte=4"`
}

// ReconcileDTO edits one existing row and declares the full set of quarters
// the series should cover afterwards.
type ReconcileDTO struct {
	BusinessUnitID uuid.UUID  `validate:"required"`
	StakeholderID  *uuid.UUID `validate:"omitempty"`
	Title          string     `validate:"required"`
	Description    string
	ProgressNotes  string
	Year           int   `validate:"required,gte=2000,lte=2100"`
	Quarters       []int `validate:"required,min=1,dive,gte=1,lte=4"`
}

// ReconcileResult is the authoritative record of what the reconciliation did.
type ReconcileResult struct {
	Updated      *Goal
	Created      []*Goal
	DeletedCount int
}
