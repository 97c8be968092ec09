package kpi

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/pkg/serrors"
)

var ErrEmptyName = serrors.Validation("kpi name cannot be empty")

// Kpi belongs to one organization and optionally names a team, an initiative
// label and a set of business units. actualMetric, metTarget and
// metTargetPercent are caches derived from the status ledger; only the
// aggregation recompute mutates them.
type Kpi struct {
	id               uuid.UUID
	organizationID   uuid.UUID
	teamID           *uuid.UUID
	initiative       string
	businessUnitIDs  []uuid.UUID
	name             string
	target           *float64
	actualMetric     float64
	metTarget        *bool
	metTargetPercent *float64
	createdAt        time.Time
	updatedAt        time.Time
}

func New(
	organizationID uuid.UUID,
	teamID *uuid.UUID,
	initiative string,
	businessUnitIDs []uuid.UUID,
	name string,
	target *float64,
) (*Kpi, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Kpi{
		id:              uuid.New(),
		organizationID:  organizationID,
		teamID:          teamID,
		initiative:      initiative,
		businessUnitIDs: businessUnitIDs,
		name:            name,
		target:          target,
	}, nil
}

func Hydrate(
	id uuid.UUID,
	organizationID uuid.UUID,
	teamID *uuid.UUID,
	initiative string,
	businessUnitIDs []uuid.UUID,
	name string,
	target *float64,
	actualMetric float64,
	metTarget *bool,
	metTargetPercent *float64,
	createdAt time.Time,
	updatedAt time.Time,
) *Kpi {
	return &Kpi{
		id:               id,
		organizationID:   organizationID,
		teamID:           teamID,
		initiative:       initiative,
		businessUnitIDs:  businessUnitIDs,
		name:             name,
		target:           target,
		actualMetric:     actualMetric,
		metTarget:        metTarget,
		metTargetPercent: metTargetPercent,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (k *Kpi) ID() uuid.UUID               { return k.id }
func (k *Kpi) OrganizationID() uuid.UUID   { return k.organizationID }
func (k *Kpi) TeamID() *uuid.UUID          { return k.teamID }
func (k *Kpi) Initiative() string          { return k.initiative }
func (k *Kpi) BusinessUnitIDs() []uuid.UUID { return k.businessUnitIDs }
func (k *Kpi) Name() string                { return k.name }
func (k *Kpi) Target() *float64            { return k.target }
func (k *Kpi) ActualMetric() float64       { return k.actualMetric }
func (k *Kpi) MetTarget() *bool            { return k.metTarget }
func (k *Kpi) MetTargetPercent() *float64  { return k.metTargetPercent }
func (k *Kpi) CreatedAt() time.Time        { return k.createdAt }
func (k *Kpi) UpdatedAt() time.Time        { return k.updatedAt }

func (k *Kpi) SetTarget(target *float64) {
	k.target = target
}

// RecomputeFrom rewrites the cached aggregate from the ledger sum. metTarget
// is defined only when a target is set; metTargetPercent additionally
// requires the target to be non-zero. Overshoot above 100% is kept as is.
func (k *Kpi) RecomputeFrom(actual float64) {
	k.actualMetric = actual
	if k.target == nil {
		k.metTarget = nil
		k.metTargetPercent = nil
		return
	}
	met := actual >= *k.target
	k.metTarget = &met
	if *k.target == 0 {
		k.metTargetPercent = nil
		return
	}
	percent := 100 * actual / *k.target
	k.metTargetPercent = &percent
}
