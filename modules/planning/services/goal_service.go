package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/modules/planning/domain/aggregates/goal"
	"github.com/northstarhq/northstar/modules/planning/domain/entities/stakeholder"
	"github.com/northstarhq/northstar/pkg/constants"
	"github.com/northstarhq/northstar/pkg/eventbus"
	"github.com/northstarhq/northstar/pkg/serrors"
)

var ErrStakeholderUnitMismatch = serrors.Validation("stakeholder does not belong to the target business unit")

type GoalService struct {
	goals        goal.Repository
	stakeholders stakeholder.Repository
	guard        *AccessGuard
	publisher    eventbus.EventBus
}

func NewGoalService(
	goals goal.Repository,
	stakeholders stakeholder.Repository,
	guard *AccessGuard,
	publisher eventbus.EventBus,
) *GoalService {
	return &GoalService{
		goals:        goals,
		stakeholders: stakeholders,
		guard:        guard,
		publisher:    publisher,
	}
}

func (s *GoalService) Get(ctx context.Context, principalID, goalID uuid.UUID) (*goal.Goal, error) {
	g, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, g.BusinessUnitID()); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GoalService) ListByBusinessUnit(ctx context.Context, principalID, unitID uuid.UUID) ([]*goal.Goal, error) {
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, unitID); err != nil {
		return nil, err
	}
	return s.goals.ListByBusinessUnit(ctx, unitID)
}

// Create opens a new series with its first row.
func (s *GoalService) Create(ctx context.Context, principalID uuid.UUID, dto *goal.CreateDTO) (*goal.Goal, error) {
	if err := constants.Validate.Struct(dto); err != nil {
		return nil, serrors.Validation(err.Error())
	}
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, dto.BusinessUnitID); err != nil {
		return nil, err
	}
	if err := s.assertStakeholderInUnit(ctx, dto.StakeholderID, dto.BusinessUnitID); err != nil {
		return nil, err
	}

	g, err := goal.New(
		dto.BusinessUnitID,
		dto.StakeholderID,
		dto.Title,
		dto.Description,
		dto.ProgressNotes,
		dto.Year,
		dto.Quarter,
	)
	if err != nil {
		return nil, err
	}
	if err := inTxFn(ctx, func(txCtx context.Context) error {
		return s.goals.Create(txCtx, g)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&GoalCreatedEvent{Goal: g})
	return g, nil
}

func (s *GoalService) Delete(ctx context.Context, principalID, goalID uuid.UUID) error {
	g, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return err
	}
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, g.BusinessUnitID()); err != nil {
		return err
	}
	return inTxFn(ctx, func(txCtx context.Context) error {
		return s.goals.Delete(txCtx, goalID)
	})
}

// ReconcileSeries edits one existing row and makes the persisted rows for
// its series exactly match the requested quarters, without disturbing other
// series. The whole reconciliation runs in a single transaction; the storage
// uniqueness constraint on (business_unit_id, title, year, quarter) is the
// backstop against concurrent reconciliations and surfaces as a conflict.
//
// When the edit renames the title, the series key moves with it: rows under
// the old title are not cleaned up, and the result reports only the rows of
// the new series. Callers can observe the stranded siblings through listing.
func (s *GoalService) ReconcileSeries(ctx context.Context, principalID, goalID uuid.UUID, dto *goal.ReconcileDTO) (*goal.ReconcileResult, error) {
	if err := constants.Validate.Struct(dto); err != nil {
		return nil, serrors.Validation(err.Error())
	}
	if err := s.guard.AssertBusinessUnitAccess(ctx, principalID, dto.BusinessUnitID); err != nil {
		return nil, err
	}

	var result goal.ReconcileResult
	err := inTxFn(ctx, func(txCtx context.Context) error {
		g, err := s.goals.GetByID(txCtx, goalID)
		if err != nil {
			return err
		}
		// The edit may move the goal between units; the caller needs access
		// to the unit it currently sits in, not just the target.
		if err := s.guard.AssertBusinessUnitAccess(txCtx, principalID, g.BusinessUnitID()); err != nil {
			return err
		}
		if err := s.assertStakeholderInUnit(txCtx, dto.StakeholderID, dto.BusinessUnitID); err != nil {
			return err
		}

		if err := g.Revise(
			dto.BusinessUnitID,
			dto.StakeholderID,
			dto.Title,
			dto.Description,
			dto.ProgressNotes,
			dto.Year,
			dto.Quarters[0],
		); err != nil {
			return err
		}
		if err := s.goals.Update(txCtx, g); err != nil {
			return err
		}

		for _, quarter := range dto.Quarters[1:] {
			exists, err := s.goals.ExistsInSeries(txCtx, g.BusinessUnitID(), g.Title(), g.Year(), quarter)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			sibling, err := g.Sibling(quarter)
			if err != nil {
				return err
			}
			if err := s.goals.Create(txCtx, sibling); err != nil {
				return err
			}
			result.Created = append(result.Created, sibling)
		}

		requested := make(map[int]bool, len(dto.Quarters))
		for _, quarter := range dto.Quarters {
			requested[quarter] = true
		}
		rows, err := s.goals.ListBySeries(txCtx, g.BusinessUnitID(), g.Title(), g.Year())
		if err != nil {
			return err
		}
		for _, row := range rows {
			if requested[row.Quarter()] || row.ID() == g.ID() {
				continue
			}
			if err := s.goals.Delete(txCtx, row.ID()); err != nil {
				return err
			}
			result.DeletedCount++
		}

		result.Updated = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(&SeriesReconciledEvent{
		GoalID: goalID,
		Result: &result,
	})
	return &result, nil
}

func (s *GoalService) assertStakeholderInUnit(ctx context.Context, stakeholderID *uuid.UUID, unitID uuid.UUID) error {
	if stakeholderID == nil {
		return nil
	}
	sh, err := s.stakeholders.GetByID(ctx, *stakeholderID)
	if err != nil {
		if errors.Is(err, stakeholder.ErrNotFound) {
			return ErrStakeholderUnitMismatch
		}
		return err
	}
	if sh.BusinessUnitID != unitID {
		return ErrStakeholderUnitMismatch
	}
	return nil
}

type GoalCreatedEvent struct {
	Goal *goal.Goal
}

type SeriesReconciledEvent struct {
	GoalID uuid.UUID
	Result *goal.ReconcileResult
}
