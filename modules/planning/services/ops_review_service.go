package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/northstarhq/northstar/modules/planning/domain/entities/opsreview"
	"github.com/northstarhq/northstar/pkg/eventbus"
	"github.com/northstarhq/northstar/pkg/serrors"
)

type OpsReviewService struct {
	reviews   opsreview.Repository
	guard     *AccessGuard
	publisher eventbus.EventBus
}

func NewOpsReviewService(reviews opsreview.Repository, guard *AccessGuard, publisher eventbus.EventBus) *OpsReviewService {
	return &OpsReviewService{reviews: reviews, guard: guard, publisher: publisher}
}

func (s *OpsReviewService) Get(ctx context.Context, principalID, reviewID uuid.UUID) (*opsreview.OpsReview, error) {
	if err := s.guard.AssertOpsReviewAccess(ctx, principalID, reviewID); err != nil {
		return nil, err
	}
	return s.reviews.GetByID(ctx, reviewID)
}

func (s *OpsReviewService) ListByTeam(ctx context.Context, principalID, teamID uuid.UUID) ([]*opsreview.OpsReview, error) {
	if err := s.guard.AssertTeamAccess(ctx, principalID, teamID); err != nil {
		return nil, err
	}
	return s.reviews.ListByTeam(ctx, teamID)
}

func (s *OpsReviewService) Create(ctx context.Context, principalID uuid.UUID, review *opsreview.OpsReview) (*opsreview.OpsReview, error) {
	if review.Title == "" {
		return nil, serrors.Validation("ops review title cannot be empty")
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	if err := s.guard.AssertTeamAccess(ctx, principalID, review.TeamID); err != nil {
		return nil, err
	}

	if err := inTxFn(ctx, func(txCtx context.Context) error {
		return s.reviews.Create(txCtx, review)
	}); err != nil {
		return nil, err
	}
	s.publisher.Publish(&OpsReviewCreatedEvent{Review: review})
	return review, nil
}

func (s *OpsReviewService) Update(ctx context.Context, principalID uuid.UUID, review *opsreview.OpsReview) (*opsreview.OpsReview, error) {
	if err := s.guard.AssertOpsReviewAccess(ctx, principalID, review.ID); err != nil {
		return nil, err
	}
	if review.Title == "" {
		return nil, serrors.Validation("ops review title cannot be empty")
	}
	if err := inTxFn(ctx, func(txCtx context.Context) error {
		return s.reviews.Update(txCtx, review)
	}); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *OpsReviewService) Delete(ctx context.Context, principalID, reviewID uuid.UUID) error {
	if err := s.guard.AssertOpsReviewAccess(ctx, principalID, reviewID); err != nil {
		return err
	}
	return inTxFn(ctx, func(txCtx context.Context) error {
		return s.reviews.Delete(txCtx, reviewID)
	})
}

type OpsReviewCreatedEvent struct {
	Review *opsreview.OpsReview
}
