package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"rewardbot/events"
	"rewardbot/models"

	log "github.com/sirupsen/logrus"
)

const defaultReviewListSize = 10

// ReviewService stores user feedback
type ReviewService struct {
	runner *TxRunner
}

func NewReviewService(runner *TxRunner) *ReviewService {
	return &ReviewService{runner: runner}
}

// Submit stores a review. The text is trimmed and must be between one and
// MaxReviewLength characters.
func (s *ReviewService) Submit(ctx context.Context, identity, text string) (*models.Review, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > models.MaxReviewLength {
		return nil, fmt.Errorf("%w: review must be 1-%d characters", ErrInvalidMessage, models.MaxReviewLength)
	}

	var review *models.Review
	err := s.runner.Run(ctx, func(uow UnitOfWork) error {
		var err error
		review, err = uow.ReviewRepository().Insert(ctx, identity, text)
		if err != nil {
			return err
		}
		uow.EventBus().Publish(events.ReviewSubmittedEvent{
			ReviewID: review.ID,
			Identity: identity,
			Text:     text,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"identity": identity,
		"reviewID": review.ID,
	}).Info("Review submitted")
	return review, nil
}

// Recent returns the latest reviews, newest first
func (s *ReviewService) Recent(ctx context.Context, limit int) ([]*models.Review, error) {
	if limit <= 0 {
		limit = defaultReviewListSize
	}
	var reviews []*models.Review
	err := s.runner.View(ctx, func(uow UnitOfWork) error {
		var err error
		reviews, err = uow.ReviewRepository().ListRecent(ctx, limit)
		return err
	})
	return reviews, err
}
