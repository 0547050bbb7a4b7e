package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/dealflow/internal/logger"
	"github.com/yourusername/dealflow/internal/models"
	"github.com/yourusername/dealflow/internal/notify"
	"github.com/yourusername/dealflow/internal/repository"
	"github.com/yourusername/dealflow/internal/session"
)

// ReviewService manages the weekly journaling ritual
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	notifier   notify.Notifier
	audit      *logger.AuditLogger
	logger     *logrus.Logger
	now        func() time.Time
}

// NewReviewService creates a new weekly review service
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	notifier notify.Notifier,
	log *logrus.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		notifier:   notifier,
		audit:      logger.NewAuditLogger(log),
		logger:     log,
		now:        time.Now,
	}
}

// CurrentWeek returns the user's review for the week containing now.
// No review yet is not an error; the caller gets a blank draft for the
// week to fill in.
func (s *ReviewService) CurrentWeek(ctx context.Context, sess session.Session) (*models.WeeklyReview, error) {
	return s.ForWeek(ctx, sess, s.now())
}

// ForWeek returns the review for the week containing t, or a blank
// draft when none was saved. Lookup is exact-match on the normalized
// week start date.
func (s *ReviewService) ForWeek(ctx context.Context, sess session.Session, t time.Time) (*models.WeeklyReview, error) {
	weekStart := models.WeekStartFor(t)

	review, err := s.reviewRepo.GetByUserAndWeek(ctx, sess.UserID, weekStart)
	if errors.Is(err, models.ErrNotFound) {
		return models.EmptyReviewFor(sess.UserID, t), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weekly review: %w", err)
	}
	return review, nil
}

// Save upserts the user's review for its week. The week start is
// re-normalized here so a client-supplied mid-week date can never
// create a second record for the same week.
func (s *ReviewService) Save(ctx context.Context, sess session.Session, review *models.WeeklyReview) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.UserID = sess.UserID
	review.WeekStart = models.WeekStartFor(review.WeekStart)

	created, err := s.reviewRepo.Upsert(ctx, review)
	if err != nil {
		s.notifier.Notify(ctx, notify.Error("Failed to save review", err.Error()))
		return err
	}

	s.audit.LogReviewSaved(sess.UserID.String(), review.WeekStart, created)
	s.notifier.Notify(ctx, notify.Success("Review saved",
		"Week of "+review.WeekStart.Format("Jan 2, 2006")))
	return nil
}
