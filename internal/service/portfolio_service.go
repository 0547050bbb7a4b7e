package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/dealflow/internal/evaluate"
	"github.com/yourusername/dealflow/internal/logger"
	"github.com/yourusername/dealflow/internal/metrics"
	"github.com/yourusername/dealflow/internal/models"
	"github.com/yourusername/dealflow/internal/notify"
	"github.com/yourusername/dealflow/internal/repository"
	"github.com/yourusername/dealflow/internal/session"
)

// PositionView pairs a position with its classified display state
type PositionView struct {
	Position *models.PortfolioPosition `json:"position"`
	Health   evaluate.PositionHealth   `json:"health"`
}

// PortfolioOverview is the monitor screen's data: classified positions
// plus the severity badge counts.
type PortfolioOverview struct {
	Positions []PositionView         `json:"positions"`
	Summary   evaluate.HealthSummary `json:"summary"`
}

// PortfolioService manages portfolio position monitoring and health updates
type PortfolioService struct {
	positionRepo repository.PositionRepository
	notifier     notify.Notifier
	audit        *logger.AuditLogger
	logger       *logrus.Logger
	validate     *validator.Validate
	now          func() time.Time
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(
	positionRepo repository.PositionRepository,
	notifier notify.Notifier,
	log *logrus.Logger,
) *PortfolioService {
	return &PortfolioService{
		positionRepo: positionRepo,
		notifier:     notifier,
		audit:        logger.NewAuditLogger(log),
		logger:       log,
		validate:     validator.New(),
		now:          time.Now,
	}
}

// Overview fetches and classifies every monitored position. Health
// tiers and counts are recomputed from stored fields on every call,
// never persisted.
func (s *PortfolioService) Overview(ctx context.Context) (*PortfolioOverview, error) {
	positions, err := s.positionRepo.GetAll(ctx)
	if err != nil {
		metrics.RecordStoreError("position_list")
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}

	overview := &PortfolioOverview{
		Positions: make([]PositionView, 0, len(positions)),
		Summary:   evaluate.SummarizeHealth(positions),
	}
	for _, p := range positions {
		overview.Positions = append(overview.Positions, PositionView{
			Position: p,
			Health:   evaluate.ClassifyPosition(p),
		})
	}

	return overview, nil
}

// UpdateHealth applies a health check to one position, stamping the
// current time as the metrics update timestamp. On store failure the
// user is notified with the store's message verbatim and nothing in
// memory changes; the caller refreshes to reconcile.
func (s *PortfolioService) UpdateHealth(ctx context.Context, sess session.Session, id uuid.UUID, update models.HealthUpdate) error {
	if err := s.validate.Struct(update); err != nil {
		return fmt.Errorf("invalid health update: %w", err)
	}

	existing, err := s.positionRepo.GetByID(ctx, id)
	if err != nil {
		metrics.RecordStoreError("position_get")
		return fmt.Errorf("failed to fetch position: %w", err)
	}

	if err := s.positionRepo.UpdateHealth(ctx, id, update, s.now()); err != nil {
		metrics.RecordStoreError("position_update")
		s.notifier.Notify(ctx, notify.Error("Failed to update health", err.Error()))
		return err
	}

	metrics.RecordHealthUpdate()
	s.audit.LogHealthUpdate(id.String(), sess.UserID.String(),
		string(existing.EffectiveHealth()), string(update.HealthStatus), update.RunwayMonths)
	s.notifier.Notify(ctx, notify.Success("Health updated", existing.CompanyName))
	return nil
}

// RefreshGauges recomputes the severity gauges from the store. Run by
// the scheduler; the render path never depends on it.
func (s *PortfolioService) RefreshGauges(ctx context.Context) error {
	positions, err := s.positionRepo.GetAll(ctx)
	if err != nil {
		metrics.RecordStoreError("position_list")
		return fmt.Errorf("failed to refresh health gauges: %w", err)
	}

	summary := evaluate.SummarizeHealth(positions)
	metrics.UpdateHealthGauges(summary.Total, summary.Critical, summary.Warning)

	s.logger.WithFields(logrus.Fields{
		"total":    summary.Total,
		"critical": summary.Critical,
		"warning":  summary.Warning,
	}).Debug("Portfolio health gauges refreshed")
	return nil
}
