package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/dealflow/internal/evaluate"
	"github.com/yourusername/dealflow/internal/models"
	"github.com/yourusername/dealflow/internal/notify"
)

func positionWithHealth(name string, status models.HealthStatus) *models.PortfolioPosition {
	return &models.PortfolioPosition{
		ID:           uuid.New(),
		CompanyName:  name,
		HealthStatus: status,
		Status:       models.PositionStatusActive,
	}
}

func TestPortfolioService_Overview(t *testing.T) {
	mockRepo := new(MockPositionRepository)
	notifier := &recordingNotifier{}
	svc := NewPortfolioService(mockRepo, notifier, testLogger())

	positions := []*models.PortfolioPosition{
		positionWithHealth("Acme", models.HealthStatusCritical),
		positionWithHealth("Globex", models.HealthStatusWarning),
		positionWithHealth("Initech", models.HealthStatusWarning),
		positionWithHealth("Umbrella", models.HealthStatusHealthy),
	}
	mockRepo.On("GetAll", mock.Anything).Return(positions, nil)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, overview.Summary.Total)
	assert.Equal(t, 1, overview.Summary.Critical)
	assert.Equal(t, 2, overview.Summary.Warning)

	require.Len(t, overview.Positions, 4)
	assert.Equal(t, evaluate.TierRisk, overview.Positions[0].Health.StatusTier)
	assert.Equal(t, evaluate.TierGood, overview.Positions[3].Health.StatusTier)
}

func TestPortfolioService_Overview_StoreFailure(t *testing.T) {
	mockRepo := new(MockPositionRepository)
	notifier := &recordingNotifier{}
	svc := NewPortfolioService(mockRepo, notifier, testLogger())

	mockRepo.On("GetAll", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.Overview(context.Background())
	assert.Error(t, err)
}

func TestPortfolioService_UpdateHealth_StampsServiceClock(t *testing.T) {
	mockRepo := new(MockPositionRepository)
	notifier := &recordingNotifier{}
	svc := NewPortfolioService(mockRepo, notifier, testLogger())

	frozen := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }

	pos := positionWithHealth("Acme", models.HealthStatusHealthy)
	runway := 4.5
	update := models.HealthUpdate{HealthStatus: models.HealthStatusWarning, RunwayMonths: &runway}

	mockRepo.On("GetByID", mock.Anything, pos.ID).Return(pos, nil)
	mockRepo.On("UpdateHealth", mock.Anything, pos.ID, update, frozen).Return(nil)

	err := svc.UpdateHealth(context.Background(), testSession(), pos.ID, update)
	require.NoError(t, err)

	n, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, notify.SeveritySuccess, n.Severity)
	mockRepo.AssertExpectations(t)
}

func TestPortfolioService_UpdateHealth_InvalidStatusRejectedBeforeStore(t *testing.T) {
	mockRepo := new(MockPositionRepository)
	notifier := &recordingNotifier{}
	svc := NewPortfolioService(mockRepo, notifier, testLogger())

	update := models.HealthUpdate{HealthStatus: "thriving"}
	err := svc.UpdateHealth(context.Background(), testSession(), uuid.New(), update)

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "UpdateHealth", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPortfolioService_UpdateHealth_StoreFailureNotifiesVerbatim(t *testing.T) {
	mockRepo := new(MockPositionRepository)
	notifier := &recordingNotifier{}
	svc := NewPortfolioService(mockRepo, notifier, testLogger())

	pos := positionWithHealth("Acme", models.HealthStatusHealthy)
	update := models.HealthUpdate{HealthStatus: models.HealthStatusCritical}

	mockRepo.On("GetByID", mock.Anything, pos.ID).Return(pos, nil)
	mockRepo.On("UpdateHealth", mock.Anything, pos.ID, update, mock.Anything).
		Return(errors.New("could not serialize access due to concurrent update"))

	err := svc.UpdateHealth(context.Background(), testSession(), pos.ID, update)
	require.Error(t, err)

	n, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, notify.SeverityError, n.Severity)
	assert.Contains(t, n.Description, "could not serialize access")
}

func TestPortfolioService_RefreshGauges(t *testing.T) {
	mockRepo := new(MockPositionRepository)
	notifier := &recordingNotifier{}
	svc := NewPortfolioService(mockRepo, notifier, testLogger())

	mockRepo.On("GetAll", mock.Anything).Return([]*models.PortfolioPosition{
		positionWithHealth("Acme", models.HealthStatusCritical),
	}, nil)

	err := svc.RefreshGauges(context.Background())
	assert.NoError(t, err)
}
