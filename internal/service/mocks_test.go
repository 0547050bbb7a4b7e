package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/dealflow/internal/listing"
	"github.com/yourusername/dealflow/internal/models"
	"github.com/yourusername/dealflow/internal/notify"
)

// MockDealRepository mocks deal repository
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) Create(ctx context.Context, deal *models.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deal), args.Error(1)
}

func (m *MockDealRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Deal, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deal), args.Error(1)
}

func (m *MockDealRepository) List(ctx context.Context, ownerID uuid.UUID, query listing.Query) ([]*models.Deal, int, error) {
	args := m.Called(ctx, ownerID, query)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Deal), args.Int(1), args.Error(2)
}

func (m *MockDealRepository) Update(ctx context.Context, deal *models.Deal) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *MockDealRepository) SetDeckURL(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *MockDealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPositionRepository mocks position repository
type MockPositionRepository struct {
	mock.Mock
}

func (m *MockPositionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PortfolioPosition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PortfolioPosition), args.Error(1)
}

func (m *MockPositionRepository) GetAll(ctx context.Context) ([]*models.PortfolioPosition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PortfolioPosition), args.Error(1)
}

func (m *MockPositionRepository) UpdateHealth(ctx context.Context, id uuid.UUID, update models.HealthUpdate, updatedAt time.Time) error {
	args := m.Called(ctx, id, update, updatedAt)
	return args.Error(0)
}

// MockReviewRepository mocks weekly review repository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) GetByUserAndWeek(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*models.WeeklyReview, error) {
	args := m.Called(ctx, userID, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeeklyReview), args.Error(1)
}

func (m *MockReviewRepository) Upsert(ctx context.Context, review *models.WeeklyReview) (bool, error) {
	args := m.Called(ctx, review)
	return args.Bool(0), args.Error(1)
}

// recordingNotifier captures notifications for assertions
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []notify.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recordingNotifier) last() (notify.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return notify.Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}
