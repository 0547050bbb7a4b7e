package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/dealflow/internal/listing"
	"github.com/yourusername/dealflow/internal/models"
	"github.com/yourusername/dealflow/internal/notify"
	"github.com/yourusername/dealflow/internal/session"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testSession() session.Session {
	return session.Session{UserID: uuid.New()}
}

func dealNamed(name string, aiScore float64) *models.Deal {
	return &models.Deal{
		ID:          uuid.New(),
		CompanyName: name,
		Stage:       models.DealStageReview,
		Outcome:     models.DealOutcomePending,
		AIScore:     &aiScore,
	}
}

func TestDealService_CurrentPage(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)
	sess := testSession()

	deals := []*models.Deal{dealNamed("Acme", 80), dealNamed("Globex", 65)}
	mockRepo.On("List", mock.Anything, sess.UserID, mock.Anything).Return(deals, 25, nil)

	page, err := svc.CurrentPage(context.Background(), sess)
	require.NoError(t, err)

	assert.Len(t, page.Deals, 2)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.PageCount)
	assert.Equal(t, "1–10 of 25", page.RangeLabel)
	assert.False(t, page.CanPrev)
	assert.True(t, page.CanNext)
	mockRepo.AssertExpectations(t)
}

func TestDealService_CurrentPage_CachesResult(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)
	sess := testSession()

	deals := []*models.Deal{dealNamed("Acme", 80)}
	mockRepo.On("List", mock.Anything, sess.UserID, mock.Anything).Return(deals, 1, nil).Once()

	_, err := svc.CurrentPage(context.Background(), sess)
	require.NoError(t, err)

	// second call for the same query must be served from cache
	page, err := svc.CurrentPage(context.Background(), sess)
	require.NoError(t, err)
	assert.Len(t, page.Deals, 1)
	mockRepo.AssertNumberOfCalls(t, "List", 1)
}

func TestDealService_CurrentPage_ReadFailureDegradesToEmpty(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)
	sess := testSession()

	mockRepo.On("List", mock.Anything, sess.UserID, mock.Anything).
		Return(nil, 0, errors.New("connection refused"))

	page, err := svc.CurrentPage(context.Background(), sess)
	require.NoError(t, err)

	assert.Empty(t, page.Deals)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, "No deals", page.RangeLabel)
	assert.Equal(t, 1, page.PageCount)
}

func TestDealService_ToggleSort_ResetsToFirstPage(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)
	sess := testSession()

	mockRepo.On("List", mock.Anything, sess.UserID, mock.Anything).
		Return([]*models.Deal{}, 30, nil)

	_, err := svc.CurrentPage(context.Background(), sess)
	require.NoError(t, err)
	_, err = svc.NextPage(context.Background(), sess)
	require.NoError(t, err)

	page, err := svc.ToggleSort(context.Background(), sess, listing.SortByAIScore)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, listing.SortByAIScore, page.SortColumn)
	assert.Equal(t, listing.Descending, page.Direction)
}

func TestDealService_Create(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)
	sess := testSession()

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Deal")).Return(nil)

	deal := &models.Deal{CompanyName: "Acme"}
	err := svc.Create(context.Background(), sess, deal)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, deal.ID)
	assert.Equal(t, sess.UserID, deal.CreatedBy)
	assert.Equal(t, models.DealStageReview, deal.Stage)
	assert.Equal(t, models.DealOutcomePending, deal.Outcome)

	n, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, notify.SeveritySuccess, n.Severity)
	mockRepo.AssertExpectations(t)
}

func TestDealService_Create_UnrecognisedEnumsStoredAsUnknown(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)

	var stored *models.Deal
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Deal")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.Deal) }).
		Return(nil)

	deal := &models.Deal{CompanyName: "Acme", Stage: "incubating", Outcome: "jackpot"}
	require.NoError(t, svc.Create(context.Background(), testSession(), deal))

	require.NotNil(t, stored)
	assert.Equal(t, models.DealStageUnknown, stored.Stage)
	assert.Equal(t, models.DealOutcomeUnknown, stored.Outcome)
}

func TestDealService_Create_EmptyNameRejectedBeforeStore(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)

	err := svc.Create(context.Background(), testSession(), &models.Deal{CompanyName: "   "})
	assert.ErrorIs(t, err, models.ErrCompanyNameRequired)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDealService_Create_StoreFailureNotifiesWithMessage(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)

	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(errors.New("duplicate key value violates unique constraint"))

	err := svc.Create(context.Background(), testSession(), &models.Deal{CompanyName: "Acme"})
	require.Error(t, err)

	n, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, notify.SeverityError, n.Severity)
	assert.Contains(t, n.Description, "duplicate key value")
}

func TestDealService_Update_StoreFailureLeavesNoRollbackDebt(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)

	mockRepo.On("Update", mock.Anything, mock.Anything).Return(errors.New("deadlock detected"))

	deal := dealNamed("Acme", 80)
	err := svc.Update(context.Background(), testSession(), deal)
	require.Error(t, err)

	n, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, notify.SeverityError, n.Severity)
	assert.Contains(t, n.Description, "deadlock detected")
}

func TestDealService_Delete_DropsSelection(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)
	sess := testSession()

	id := uuid.New()
	svc.ToggleSelect(sess, id)
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	err := svc.Delete(context.Background(), sess, id)
	require.NoError(t, err)

	comparison := svc.controllerFor(sess).Selected()
	assert.Empty(t, comparison)
}

func TestDealService_Delete_UnselectedIDLeavesSelectionAlone(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)
	sess := testSession()

	kept := uuid.New()
	svc.ToggleSelect(sess, kept)

	deleted := uuid.New()
	mockRepo.On("Delete", mock.Anything, deleted).Return(nil)

	err := svc.Delete(context.Background(), sess, deleted)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{kept}, svc.controllerFor(sess).Selected())
}

func TestDealService_CompareSelected(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)
	sess := testSession()

	a := dealNamed("Acme", 90)
	b := dealNamed("Globex", 70)
	svc.ToggleSelect(sess, a.ID)
	svc.ToggleSelect(sess, b.ID)

	mockRepo.On("GetByIDs", mock.Anything, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 2
	})).Return([]*models.Deal{a, b}, nil)

	cmp, err := svc.CompareSelected(context.Background(), sess)
	require.NoError(t, err)

	require.Len(t, cmp.Columns, 2)
	assert.Equal(t, "Acme", cmp.Columns[0].CompanyName)
	assert.Equal(t, "Globex", cmp.Columns[1].CompanyName)
	mockRepo.AssertExpectations(t)
}

func TestDealService_Compare_StoreFailure(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)

	mockRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := svc.Compare(context.Background(), []uuid.UUID{uuid.New()})
	assert.Error(t, err)
}

func TestDealService_ControllersAreIsolatedPerUser(t *testing.T) {
	mockRepo := new(MockDealRepository)
	notifier := &recordingNotifier{}
	svc := NewDealService(mockRepo, notifier, testLogger(), 10, time.Minute)

	alice := testSession()
	bob := testSession()

	id := uuid.New()
	svc.ToggleSelect(alice, id)

	assert.Len(t, svc.controllerFor(alice).Selected(), 1)
	assert.Empty(t, svc.controllerFor(bob).Selected())
}
