// Package service wires the evaluation core to the record store,
// notifications, and metrics.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/dealflow/internal/evaluate"
	"github.com/yourusername/dealflow/internal/listing"
	"github.com/yourusername/dealflow/internal/logger"
	"github.com/yourusername/dealflow/internal/metrics"
	"github.com/yourusername/dealflow/internal/models"
	"github.com/yourusername/dealflow/internal/notify"
	"github.com/yourusername/dealflow/internal/repository"
	"github.com/yourusername/dealflow/internal/session"
)

// ErrBusy indicates a list action was ignored because a request for the
// same user is already in flight.
var ErrBusy = fmt.Errorf("a request is already in flight")

// DealPage is one rendered page of the deal list
type DealPage struct {
	Deals      []*models.Deal     `json:"deals"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageCount  int                `json:"page_count"`
	RangeLabel string             `json:"range_label"`
	SortColumn listing.SortColumn `json:"sort_column"`
	Direction  listing.Direction  `json:"direction"`
	CanPrev    bool               `json:"can_prev"`
	CanNext    bool               `json:"can_next"`
}

// DealService manages deal CRUD, the per-user list state, and deal
// comparison.
type DealService struct {
	dealRepo  repository.DealRepository
	notifier  notify.Notifier
	audit     *logger.AuditLogger
	logger    *logrus.Logger
	validate  *validator.Validate
	pageSize  int
	pageCache *cache.Cache

	mu          sync.Mutex
	controllers map[uuid.UUID]*listing.Controller
}

// NewDealService creates a new deal service
func NewDealService(
	dealRepo repository.DealRepository,
	notifier notify.Notifier,
	log *logrus.Logger,
	pageSize int,
	cacheTTL time.Duration,
) *DealService {
	return &DealService{
		dealRepo:    dealRepo,
		notifier:    notifier,
		audit:       logger.NewAuditLogger(log),
		logger:      log,
		validate:    validator.New(),
		pageSize:    pageSize,
		pageCache:   cache.New(cacheTTL, cacheTTL*2),
		controllers: make(map[uuid.UUID]*listing.Controller),
	}
}

// controllerFor returns the list controller holding this user's sort,
// page, and selection state, creating it on first touch.
func (s *DealService) controllerFor(sess session.Session) *listing.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.controllers[sess.UserID]
	if !ok {
		ctrl = listing.NewController(s.pageSize)
		s.controllers[sess.UserID] = ctrl
	}
	return ctrl
}

// CurrentPage fetches the page the user's controller currently points at
func (s *DealService) CurrentPage(ctx context.Context, sess session.Session) (*DealPage, error) {
	ctrl := s.controllerFor(sess)
	return s.fetchPage(ctx, sess, ctrl, ctrl.Query())
}

// ToggleSort applies a sort header click and fetches the reordered
// first page.
func (s *DealService) ToggleSort(ctx context.Context, sess session.Session, column listing.SortColumn) (*DealPage, error) {
	ctrl := s.controllerFor(sess)
	return s.fetchPage(ctx, sess, ctrl, ctrl.ToggleSort(column))
}

// NextPage advances one page forward
func (s *DealService) NextPage(ctx context.Context, sess session.Session) (*DealPage, error) {
	ctrl := s.controllerFor(sess)
	query, err := ctrl.Next()
	if err != nil {
		return nil, err
	}
	return s.fetchPage(ctx, sess, ctrl, query)
}

// PrevPage moves one page back
func (s *DealService) PrevPage(ctx context.Context, sess session.Session) (*DealPage, error) {
	ctrl := s.controllerFor(sess)
	query, err := ctrl.Prev()
	if err != nil {
		return nil, err
	}
	return s.fetchPage(ctx, sess, ctrl, query)
}

// GoToPage jumps to a page within bounds
func (s *DealService) GoToPage(ctx context.Context, sess session.Session, page int) (*DealPage, error) {
	ctrl := s.controllerFor(sess)
	query, err := ctrl.GoToPage(page)
	if err != nil {
		return nil, err
	}
	return s.fetchPage(ctx, sess, ctrl, query)
}

// fetchPage resolves a page through the cache or the store. The
// controller's in-flight slot guards the store round trip; a second
// trigger while one is pending is refused with ErrBusy, never
// dispatched concurrently.
func (s *DealService) fetchPage(ctx context.Context, sess session.Session, ctrl *listing.Controller, query listing.Query) (*DealPage, error) {
	key := pageCacheKey(sess.UserID, query)
	if cached, found := s.pageCache.Get(key); found {
		metrics.ListCacheHitsTotal.Inc()
		page := cached.(*DealPage)
		ctrl.SetTotal(page.Total)
		return s.pageWithState(ctrl, page), nil
	}
	metrics.ListCacheMissesTotal.Inc()

	if !ctrl.TryBegin() {
		return nil, ErrBusy
	}
	defer ctrl.End()

	start := time.Now()
	deals, total, err := s.dealRepo.List(ctx, sess.UserID, query)
	metrics.RecordListQuery(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordStoreError("deal_list")
		s.logger.WithError(err).Error("Failed to list deals")
		// read failures degrade to an empty set; the caller's view
		// simply shows nothing until a refresh succeeds
		ctrl.SetTotal(0)
		return s.pageWithState(ctrl, &DealPage{Deals: []*models.Deal{}}), nil
	}

	ctrl.SetTotal(total)
	page := &DealPage{Deals: deals, Total: total}
	s.pageCache.Set(key, page, cache.DefaultExpiration)

	return s.pageWithState(ctrl, page), nil
}

func (s *DealService) pageWithState(ctrl *listing.Controller, page *DealPage) *DealPage {
	query := ctrl.Query()
	return &DealPage{
		Deals:      page.Deals,
		Total:      page.Total,
		Page:       query.Page,
		PageCount:  ctrl.PageCount(),
		RangeLabel: ctrl.RangeLabel(),
		SortColumn: query.Column,
		Direction:  query.Direction,
		CanPrev:    ctrl.CanPrev(),
		CanNext:    ctrl.CanNext(),
	}
}

func pageCacheKey(userID uuid.UUID, q listing.Query) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d", userID, q.Column, q.Direction, q.Page, q.PageSize)
}

// invalidatePages drops every cached page; any mutation may shift page
// boundaries under every sort order.
func (s *DealService) invalidatePages() {
	s.pageCache.Flush()
}

// Get retrieves a single deal
func (s *DealService) Get(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	return s.dealRepo.GetByID(ctx, id)
}

// Create validates and stores a new deal
func (s *DealService) Create(ctx context.Context, sess session.Session, deal *models.Deal) error {
	deal.ID = uuid.New()
	deal.CreatedBy = sess.UserID
	if deal.Stage == "" {
		deal.Stage = models.DealStageReview
	}
	if deal.Outcome == "" {
		deal.Outcome = models.DealOutcomePending
	}
	deal.NormalizeEnums()

	if err := deal.Validate(); err != nil {
		return err
	}
	if err := s.validate.Struct(deal); err != nil {
		return fmt.Errorf("invalid deal: %w", err)
	}

	if err := s.dealRepo.Create(ctx, deal); err != nil {
		metrics.RecordStoreError("deal_create")
		s.notifier.Notify(ctx, notify.Error("Failed to save deal", err.Error()))
		return err
	}

	s.invalidatePages()
	metrics.RecordDealCreated()
	s.audit.LogDealMutation("create", deal.ID.String(), deal.CompanyName, sess.UserID.String(), time.Now())
	s.notifier.Notify(ctx, notify.Success("Deal saved", deal.CompanyName))
	return nil
}

// Update validates and persists deal edits. In-memory state is never
// rolled forward before the store confirms, so a failure needs no
// rollback; the caller refreshes to reconcile.
func (s *DealService) Update(ctx context.Context, sess session.Session, deal *models.Deal) error {
	deal.NormalizeEnums()
	if err := deal.Validate(); err != nil {
		return err
	}
	if err := s.validate.Struct(deal); err != nil {
		return fmt.Errorf("invalid deal: %w", err)
	}

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		metrics.RecordStoreError("deal_update")
		s.notifier.Notify(ctx, notify.Error("Failed to update deal", err.Error()))
		return err
	}

	s.invalidatePages()
	metrics.RecordDealUpdated()
	s.audit.LogDealMutation("update", deal.ID.String(), deal.CompanyName, sess.UserID.String(), time.Now())
	s.notifier.Notify(ctx, notify.Success("Deal updated", deal.CompanyName))
	return nil
}

// Delete removes a deal
func (s *DealService) Delete(ctx context.Context, sess session.Session, id uuid.UUID) error {
	if err := s.dealRepo.Delete(ctx, id); err != nil {
		metrics.RecordStoreError("deal_delete")
		s.notifier.Notify(ctx, notify.Error("Failed to delete deal", err.Error()))
		return err
	}

	s.invalidatePages()
	// drop a selected row that no longer exists
	if ctrl := s.controllerFor(sess); ctrl.IsSelected(id) {
		ctrl.ToggleSelect(id)
	}
	s.audit.LogDealMutation("delete", id.String(), "", sess.UserID.String(), time.Now())
	return nil
}

// SetDeck records an uploaded deck's public URL on the deal
func (s *DealService) SetDeck(ctx context.Context, sess session.Session, id uuid.UUID, url string) error {
	if err := s.dealRepo.SetDeckURL(ctx, id, url); err != nil {
		metrics.RecordStoreError("deal_set_deck")
		s.notifier.Notify(ctx, notify.Error("Failed to attach deck", err.Error()))
		return err
	}

	s.invalidatePages()
	s.audit.LogDealMutation("attach_deck", id.String(), "", sess.UserID.String(), time.Now())
	return nil
}

// ToggleSelect flips a row's membership in the user's comparison selection
func (s *DealService) ToggleSelect(sess session.Session, id uuid.UUID) {
	s.controllerFor(sess).ToggleSelect(id)
}

// ClearSelection empties the user's comparison selection
func (s *DealService) ClearSelection(sess session.Session) {
	s.controllerFor(sess).ClearSelection()
}

// CompareSelected compares the user's currently selected deals
func (s *DealService) CompareSelected(ctx context.Context, sess session.Session) (*evaluate.Comparison, error) {
	return s.Compare(ctx, s.controllerFor(sess).Selected())
}

// Compare fetches a deal set and builds its side-by-side comparison.
// Zero or one IDs produce a degenerate table, matching the screen's
// behavior when too few rows are ticked.
func (s *DealService) Compare(ctx context.Context, ids []uuid.UUID) (*evaluate.Comparison, error) {
	deals, err := s.dealRepo.GetByIDs(ctx, ids)
	if err != nil {
		metrics.RecordStoreError("deal_compare")
		return nil, fmt.Errorf("failed to fetch comparison set: %w", err)
	}

	metrics.RecordComparison()
	cmp := evaluate.Compare(deals)
	return &cmp, nil
}

// Warmth classifies a deal's relationship warmth for display
func (s *DealService) Warmth(deal *models.Deal) evaluate.Warmth {
	return evaluate.ClassifyWarmth(deal.WarmthScore)
}
