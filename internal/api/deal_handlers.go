package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yourusername/dealflow/internal/evaluate"
	"github.com/yourusername/dealflow/internal/listing"
	"github.com/yourusername/dealflow/internal/models"
	"github.com/yourusername/dealflow/internal/service"
	"github.com/yourusername/dealflow/internal/session"
)

func (s *Server) handleListDeals(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	page, err := s.dealSvc.CurrentPage(r.Context(), sess)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

type sortRequest struct {
	Column string `json:"column"`
}

func (s *Server) handleToggleSort(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	column, err := listing.ParseSortColumn(req.Column)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	page, err := s.dealSvc.ToggleSort(r.Context(), sess, column)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleNextPage(w http.ResponseWriter, r *http.Request) {
	s.handlePageMove(w, r, s.dealSvc.NextPage)
}

func (s *Server) handlePrevPage(w http.ResponseWriter, r *http.Request) {
	s.handlePageMove(w, r, s.dealSvc.PrevPage)
}

func (s *Server) handlePageMove(w http.ResponseWriter, r *http.Request,
	move func(context.Context, session.Session) (*service.DealPage, error)) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	page, err := move(r.Context(), sess)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleGoToPage(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	pageNum, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid page number")
		return
	}

	page, err := s.dealSvc.GoToPage(r.Context(), sess, pageNum)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrInvalidID.Error())
		return
	}

	deal, err := s.dealSvc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		*models.Deal
		Warmth evaluate.Warmth `json:"warmth"`
	}{Deal: deal, Warmth: s.dealSvc.Warmth(deal)})
}

func (s *Server) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var deal models.Deal
	if err := json.NewDecoder(r.Body).Decode(&deal); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.dealSvc.Create(r.Context(), sess, &deal); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, deal)
}

func (s *Server) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrInvalidID.Error())
		return
	}

	var deal models.Deal
	if err := json.NewDecoder(r.Body).Decode(&deal); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	deal.ID = id

	if err := s.dealSvc.Update(r.Context(), sess, &deal); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deal)
}

func (s *Server) handleDeleteDeal(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrInvalidID.Error())
		return
	}

	if err := s.dealSvc.Delete(r.Context(), sess, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleToggleSelect(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrInvalidID.Error())
		return
	}

	s.dealSvc.ToggleSelect(sess, id)
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	s.dealSvc.ClearSelection(sess)
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCompareSelected(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	cmp, err := s.dealSvc.CompareSelected(r.Context(), sess)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}

type compareRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmp, err := s.dealSvc.Compare(r.Context(), req.IDs)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}
