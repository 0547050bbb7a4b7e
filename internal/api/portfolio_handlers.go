package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yourusername/dealflow/internal/models"
	"github.com/yourusername/dealflow/internal/session"
)

func (s *Server) handlePortfolioOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.portfolioSvc.Overview(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

func (s *Server) handleUpdateHealth(w http.ResponseWriter, r *http.Request) {
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

	var update models.HealthUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.portfolioSvc.UpdateHealth(r.Context(), sess, id, update); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
