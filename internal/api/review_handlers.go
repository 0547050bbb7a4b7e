package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yourusername/dealflow/internal/models"
	"github.com/yourusername/dealflow/internal/session"
)

func (s *Server) handleCurrentReview(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	review, err := s.reviewSvc.CurrentWeek(r.Context(), sess)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, review)
}

func (s *Server) handleReviewForWeek(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	weekParam := r.URL.Query().Get("week")
	if weekParam == "" {
		s.handleCurrentReview(w, r)
		return
	}

	week, err := time.Parse("2006-01-02", weekParam)
	if err != nil {
		respondError(w, http.StatusBadRequest, "week must be formatted YYYY-MM-DD")
		return
	}

	review, err := s.reviewSvc.ForWeek(r.Context(), sess, week)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, review)
}

func (s *Server) handleSaveReview(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var review models.WeeklyReview
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.reviewSvc.Save(r.Context(), sess, &review); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, review)
}
