package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yourusername/dealflow/internal/blob"
	"github.com/yourusername/dealflow/internal/metrics"
	"github.com/yourusername/dealflow/internal/models"
	"github.com/yourusername/dealflow/internal/session"
)

type uploadResponse struct {
	DeckURL string `json:"deck_url"`
}

// handleUploadDeck accepts a multipart deck upload, stores it, and
// records the public URL on the deal. Validation failures never reach
// the object store.
func (s *Server) handleUploadDeck(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if s.uploader == nil {
		respondError(w, http.StatusNotImplemented, "deck uploads are disabled")
		return
	}

	dealID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrInvalidID.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Storage.MaxUploadBytes+4096)
	if err := r.ParseMultipartForm(s.cfg.Storage.MaxUploadBytes); err != nil {
		metrics.RecordDeckUpload("rejected", 0)
		respondError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}

	file, header, err := r.FormFile("deck")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing deck file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := s.uploader.ValidateDeck(header.Filename, contentType, header.Size); err != nil {
		metrics.RecordDeckUpload("rejected", 0)
		respondUploadError(w, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	start := time.Now()
	url, err := s.uploader.UploadDeck(r.Context(), sess, header.Filename, contentType, data, nil)
	if err != nil {
		metrics.RecordDeckUpload("failed", time.Since(start).Seconds())
		respondUploadError(w, err)
		return
	}
	metrics.RecordDeckUpload("success", time.Since(start).Seconds())

	if err := s.dealSvc.SetDeck(r.Context(), sess, dealID, url); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, uploadResponse{DeckURL: url})
}

func respondUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, blob.ErrFileTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, blob.ErrUnsupportedType):
		respondError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, blob.ErrEmptyFile):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusBadGateway, "upload failed")
	}
}
