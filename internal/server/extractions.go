package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leadgen/lead-extractor-service/internal/apperror"
	"github.com/leadgen/lead-extractor-service/internal/validation"
)

func (s *Server) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	extractions, err := s.storage.ListExtractions(r.Context())
	if err != nil {
		s.internalError(w, r, "Failed to fetch extractions", err)
		return
	}

	writeJSON(w, http.StatusOK, extractions)
}

func (s *Server) handleCreateExtraction(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeValidationError(w, "Invalid extraction data", err)
		return
	}

	draft, err := validation.ParseExtraction(body)
	if err != nil {
		writeValidationError(w, "Invalid extraction data", err)
		return
	}

	extraction, err := s.storage.CreateExtraction(r.Context(), draft)
	if err != nil {
		s.internalError(w, r, "Failed to create extraction", err)
		return
	}

	writeJSON(w, http.StatusOK, extraction)
}

func (s *Server) handleUpdateExtraction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid extraction ID")
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeValidationError(w, "Invalid extraction data", err)
		return
	}

	patch, err := validation.ParseExtractionPatch(body)
	if err != nil {
		writeValidationError(w, "Invalid extraction data", err)
		return
	}

	extraction, err := s.storage.UpdateExtraction(r.Context(), id, patch)
	if errors.Is(err, apperror.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Extraction not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "Failed to update extraction", err)
		return
	}

	writeJSON(w, http.StatusOK, extraction)
}
