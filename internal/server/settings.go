package server

import (
	"net/http"

	"github.com/leadgen/lead-extractor-service/internal/validation"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.storage.GetSettings(r.Context())
	if err != nil {
		s.internalError(w, r, "Failed to fetch settings", err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeValidationError(w, "Invalid settings data", err)
		return
	}

	patch, err := validation.ParseSettingsPatch(body)
	if err != nil {
		writeValidationError(w, "Invalid settings data", err)
		return
	}

	settings, err := s.storage.UpdateSettings(r.Context(), patch)
	if err != nil {
		s.internalError(w, r, "Failed to update settings", err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}
