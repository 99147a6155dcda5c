package server

import (
	"net/http"

	"github.com/leadgen/lead-extractor-service/internal/models"
	"github.com/leadgen/lead-extractor-service/internal/validation"
)

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.storage.ListLeads(r.Context())
	if err != nil {
		s.internalError(w, r, "Failed to fetch leads", err)
		return
	}

	writeJSON(w, http.StatusOK, leads)
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeValidationError(w, "Invalid lead data", err)
		return
	}

	draft, err := validation.ParseLead(body)
	if err != nil {
		writeValidationError(w, "Invalid lead data", err)
		return
	}

	lead, err := s.storage.CreateLead(r.Context(), draft)
	if err != nil {
		s.internalError(w, r, "Failed to create lead", err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

// handleBatchLeads runs a scraper batch for the query filters. It blocks for
// the whole ingestion, including the fixed wait on the scraper run.
func (s *Server) handleBatchLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.SearchFilters{
		JobTitle: q.Get("jobTitle"),
		Location: q.Get("location"),
		Industry: q.Get("industry"),
	}

	leads, err := s.ingestor.IngestBatch(r.Context(), filters)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch/save leads from Apify")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Failed to fetch/save leads from Apify",
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, leads)
}

func (s *Server) handleClearLeads(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.ClearLeads(r.Context()); err != nil {
		s.internalError(w, r, "Failed to clear leads", err)
		return
	}

	writeMessage(w, http.StatusOK, "All leads cleared")
}
