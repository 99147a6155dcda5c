package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/leadgen/lead-extractor-service/internal/apperror"
	"github.com/leadgen/lead-extractor-service/internal/export"
	"github.com/leadgen/lead-extractor-service/internal/models"
)

type renderFunc func([]models.Lead) (export.Attachment, error)

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, export.CSV, "Failed to export CSV")
}

func (s *Server) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, export.Excel, "Failed to export Excel")
}

// serveExport renders the current lead snapshot and sends it as an attachment.
func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, render renderFunc, failure string) {
	leads, err := s.storage.ListLeads(r.Context())
	if err != nil {
		s.internalError(w, r, failure, err)
		return
	}

	att, err := render(leads)
	if errors.Is(err, apperror.ErrEmptyState) {
		writeMessage(w, http.StatusBadRequest, "No leads to export")
		return
	}
	if err != nil {
		s.internalError(w, r, failure, err)
		return
	}

	if s.archiver != nil {
		key, err := s.archiver.Archive(r.Context(), att)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to archive export")
		} else {
			s.logger.WithField("key", key).Info("Archived export")
		}
	}

	w.Header().Set("Content-Type", att.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(att.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(att.Data)
}
