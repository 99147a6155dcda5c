package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/leadgen/lead-extractor-service/internal/apperror"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeValidationError reports the failing field along with a handler specific message.
func writeValidationError(w http.ResponseWriter, message string, err error) {
	body := map[string]string{"message": message}

	var ve *apperror.ValidationError
	if errors.As(err, &ve) {
		if ve.Field != "" {
			body["field"] = ve.Field
		}
		body["expected"] = ve.Expected
	}

	writeJSON(w, http.StatusBadRequest, body)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	s.logger.WithError(err).WithField("path", r.URL.Path).Error(message)
	writeMessage(w, http.StatusInternalServerError, message)
}

// readBody reads a request body up to maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &apperror.ValidationError{Expected: fmt.Sprintf("a body of at most %d bytes", maxBodyBytes)}
	}
	return body, nil
}
