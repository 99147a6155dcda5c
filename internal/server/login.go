package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/leadgen/lead-extractor-service/internal/clock"
	"github.com/leadgen/lead-extractor-service/internal/models"
)

const linkedinLoginURL = "https://www.linkedin.com/login"

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// cookiesRequest keeps the raw value so a non-string cookies field can be
// told apart from a missing one.
type cookiesRequest struct {
	Cookies json.RawMessage `json:"cookies"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleLoginRedirect sends browsers to the LinkedIn login page.
func (s *Server) handleLoginRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, linkedinLoginURL, http.StatusFound)
}

// handleLoginCredentials simulates a credentials login. Nothing is sent to
// LinkedIn; the request only checks that both fields are present.
func (s *Server) handleLoginCredentials(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	body, err := readBody(w, r)
	if err == nil {
		err = json.Unmarshal(body, &req)
	}
	if err != nil || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password required")
		return
	}

	if err := clock.Sleep(r.Context(), s.login.CredentialsDelay); err != nil {
		return
	}

	settings, err := s.storage.GetSettings(r.Context())
	if err != nil {
		s.internalError(w, r, "Login failed", err)
		return
	}
	if settings.RememberCredentials {
		if _, err := s.storage.UpdateSettings(r.Context(), models.SettingsPatch{LastEmail: models.Some(req.Email)}); err != nil {
			s.logger.WithError(err).Warn("Failed to remember login email")
		}
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Message: "Login successful"})
}

// handleLoginCookies simulates a cookie login. The cookies must be a string
// holding a JSON document.
func (s *Server) handleLoginCookies(w http.ResponseWriter, r *http.Request) {
	var req cookiesRequest
	body, err := readBody(w, r)
	if err == nil && len(bytes.TrimSpace(body)) > 0 {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid cookies format")
		return
	}

	raw := bytes.TrimSpace(req.Cookies)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte(`""`)) {
		writeMessage(w, http.StatusBadRequest, "Cookies required")
		return
	}

	var cookies string
	if err := json.Unmarshal(raw, &cookies); err != nil || !json.Valid([]byte(cookies)) {
		writeMessage(w, http.StatusBadRequest, "Invalid cookies format")
		return
	}

	if err := clock.Sleep(r.Context(), s.login.CookiesDelay); err != nil {
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, Message: "Cookie login successful"})
}
