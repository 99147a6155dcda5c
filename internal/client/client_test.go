package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadgen/lead-extractor-service/internal/models"
)

func strPtr(s string) *string { return &s }

func TestClient_CreateLead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/leads", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Alice", body["name"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"name":"Alice","jobTitle":"CTO","company":"Acme","location":"NYC","linkedinUrl":"u"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	lead, err := c.CreateLead(context.Background(), models.LeadDraft{
		Name:        strPtr("Alice"),
		JobTitle:    strPtr("CTO"),
		Company:     strPtr("Acme"),
		Location:    strPtr("NYC"),
		LinkedinURL: strPtr("u"),
	})

	require.NoError(t, err)
	assert.Equal(t, 7, lead.ID)
}

func TestClient_Batch_QueryParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/leads/batch", r.URL.Path)
		assert.Equal(t, "CTO", r.URL.Query().Get("jobTitle"))
		assert.False(t, r.URL.Query().Has("location"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	leads, err := New(srv.URL, 0).Batch(context.Background(), models.SearchFilters{JobTitle: "CTO"})

	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Extraction not found"}`))
	}))
	defer srv.Close()

	status := "completed"
	_, err := New(srv.URL, 0).UpdateExtraction(context.Background(), 9, models.ExtractionPatch{Status: &status})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Extraction not found", apiErr.Message)
}

func TestClient_APIError_PlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).ListLeads(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestClient_Export(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/export/excel", r.URL.Path)
		w.Header().Set("Content-Disposition", `attachment; filename="linkedin_leads.xlsx"`)
		w.Write([]byte("PK-data"))
	}))
	defer srv.Close()

	file, err := New(srv.URL, 0).Export(context.Background(), "excel")

	require.NoError(t, err)
	assert.Equal(t, "linkedin_leads.xlsx", file.Name)
	assert.Equal(t, []byte("PK-data"), file.Data)
}

func TestClient_Export_UnknownFormat(t *testing.T) {
	_, err := New("http://localhost:1", 0).Export(context.Background(), "pdf")
	assert.Error(t, err)
}

func TestClient_ClearLeads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		w.Write([]byte(`{"message":"All leads cleared"}`))
	}))
	defer srv.Close()

	assert.NoError(t, New(srv.URL, 0).ClearLeads(context.Background()))
}

func TestClient_LoginCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, `[{"name":"li_at"}]`, body["cookies"])
		w.Write([]byte(`{"success":true,"message":"Cookie login successful"}`))
	}))
	defer srv.Close()

	result, err := New(srv.URL, 0).LoginCookies(context.Background(), `[{"name":"li_at"}]`)

	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestClient_UpdateSettings_NullOnlyWhenAsked(t *testing.T) {
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	_, err := c.UpdateSettings(context.Background(), models.SettingsPatch{Theme: strPtr("dark")})
	require.NoError(t, err)
	_, err = c.UpdateSettings(context.Background(), models.SettingsPatch{LastEmail: models.Null[string]()})
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	assert.Equal(t, map[string]any{"theme": "dark"}, bodies[0])
	assert.Equal(t, map[string]any{"lastEmail": nil}, bodies[1])
}
