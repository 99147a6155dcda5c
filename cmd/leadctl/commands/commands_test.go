package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadgen/lead-extractor-service/internal/config"
	"github.com/leadgen/lead-extractor-service/internal/logging"
	"github.com/leadgen/lead-extractor-service/internal/models"
	"github.com/leadgen/lead-extractor-service/internal/server"
	"github.com/leadgen/lead-extractor-service/internal/storage"
)

func newBackend(t *testing.T) (string, *storage.MemoryStorage) {
	t.Helper()
	store := storage.NewMemoryStorage()
	srv := server.NewServer(server.Options{
		Config:  config.ServerConfig{Port: 5000},
		Storage: store,
		Logger:  logging.Discard(),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL, store
}

func run(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--server", url}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestLeadsAddAndList(t *testing.T) {
	url, _ := newBackend(t)

	_, err := run(t, url, "leads", "add",
		"--name", "Alice", "--job-title", "CTO", "--company", "Acme",
		"--location", "NYC", "--linkedin-url", "https://linkedin.com/in/alice",
		"--apollo-data", `{"score":90}`)
	require.NoError(t, err)

	out, err := run(t, url, "leads", "list")
	require.NoError(t, err)

	var leads []models.Lead
	require.NoError(t, json.Unmarshal([]byte(out), &leads))
	require.Len(t, leads, 1)
	assert.Equal(t, "Alice", leads[0].Name)
	assert.JSONEq(t, `{"score":90}`, string(leads[0].ApolloData))
}

func TestLeadsAdd_MissingField(t *testing.T) {
	url, store := newBackend(t)

	_, err := run(t, url, "leads", "add", "--name", "Bob")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid lead data")
	leads, _ := store.ListLeads(context.Background())
	assert.Empty(t, leads)
}

func TestExport_WritesFile(t *testing.T) {
	url, _ := newBackend(t)
	_, err := run(t, url, "leads", "add",
		"--name", "Alice", "--job-title", "CTO", "--company", "Acme",
		"--location", "NYC", "--linkedin-url", "u")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	_, err = run(t, url, "export", "csv", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Name,Job Title,Company,Location,LinkedIn URL\n"))
}

func TestExport_NoLeads(t *testing.T) {
	url, _ := newBackend(t)

	_, err := run(t, url, "export", "excel", "-o", "-")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "No leads to export")
}

func TestExport_RejectsUnknownFormat(t *testing.T) {
	url, _ := newBackend(t)

	_, err := run(t, url, "export", "pdf")

	assert.Error(t, err)
}

func TestSettingsSet_OnlyChangedFlags(t *testing.T) {
	url, _ := newBackend(t)

	out, err := run(t, url, "settings", "set", "--theme", "dark", "--auto-save=false")
	require.NoError(t, err)

	var settings models.Settings
	require.NoError(t, json.Unmarshal([]byte(out), &settings))
	assert.Equal(t, "dark", settings.Theme)
	assert.False(t, settings.AutoSave)
	assert.True(t, settings.ShowNotifications)
	assert.Equal(t, "csv", settings.ExportFormat)
}

func TestSettingsSet_ForgetEmail(t *testing.T) {
	url, store := newBackend(t)

	_, err := run(t, url, "settings", "set", "--last-email", "a@b.com")
	require.NoError(t, err)
	settings, err := store.GetSettings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, settings.LastEmail)

	_, err = run(t, url, "settings", "set", "--theme", "dark")
	require.NoError(t, err)
	settings, err = store.GetSettings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, settings.LastEmail)
	assert.Equal(t, "a@b.com", *settings.LastEmail)

	_, err = run(t, url, "settings", "set", "--forget-email")
	require.NoError(t, err)
	settings, err = store.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Nil(t, settings.LastEmail)
	assert.Equal(t, "dark", settings.Theme)
}

func TestSettingsSet_EmailFlagsExclusive(t *testing.T) {
	url, _ := newBackend(t)

	_, err := run(t, url, "settings", "set", "--last-email", "a@b.com", "--forget-email")

	assert.Error(t, err)
}

func TestLoginCredentials(t *testing.T) {
	url, _ := newBackend(t)

	out, err := run(t, url, "login", "credentials", "--email", "a@b.com", "--password", "pw")

	require.NoError(t, err)
	assert.Contains(t, out, "Login successful")

	_, err = run(t, url, "login", "credentials", "--email", "a@b.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email and password required")
}

func TestLoginCookies_FromFile(t *testing.T) {
	url, _ := newBackend(t)
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"li_at","value":"x"}]`), 0o600))

	out, err := run(t, url, "login", "cookies", "-f", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Cookie login successful")
}

func TestExtract(t *testing.T) {
	url, store := newBackend(t)

	out, err := run(t, url, "extract", "--industry", "healthcare", "--limit", "3", "--delay", "0s")
	require.NoError(t, err)

	var extraction models.Extraction
	require.NoError(t, json.Unmarshal([]byte(out), &extraction))
	assert.Equal(t, models.StatusCompleted, extraction.Status)

	leads, err := store.ListLeads(context.Background())
	require.NoError(t, err)
	assert.Len(t, leads, 3)

	out, err = run(t, url, "extractions", "list")
	require.NoError(t, err)
	var extractions []models.Extraction
	require.NoError(t, json.Unmarshal([]byte(out), &extractions))
	assert.Len(t, extractions, 1)
}

func TestServerFromEnvironment(t *testing.T) {
	url, _ := newBackend(t)
	t.Setenv("LEADCTL_SERVER", url)

	var stdout bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"settings", "get"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), `"exportFormat": "csv"`)
}
