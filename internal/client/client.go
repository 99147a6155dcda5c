// Package client is a typed HTTP client for the lead extractor API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/leadgen/lead-extractor-service/internal/models"
)

// DefaultTimeout covers a full batch ingestion, which waits on the scraper run.
const DefaultTimeout = 3 * time.Minute

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	Expected   string `json:"expected,omitempty"`
	Detail     string `json:"error,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" (%s: expected %s)", e.Field, e.Expected)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// File is a downloaded export
type File struct {
	Name string
	Data []byte
}

// LoginResult is the body of a successful simulated login
type LoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client talks to a lead extractor server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) ListLeads(ctx context.Context) ([]models.Lead, error) {
	var leads []models.Lead
	err := c.do(ctx, http.MethodGet, "/api/leads", nil, &leads)
	return leads, err
}

func (c *Client) CreateLead(ctx context.Context, draft models.LeadDraft) (models.Lead, error) {
	var lead models.Lead
	err := c.do(ctx, http.MethodPost, "/api/leads", draft, &lead)
	return lead, err
}

func (c *Client) ClearLeads(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/leads", nil, nil)
}

// Batch asks the server to run a scraper batch and returns the stored leads
func (c *Client) Batch(ctx context.Context, filters models.SearchFilters) ([]models.Lead, error) {
	q := url.Values{}
	if filters.JobTitle != "" {
		q.Set("jobTitle", filters.JobTitle)
	}
	if filters.Location != "" {
		q.Set("location", filters.Location)
	}
	if filters.Industry != "" {
		q.Set("industry", filters.Industry)
	}

	path := "/api/leads/batch"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var leads []models.Lead
	err := c.do(ctx, http.MethodPost, path, nil, &leads)
	return leads, err
}

// Export downloads the lead list as "csv" or "excel"
func (c *Client) Export(ctx context.Context, format string) (File, error) {
	if format != "csv" && format != "excel" {
		return File{}, fmt.Errorf("unsupported export format %q", format)
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/export/"+format, nil)
	if err != nil {
		return File{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return File{}, fmt.Errorf("failed to read export: %w", err)
	}

	name := "linkedin_leads.csv"
	if format == "excel" {
		name = "linkedin_leads.xlsx"
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}

	return File{Name: name, Data: data}, nil
}

func (c *Client) ListExtractions(ctx context.Context) ([]models.Extraction, error) {
	var extractions []models.Extraction
	err := c.do(ctx, http.MethodGet, "/api/extractions", nil, &extractions)
	return extractions, err
}

func (c *Client) CreateExtraction(ctx context.Context, draft models.ExtractionDraft) (models.Extraction, error) {
	var extraction models.Extraction
	err := c.do(ctx, http.MethodPost, "/api/extractions", draft, &extraction)
	return extraction, err
}

func (c *Client) UpdateExtraction(ctx context.Context, id int, patch models.ExtractionPatch) (models.Extraction, error) {
	var extraction models.Extraction
	err := c.do(ctx, http.MethodPatch, "/api/extractions/"+strconv.Itoa(id), patch, &extraction)
	return extraction, err
}

func (c *Client) GetSettings(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	err := c.do(ctx, http.MethodGet, "/api/settings", nil, &settings)
	return settings, err
}

func (c *Client) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	var settings models.Settings
	err := c.do(ctx, http.MethodPatch, "/api/settings", patch, &settings)
	return settings, err
}

func (c *Client) LoginCredentials(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/api/login/credentials", body, &result)
	return result, err
}

// LoginCookies submits a JSON cookie export as a string
func (c *Client) LoginCookies(ctx context.Context, cookies string) (LoginResult, error) {
	var result LoginResult
	body := map[string]string{"cookies": cookies}
	err := c.do(ctx, http.MethodPost, "/api/login/cookies", body, &result)
	return result, err
}

// do sends a JSON request and decodes a JSON response into out, if non-nil
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// send performs the request and converts non-2xx responses into *APIError.
// The caller owns the returned body.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return nil, apiErr
	}

	return resp, nil
}
