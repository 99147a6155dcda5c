package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/leadgen/lead-extractor-service/internal/apperror"
)

// runInput is the actor task input sent when starting a run.
type runInput struct {
	IncludeCompanyDetails bool   `json:"include_company_details"`
	SearchURL             string `json:"search_url"`
}

// apifyRun mirrors the fields of an Apify run object we rely on.
type apifyRun struct {
	ID               string `json:"id"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type apifyRunResponse struct {
	Data apifyRun `json:"data"`
}

// startRun starts a new run of the configured actor task.
func (s *Service) startRun(ctx context.Context, searchURL string) (apifyRun, error) {
	endpoint := fmt.Sprintf("%s/v2/actor-tasks/%s/runs?%s",
		strings.TrimRight(s.config.BaseURL, "/"),
		url.PathEscape(s.config.TaskID),
		s.tokenQuery(),
	)

	payload, err := json.Marshal(runInput{IncludeCompanyDetails: true, SearchURL: searchURL})
	if err != nil {
		return apifyRun{}, fmt.Errorf("failed to marshal run input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return apifyRun{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := s.do(req)
	if err != nil {
		return apifyRun{}, err
	}

	var resp apifyRunResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return apifyRun{}, apperror.NewUpstreamError("failed to unmarshal run response", err)
	}
	if resp.Data.DefaultDatasetID == "" {
		return apifyRun{}, apperror.NewUpstreamError("run response has no dataset id", nil)
	}

	return resp.Data, nil
}

// fetchItems reads every item of a dataset. Items are kept raw so they can be
// attached to the lead they produce.
func (s *Service) fetchItems(ctx context.Context, datasetID string) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/v2/datasets/%s/items?%s",
		strings.TrimRight(s.config.BaseURL, "/"),
		url.PathEscape(datasetID),
		s.tokenQuery(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := s.do(req)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, apperror.NewUpstreamError("failed to unmarshal dataset items", err)
	}

	return items, nil
}

func (s *Service) do(req *http.Request) ([]byte, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewUpstreamError("failed to make request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewUpstreamError("failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.NewUpstreamError(
			fmt.Sprintf("apify returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	return body, nil
}

func (s *Service) tokenQuery() string {
	q := url.Values{}
	q.Set("token", s.config.APIToken)
	return q.Encode()
}
