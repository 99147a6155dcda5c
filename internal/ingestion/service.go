package ingestion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/leadgen/lead-extractor-service/internal/apperror"
	"github.com/leadgen/lead-extractor-service/internal/clock"
	"github.com/leadgen/lead-extractor-service/internal/config"
	"github.com/leadgen/lead-extractor-service/internal/models"
	"github.com/leadgen/lead-extractor-service/internal/storage"
	"github.com/leadgen/lead-extractor-service/internal/validation"
)

// Service bridges the Apify actor task into the lead store
type Service struct {
	config     config.IngestionConfig
	storage    storage.Storage
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewService creates a new ingestion service
func NewService(cfg config.IngestionConfig, store storage.Storage, logger *logrus.Logger) *Service {
	return &Service{
		config:  cfg,
		storage: store,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.WithField("component", "ingestion"),
	}
}

// IngestBatch starts a scraper run for the filters, waits the configured
// fixed delay, reads the run's dataset and stores the resulting leads.
//
// The wait is blind: the run is not polled, so a slow run yields an empty
// dataset and an upstream error. Leads are inserted with CreateLeads, which is
// not atomic.
func (s *Service) IngestBatch(ctx context.Context, filters models.SearchFilters) ([]models.Lead, error) {
	attempt := time.Now().UTC()
	s.recordStatus(ctx, attempt, "running", nil, 0)

	leads, err := s.ingest(ctx, filters)
	if err != nil {
		s.logger.WithError(err).Error("Batch ingestion failed")
		s.recordStatus(ctx, attempt, "failure", err, 0)
		return nil, err
	}

	s.logger.WithField("count", len(leads)).Info("Batch ingestion stored leads")
	s.recordStatus(ctx, attempt, "success", nil, len(leads))
	return leads, nil
}

func (s *Service) ingest(ctx context.Context, filters models.SearchFilters) ([]models.Lead, error) {
	if s.config.APIToken == "" || s.config.TaskID == "" {
		return nil, apperror.NewUpstreamError("scraper API token or task id is not configured", nil)
	}

	searchURL := buildSearchURL(filters)
	s.logger.WithField("search_url", searchURL).Info("Starting scraper run")

	run, err := s.startRun(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to start scraper run: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"run_id":     run.ID,
		"dataset_id": run.DefaultDatasetID,
		"wait":       s.config.Wait,
	}).Info("Scraper run started, waiting before reading dataset")

	if err := clock.Sleep(ctx, s.config.Wait); err != nil {
		return nil, fmt.Errorf("wait for scraper run: %w", err)
	}

	items, err := s.fetchItems(ctx, run.DefaultDatasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset items: %w", err)
	}
	if len(items) == 0 {
		return nil, apperror.NewUpstreamError("no leads found, check the scraper run logs", nil)
	}
	s.logger.WithField("count", len(items)).Info("Fetched dataset items")

	drafts := make([]models.LeadDraft, 0, len(items))
	for _, item := range items {
		drafts = append(drafts, normalizeItem(item))
	}

	unique := dedupeByURL(drafts)
	s.logger.WithField("count", len(unique)).Debug("Leads after removing duplicates")

	for i, draft := range unique {
		if err := validation.ValidateLead(draft); err != nil {
			return nil, fmt.Errorf("lead %d: %w", i, err)
		}
	}

	leads, err := s.storage.CreateLeads(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to store leads: %w", err)
	}

	return leads, nil
}

func (s *Service) recordStatus(ctx context.Context, attempt time.Time, state string, runErr error, count int) {
	// Status bookkeeping must not fail a run that was cancelled mid-flight.
	ctx = context.WithoutCancel(ctx)

	prev, err := s.storage.GetIngestionStatus(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read ingestion status")
	}

	status := models.IngestionStatus{
		LastSuccessfulRun: prev.LastSuccessfulRun,
		LastAttempt:       attempt,
		Status:            state,
		RecordsIngested:   count,
	}
	if state == "success" {
		status.LastSuccessfulRun = time.Now().UTC()
	}
	if runErr != nil {
		status.ErrorMessage = errorMessage(runErr)
	}

	if err := s.storage.UpdateIngestionStatus(ctx, status); err != nil {
		s.logger.WithError(err).Warn("Failed to update ingestion status")
	}
}

// errorMessage returns the upstream message when there is one so callers see
// what the scraper reported.
func errorMessage(err error) string {
	var upstream *apperror.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Error()
	}
	return err.Error()
}
