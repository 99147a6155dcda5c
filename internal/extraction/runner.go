package extraction

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/leadgen/lead-extractor-service/internal/clock"
	"github.com/leadgen/lead-extractor-service/internal/models"
)

// API is the subset of the server API a run needs
type API interface {
	CreateLead(ctx context.Context, draft models.LeadDraft) (models.Lead, error)
	CreateExtraction(ctx context.Context, draft models.ExtractionDraft) (models.Extraction, error)
	UpdateExtraction(ctx context.Context, id int, patch models.ExtractionPatch) (models.Extraction, error)
}

// Request describes one simulated run
type Request struct {
	Filters   models.SearchFilters
	Limit     int
	StartPage int
	EndPage   int
	Delay     time.Duration // pause after each posted lead
}

// Result summarizes a finished run
type Result struct {
	Extraction models.Extraction
	Leads      []models.Lead
}

// Runner posts generated leads one at a time and keeps the extraction
// record's status and progress current.
type Runner struct {
	api    API
	rng    *rand.Rand
	logger *logrus.Entry
	now    func() time.Time
}

// NewRunner creates a runner. A nil rng is seeded from the clock.
func NewRunner(api API, rng *rand.Rand, logger *logrus.Logger) *Runner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Runner{
		api:    api,
		rng:    rng,
		logger: logger.WithField("component", "extraction"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run creates the extraction record and fills it. When ctx is cancelled the
// record is marked failed and the leads posted so far are returned with the error.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	if req.Limit < 1 {
		return Result{}, fmt.Errorf("limit must be at least 1, got %d", req.Limit)
	}

	draft := models.ExtractionDraft{Limit: &req.Limit}
	if req.Filters.JobTitle != "" {
		draft.JobTitle = &req.Filters.JobTitle
	}
	if req.Filters.Location != "" {
		draft.Location = &req.Filters.Location
	}
	if req.Filters.Industry != "" {
		draft.Industry = &req.Filters.Industry
	}
	if req.StartPage > 0 {
		draft.StartPage = &req.StartPage
	}
	if req.EndPage > 0 {
		draft.EndPage = &req.EndPage
	}

	extraction, err := r.api.CreateExtraction(ctx, draft)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create extraction: %w", err)
	}
	log := r.logger.WithField("extraction_id", extraction.ID)

	log.WithFields(logrus.Fields{
		"jobTitle": req.Filters.JobTitle,
		"location": req.Filters.Location,
		"industry": req.Filters.Industry,
	}).Info("Starting extraction")
	if req.StartPage > 0 && req.EndPage > 0 {
		log.Infof("Extracting %d leads from pages %d to %d", req.Limit, req.StartPage, req.EndPage)
	}

	result := Result{Extraction: extraction}
	if extraction, err = r.update(ctx, extraction.ID, models.ExtractionPatch{
		Status:   strPtr(models.StatusRunning),
		Progress: models.Some(0),
	}); err != nil {
		return result, err
	}
	result.Extraction = extraction

	drafts := Generate(r.rng, req.Filters, min(req.Limit, MaxGenerated))
	for i, d := range drafts {
		lead, err := r.api.CreateLead(ctx, d)
		if err != nil {
			return r.fail(ctx, result, fmt.Errorf("failed to create lead: %w", err))
		}
		result.Leads = append(result.Leads, lead)
		log.Infof("Extracted lead: %s - %s at %s", lead.Name, lead.JobTitle, lead.Company)

		progress := (i + 1) * 100 / len(drafts)
		if extraction, err = r.update(ctx, extraction.ID, models.ExtractionPatch{
			Progress:   models.Some(progress),
			TotalLeads: models.Some(len(result.Leads)),
		}); err != nil {
			return r.fail(ctx, result, err)
		}
		result.Extraction = extraction

		if err := clock.Sleep(ctx, req.Delay); err != nil {
			return r.fail(ctx, result, err)
		}
	}

	extraction, err = r.update(ctx, extraction.ID, models.ExtractionPatch{
		Status:      strPtr(models.StatusCompleted),
		Progress:    models.Some(100),
		TotalLeads:  models.Some(len(result.Leads)),
		CompletedAt: models.Some(r.now()),
	})
	if err != nil {
		return result, err
	}
	result.Extraction = extraction

	log.Infof("Extraction completed successfully! Found %d leads.", len(result.Leads))
	return result, nil
}

func (r *Runner) update(ctx context.Context, id int, patch models.ExtractionPatch) (models.Extraction, error) {
	extraction, err := r.api.UpdateExtraction(ctx, id, patch)
	if err != nil {
		return models.Extraction{}, fmt.Errorf("failed to update extraction %d: %w", id, err)
	}
	return extraction, nil
}

// fail marks the extraction failed. The update runs without ctx's
// cancellation so an interrupted run is still recorded.
func (r *Runner) fail(ctx context.Context, result Result, runErr error) (Result, error) {
	if errors.Is(runErr, context.Canceled) {
		r.logger.Warn("Extraction cancelled by user")
	} else {
		r.logger.WithError(runErr).Error("Extraction failed")
	}

	extraction, err := r.update(context.WithoutCancel(ctx), result.Extraction.ID, models.ExtractionPatch{
		Status:     strPtr(models.StatusFailed),
		TotalLeads: models.Some(len(result.Leads)),
	})
	if err != nil {
		r.logger.WithError(err).Warn("Failed to mark extraction as failed")
	} else {
		result.Extraction = extraction
	}

	return result, runErr
}

func strPtr(s string) *string { return &s }
