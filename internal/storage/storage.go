package storage

import (
	"context"
	"fmt"

	"github.com/leadgen/lead-extractor-service/internal/config"
	"github.com/leadgen/lead-extractor-service/internal/models"
)

// Storage interface defines the contract for the lead, extraction and
// settings collections.
//
// Implementations perform no validation; payloads are checked upstream by the
// validation package. The only failure an in-memory implementation reports is
// apperror.ErrNotFound from the id-based extraction operations.
type Storage interface {
	ListLeads(ctx context.Context) ([]models.Lead, error)
	CreateLead(ctx context.Context, draft models.LeadDraft) (models.Lead, error)
	// CreateLeads inserts drafts one by one in input order. It is not atomic:
	// leads created before a failure stay committed.
	CreateLeads(ctx context.Context, drafts []models.LeadDraft) ([]models.Lead, error)
	ClearLeads(ctx context.Context) error

	ListExtractions(ctx context.Context) ([]models.Extraction, error)
	GetExtraction(ctx context.Context, id int) (models.Extraction, error)
	CreateExtraction(ctx context.Context, draft models.ExtractionDraft) (models.Extraction, error)
	UpdateExtraction(ctx context.Context, id int, patch models.ExtractionPatch) (models.Extraction, error)

	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error)

	UpdateIngestionStatus(ctx context.Context, status models.IngestionStatus) error
	GetIngestionStatus(ctx context.Context) (models.IngestionStatus, error)

	Close() error
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
