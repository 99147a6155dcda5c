package storage

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/leadgen/lead-extractor-service/internal/apperror"
	"github.com/leadgen/lead-extractor-service/internal/models"
)

// MemoryStorage implements Storage with process-local maps.
// State is lost when the process exits.
type MemoryStorage struct {
	mu sync.RWMutex

	leads       map[int]models.Lead
	extractions map[int]models.Extraction
	settings    models.Settings
	status      models.IngestionStatus

	nextLeadID       int
	nextExtractionID int

	now func() time.Time
}

// NewMemoryStorage creates an empty store with default settings
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		leads:            make(map[int]models.Lead),
		extractions:      make(map[int]models.Extraction),
		settings:         models.DefaultSettings(),
		status:           models.IngestionStatus{Status: "never_run"},
		nextLeadID:       1,
		nextExtractionID: 1,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// ListLeads returns every lead, most recently extracted first
func (m *MemoryStorage) ListLeads(ctx context.Context) ([]models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	leads := make([]models.Lead, 0, len(m.leads))
	for _, lead := range m.leads {
		leads = append(leads, copyLead(lead))
	}

	sort.Slice(leads, func(i, j int) bool {
		if leads[i].ExtractedAt.Equal(leads[j].ExtractedAt) {
			return leads[i].ID > leads[j].ID
		}
		return leads[i].ExtractedAt.After(leads[j].ExtractedAt)
	})

	return leads, nil
}

// CreateLead assigns the next lead id and stores the draft
func (m *MemoryStorage) CreateLead(ctx context.Context, draft models.LeadDraft) (models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.createLeadLocked(draft), nil
}

// CreateLeads stores drafts sequentially in input order
func (m *MemoryStorage) CreateLeads(ctx context.Context, drafts []models.LeadDraft) ([]models.Lead, error) {
	created := make([]models.Lead, 0, len(drafts))
	for _, draft := range drafts {
		lead, err := m.CreateLead(ctx, draft)
		if err != nil {
			return created, err
		}
		created = append(created, lead)
	}
	return created, nil
}

func (m *MemoryStorage) createLeadLocked(draft models.LeadDraft) models.Lead {
	lead := models.Lead{
		ID:          m.nextLeadID,
		Name:        deref(draft.Name),
		JobTitle:    deref(draft.JobTitle),
		Company:     deref(draft.Company),
		Location:    deref(draft.Location),
		LinkedinURL: deref(draft.LinkedinURL),
		ApolloData:  bytes.Clone(draft.ApolloData),
		ExtractedAt: m.now(),
	}
	m.nextLeadID++

	m.leads[lead.ID] = lead
	return copyLead(lead)
}

// ClearLeads removes every lead. The id counter keeps counting.
func (m *MemoryStorage) ClearLeads(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.leads = make(map[int]models.Lead)
	return nil
}

// ListExtractions returns every extraction, newest first
func (m *MemoryStorage) ListExtractions(ctx context.Context) ([]models.Extraction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	extractions := make([]models.Extraction, 0, len(m.extractions))
	for _, e := range m.extractions {
		extractions = append(extractions, copyExtraction(e))
	}

	sort.Slice(extractions, func(i, j int) bool {
		if extractions[i].CreatedAt.Equal(extractions[j].CreatedAt) {
			return extractions[i].ID > extractions[j].ID
		}
		return extractions[i].CreatedAt.After(extractions[j].CreatedAt)
	})

	return extractions, nil
}

// GetExtraction returns the extraction with the given id
func (m *MemoryStorage) GetExtraction(ctx context.Context, id int) (models.Extraction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.extractions[id]
	if !ok {
		return models.Extraction{}, apperror.ErrNotFound
	}
	return copyExtraction(e), nil
}

// CreateExtraction stores a new extraction in the pending state
func (m *MemoryStorage) CreateExtraction(ctx context.Context, draft models.ExtractionDraft) (models.Extraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := models.Extraction{
		ID:        m.nextExtractionID,
		JobTitle:  cloneString(draft.JobTitle),
		Location:  cloneString(draft.Location),
		Industry:  cloneString(draft.Industry),
		StartPage: cloneInt(draft.StartPage),
		EndPage:   cloneInt(draft.EndPage),
		Status:    models.StatusPending,
		CreatedAt: m.now(),
	}
	if draft.Limit != nil {
		e.Limit = *draft.Limit
	}
	m.nextExtractionID++

	m.extractions[e.ID] = e
	return copyExtraction(e), nil
}

// UpdateExtraction merges the given patch fields into an existing extraction.
// A field patched to null is cleared.
func (m *MemoryStorage) UpdateExtraction(ctx context.Context, id int, patch models.ExtractionPatch) (models.Extraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.extractions[id]
	if !ok {
		return models.Extraction{}, apperror.ErrNotFound
	}

	patch.JobTitle.Apply(&e.JobTitle)
	patch.Location.Apply(&e.Location)
	patch.Industry.Apply(&e.Industry)
	if patch.Limit != nil {
		e.Limit = *patch.Limit
	}
	patch.StartPage.Apply(&e.StartPage)
	patch.EndPage.Apply(&e.EndPage)
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	patch.Progress.Apply(&e.Progress)
	patch.TotalLeads.Apply(&e.TotalLeads)
	patch.CompletedAt.Apply(&e.CompletedAt)

	m.extractions[id] = e
	return copyExtraction(e), nil
}

// GetSettings returns the settings singleton
func (m *MemoryStorage) GetSettings(ctx context.Context) (models.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copySettings(m.settings), nil
}

// UpdateSettings merges the given patch fields into the settings singleton
func (m *MemoryStorage) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.settings
	if patch.ExportFormat != nil {
		s.ExportFormat = *patch.ExportFormat
	}
	if patch.AutoSave != nil {
		s.AutoSave = *patch.AutoSave
	}
	if patch.ShowNotifications != nil {
		s.ShowNotifications = *patch.ShowNotifications
	}
	if patch.Theme != nil {
		s.Theme = *patch.Theme
	}
	if patch.RememberCredentials != nil {
		s.RememberCredentials = *patch.RememberCredentials
	}
	patch.LastEmail.Apply(&s.LastEmail)

	m.settings = s
	return copySettings(s), nil
}

// UpdateIngestionStatus replaces the recorded ingestion status
func (m *MemoryStorage) UpdateIngestionStatus(ctx context.Context, status models.IngestionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = status
	return nil
}

// GetIngestionStatus retrieves the current ingestion status
func (m *MemoryStorage) GetIngestionStatus(ctx context.Context) (models.IngestionStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.status, nil
}

// Close is a no-op; there is nothing to release.
func (m *MemoryStorage) Close() error {
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func copyLead(l models.Lead) models.Lead {
	l.ApolloData = bytes.Clone(l.ApolloData)
	return l
}

func copyExtraction(e models.Extraction) models.Extraction {
	e.JobTitle = cloneString(e.JobTitle)
	e.Location = cloneString(e.Location)
	e.Industry = cloneString(e.Industry)
	e.StartPage = cloneInt(e.StartPage)
	e.EndPage = cloneInt(e.EndPage)
	e.Progress = cloneInt(e.Progress)
	e.TotalLeads = cloneInt(e.TotalLeads)
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		e.CompletedAt = &t
	}
	return e
}

func copySettings(s models.Settings) models.Settings {
	s.LastEmail = cloneString(s.LastEmail)
	return s
}
