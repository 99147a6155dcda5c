package models

import (
	"encoding/json"
	"time"
)

// Extraction status values
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Lead is a contact discovered by a scraper run or added by a client
type Lead struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	JobTitle    string          `json:"jobTitle"`
	Company     string          `json:"company"`
	Location    string          `json:"location"`
	LinkedinURL string          `json:"linkedinUrl"`
	ApolloData  json.RawMessage `json:"apolloData"`
	ExtractedAt time.Time       `json:"extractedAt"`
}

// LeadDraft is a lead before the store assigns its identity and timestamp
type LeadDraft struct {
	Name        *string         `json:"name" validate:"required"`
	JobTitle    *string         `json:"jobTitle" validate:"required"`
	Company     *string         `json:"company" validate:"required"`
	Location    *string         `json:"location" validate:"required"`
	LinkedinURL *string         `json:"linkedinUrl" validate:"required"`
	ApolloData  json.RawMessage `json:"apolloData,omitempty"`
}

// Extraction describes a requested extraction job and its filters
type Extraction struct {
	ID          int        `json:"id"`
	JobTitle    *string    `json:"jobTitle"`
	Location    *string    `json:"location"`
	Industry    *string    `json:"industry"`
	Limit       int        `json:"limit"`
	StartPage   *int       `json:"startPage"`
	EndPage     *int       `json:"endPage"`
	Status      string     `json:"status"`
	Progress    *int       `json:"progress"`
	TotalLeads  *int       `json:"totalLeads"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// ExtractionDraft is the accepted shape of a new extraction
type ExtractionDraft struct {
	JobTitle  *string `json:"jobTitle"`
	Location  *string `json:"location"`
	Industry  *string `json:"industry"`
	Limit     *int    `json:"limit" validate:"required,gte=1"`
	StartPage *int    `json:"startPage" validate:"omitempty,gte=1"`
	EndPage   *int    `json:"endPage" validate:"omitempty,gte=1"`
}

// ExtractionPatch carries the fields of a partial extraction update.
// Nil pointers and unset Nullable fields are left unchanged; a Nullable
// set to null clears the field.
type ExtractionPatch struct {
	JobTitle    Nullable[string]    `json:"jobTitle,omitzero"`
	Location    Nullable[string]    `json:"location,omitzero"`
	Industry    Nullable[string]    `json:"industry,omitzero"`
	Limit       *int                `json:"limit,omitempty" validate:"omitempty,gte=1"`
	StartPage   Nullable[int]       `json:"startPage,omitzero" validate:"omitempty,gte=1"`
	EndPage     Nullable[int]       `json:"endPage,omitzero" validate:"omitempty,gte=1"`
	Status      *string             `json:"status,omitempty" validate:"omitempty,oneof=pending running completed failed"`
	Progress    Nullable[int]       `json:"progress,omitzero" validate:"omitempty,gte=0"`
	TotalLeads  Nullable[int]       `json:"totalLeads,omitzero" validate:"omitempty,gte=0"`
	CompletedAt Nullable[time.Time] `json:"completedAt,omitzero"`
}

// Settings is the process-wide user preference record
type Settings struct {
	ID                  int     `json:"id"`
	ExportFormat        string  `json:"exportFormat"`
	AutoSave            bool    `json:"autoSave"`
	ShowNotifications   bool    `json:"showNotifications"`
	Theme               string  `json:"theme"`
	RememberCredentials bool    `json:"rememberCredentials"`
	LastEmail           *string `json:"lastEmail"`
}

// SettingsPatch carries the fields of a partial settings update
type SettingsPatch struct {
	ExportFormat        *string          `json:"exportFormat,omitempty" validate:"omitempty,oneof=csv excel"`
	AutoSave            *bool            `json:"autoSave,omitempty"`
	ShowNotifications   *bool            `json:"showNotifications,omitempty"`
	Theme               *string          `json:"theme,omitempty" validate:"omitempty,oneof=light dark auto"`
	RememberCredentials *bool            `json:"rememberCredentials,omitempty"`
	LastEmail           Nullable[string] `json:"lastEmail,omitzero"`
}

// DefaultSettings returns the settings every process starts with
func DefaultSettings() Settings {
	return Settings{
		ID:                  1,
		ExportFormat:        "csv",
		AutoSave:            true,
		ShowNotifications:   true,
		Theme:               "light",
		RememberCredentials: false,
	}
}

// SearchFilters are the caller-supplied filters for a batch ingestion
type SearchFilters struct {
	JobTitle string `json:"jobTitle"`
	Location string `json:"location"`
	Industry string `json:"industry"`
}

// IngestionStatus tracks the status of batch ingestion runs
type IngestionStatus struct {
	LastSuccessfulRun time.Time `json:"lastSuccessfulRun"`
	LastAttempt       time.Time `json:"lastAttempt"`
	Status            string    `json:"status"` // "never_run", "running", "success", "failure"
	ErrorMessage      string    `json:"errorMessage,omitempty"`
	RecordsIngested   int       `json:"recordsIngested"`
}
