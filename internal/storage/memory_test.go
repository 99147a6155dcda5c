package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadgen/lead-extractor-service/internal/apperror"
	"github.com/leadgen/lead-extractor-service/internal/config"
	"github.com/leadgen/lead-extractor-service/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func leadDraft(name string) models.LeadDraft {
	return models.LeadDraft{
		Name:        strPtr(name),
		JobTitle:    strPtr("Engineer"),
		Company:     strPtr("TechCorp"),
		Location:    strPtr("Boston, MA"),
		LinkedinURL: strPtr("https://linkedin.com/in/" + name),
	}
}

// steppingClock returns a clock advancing one second per call.
func steppingClock() func() time.Time {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestNewStorage(t *testing.T) {
	store, err := NewStorage(config.StorageConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, store)

	store, err = NewStorage(config.StorageConfig{Type: "dynamodb"})
	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "unsupported storage type")
}

func TestMemoryStorage_CreateLead_AssignsMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	prev := 0
	for i := 0; i < 5; i++ {
		lead, err := store.CreateLead(ctx, leadDraft(fmt.Sprintf("lead%d", i)))
		require.NoError(t, err)
		assert.Greater(t, lead.ID, prev)
		assert.False(t, lead.ExtractedAt.IsZero())
		prev = lead.ID
	}
	assert.Equal(t, 5, prev)
}

func TestMemoryStorage_CreateLead_DefaultsPayload(t *testing.T) {
	store := NewMemoryStorage()

	lead, err := store.CreateLead(context.Background(), leadDraft("ada"))
	require.NoError(t, err)
	assert.Nil(t, lead.ApolloData)

	encoded, err := json.Marshal(lead)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"apolloData":null`)
}

func TestMemoryStorage_ClearLeads_KeepsCounter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	var last models.Lead
	for i := 0; i < 3; i++ {
		var err error
		last, err = store.CreateLead(ctx, leadDraft(fmt.Sprintf("lead%d", i)))
		require.NoError(t, err)
	}

	require.NoError(t, store.ClearLeads(ctx))

	leads, err := store.ListLeads(ctx)
	require.NoError(t, err)
	assert.Empty(t, leads)

	next, err := store.CreateLead(ctx, leadDraft("after-clear"))
	require.NoError(t, err)
	assert.Greater(t, next.ID, last.ID)
	assert.Equal(t, 4, next.ID)
}

func TestMemoryStorage_ListLeads_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	store.now = steppingClock()

	for i := 0; i < 4; i++ {
		_, err := store.CreateLead(ctx, leadDraft(fmt.Sprintf("lead%d", i)))
		require.NoError(t, err)
	}

	leads, err := store.ListLeads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 4)
	for i := 1; i < len(leads); i++ {
		assert.True(t, leads[i-1].ExtractedAt.After(leads[i].ExtractedAt))
	}
	assert.Equal(t, "lead3", leads[0].Name)
}

func TestMemoryStorage_ListLeads_TiesNeitherDropNorDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	drafts := make([]models.LeadDraft, 10)
	for i := range drafts {
		drafts[i] = leadDraft(fmt.Sprintf("lead%d", i))
	}
	_, err := store.CreateLeads(ctx, drafts)
	require.NoError(t, err)

	leads, err := store.ListLeads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 10)

	seen := make(map[int]bool)
	for _, l := range leads {
		assert.False(t, seen[l.ID], "duplicate id %d", l.ID)
		seen[l.ID] = true
	}
}

func TestMemoryStorage_CreateLeads_PreservesInputOrder(t *testing.T) {
	store := NewMemoryStorage()

	created, err := store.CreateLeads(context.Background(), []models.LeadDraft{
		leadDraft("first"), leadDraft("second"), leadDraft("third"),
	})
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Equal(t, "first", created[0].Name)
	assert.Equal(t, 1, created[0].ID)
	assert.Equal(t, "third", created[2].Name)
	assert.Equal(t, 3, created[2].ID)
}

func TestMemoryStorage_ReturnedLeadIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	draft := leadDraft("ada")
	draft.ApolloData = json.RawMessage(`{"score":90}`)
	lead, err := store.CreateLead(ctx, draft)
	require.NoError(t, err)

	lead.Name = "changed"
	lead.ApolloData[2] = 'X'

	leads, err := store.ListLeads(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada", leads[0].Name)
	assert.JSONEq(t, `{"score":90}`, string(leads[0].ApolloData))
}

func TestMemoryStorage_CreateExtraction_Defaults(t *testing.T) {
	store := NewMemoryStorage()

	e, err := store.CreateExtraction(context.Background(), models.ExtractionDraft{
		JobTitle: strPtr("CTO"),
		Limit:    intPtr(50),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, e.ID)
	assert.Equal(t, models.StatusPending, e.Status)
	assert.Equal(t, 50, e.Limit)
	assert.Equal(t, "CTO", *e.JobTitle)
	assert.Nil(t, e.Location)
	assert.Nil(t, e.Industry)
	assert.Nil(t, e.StartPage)
	assert.Nil(t, e.Progress)
	assert.Nil(t, e.TotalLeads)
	assert.Nil(t, e.CompletedAt)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestMemoryStorage_GetExtraction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	created, err := store.CreateExtraction(ctx, models.ExtractionDraft{Limit: intPtr(10)})
	require.NoError(t, err)

	got, err := store.GetExtraction(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = store.GetExtraction(ctx, 99)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestMemoryStorage_UpdateExtraction_MergesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	created, err := store.CreateExtraction(ctx, models.ExtractionDraft{
		JobTitle:  strPtr("CTO"),
		Location:  strPtr("Denver, CO"),
		Limit:     intPtr(20),
		StartPage: intPtr(1),
		EndPage:   intPtr(3),
	})
	require.NoError(t, err)

	updated, err := store.UpdateExtraction(ctx, created.ID, models.ExtractionPatch{
		Status:   strPtr(models.StatusRunning),
		Progress: models.Some(40),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusRunning, updated.Status)
	assert.Equal(t, 40, *updated.Progress)
	assert.Equal(t, "CTO", *updated.JobTitle)
	assert.Equal(t, "Denver, CO", *updated.Location)
	assert.Equal(t, 20, updated.Limit)
	assert.Equal(t, 3, *updated.EndPage)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Nil(t, updated.TotalLeads)
}

func TestMemoryStorage_UpdateExtraction_NullClearsField(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	created, err := store.CreateExtraction(ctx, models.ExtractionDraft{
		JobTitle: strPtr("CTO"),
		Limit:    intPtr(20),
		EndPage:  intPtr(3),
	})
	require.NoError(t, err)
	_, err = store.UpdateExtraction(ctx, created.ID, models.ExtractionPatch{
		Progress:    models.Some(100),
		TotalLeads:  models.Some(20),
		CompletedAt: models.Some(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	updated, err := store.UpdateExtraction(ctx, created.ID, models.ExtractionPatch{
		Progress:    models.Null[int](),
		CompletedAt: models.Null[time.Time](),
		EndPage:     models.Null[int](),
	})
	require.NoError(t, err)

	assert.Nil(t, updated.Progress)
	assert.Nil(t, updated.CompletedAt)
	assert.Nil(t, updated.EndPage)
	require.NotNil(t, updated.TotalLeads)
	assert.Equal(t, 20, *updated.TotalLeads)
	require.NotNil(t, updated.JobTitle)
	assert.Equal(t, "CTO", *updated.JobTitle)

	stored, err := store.GetExtraction(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Progress)
}

func TestMemoryStorage_UpdateExtraction_NotFoundLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	created, err := store.CreateExtraction(ctx, models.ExtractionDraft{Limit: intPtr(5)})
	require.NoError(t, err)

	_, err = store.UpdateExtraction(ctx, created.ID+1, models.ExtractionPatch{Status: strPtr(models.StatusFailed)})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	all, err := store.ListExtractions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created, all[0])
}

func TestMemoryStorage_ListExtractions_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	store.now = steppingClock()

	for i := 1; i <= 3; i++ {
		_, err := store.CreateExtraction(ctx, models.ExtractionDraft{Limit: intPtr(i)})
		require.NoError(t, err)
	}

	all, err := store.ListExtractions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{all[0].ID, all[1].ID, all[2].ID})
}

func TestMemoryStorage_Settings(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	s, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)

	patch := models.SettingsPatch{Theme: strPtr("dark")}
	once, err := store.UpdateSettings(ctx, patch)
	require.NoError(t, err)
	twice, err := store.UpdateSettings(ctx, patch)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, "dark", twice.Theme)
	assert.Equal(t, "csv", twice.ExportFormat)
	assert.True(t, twice.AutoSave)
	assert.Equal(t, 1, twice.ID)
}

func TestMemoryStorage_Settings_LastEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	s, err := store.UpdateSettings(ctx, models.SettingsPatch{LastEmail: models.Some("a@b.com")})
	require.NoError(t, err)
	require.NotNil(t, s.LastEmail)

	s, err = store.UpdateSettings(ctx, models.SettingsPatch{Theme: strPtr("dark")})
	require.NoError(t, err)
	require.NotNil(t, s.LastEmail)
	assert.Equal(t, "a@b.com", *s.LastEmail)

	s, err = store.UpdateSettings(ctx, models.SettingsPatch{LastEmail: models.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, s.LastEmail)
	assert.Equal(t, "dark", s.Theme)
}

func TestMemoryStorage_IngestionStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	status, err := store.GetIngestionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "never_run", status.Status)

	now := time.Now().UTC()
	require.NoError(t, store.UpdateIngestionStatus(ctx, models.IngestionStatus{
		Status: "success", LastAttempt: now, LastSuccessfulRun: now, RecordsIngested: 7,
	}))

	status, err = store.GetIngestionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "success", status.Status)
	assert.Equal(t, 7, status.RecordsIngested)
}
