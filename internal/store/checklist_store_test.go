package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obratrack/obratrack/internal/checklist"
	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/store"
	"github.com/obratrack/obratrack/tests/testutil"
)

func seedRefs(t *testing.T, s *store.SQLiteStore) (model.Site, model.Responsible) {
	t.Helper()
	ctx := context.Background()

	site := model.Site{Name: "Obra Central", Address: "Av. Paulista 1000", Active: true}
	require.NoError(t, s.CreateSite(ctx, &site))

	resp := model.Responsible{Name: "Carlos Lima", Email: "carlos@obratrack.dev", Role: "engineer"}
	require.NoError(t, s.CreateResponsible(ctx, &resp))

	return site, resp
}

func sampleChecklist(site model.Site, resp model.Responsible) model.Checklist {
	return model.Checklist{
		Title:         "Inspeção de andaimes",
		Category:      "Segurança",
		SiteID:        site.ID,
		ResponsibleID: resp.ID,
		Status:        model.ChecklistStatusDraft,
		Items: []model.ChecklistItem{
			{Title: "Travas instaladas", Status: model.ItemStatusNotStarted, Priority: model.PriorityCritical, Obligatory: true, SortOrder: 1},
			{Title: "Guarda-corpo fixado", Status: model.ItemStatusNotStarted, Priority: model.PriorityHigh, SortOrder: 2},
		},
	}
}

func TestSaveChecklist_RoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	site, resp := seedRefs(t, s)

	c := sampleChecklist(site, resp)
	require.NoError(t, s.SaveChecklist(ctx, c))

	checklists, err := s.GetChecklists(ctx, store.ChecklistFilter{})
	require.NoError(t, err)
	require.Len(t, checklists, 1)

	got := checklists[0]
	assert.Equal(t, "Inspeção de andaimes", got.Title)
	assert.Equal(t, "Obra Central", got.SiteName)
	assert.Equal(t, "Carlos Lima", got.ResponsibleName)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Travas instaladas", got.Items[0].Title)
	assert.True(t, got.Items[0].Obligatory)
	assert.False(t, got.Items[1].Obligatory)
	assert.Equal(t, model.Progress{Total: 2, Completed: 0, Percentage: 0}, got.Progress)
}

func TestSaveChecklist_ReplacesItems(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	site, resp := seedRefs(t, s)

	c := sampleChecklist(site, resp)
	require.NoError(t, s.SaveChecklist(ctx, c))

	saved, err := s.GetChecklists(ctx, store.ChecklistFilter{})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	doc := saved[0]
	doc.Status = model.ChecklistStatusInProgress
	doc.Items[0].Status = model.ItemStatusDone
	doc.Items[0].CompletedAt = &now
	doc.Items[0].CompletedBy = "Carlos Lima"
	doc.Items[0].Attachments = []model.Attachment{{
		ID:          "att-1",
		FileName:    "travas.jpg",
		ContentType: "image/jpeg",
		Size:        2048,
		SHA256:      "deadbeef",
		UploadedAt:  now,
		UploadedBy:  "Carlos Lima",
	}}
	require.NoError(t, s.SaveChecklist(ctx, doc))

	got, err := s.GetChecklistByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, model.ItemStatusDone, got.Items[0].Status)
	assert.Equal(t, "Carlos Lima", got.Items[0].CompletedBy)
	require.NotNil(t, got.Items[0].CompletedAt)
	assert.True(t, got.Items[0].CompletedAt.Equal(now))
	require.Len(t, got.Items[0].Attachments, 1)
	assert.Equal(t, "travas.jpg", got.Items[0].Attachments[0].FileName)
	assert.Equal(t, model.Progress{Total: 2, Completed: 1, Percentage: 50}, got.Progress)
}

func TestSaveChecklist_Signature(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	site, resp := seedRefs(t, s)

	signedAt := time.Date(2026, 3, 20, 16, 0, 0, 0, time.UTC)
	c := sampleChecklist(site, resp)
	c.Status = model.ChecklistStatusCompleted
	c.CompletedAt = &signedAt
	c.Signature = &model.Signature{
		SignerName:  "Carlos Lima",
		SignerEmail: "carlos@obratrack.dev",
		SignedAt:    signedAt,
		Data:        []byte{0x89, 0x50, 0x4e, 0x47},
	}
	for i := range c.Items {
		c.Items[i].Status = model.ItemStatusDone
	}
	require.NoError(t, s.SaveChecklist(ctx, c))

	checklists, err := s.GetChecklists(ctx, store.ChecklistFilter{})
	require.NoError(t, err)
	require.Len(t, checklists, 1)

	got := checklists[0]
	require.NotNil(t, got.Signature)
	assert.Equal(t, "Carlos Lima", got.Signature.SignerName)
	assert.Equal(t, "carlos@obratrack.dev", got.Signature.SignerEmail)
	assert.True(t, got.Signature.SignedAt.Equal(signedAt))
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, got.Signature.Data)
}

func TestSaveChecklist_Validation(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	site, resp := seedRefs(t, s)

	c := sampleChecklist(site, resp)
	c.Title = "  "
	assert.Error(t, s.SaveChecklist(ctx, c))

	c = sampleChecklist(site, resp)
	c.Items = nil
	assert.Error(t, s.SaveChecklist(ctx, c))
}

func TestGetChecklistByID_NotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetChecklistByID(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.True(t, checklist.IsNotFound(err))
}

func TestGetChecklists_Filters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	site, resp := seedRefs(t, s)

	otherSite := model.Site{Name: "Obra Norte", Active: true}
	require.NoError(t, s.CreateSite(ctx, &otherSite))

	seguranca := sampleChecklist(site, resp)
	require.NoError(t, s.SaveChecklist(ctx, seguranca))

	qualidade := sampleChecklist(otherSite, resp)
	qualidade.Title = "Conferência de concreto"
	qualidade.Category = "Qualidade"
	qualidade.Status = model.ChecklistStatusInProgress
	require.NoError(t, s.SaveChecklist(ctx, qualidade))

	category := "Segurança"
	got, err := s.GetChecklists(ctx, store.ChecklistFilter{Category: &category})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Inspeção de andaimes", got[0].Title)

	status := model.ChecklistStatusInProgress
	got, err = s.GetChecklists(ctx, store.ChecklistFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Conferência de concreto", got[0].Title)

	got, err = s.GetChecklists(ctx, store.ChecklistFilter{SiteID: &otherSite.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Obra Norte", got[0].SiteName)

	search := "norte"
	got, err = s.GetChecklists(ctx, store.ChecklistFilter{Search: &search})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Conferência de concreto", got[0].Title)

	all := checklist.FilterAll
	count, err := s.GetChecklistCount(ctx, store.ChecklistFilter{Category: &all})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDeleteChecklist(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	site, resp := seedRefs(t, s)

	c := sampleChecklist(site, resp)
	require.NoError(t, s.SaveChecklist(ctx, c))

	checklists, err := s.GetChecklists(ctx, store.ChecklistFilter{})
	require.NoError(t, err)
	require.Len(t, checklists, 1)

	require.NoError(t, s.DeleteChecklist(ctx, checklists[0].ID))

	count, err := s.GetChecklistCount(ctx, store.ChecklistFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	err = s.DeleteChecklist(ctx, checklists[0].ID)
	assert.True(t, checklist.IsNotFound(err))
}
