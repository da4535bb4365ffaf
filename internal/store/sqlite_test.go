package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/store"
	"github.com/obratrack/obratrack/tests/testutil"
)

func savedChecklistID(t *testing.T, s *store.SQLiteStore) string {
	t.Helper()
	checklists, err := s.GetChecklists(context.Background(), store.ChecklistFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, checklists)
	return checklists[0].ID
}

func TestCreateNotification_DedupByChecklistAndKind(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	site, resp := seedRefs(t, s)

	require.NoError(t, s.SaveChecklist(ctx, sampleChecklist(site, resp)))
	checklistID := savedChecklistID(t, s)

	n := model.Notification{
		ChecklistID: checklistID,
		Kind:        model.NotificationDueSoon,
		Message:     "due tomorrow",
	}
	inserted, err := s.CreateNotification(ctx, n)
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same checklist and kind again: deduplicated.
	inserted, err = s.CreateNotification(ctx, n)
	require.NoError(t, err)
	assert.False(t, inserted)

	// A different kind for the same checklist is a new notification.
	n.Kind = model.NotificationOverdue
	n.Message = "overdue"
	inserted, err = s.CreateNotification(ctx, n)
	require.NoError(t, err)
	assert.True(t, inserted)

	unread, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	assert.Len(t, unread, 2)
}

func TestMarkNotificationRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	site, resp := seedRefs(t, s)

	require.NoError(t, s.SaveChecklist(ctx, sampleChecklist(site, resp)))
	checklistID := savedChecklistID(t, s)

	_, err := s.CreateNotification(ctx, model.Notification{
		ChecklistID: checklistID,
		Kind:        model.NotificationOverdue,
		Message:     "overdue",
	})
	require.NoError(t, err)

	unread, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, s.MarkNotificationRead(ctx, unread[0].ID))

	unread, err = s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestTemplateRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	tpl := model.ChecklistTemplate{
		Name:     "NR-18 Andaimes",
		Category: "Segurança",
		Items: []model.TemplateItem{
			{Title: "Travas instaladas", Priority: model.PriorityCritical, Obligatory: true},
			{Title: "Sinalização visível", Priority: model.PriorityMedium, RequiresAttachment: true},
		},
	}
	require.NoError(t, s.CreateTemplate(ctx, &tpl))
	require.NotEmpty(t, tpl.ID)

	got, err := s.GetTemplateByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "NR-18 Andaimes", got.Name)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].Obligatory)
	assert.True(t, got.Items[1].RequiresAttachment)
	assert.Equal(t, 1, got.Items[0].SortOrder)
	assert.Equal(t, 2, got.Items[1].SortOrder)

	templates, err := s.GetTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, 1)
}

func TestSiteLifecycle(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	site := model.Site{Name: "Obra Central", Active: true}
	require.NoError(t, s.CreateSite(ctx, &site))

	site.Active = false
	require.NoError(t, s.UpdateSite(ctx, &site))

	active, err := s.GetSites(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := s.GetSites(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)
}
