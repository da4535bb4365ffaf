package watch

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/store"
	"github.com/obratrack/obratrack/tests/testutil"
)

func seedChecklist(t *testing.T, s *store.SQLiteStore, title, status string, due *time.Time) {
	t.Helper()
	ctx := context.Background()

	site := model.Site{Name: title + " site", Active: true}
	require.NoError(t, s.CreateSite(ctx, &site))
	resp := model.Responsible{Name: "Ana Souza", Email: "ana@example.com"}
	require.NoError(t, s.CreateResponsible(ctx, &resp))

	c := model.Checklist{
		Title:         title,
		SiteID:        site.ID,
		ResponsibleID: resp.ID,
		Status:        status,
		DueDate:       due,
		Items: []model.ChecklistItem{
			{Title: "item", Status: model.ItemStatusNotStarted, Priority: model.PriorityMedium, SortOrder: 1},
		},
	}
	require.NoError(t, s.SaveChecklist(ctx, c))
}

func TestScan_DueSoonAndOverdue(t *testing.T) {
	s := testutil.NewTestStore(t)

	soon := time.Now().UTC().Add(12 * time.Hour)
	past := time.Now().UTC().Add(-2 * time.Hour)
	far := time.Now().UTC().Add(30 * 24 * time.Hour)

	seedChecklist(t, s, "closing soon", model.ChecklistStatusInProgress, &soon)
	seedChecklist(t, s, "late", model.ChecklistStatusInProgress, &past)
	seedChecklist(t, s, "distant", model.ChecklistStatusInProgress, &far)
	seedChecklist(t, s, "no deadline", model.ChecklistStatusDraft, nil)

	w := New(s, time.Hour, 48*time.Hour, slog.Default())
	w.scan()

	unread, err := s.GetUnreadNotifications(context.Background())
	require.NoError(t, err)
	require.Len(t, unread, 2)

	kinds := map[string]int{}
	for _, n := range unread {
		kinds[n.Kind]++
	}
	assert.Equal(t, 1, kinds[model.NotificationDueSoon])
	assert.Equal(t, 1, kinds[model.NotificationOverdue])

	// A second scan must not renotify.
	w.scan()
	unread, err = s.GetUnreadNotifications(context.Background())
	require.NoError(t, err)
	assert.Len(t, unread, 2)
}

func TestScan_SkipsTerminalChecklists(t *testing.T) {
	s := testutil.NewTestStore(t)

	past := time.Now().UTC().Add(-2 * time.Hour)
	seedChecklist(t, s, "already cancelled", model.ChecklistStatusCancelled, &past)

	w := New(s, time.Hour, 48*time.Hour, slog.Default())
	w.scan()

	unread, err := s.GetUnreadNotifications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, unread)
}
