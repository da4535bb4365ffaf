package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obratrack/obratrack/internal/model"
)

func TestNewValidates(t *testing.T) {
	_, err := New(NewChecklistParams{Title: "Concrete pour", SiteID: "s", ResponsibleID: "r"}, testNow)
	require.Error(t, err, "empty item set must be rejected")

	_, err = New(NewChecklistParams{
		Title: "  ", SiteID: "s", ResponsibleID: "r",
		Items: []model.ChecklistItem{{Title: "x"}},
	}, testNow)
	require.Error(t, err)

	_, err = New(NewChecklistParams{
		ID: "cl-1", Title: "Concrete pour", SiteID: "s", ResponsibleID: "r",
		Items: []model.ChecklistItem{{ID: "i", Title: "a"}, {ID: "i", Title: "b"}},
	}, testNow)
	require.Error(t, err, "duplicate item ids must be rejected")
}

func TestNewStartsAsDraftWithZeroProgress(t *testing.T) {
	c, err := New(NewChecklistParams{
		ID: "cl-1", Title: "Concrete pour", Category: "Qualidade",
		SiteID: "site-1", ResponsibleID: "resp-1",
		Items: []model.ChecklistItem{
			{ID: "i-1", Title: "Check forms"},
			{ID: "i-2", Title: "Check rebar"},
		},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, model.ChecklistStatusDraft, c.Status)
	assert.Nil(t, c.StartedAt)
	assert.Equal(t, model.Progress{Total: 2, Completed: 0, Percentage: 0}, c.Progress)
	for i, item := range c.Items {
		assert.Equal(t, "cl-1", item.ChecklistID)
		assert.Equal(t, model.ItemStatusNotStarted, item.Status)
		assert.Equal(t, i+1, item.SortOrder)
	}
}

func TestFromTemplateCopiesItemDefinitions(t *testing.T) {
	tpl := model.ChecklistTemplate{
		ID: "tpl-1", Name: "Início de obra", Category: "Segurança",
		Items: []model.TemplateItem{
			{Title: "EPIs disponíveis", Priority: model.PriorityCritical, Obligatory: true, RequiresAttachment: true, SortOrder: 1},
			{Title: "Sinalização", Priority: model.PriorityHigh, SortOrder: 2},
		},
	}

	c, err := FromTemplate(tpl, NewChecklistParams{
		ID: "cl-1", Title: "Segurança no Início", SiteID: "site-1", ResponsibleID: "resp-1",
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "Segurança", c.Category, "category falls back to the template's")
	require.NotNil(t, c.TemplateID)
	assert.Equal(t, "tpl-1", *c.TemplateID)
	require.Len(t, c.Items, 2)
	assert.True(t, c.Items[0].Obligatory)
	assert.True(t, c.Items[0].RequiresAttachment)
	assert.Equal(t, model.PriorityHigh, c.Items[1].Priority)
}

func TestFirstMutationStartsChecklistOnce(t *testing.T) {
	c, err := New(NewChecklistParams{
		ID: "cl-1", Title: "t", SiteID: "s", ResponsibleID: "r",
		Items: []model.ChecklistItem{{ID: "i-1", Title: "a"}, {ID: "i-2", Title: "b"}},
	}, testNow)
	require.NoError(t, err)

	require.NoError(t, ApplyItemMutation(&c, "i-1", SetObservation{Text: "x"}, testActor, testNow))
	assert.Equal(t, model.ChecklistStatusInProgress, c.Status)
	require.NotNil(t, c.StartedAt)
	assert.Equal(t, testNow, *c.StartedAt)

	later := testNow.Add(time.Hour)
	require.NoError(t, ApplyItemMutation(&c, "i-2", SetObservation{Text: "y"}, testActor, later))
	assert.Equal(t, testNow, *c.StartedAt, "StartedAt is never overwritten")
}

func TestMutationUnknownItem(t *testing.T) {
	c := buildChecklist("cl-1", itemSpec{id: "i-1"})

	err := ApplyItemMutation(&c, "nope", SetCompleted{Completed: true}, testActor, testNow)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMutationOnTerminalChecklistIsRejected(t *testing.T) {
	for _, status := range []string{model.ChecklistStatusCompleted, model.ChecklistStatusCancelled} {
		c := buildChecklist("cl-1", itemSpec{id: "i-1"})
		c.Status = status
		before := c.Clone()

		for _, op := range []ItemOp{
			SetCompleted{Completed: true},
			SetObservation{Text: "late note"},
			AddAttachment{Ref: testAttachment("att-1")},
			SetStatus{Status: model.ItemStatusNotApplicable},
		} {
			err := ApplyItemMutation(&c, "i-1", op, testActor, testNow)
			require.Errorf(t, err, "%s / %T", status, op)
			assert.True(t, IsLocked(err))
		}

		assert.Equal(t, before, c, "no partial writes on a locked checklist")
	}
}

func TestCancelFromEachAllowedState(t *testing.T) {
	for _, status := range []string{
		model.ChecklistStatusDraft,
		model.ChecklistStatusInProgress,
		model.ChecklistStatusPending,
	} {
		c := buildChecklist("cl-1", itemSpec{id: "i-1"})
		c.Status = status

		require.NoError(t, Cancel(&c, testNow))
		assert.Equal(t, model.ChecklistStatusCancelled, c.Status)
		require.NotNil(t, c.CancelledAt)
	}

	c := buildChecklist("cl-1", itemSpec{id: "i-1"})
	c.Status = model.ChecklistStatusCancelled
	err := Cancel(&c, testNow)
	require.Error(t, err)
	assert.True(t, IsLocked(err))
}

func TestPendingRoundTrip(t *testing.T) {
	c := buildChecklist("cl-1", itemSpec{id: "i-1"})

	require.NoError(t, MarkPending(&c, testNow))
	assert.Equal(t, model.ChecklistStatusPending, c.Status)

	// A mutation while blocked returns the checklist to in progress.
	require.NoError(t, ApplyItemMutation(&c, "i-1", SetObservation{Text: "supplier arrived"}, testActor, testNow))
	assert.Equal(t, model.ChecklistStatusInProgress, c.Status)

	require.NoError(t, MarkPending(&c, testNow))
	require.NoError(t, Resume(&c, testNow))
	assert.Equal(t, model.ChecklistStatusInProgress, c.Status)

	c.Status = model.ChecklistStatusDraft
	require.Error(t, MarkPending(&c, testNow), "only in-progress checklists can block")
}

func TestSignedChecklistRejectsUncompleting(t *testing.T) {
	c := buildChecklist("cl-1", itemSpec{id: "i-1", obligatory: true})
	require.NoError(t, ApplyItemMutation(&c, "i-1", SetCompleted{Completed: true}, testActor, testNow))
	require.NoError(t, Sign(&c, testActor, testBlob, testNow))

	err := ApplyItemMutation(&c, "i-1", SetCompleted{Completed: false}, testActor, testNow)
	require.Error(t, err)
	assert.True(t, IsLocked(err))
	assert.Equal(t, model.ItemStatusDone, c.Items[0].Status)
}
