package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obratrack/obratrack/internal/model"
)

func filterFixture() []model.Checklist {
	return []model.Checklist{
		{
			ID: "cl-1", Title: "Segurança no Início", Category: "Segurança",
			Status: model.ChecklistStatusInProgress,
			SiteID: "site-1", SiteName: "Obra Centro",
			ResponsibleID: "resp-1", ResponsibleName: "Ana Souza",
		},
		{
			ID: "cl-2", Title: "Qualidade Concretagem", Category: "Qualidade",
			Status: model.ChecklistStatusDraft,
			SiteID: "site-2", SiteName: "Obra Norte",
			ResponsibleID: "resp-2", ResponsibleName: "Bruno Lima",
		},
	}
}

func ids(cs []model.Checklist) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	got := Filter{Search: "segur"}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-1"}, ids(got))

	got = Filter{Search: "SEGUR"}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-1"}, ids(got))
}

func TestFilterSearchMatchesAcrossFields(t *testing.T) {
	// Responsible name.
	got := Filter{Search: "bruno"}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-2"}, ids(got))

	// Site name.
	got = Filter{Search: "centro"}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-1"}, ids(got))

	// Category.
	got = Filter{Search: "qualidade"}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-2"}, ids(got))
}

func TestFilterExactDimensions(t *testing.T) {
	got := Filter{Category: "Qualidade"}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-2"}, ids(got))

	got = Filter{Category: FilterAll}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-1", "cl-2"}, ids(got))

	got = Filter{Status: model.ChecklistStatusDraft}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-2"}, ids(got))

	got = Filter{SiteID: "site-1"}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-1"}, ids(got))

	got = Filter{ResponsibleID: "resp-2"}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-2"}, ids(got))
}

func TestFilterDimensionsCombineWithAnd(t *testing.T) {
	got := Filter{Search: "obra", Category: "Segurança"}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-1"}, ids(got))

	got = Filter{Search: "segur", Category: "Qualidade"}.Apply(filterFixture())
	require.Empty(t, got)
}

func TestFilterEmptyIsPassThroughInInsertionOrder(t *testing.T) {
	got := Filter{}.Apply(filterFixture())
	assert.Equal(t, []string{"cl-1", "cl-2"}, ids(got))
}
