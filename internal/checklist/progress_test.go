package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/obratrack/obratrack/internal/model"
)

func itemsWithStatuses(statuses ...string) []model.ChecklistItem {
	items := make([]model.ChecklistItem, len(statuses))
	for i, s := range statuses {
		items[i] = model.ChecklistItem{ID: string(rune('a' + i)), Status: s}
	}
	return items
}

func TestComputeCountsResolvedStatuses(t *testing.T) {
	items := itemsWithStatuses(
		model.ItemStatusDone,
		model.ItemStatusNotApplicable,
		model.ItemStatusInProgress,
		model.ItemStatusNotStarted,
	)

	p := Compute(items)
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 50, p.Percentage)
}

func TestComputeRoundsHalfUp(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},  // 12.5 rounds up
		{3, 8, 38},  // 37.5 rounds up
		{1, 6, 17},  // 16.66...
		{5, 6, 83},  // 83.33...
		{0, 5, 0},
		{5, 5, 100},
	}
	for _, tc := range cases {
		statuses := make([]string, tc.total)
		for i := range statuses {
			if i < tc.completed {
				statuses[i] = model.ItemStatusDone
			} else {
				statuses[i] = model.ItemStatusNotStarted
			}
		}
		p := Compute(itemsWithStatuses(statuses...))
		assert.Equalf(t, tc.want, p.Percentage, "%d/%d", tc.completed, tc.total)
	}
}

func TestComputeEmptyItemSet(t *testing.T) {
	p := Compute(nil)
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0, p.Percentage)
}

func TestReadyForSignatureNeedsBothConditions(t *testing.T) {
	// All obligatory items resolved but one optional item open: 100% fails.
	items := []model.ChecklistItem{
		{ID: "a", Status: model.ItemStatusDone, Obligatory: true},
		{ID: "b", Status: model.ItemStatusNotStarted},
	}
	assert.False(t, ReadyForSignature(items))

	// Everything resolved, obligatory as not applicable: ready.
	items[1].Status = model.ItemStatusNotApplicable
	assert.True(t, ReadyForSignature(items))
}

func TestUnresolvedObligatoryPreservesOrder(t *testing.T) {
	items := []model.ChecklistItem{
		{ID: "a", Status: model.ItemStatusNotStarted, Obligatory: true},
		{ID: "b", Status: model.ItemStatusDone, Obligatory: true},
		{ID: "c", Status: model.ItemStatusInProgress, Obligatory: true},
		{ID: "d", Status: model.ItemStatusNotStarted},
	}
	assert.Equal(t, []string{"a", "c"}, UnresolvedObligatory(items))
}
