package checklist

import (
	"time"

	"github.com/obratrack/obratrack/internal/model"
)

var (
	testNow   = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	testActor = model.Actor{Name: "Ana Souza", Email: "ana@construtora.example", Role: "engineer"}
)

type itemSpec struct {
	id                 string
	obligatory         bool
	requiresAttachment bool
}

// buildChecklist constructs an in-progress checklist with the given items,
// all starting at not started.
func buildChecklist(id string, specs ...itemSpec) model.Checklist {
	items := make([]model.ChecklistItem, len(specs))
	for i, s := range specs {
		items[i] = model.ChecklistItem{
			ID:                 s.id,
			ChecklistID:        id,
			Title:              "Item " + s.id,
			Priority:           model.PriorityMedium,
			Status:             model.ItemStatusNotStarted,
			Obligatory:         s.obligatory,
			RequiresAttachment: s.requiresAttachment,
			SortOrder:          i + 1,
		}
	}
	started := testNow.Add(-time.Hour)
	c := model.Checklist{
		ID:            id,
		Title:         "Checklist " + id,
		Category:      "Segurança",
		SiteID:        "site-1",
		ResponsibleID: "resp-1",
		Status:        model.ChecklistStatusInProgress,
		StartedAt:     &started,
		Items:         items,
		CreatedAt:     testNow.Add(-2 * time.Hour),
		UpdatedAt:     testNow.Add(-time.Hour),
	}
	c.Progress = Compute(c.Items)
	return c
}

func testAttachment(id string) model.Attachment {
	return model.Attachment{
		ID:          id,
		FileName:    id + ".jpg",
		ContentType: "image/jpeg",
		Size:        2048,
		SHA256:      "deadbeef",
		UploadedAt:  testNow,
		UploadedBy:  testActor.Name,
	}
}
