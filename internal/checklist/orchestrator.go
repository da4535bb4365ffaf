package checklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/obratrack/obratrack/internal/model"
)

// NewChecklistParams holds the creation-time fields of a checklist. The
// item set is fixed at creation; items cannot be added or removed later.
type NewChecklistParams struct {
	ID            string
	Title         string
	Category      string
	Description   string
	SiteID        string
	ResponsibleID string
	DueDate       *time.Time
	TemplateID    *string
	Items         []model.ChecklistItem
}

// New builds a draft checklist from the given parameters. The item set
// must be non-empty; item ids must be unique within the checklist.
func New(p NewChecklistParams, now time.Time) (model.Checklist, error) {
	if strings.TrimSpace(p.Title) == "" {
		return model.Checklist{}, fmt.Errorf("checklist title must not be empty")
	}
	if p.SiteID == "" {
		return model.Checklist{}, fmt.Errorf("checklist must belong to a site")
	}
	if p.ResponsibleID == "" {
		return model.Checklist{}, fmt.Errorf("checklist must have a responsible party")
	}
	if len(p.Items) == 0 {
		return model.Checklist{}, fmt.Errorf("checklist must have at least one item")
	}

	items := make([]model.ChecklistItem, len(p.Items))
	seen := make(map[string]bool, len(p.Items))
	for i, item := range p.Items {
		if strings.TrimSpace(item.Title) == "" {
			return model.Checklist{}, fmt.Errorf("item %d: title must not be empty", i)
		}
		if item.ID != "" {
			if seen[item.ID] {
				return model.Checklist{}, fmt.Errorf("duplicate item id %s", item.ID)
			}
			seen[item.ID] = true
		}
		items[i] = item
		items[i].ChecklistID = p.ID
		if items[i].Status == "" {
			items[i].Status = model.ItemStatusNotStarted
		}
		if items[i].Priority < model.PriorityCritical || items[i].Priority > model.PriorityLow {
			items[i].Priority = model.PriorityMedium
		}
		if items[i].SortOrder == 0 {
			items[i].SortOrder = i + 1
		}
	}

	c := model.Checklist{
		ID:            p.ID,
		Title:         p.Title,
		Category:      p.Category,
		Description:   p.Description,
		SiteID:        p.SiteID,
		ResponsibleID: p.ResponsibleID,
		Status:        model.ChecklistStatusDraft,
		DueDate:       p.DueDate,
		TemplateID:    p.TemplateID,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	c.Progress = Compute(c.Items)
	return c, nil
}

// FromTemplate builds a draft checklist whose items are copied from the
// template's item definitions.
func FromTemplate(tpl model.ChecklistTemplate, p NewChecklistParams, now time.Time) (model.Checklist, error) {
	if len(tpl.Items) == 0 {
		return model.Checklist{}, fmt.Errorf("template %s has no items", tpl.ID)
	}

	items := make([]model.ChecklistItem, len(tpl.Items))
	for i, ti := range tpl.Items {
		items[i] = model.ChecklistItem{
			Title:              ti.Title,
			Description:        ti.Description,
			Priority:           ti.Priority,
			Obligatory:         ti.Obligatory,
			RequiresAttachment: ti.RequiresAttachment,
			SortOrder:          ti.SortOrder,
		}
	}

	p.Items = items
	if p.Category == "" {
		p.Category = tpl.Category
	}
	if p.TemplateID == nil {
		id := tpl.ID
		p.TemplateID = &id
	}
	return New(p, now)
}

// ApplyItemMutation routes an operation to a single item, then always
// recomputes the checklist aggregates. It validates fully before
// mutating: a returned error means no state changed.
//
// The first mutation moves a draft checklist into progress and stamps
// StartedAt once. A mutation while the checklist is pending (blocked)
// returns it to in progress.
func ApplyItemMutation(c *model.Checklist, itemID string, op ItemOp, actor model.Actor, now time.Time) error {
	if c.Terminal() {
		return &ChecklistLockedError{ChecklistID: c.ID, Status: c.Status}
	}

	idx := -1
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &NotFoundError{Kind: "item", ID: itemID}
	}

	item := c.Items[idx]
	if err := applyItemOp(&item, op, actor, now); err != nil {
		return err
	}
	c.Items[idx] = item

	switch c.Status {
	case model.ChecklistStatusDraft:
		c.Status = model.ChecklistStatusInProgress
		if c.StartedAt == nil {
			t := now
			c.StartedAt = &t
		}
	case model.ChecklistStatusPending:
		c.Status = model.ChecklistStatusInProgress
	}

	c.Progress = Compute(c.Items)
	c.UpdatedAt = now
	return nil
}

// Cancel moves the checklist into its terminal cancelled state. Allowed
// from draft, in progress, and pending.
func Cancel(c *model.Checklist, now time.Time) error {
	if c.Terminal() {
		return &ChecklistLockedError{ChecklistID: c.ID, Status: c.Status}
	}
	c.Status = model.ChecklistStatusCancelled
	t := now
	c.CancelledAt = &t
	c.UpdatedAt = now
	return nil
}

// MarkPending flags an in-progress checklist as blocked on an external
// dependency. The branch is reversible via Resume or any item mutation.
func MarkPending(c *model.Checklist, now time.Time) error {
	if c.Terminal() {
		return &ChecklistLockedError{ChecklistID: c.ID, Status: c.Status}
	}
	if c.Status != model.ChecklistStatusInProgress {
		return fmt.Errorf("checklist %s: only an in-progress checklist can be marked pending", c.ID)
	}
	c.Status = model.ChecklistStatusPending
	c.UpdatedAt = now
	return nil
}

// Resume returns a pending checklist to in progress.
func Resume(c *model.Checklist, now time.Time) error {
	if c.Status != model.ChecklistStatusPending {
		return fmt.Errorf("checklist %s: not pending", c.ID)
	}
	c.Status = model.ChecklistStatusInProgress
	c.UpdatedAt = now
	return nil
}
