package model

import "time"

// ChecklistTemplate is a reusable item set that checklists are created
// from. Templates are read-only at checklist creation time; a checklist
// keeps its own copy of every item.
type ChecklistTemplate struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Items is populated by queries that join with template_items.
	Items []TemplateItem `json:"items,omitempty" db:"-"`
}

// TemplateItem is a single item definition within a template.
type TemplateItem struct {
	ID                 string `json:"id" db:"id"`
	TemplateID         string `json:"template_id" db:"template_id"`
	Title              string `json:"title" db:"title"`
	Description        string `json:"description,omitempty" db:"description"`
	Priority           int    `json:"priority" db:"priority"`
	Obligatory         bool   `json:"is_obligatory" db:"obligatory"`
	RequiresAttachment bool   `json:"requires_attachment" db:"requires_attachment"`
	SortOrder          int    `json:"sort_order" db:"sort_order"`
}
