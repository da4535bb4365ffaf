package store

import (
	"context"

	"github.com/obratrack/obratrack/internal/model"
)

// ChecklistFilter controls filtering and pagination for checklist queries.
// Nil dimensions pass through; Search matches title, category, site name,
// and responsible name.
type ChecklistFilter struct {
	Search        *string
	Category      *string
	Status        *string
	SiteID        *string
	ResponsibleID *string
	Limit         int
	Offset        int
}

// Store defines the persistence interface for checklists and their
// supporting entities. Checklist persistence is whole-document: a save
// writes the checklist row and every item in one transaction, and a load
// reassembles the full document.
type Store interface {
	// === Checklists ===

	SaveChecklist(ctx context.Context, c model.Checklist) error
	GetChecklistByID(ctx context.Context, id string) (*model.Checklist, error)
	GetChecklists(ctx context.Context, filter ChecklistFilter) ([]model.Checklist, error)
	GetChecklistCount(ctx context.Context, filter ChecklistFilter) (int, error)
	DeleteChecklist(ctx context.Context, id string) error

	// === Sites ===

	CreateSite(ctx context.Context, site *model.Site) error
	UpdateSite(ctx context.Context, site *model.Site) error
	GetSiteByID(ctx context.Context, id string) (*model.Site, error)
	GetSites(ctx context.Context, includeInactive bool) ([]model.Site, error)

	// === Responsibles ===

	CreateResponsible(ctx context.Context, r *model.Responsible) error
	GetResponsibleByID(ctx context.Context, id string) (*model.Responsible, error)
	GetResponsibles(ctx context.Context) ([]model.Responsible, error)

	// === Templates ===

	CreateTemplate(ctx context.Context, tpl *model.ChecklistTemplate) error
	GetTemplateByID(ctx context.Context, id string) (*model.ChecklistTemplate, error)
	GetTemplates(ctx context.Context) ([]model.ChecklistTemplate, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) (bool, error)
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}
