package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/obratrack/obratrack/internal/checklist"
	"github.com/obratrack/obratrack/internal/model"
)

// CreateTemplate inserts a template and its items in one transaction.
// Generates UUIDs for empty IDs.
func (s *SQLiteStore) CreateTemplate(ctx context.Context, t *model.ChecklistTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template name must not be empty")
	}
	if len(t.Items) == 0 {
		return fmt.Errorf("template must have at least one item")
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO templates (id, name, category, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Category, t.Description, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating template %s: %w", t.Name, err)
	}

	for i := range t.Items {
		item := &t.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.TemplateID = t.ID
		if item.SortOrder == 0 {
			item.SortOrder = i + 1
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO template_items (
				id, template_id, title, description, priority,
				obligatory, requires_attachment, sort_order
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.TemplateID, item.Title, item.Description, item.Priority,
			boolToInt(item.Obligatory), boolToInt(item.RequiresAttachment), item.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("creating template item %s: %w", item.Title, err)
		}
	}

	return tx.Commit()
}

// GetTemplateByID retrieves a template with its items in sort order.
func (s *SQLiteStore) GetTemplateByID(ctx context.Context, id string) (*model.ChecklistTemplate, error) {
	var t model.ChecklistTemplate
	err := s.db.GetContext(ctx, &t,
		"SELECT id, name, category, description, created_at FROM templates WHERE id = ?", id)
	if err != nil {
		if errIsNoRows(err) {
			return nil, &checklist.NotFoundError{Kind: "template", ID: id}
		}
		return nil, fmt.Errorf("getting template %s: %w", id, err)
	}

	items, err := s.getTemplateItems(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Items = items

	return &t, nil
}

// GetTemplates lists all templates by name, items included.
func (s *SQLiteStore) GetTemplates(ctx context.Context) ([]model.ChecklistTemplate, error) {
	var templates []model.ChecklistTemplate
	err := s.db.SelectContext(ctx, &templates,
		"SELECT id, name, category, description, created_at FROM templates ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}

	for i := range templates {
		items, err := s.getTemplateItems(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].Items = items
	}

	return templates, nil
}

func (s *SQLiteStore) getTemplateItems(ctx context.Context, templateID string) ([]model.TemplateItem, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, template_id, title, description, priority,
			obligatory, requires_attachment, sort_order
		FROM template_items WHERE template_id = ? ORDER BY sort_order`,
		templateID)
	if err != nil {
		return nil, fmt.Errorf("querying items for template %s: %w", templateID, err)
	}
	defer rows.Close()

	var items []model.TemplateItem
	for rows.Next() {
		var (
			item           model.TemplateItem
			obligatory     int
			requiresAttach int
		)
		err := rows.Scan(
			&item.ID, &item.TemplateID, &item.Title, &item.Description,
			&item.Priority, &obligatory, &requiresAttach, &item.SortOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning template item row: %w", err)
		}
		item.Obligatory = obligatory != 0
		item.RequiresAttachment = requiresAttach != 0
		items = append(items, item)
	}
	return items, rows.Err()
}
