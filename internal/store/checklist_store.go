package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/obratrack/obratrack/internal/checklist"
	"github.com/obratrack/obratrack/internal/model"
)

// checklistColumns is the explicit column list used by checklist queries,
// joined with the owning site and responsible names.
const checklistColumns = `
	checklists.id, checklists.title, checklists.category, checklists.description,
	checklists.site_id, checklists.responsible_id, checklists.status,
	checklists.due_date, checklists.template_id,
	checklists.signer_name, checklists.signer_email, checklists.signed_at, checklists.signature_data,
	checklists.started_at, checklists.completed_at, checklists.cancelled_at,
	checklists.created_at, checklists.updated_at,
	sites.name AS site_name, responsibles.name AS responsible_name`

// SaveChecklist persists a checklist at whole-document granularity: the
// checklist row, its signature fields, and every item are written in a
// single transaction. Generates a UUID if the ID is empty.
func (s *SQLiteStore) SaveChecklist(ctx context.Context, c model.Checklist) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("checklist title must not be empty")
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("checklist must have at least one item")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var signerName, signerEmail *string
	var signedAt *time.Time
	var signatureData []byte
	if c.Signature != nil {
		signerName = &c.Signature.SignerName
		signerEmail = &c.Signature.SignerEmail
		t := c.Signature.SignedAt.UTC()
		signedAt = &t
		signatureData = c.Signature.Data
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO checklists (
			id, title, category, description,
			site_id, responsible_id, status,
			due_date, template_id,
			signer_name, signer_email, signed_at, signature_data,
			started_at, completed_at, cancelled_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Category, c.Description,
		c.SiteID, c.ResponsibleID, c.Status,
		c.DueDate, c.TemplateID,
		signerName, signerEmail, signedAt, signatureData,
		c.StartedAt, c.CompletedAt, c.CancelledAt,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving checklist %s: %w", c.ID, err)
	}

	// INSERT OR REPLACE cascades the item delete; reinsert the full set.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM checklist_items WHERE checklist_id = ?", c.ID,
	); err != nil {
		return fmt.Errorf("clearing items for checklist %s: %w", c.ID, err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO checklist_items (
			id, checklist_id, title, description, priority, status,
			obligatory, requires_attachment, attachments,
			observations, completed_at, completed_by, sort_order
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range c.Items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		attachments, err := json.Marshal(item.Attachments)
		if err != nil {
			return fmt.Errorf("marshaling attachments for item %s: %w", item.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			item.ID, c.ID, item.Title, item.Description, item.Priority, item.Status,
			boolToInt(item.Obligatory), boolToInt(item.RequiresAttachment), string(attachments),
			item.Observations, item.CompletedAt, item.CompletedBy, item.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("saving item %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

// GetChecklistByID reassembles a full checklist document: the checklist
// row, its items in sort order, and the derived progress.
func (s *SQLiteStore) GetChecklistByID(
	ctx context.Context,
	id string,
) (*model.Checklist, error) {
	query := "SELECT" + checklistColumns + `
		FROM checklists
		JOIN sites ON sites.id = checklists.site_id
		JOIN responsibles ON responsibles.id = checklists.responsible_id
		WHERE checklists.id = ?`

	rows, err := s.db.QueryxContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("getting checklist %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting checklist %s: %w", id, err)
		}
		return nil, &checklist.NotFoundError{Kind: "checklist", ID: id}
	}

	c, err := scanChecklist(rows)
	if err != nil {
		return nil, err
	}

	items, err := s.getChecklistItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	c.Progress = checklist.Compute(c.Items)

	return &c, nil
}

// GetChecklists retrieves checklist documents matching the filter, in
// creation order.
func (s *SQLiteStore) GetChecklists(
	ctx context.Context,
	filter ChecklistFilter,
) ([]model.Checklist, error) {
	query, args := buildChecklistQuery("SELECT"+checklistColumns, filter)

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying checklists: %w", err)
	}
	defer rows.Close()

	var checklists []model.Checklist
	for rows.Next() {
		c, err := scanChecklist(rows)
		if err != nil {
			return nil, err
		}
		checklists = append(checklists, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range checklists {
		items, err := s.getChecklistItems(ctx, checklists[i].ID)
		if err != nil {
			return nil, err
		}
		checklists[i].Items = items
		checklists[i].Progress = checklist.Compute(items)
	}

	return checklists, nil
}

// GetChecklistCount returns the count of checklists matching the filter.
func (s *SQLiteStore) GetChecklistCount(
	ctx context.Context,
	filter ChecklistFilter,
) (int, error) {
	query, args := buildChecklistQuery("SELECT COUNT(*)", filter)

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("counting checklists: %w", err)
	}
	return count, nil
}

// DeleteChecklist removes a checklist by ID. Cascades to its items.
func (s *SQLiteStore) DeleteChecklist(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM checklists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting checklist %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &checklist.NotFoundError{Kind: "checklist", ID: id}
	}
	return nil
}

// getChecklistItems loads the items for one checklist in sort order.
func (s *SQLiteStore) getChecklistItems(
	ctx context.Context,
	checklistID string,
) ([]model.ChecklistItem, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, checklist_id, title, description, priority, status,
			obligatory, requires_attachment, attachments,
			observations, completed_at, completed_by, sort_order
		FROM checklist_items WHERE checklist_id = ? ORDER BY sort_order`,
		checklistID)
	if err != nil {
		return nil, fmt.Errorf("querying items for checklist %s: %w", checklistID, err)
	}
	defer rows.Close()

	var items []model.ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// buildChecklistQuery assembles the filtered checklist query shared by
// GetChecklists and GetChecklistCount.
func buildChecklistQuery(selectClause string, f ChecklistFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.Search != nil && *f.Search != "" {
		conditions = append(conditions,
			"(checklists.title LIKE ? OR checklists.category LIKE ? OR sites.name LIKE ? OR responsibles.name LIKE ?)")
		q := "%" + *f.Search + "%"
		args = append(args, q, q, q, q)
	}
	if f.Category != nil && *f.Category != "" && *f.Category != checklist.FilterAll {
		conditions = append(conditions, "checklists.category = ?")
		args = append(args, *f.Category)
	}
	if f.Status != nil && *f.Status != "" && *f.Status != checklist.FilterAll {
		conditions = append(conditions, "checklists.status = ?")
		args = append(args, *f.Status)
	}
	if f.SiteID != nil && *f.SiteID != "" && *f.SiteID != checklist.FilterAll {
		conditions = append(conditions, "checklists.site_id = ?")
		args = append(args, *f.SiteID)
	}
	if f.ResponsibleID != nil && *f.ResponsibleID != "" && *f.ResponsibleID != checklist.FilterAll {
		conditions = append(conditions, "checklists.responsible_id = ?")
		args = append(args, *f.ResponsibleID)
	}

	query := selectClause + `
		FROM checklists
		JOIN sites ON sites.id = checklists.site_id
		JOIN responsibles ON responsibles.id = checklists.responsible_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// Creation order is the list contract.
	query += " ORDER BY checklists.created_at"

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", f.Offset)
	}

	return query, args
}

// scanChecklist scans a checklist row (with joined names) from a
// sqlx.Rows result set.
func scanChecklist(rows *sqlx.Rows) (model.Checklist, error) {
	var (
		c             model.Checklist
		signerName    *string
		signerEmail   *string
		signedAt      *time.Time
		signatureData []byte
	)

	err := rows.Scan(
		&c.ID, &c.Title, &c.Category, &c.Description,
		&c.SiteID, &c.ResponsibleID, &c.Status,
		&c.DueDate, &c.TemplateID,
		&signerName, &signerEmail, &signedAt, &signatureData,
		&c.StartedAt, &c.CompletedAt, &c.CancelledAt,
		&c.CreatedAt, &c.UpdatedAt,
		&c.SiteName, &c.ResponsibleName,
	)
	if err != nil {
		return model.Checklist{}, fmt.Errorf("scanning checklist row: %w", err)
	}

	if signedAt != nil {
		c.Signature = &model.Signature{
			SignedAt: *signedAt,
			Data:     signatureData,
		}
		if signerName != nil {
			c.Signature.SignerName = *signerName
		}
		if signerEmail != nil {
			c.Signature.SignerEmail = *signerEmail
		}
	}

	return c, nil
}

// scanChecklistItem scans an item row from a sqlx.Rows result set.
func scanChecklistItem(rows *sqlx.Rows) (model.ChecklistItem, error) {
	var (
		item           model.ChecklistItem
		obligatory     int
		requiresAttach int
		attachments    string
		completedAt    sql.NullTime
	)

	err := rows.Scan(
		&item.ID, &item.ChecklistID, &item.Title, &item.Description,
		&item.Priority, &item.Status,
		&obligatory, &requiresAttach, &attachments,
		&item.Observations, &completedAt, &item.CompletedBy, &item.SortOrder,
	)
	if err != nil {
		return model.ChecklistItem{}, fmt.Errorf("scanning checklist item row: %w", err)
	}

	item.Obligatory = obligatory != 0
	item.RequiresAttachment = requiresAttach != 0
	if completedAt.Valid {
		t := completedAt.Time
		item.CompletedAt = &t
	}

	if attachments != "" && attachments != "[]" {
		if err := json.Unmarshal([]byte(attachments), &item.Attachments); err != nil {
			return model.ChecklistItem{}, fmt.Errorf("unmarshaling attachments: %w", err)
		}
	}

	return item, nil
}

// errIsNoRows reports whether err is sql.ErrNoRows.
func errIsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
