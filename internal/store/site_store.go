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

// CreateSite inserts a new construction site. Generates a UUID if the
// ID is empty.
func (s *SQLiteStore) CreateSite(ctx context.Context, site *model.Site) error {
	if strings.TrimSpace(site.Name) == "" {
		return fmt.Errorf("site name must not be empty")
	}
	if site.ID == "" {
		site.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	site.CreatedAt = now
	site.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sites (id, name, address, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		site.ID, site.Name, site.Address, boolToInt(site.Active),
		site.CreatedAt, site.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating site %s: %w", site.Name, err)
	}
	return nil
}

// UpdateSite rewrites a site's mutable fields.
func (s *SQLiteStore) UpdateSite(ctx context.Context, site *model.Site) error {
	site.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE sites SET name = ?, address = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		site.Name, site.Address, boolToInt(site.Active), site.UpdatedAt, site.ID,
	)
	if err != nil {
		return fmt.Errorf("updating site %s: %w", site.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &checklist.NotFoundError{Kind: "site", ID: site.ID}
	}
	return nil
}

// GetSiteByID retrieves a single site.
func (s *SQLiteStore) GetSiteByID(ctx context.Context, id string) (*model.Site, error) {
	var site model.Site
	err := s.db.GetContext(ctx, &site,
		"SELECT id, name, address, active, created_at, updated_at FROM sites WHERE id = ?", id)
	if err != nil {
		if errIsNoRows(err) {
			return nil, &checklist.NotFoundError{Kind: "site", ID: id}
		}
		return nil, fmt.Errorf("getting site %s: %w", id, err)
	}
	return &site, nil
}

// GetSites lists sites by name. Inactive sites are skipped unless
// includeInactive is set.
func (s *SQLiteStore) GetSites(ctx context.Context, includeInactive bool) ([]model.Site, error) {
	query := "SELECT id, name, address, active, created_at, updated_at FROM sites"
	if !includeInactive {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name"

	var sites []model.Site
	if err := s.db.SelectContext(ctx, &sites, query); err != nil {
		return nil, fmt.Errorf("querying sites: %w", err)
	}
	return sites, nil
}

// CreateResponsible inserts a responsible person. Generates a UUID if
// the ID is empty.
func (s *SQLiteStore) CreateResponsible(ctx context.Context, r *model.Responsible) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("responsible name must not be empty")
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO responsibles (id, name, email, role, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Email, r.Role, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating responsible %s: %w", r.Name, err)
	}
	return nil
}

// GetResponsibleByID retrieves a single responsible person.
func (s *SQLiteStore) GetResponsibleByID(ctx context.Context, id string) (*model.Responsible, error) {
	var r model.Responsible
	err := s.db.GetContext(ctx, &r,
		"SELECT id, name, email, role, created_at FROM responsibles WHERE id = ?", id)
	if err != nil {
		if errIsNoRows(err) {
			return nil, &checklist.NotFoundError{Kind: "responsible", ID: id}
		}
		return nil, fmt.Errorf("getting responsible %s: %w", id, err)
	}
	return &r, nil
}

// GetResponsibles lists all responsible people by name.
func (s *SQLiteStore) GetResponsibles(ctx context.Context) ([]model.Responsible, error) {
	var responsibles []model.Responsible
	err := s.db.SelectContext(ctx, &responsibles,
		"SELECT id, name, email, role, created_at FROM responsibles ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying responsibles: %w", err)
	}
	return responsibles, nil
}
