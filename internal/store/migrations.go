package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sites (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	address    TEXT NOT NULL DEFAULT '',
	active     INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS responsibles (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS templates (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	category    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS template_items (
	id                  TEXT PRIMARY KEY,
	template_id         TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
	title               TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	priority            INTEGER NOT NULL DEFAULT 3 CHECK(priority BETWEEN 1 AND 4),
	obligatory          INTEGER NOT NULL DEFAULT 0 CHECK(obligatory IN (0, 1)),
	requires_attachment INTEGER NOT NULL DEFAULT 0 CHECK(requires_attachment IN (0, 1)),
	sort_order          INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_template_items_template_id ON template_items(template_id);

CREATE TABLE IF NOT EXISTS checklists (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	category       TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	site_id        TEXT NOT NULL REFERENCES sites(id),
	responsible_id TEXT NOT NULL REFERENCES responsibles(id),
	status         TEXT NOT NULL DEFAULT 'draft'
		CHECK(status IN ('draft', 'in_progress', 'completed', 'pending', 'cancelled')),
	due_date       DATETIME,
	template_id    TEXT,
	signer_name    TEXT,
	signer_email   TEXT,
	signed_at      DATETIME,
	signature_data BLOB,
	started_at     DATETIME,
	completed_at   DATETIME,
	cancelled_at   DATETIME,
	created_at     DATETIME NOT NULL,
	updated_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checklists_site_id ON checklists(site_id);
CREATE INDEX IF NOT EXISTS idx_checklists_responsible_id ON checklists(responsible_id);
CREATE INDEX IF NOT EXISTS idx_checklists_status ON checklists(status);
CREATE INDEX IF NOT EXISTS idx_checklists_category ON checklists(category);
CREATE INDEX IF NOT EXISTS idx_checklists_due_date ON checklists(due_date);

CREATE TABLE IF NOT EXISTS checklist_items (
	id                  TEXT PRIMARY KEY,
	checklist_id        TEXT NOT NULL REFERENCES checklists(id) ON DELETE CASCADE,
	title               TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	priority            INTEGER NOT NULL DEFAULT 3 CHECK(priority BETWEEN 1 AND 4),
	status              TEXT NOT NULL DEFAULT 'not_started'
		CHECK(status IN ('not_started', 'in_progress', 'done', 'not_applicable')),
	obligatory          INTEGER NOT NULL DEFAULT 0 CHECK(obligatory IN (0, 1)),
	requires_attachment INTEGER NOT NULL DEFAULT 0 CHECK(requires_attachment IN (0, 1)),
	attachments         TEXT NOT NULL DEFAULT '[]',
	observations        TEXT NOT NULL DEFAULT '',
	completed_at        DATETIME,
	completed_by        TEXT NOT NULL DEFAULT '',
	sort_order          INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_checklist_items_checklist_id ON checklist_items(checklist_id);

CREATE TABLE IF NOT EXISTS notifications (
	id           TEXT PRIMARY KEY,
	checklist_id TEXT NOT NULL,
	kind         TEXT NOT NULL,
	message      TEXT NOT NULL,
	read         INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_checklist_id ON notifications(checklist_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_checklists_status_due
	ON checklists(status, due_date);

CREATE UNIQUE INDEX IF NOT EXISTS idx_notifications_dedup
	ON notifications(checklist_id, kind);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
