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

CREATE TABLE IF NOT EXISTS schemas (
	record_type TEXT PRIMARY KEY,
	fields      TEXT NOT NULL DEFAULT '[]',
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS records (
	record_type TEXT NOT NULL,
	id          TEXT NOT NULL,
	version     INTEGER NOT NULL DEFAULT 1,
	fields      TEXT NOT NULL DEFAULT '{}',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (record_type, id)
);

CREATE INDEX IF NOT EXISTS idx_records_type ON records(record_type);

CREATE TABLE IF NOT EXISTS timeline_configs (
	id                     TEXT PRIMARY KEY,
	name                   TEXT NOT NULL,
	description            TEXT NOT NULL DEFAULT '',
	is_active              INTEGER NOT NULL DEFAULT 1 CHECK(is_active IN (0, 1)),
	row_type               TEXT NOT NULL,
	block_type             TEXT NOT NULL,
	row_label_field        TEXT NOT NULL,
	row_to_block_field     TEXT NOT NULL,
	block_to_date_field    TEXT NOT NULL,
	block_label_field      TEXT NOT NULL,
	date_range_start_field TEXT NOT NULL DEFAULT '',
	date_range_end_field   TEXT NOT NULL DEFAULT '',
	block_duration_field   TEXT NOT NULL DEFAULT '',
	block_status_field     TEXT NOT NULL DEFAULT '',
	block_priority_field   TEXT NOT NULL DEFAULT '',
	block_color_field      TEXT NOT NULL DEFAULT '',
	created_at             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at             DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_timeline_configs_active ON timeline_configs(is_active);

CREATE TABLE IF NOT EXISTS bookings (
	id                  TEXT PRIMARY KEY,
	task_ref            TEXT NOT NULL,
	assignee_ref        TEXT NOT NULL,
	date                TEXT NOT NULL,
	start_time          TEXT NOT NULL,
	end_time            TEXT NOT NULL,
	start_min           INTEGER NOT NULL,
	end_min             INTEGER NOT NULL,
	duration_hours      REAL NOT NULL DEFAULT 0,
	status              TEXT NOT NULL DEFAULT 'assigned',
	notes               TEXT NOT NULL DEFAULT '',
	task_label          TEXT NOT NULL DEFAULT '',
	assignee_label      TEXT NOT NULL DEFAULT '',
	assignee_department TEXT NOT NULL DEFAULT '',
	task_priority       TEXT NOT NULL DEFAULT '',
	created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CHECK (end_min > start_min)
);

CREATE INDEX IF NOT EXISTS idx_bookings_assignee_date ON bookings(assignee_ref, date);
CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date);
CREATE INDEX IF NOT EXISTS idx_bookings_task_ref ON bookings(task_ref);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
