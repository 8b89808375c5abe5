package db

// SchemaSQL is the complete schema for fresh installs.
//
// This is the single source of truth for the database schema. Adapter
// tests load it via GetSchemaSQL() so test and production schemas cannot
// drift.
const SchemaSQL = `
-- Tickets (the tracked work items)
CREATE TABLE IF NOT EXISTS tickets (
	id INTEGER PRIMARY KEY,
	summary TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'new',
	resolution TEXT NOT NULL DEFAULT '',
	owner TEXT NOT NULL DEFAULT '',
	reporter TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Ticket comments (audit trail, one row per applied changeset)
CREATE TABLE IF NOT EXISTS ticket_comments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ticket_id INTEGER NOT NULL,
	author TEXT NOT NULL,
	comment TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (ticket_id) REFERENCES tickets(id) ON DELETE CASCADE
);

-- Users (the tracker account directory)
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT ''
);

-- Permissions (capability grants per user)
CREATE TABLE IF NOT EXISTS permissions (
	username TEXT NOT NULL,
	action TEXT NOT NULL,
	PRIMARY KEY (username, action)
);
`

// GetSchemaSQL returns the authoritative schema.
func GetSchemaSQL() string {
	return SchemaSQL
}
