// Package sqlite_test contains integration tests for the SQLite adapters.
//
// All test setup uses db.GetSchemaSQL() so tests always run against the
// authoritative schema; do not hardcode CREATE TABLE statements here.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/tickethook/internal/db"
	"github.com/example/tickethook/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedTicket inserts a test ticket.
func seedTicket(t *testing.T, testDB *sql.DB, rec *secondary.TicketRecord) {
	t.Helper()
	_, err := testDB.Exec(
		"INSERT INTO tickets (id, summary, status, resolution, owner, reporter) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Summary, rec.Status, rec.Resolution, rec.Owner, rec.Reporter,
	)
	if err != nil {
		t.Fatalf("failed to seed ticket: %v", err)
	}
}

// seedUser inserts a test user.
func seedUser(t *testing.T, testDB *sql.DB, username, name, email string) {
	t.Helper()
	_, err := testDB.Exec("INSERT INTO users (username, name, email) VALUES (?, ?, ?)", username, name, email)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}
