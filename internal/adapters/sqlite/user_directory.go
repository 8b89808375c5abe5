package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/tickethook/internal/ports/secondary"
)

// UserDirectory implements secondary.UserDirectory against the users table.
type UserDirectory struct {
	db *sql.DB
}

// NewUserDirectory creates a new SQLite user directory.
func NewUserDirectory(db *sql.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// KnownUsers returns every tracker account.
func (d *UserDirectory) KnownUsers(ctx context.Context) ([]secondary.UserRecord, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT username, name, email FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []secondary.UserRecord
	for rows.Next() {
		var u secondary.UserRecord
		if err := rows.Scan(&u.Username, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddUser inserts or replaces a tracker account.
func (d *UserDirectory) AddUser(ctx context.Context, user secondary.UserRecord) error {
	_, err := d.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO users (username, name, email) VALUES (?, ?, ?)",
		user.Username, user.Name, user.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to add user %s: %w", user.Username, err)
	}
	return nil
}

// Ensure UserDirectory implements the port.
var _ secondary.UserDirectory = (*UserDirectory)(nil)
