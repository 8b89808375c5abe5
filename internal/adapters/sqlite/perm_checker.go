package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/tickethook/internal/ports/secondary"
)

// PermissionChecker implements secondary.PermissionChecker against the
// permissions table. Capabilities are per-user; the ticket id is part of
// the port contract for hosts with finer-grained policies.
type PermissionChecker struct {
	db *sql.DB
}

// NewPermissionChecker creates a new SQLite permission checker.
func NewPermissionChecker(db *sql.DB) *PermissionChecker {
	return &PermissionChecker{db: db}
}

// Capabilities returns the capability set granted to a principal.
func (c *PermissionChecker) Capabilities(ctx context.Context, principal string, ticketID int) (secondary.CapabilitySet, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT action FROM permissions WHERE username = ?",
		principal,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query permissions: %w", err)
	}
	defer rows.Close()

	caps := make(secondary.CapabilitySet)
	for rows.Next() {
		var action string
		if err := rows.Scan(&action); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		caps[action] = true
	}
	return caps, rows.Err()
}

// Grant adds a capability for a user. Granting twice is a no-op.
func (c *PermissionChecker) Grant(ctx context.Context, username, action string) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO permissions (username, action) VALUES (?, ?)",
		username, action,
	)
	if err != nil {
		return fmt.Errorf("failed to grant %s to %s: %w", action, username, err)
	}
	return nil
}

// Revoke removes a capability from a user.
func (c *PermissionChecker) Revoke(ctx context.Context, username, action string) error {
	_, err := c.db.ExecContext(ctx,
		"DELETE FROM permissions WHERE username = ? AND action = ?",
		username, action,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke %s from %s: %w", action, username, err)
	}
	return nil
}

// Ensure PermissionChecker implements the port.
var _ secondary.PermissionChecker = (*PermissionChecker)(nil)
