// Package sqlite contains SQLite implementations of the secondary ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/tickethook/internal/ports/secondary"
)

// TicketStore implements secondary.TicketStore with SQLite.
type TicketStore struct {
	db *sql.DB
}

// NewTicketStore creates a new SQLite ticket store.
func NewTicketStore(db *sql.DB) *TicketStore {
	return &TicketStore{db: db}
}

// Begin opens a ticket-scoped transaction.
func (s *TicketStore) Begin(ctx context.Context) (secondary.TicketTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin ticket transaction: %w", err)
	}
	return &ticketTx{tx: tx}, nil
}

// ticketTx wraps one sql.Tx covering a single ticket's read-modify-persist.
type ticketTx struct {
	tx   *sql.Tx
	done bool
}

func (t *ticketTx) Get(ctx context.Context, id int) (*secondary.TicketRecord, error) {
	record := &secondary.TicketRecord{}
	err := t.tx.QueryRowContext(ctx,
		"SELECT id, summary, status, resolution, owner, reporter, created_at, updated_at FROM tickets WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Summary, &record.Status, &record.Resolution, &record.Owner, &record.Reporter, &record.CreatedAt, &record.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, secondary.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}
	return record, nil
}

func (t *ticketTx) Save(ctx context.Context, rec *secondary.TicketRecord, author, comment string, date time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE tickets SET summary = ?, status = ?, resolution = ?, owner = ?, reporter = ?, updated_at = ? WHERE id = ?",
		rec.Summary, rec.Status, rec.Resolution, rec.Owner, rec.Reporter, date, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket %d: %w", rec.ID, err)
	}

	_, err = t.tx.ExecContext(ctx,
		"INSERT INTO ticket_comments (ticket_id, author, comment, created_at) VALUES (?, ?, ?, ?)",
		rec.ID, author, comment, date,
	)
	if err != nil {
		return fmt.Errorf("failed to append comment to ticket %d: %w", rec.ID, err)
	}
	return nil
}

func (t *ticketTx) Commit() error {
	t.done = true
	return t.tx.Commit()
}

func (t *ticketTx) Rollback() error {
	if t.done {
		return nil
	}
	return t.tx.Rollback()
}

// CommentRecord is one audit comment row.
type CommentRecord struct {
	ID        int
	TicketID  int
	Author    string
	Comment   string
	CreatedAt time.Time
}

// CreateTicket inserts a new ticket and returns its id. A zero id lets
// SQLite assign the next rowid.
func (s *TicketStore) CreateTicket(ctx context.Context, rec *secondary.TicketRecord) (int, error) {
	var res sql.Result
	var err error
	if rec.ID > 0 {
		res, err = s.db.ExecContext(ctx,
			"INSERT INTO tickets (id, summary, status, resolution, owner, reporter) VALUES (?, ?, ?, ?, ?, ?)",
			rec.ID, rec.Summary, rec.Status, rec.Resolution, rec.Owner, rec.Reporter,
		)
	} else {
		res, err = s.db.ExecContext(ctx,
			"INSERT INTO tickets (summary, status, resolution, owner, reporter) VALUES (?, ?, ?, ?, ?)",
			rec.Summary, rec.Status, rec.Resolution, rec.Owner, rec.Reporter,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create ticket: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new ticket id: %w", err)
	}
	return int(id), nil
}

// GetTicket retrieves a ticket outside any transaction.
func (s *TicketStore) GetTicket(ctx context.Context, id int) (*secondary.TicketRecord, error) {
	record := &secondary.TicketRecord{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, summary, status, resolution, owner, reporter, created_at, updated_at FROM tickets WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Summary, &record.Status, &record.Resolution, &record.Owner, &record.Reporter, &record.CreatedAt, &record.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, secondary.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}
	return record, nil
}

// ListTickets retrieves tickets, optionally filtered by status.
func (s *TicketStore) ListTickets(ctx context.Context, status string) ([]*secondary.TicketRecord, error) {
	query := "SELECT id, summary, status, resolution, owner, reporter, created_at, updated_at FROM tickets"
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*secondary.TicketRecord
	for rows.Next() {
		record := &secondary.TicketRecord{}
		if err := rows.Scan(&record.ID, &record.Summary, &record.Status, &record.Resolution, &record.Owner, &record.Reporter, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, record)
	}
	return tickets, rows.Err()
}

// Comments retrieves the audit trail of a ticket, oldest first.
func (s *TicketStore) Comments(ctx context.Context, ticketID int) ([]*CommentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, ticket_id, author, comment, created_at FROM ticket_comments WHERE ticket_id = ? ORDER BY id",
		ticketID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*CommentRecord
	for rows.Next() {
		record := &CommentRecord{}
		if err := rows.Scan(&record.ID, &record.TicketID, &record.Author, &record.Comment, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, record)
	}
	return comments, rows.Err()
}

// Ensure TicketStore implements the port.
var _ secondary.TicketStore = (*TicketStore)(nil)
