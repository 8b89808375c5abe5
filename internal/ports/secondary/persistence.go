// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the engine drives
// the ticket store, permission system, user directory and notification
// delivery.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrTicketNotFound is returned by TicketTx.Get for an absent ticket id.
var ErrTicketNotFound = errors.New("ticket not found")

// CapTicketModify is the capability required to run transitions against
// a ticket when permission checking is enabled.
const CapTicketModify = "TICKET_MODIFY"

// TicketRecord represents a ticket as stored in persistence.
type TicketRecord struct {
	ID         int
	Summary    string
	Status     string
	Resolution string
	Owner      string
	Reporter   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TicketStore is the secondary port for ticket persistence. Each ticket
// is processed inside its own transaction so observers never see a
// partially applied field set.
type TicketStore interface {
	// Begin opens a ticket-scoped transaction.
	Begin(ctx context.Context) (TicketTx, error)
}

// TicketTx is one ticket-scoped transactional unit: lookup through
// persist is atomic. Rollback after Commit is a no-op, so callers can
// defer it on all paths.
type TicketTx interface {
	// Get loads a ticket by id, ErrTicketNotFound when absent.
	Get(ctx context.Context, id int) (*TicketRecord, error)

	// Save persists the ticket fields and appends the audit comment.
	Save(ctx context.Context, t *TicketRecord, author, comment string, date time.Time) error

	Commit() error
	Rollback() error
}

// CapabilitySet holds the capabilities a principal has on a ticket.
type CapabilitySet map[string]bool

// Has reports whether the capability is present.
func (s CapabilitySet) Has(cap string) bool { return s[cap] }

// PermissionChecker is the secondary port for the host permission system.
type PermissionChecker interface {
	// Capabilities returns the capability set of a principal on a ticket.
	Capabilities(ctx context.Context, principal string, ticketID int) (CapabilitySet, error)
}

// UserRecord is one tracker account as stored in the user directory.
type UserRecord struct {
	Username string
	Name     string
	Email    string
}

// UserDirectory is the secondary port for the tracker account listing.
type UserDirectory interface {
	// KnownUsers returns every known tracker account.
	KnownUsers(ctx context.Context) ([]UserRecord, error)
}

// TicketChangeEvent describes a persisted ticket update for notification
// delivery.
type TicketChangeEvent struct {
	TicketID int       `json:"ticket_id"`
	Summary  string    `json:"summary,omitempty"`
	Status   string    `json:"status"`
	Author   string    `json:"author"`
	Comment  string    `json:"comment"`
	Date     time.Time `json:"date"`
}

// Notifier is the secondary port for change notification delivery.
type Notifier interface {
	// Notify delivers a ticket change event. Failures are logged by the
	// caller and never abort ticket processing.
	Notify(ctx context.Context, event TicketChangeEvent) error
}
