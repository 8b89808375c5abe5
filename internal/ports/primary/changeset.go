// Package primary defines the primary ports (driving adapters) of the
// application: the contracts through which hosts deliver changeset
// notifications and receive per-ticket outcomes.
package primary

import (
	"context"
	"time"
)

// Changeset is one immutable commit record as delivered by the host.
type Changeset struct {
	Rev     string    `json:"rev"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// Repository describes the repository a changeset belongs to.
type Repository interface {
	// Name returns the repository name, empty for the default repository.
	Name() string

	// DisplayRev formats a revision for human display (e.g. a shortened
	// hash for git-style repositories).
	DisplayRev(rev string) string
}

// TicketOutcome reports what happened to one referenced ticket.
type TicketOutcome struct {
	TicketID int `json:"ticket_id"`

	// AppliedCommands lists the command categories that ran, in order.
	// Empty when the ticket was missing or gated off.
	AppliedCommands []string `json:"applied_commands"`

	// Ticket carries the resulting field state, nil when the ticket does
	// not exist in the store.
	Ticket *TicketState `json:"ticket,omitempty"`

	Saved bool `json:"saved"`
}

// TicketState is the caller-visible field snapshot of a ticket.
type TicketState struct {
	ID         int    `json:"id"`
	Summary    string `json:"summary,omitempty"`
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"`
	Owner      string `json:"owner,omitempty"`
	Reporter   string `json:"reporter,omitempty"`
}

// ChangeListener is implemented by the transition engine and driven by
// hosts (webhook handlers, CLI) when repository changes arrive. Both
// calls always complete; per-ticket failures are folded into outcomes
// and logs, never raised.
type ChangeListener interface {
	// ChangesetAdded processes a newly seen commit.
	ChangesetAdded(ctx context.Context, repo Repository, cs Changeset) map[int]*TicketOutcome

	// ChangesetModified processes an edited commit message. Ticket ids
	// already referenced by the old message are not reprocessed.
	ChangesetModified(ctx context.Context, repo Repository, cs Changeset, old *Changeset) map[int]*TicketOutcome
}

// RepoInfo is a plain-value Repository for hosts that only know a name
// and an optional display revision scheme.
type RepoInfo struct {
	RepoName string
	// ShortRevLen truncates revisions for display when > 0.
	ShortRevLen int
}

func (r RepoInfo) Name() string { return r.RepoName }

func (r RepoInfo) DisplayRev(rev string) string {
	if r.ShortRevLen > 0 && len(rev) > r.ShortRevLen {
		return rev[:r.ShortRevLen]
	}
	return rev
}
