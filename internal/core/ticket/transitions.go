// Package ticket contains the pure ticket state machine: the transition
// functions applied when a commit message commands a ticket.
// This is part of the functional core - no I/O, only pure functions.
package ticket

import "github.com/example/tickethook/internal/core/command"

// Status values written by the transitions. The tracker status vocabulary
// is open-ended; these are the only values the transitions produce.
const (
	StatusClosed      = "closed"
	StatusReopened    = "reopened"
	StatusImplemented = "implemented"
	StatusRejected    = "rejected"
	StatusTestReady   = "test_ready"
)

// Resolution values written by the close-class transitions.
const (
	ResolutionFixed              = "fixed"
	ResolutionInvalid            = "invalid"
	ResolutionWorksForMe         = "worksforme"
	ResolutionAlreadyImplemented = "already_implemented"
)

// Ticket is the mutable field set the transitions operate on.
type Ticket struct {
	ID         int
	Status     string
	Resolution string
	Owner      string
	Reporter   string
}

// Transition mutates a ticket on behalf of the commit author and reports
// whether the ticket should be saved. Every transition returns true, even
// when the precondition blocks the field mutation: a close issued on an
// already-closed ticket still records the commit message as a comment.
type Transition func(t *Ticket, author string) bool

// Close sets status closed with resolution fixed.
func Close(t *Ticket, author string) bool {
	if t.Status != StatusClosed {
		t.Status = StatusClosed
		t.Resolution = ResolutionFixed
		if t.Owner == "" {
			t.Owner = author
		}
	}
	return true
}

// Invalidate sets status closed with resolution invalid.
func Invalidate(t *Ticket, author string) bool {
	if t.Status != StatusClosed {
		t.Status = StatusClosed
		t.Resolution = ResolutionInvalid
		if t.Owner == "" {
			t.Owner = author
		}
	}
	return true
}

// WorksForMe sets status closed with resolution worksforme.
func WorksForMe(t *Ticket, author string) bool {
	if t.Status != StatusClosed {
		t.Status = StatusClosed
		t.Resolution = ResolutionWorksForMe
		if t.Owner == "" {
			t.Owner = author
		}
	}
	return true
}

// AlreadyImplemented sets status closed with resolution already_implemented.
func AlreadyImplemented(t *Ticket, author string) bool {
	if t.Status != StatusClosed {
		t.Status = StatusClosed
		t.Resolution = ResolutionAlreadyImplemented
		if t.Owner == "" {
			t.Owner = author
		}
	}
	return true
}

// Reopen moves a closed ticket back to reopened, clearing the resolution.
// The owner is always overwritten with the author.
func Reopen(t *Ticket, author string) bool {
	if t.Status == StatusClosed {
		t.Status = StatusReopened
		t.Resolution = ""
		t.Owner = author
	}
	return true
}

// Implement marks the ticket implemented and hands it back to the reporter.
func Implement(t *Ticket, author string) bool {
	if t.Status != StatusImplemented && t.Status != StatusClosed {
		t.Status = StatusImplemented
		if t.Reporter != "" {
			t.Owner = t.Reporter
		}
		if t.Owner == "" {
			t.Owner = author
		}
	}
	return true
}

// Reject marks the ticket rejected and hands it back to the reporter.
func Reject(t *Ticket, author string) bool {
	if t.Status != StatusRejected && t.Status != StatusClosed {
		t.Status = StatusRejected
		if t.Reporter != "" {
			t.Owner = t.Reporter
		}
		if t.Owner == "" {
			t.Owner = author
		}
	}
	return true
}

// TestReady marks the ticket ready for testing and hands it back to the
// reporter, clearing the resolution.
func TestReady(t *Ticket, author string) bool {
	if t.Status != StatusClosed {
		t.Status = StatusTestReady
		t.Resolution = ""
		if t.Reporter != "" {
			t.Owner = t.Reporter
		}
		if t.Owner == "" {
			t.Owner = author
		}
	}
	return true
}

// Reference leaves the ticket fields untouched. The ticket is still saved
// so the commit message lands as a comment.
func Reference(t *Ticket, author string) bool { return true }

// ForCategory returns the transition implementing a command category.
func ForCategory(cat command.Category) (Transition, bool) {
	switch cat {
	case command.CategoryClose:
		return Close, true
	case command.CategoryInvalidate:
		return Invalidate, true
	case command.CategoryWorksForMe:
		return WorksForMe, true
	case command.CategoryAlreadyImplemented:
		return AlreadyImplemented, true
	case command.CategoryReopen:
		return Reopen, true
	case command.CategoryImplement:
		return Implement, true
	case command.CategoryReject:
		return Reject, true
	case command.CategoryTestReady:
		return TestReady, true
	case command.CategoryReference:
		return Reference, true
	}
	return nil, false
}
