// Package engine applies parsed commit-message commands to tickets. It
// implements the primary ChangeListener port: hosts deliver changeset
// events, the engine parses them, gates on permissions and author
// domain, runs the transitions inside one transaction per ticket, and
// dispatches notifications for persisted updates.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/tickethook/internal/core/author"
	"github.com/example/tickethook/internal/core/command"
	"github.com/example/tickethook/internal/core/message"
	"github.com/example/tickethook/internal/core/ticket"
	"github.com/example/tickethook/internal/ports/primary"
	"github.com/example/tickethook/internal/ports/secondary"
)

// Options configures the engine behavior.
type Options struct {
	// Envelope is empty or two literal characters bounding commands.
	Envelope string

	// AllowedDomains gates commit authors by email domain. Empty allows
	// everyone; a non-empty list denies authors without a domain.
	AllowedDomains []string

	// CheckPerms requires the TICKET_MODIFY capability before running
	// transitions.
	CheckPerms bool

	// Notify enables change notification dispatch on save.
	Notify bool
}

// Engine is the long-lived transition engine. Safe for concurrent use;
// the duplicate guard is the only internal mutable state.
type Engine struct {
	opts     Options
	parser   *message.Parser
	store    secondary.TicketStore
	perms    secondary.PermissionChecker
	users    secondary.UserDirectory
	notifier secondary.Notifier
	log      zerolog.Logger

	// Single-slot changeset memo. Only an exact repeat of the most
	// recently seen changeset is suppressed; this bounds memory and is
	// not a guarantee against non-adjacent duplicates.
	mu      sync.Mutex
	lastKey *changesetKey
}

type changesetKey struct {
	rev     string
	message string
	author  string
	date    time.Time
}

// New creates an engine with injected dependencies. The command table is
// consulted through the compiled parser and must not be mutated after.
func New(opts Options, table *command.Table, store secondary.TicketStore, perms secondary.PermissionChecker, users secondary.UserDirectory, notifier secondary.Notifier, log zerolog.Logger) (*Engine, error) {
	parser, err := message.NewParser(table, opts.Envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to build message parser: %w", err)
	}
	return &Engine{
		opts:     opts,
		parser:   parser,
		store:    store,
		perms:    perms,
		users:    users,
		notifier: notifier,
		log:      log,
	}, nil
}

// ChangesetAdded processes a newly seen commit. Returns nil when the
// changeset is an exact repeat of the previous delivery.
func (e *Engine) ChangesetAdded(ctx context.Context, repo primary.Repository, cs primary.Changeset) map[int]*primary.TicketOutcome {
	if e.isDuplicate(cs) {
		e.log.Debug().Str("rev", cs.Rev).Msg("skipping duplicate changeset")
		return nil
	}
	tickets := e.parser.Parse(cs.Message)
	comment := e.MakeTicketComment(repo, cs)
	return e.updateTickets(ctx, tickets, cs, comment, time.Now().UTC())
}

// ChangesetModified processes an edited commit message. Only ticket ids
// newly referenced by the edit are applied; ids already present in the
// old message were handled when the changeset was first added.
func (e *Engine) ChangesetModified(ctx context.Context, repo primary.Repository, cs primary.Changeset, old *primary.Changeset) map[int]*primary.TicketOutcome {
	if e.isDuplicate(cs) {
		e.log.Debug().Str("rev", cs.Rev).Msg("skipping duplicate changeset")
		return nil
	}
	tickets := e.parser.Parse(cs.Message)
	if old != nil {
		for _, id := range e.parser.Parse(old.Message).TicketIDs() {
			tickets.Remove(id)
		}
	}
	comment := e.MakeTicketComment(repo, cs)
	return e.updateTickets(ctx, tickets, cs, comment, time.Now().UTC())
}

// MakeTicketComment renders the audit comment for a changeset. The
// literal structure, including the triple-brace block and the embedded
// CommitTicketReference directive, is a compatibility contract with the
// tracker's markup renderer.
func (e *Engine) MakeTicketComment(repo primary.Repository, cs primary.Changeset) string {
	revstring := cs.Rev
	drev := repo.DisplayRev(cs.Rev)
	if name := repo.Name(); name != "" {
		revstring += "/" + name
		drev += "/" + name
	}
	return fmt.Sprintf("In [changeset:\"%s\" %s]:\n{{{\n#!CommitTicketReference repository=\"%s\" revision=\"%s\"\n%s\n}}}",
		revstring, drev, repo.Name(), cs.Rev, strings.TrimSpace(cs.Message))
}

func (e *Engine) isDuplicate(cs primary.Changeset) bool {
	key := changesetKey{rev: cs.Rev, message: cs.Message, author: cs.Author, date: cs.Date}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastKey != nil && *e.lastKey == key {
		return true
	}
	e.lastKey = &key
	return false
}

func (e *Engine) updateTickets(ctx context.Context, req *message.UpdateRequest, cs primary.Changeset, comment string, date time.Time) map[int]*primary.TicketOutcome {
	outcomes := make(map[int]*primary.TicketOutcome, len(req.TicketIDs()))
	if req.Empty() {
		return outcomes
	}

	saveAuthor := e.resolveAuthor(ctx, cs.Author)
	allowed := author.IsAllowed(cs.Author, e.opts.AllowedDomains)

	for _, id := range req.TicketIDs() {
		outcomes[id] = e.updateTicket(ctx, id, req.Commands(id), cs, saveAuthor, allowed, comment, date)
	}
	return outcomes
}

// resolveAuthor maps the commit author onto a tracker username, falling
// back to the raw author string when the directory has no match.
func (e *Engine) resolveAuthor(ctx context.Context, raw string) string {
	records, err := e.users.KnownUsers(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("failed to list known users, keeping raw author")
		return raw
	}
	users := make([]author.User, len(records))
	for i, r := range records {
		users[i] = author.User{Username: r.Username, Name: r.Name, Email: r.Email}
	}
	if username := author.ResolveUsername(raw, users); username != "" {
		return username
	}
	return raw
}

// updateTicket runs one ticket's commands inside its own transaction.
// Failures never escape: they are logged and folded into the outcome so
// the remaining tickets of the same event still get processed.
func (e *Engine) updateTicket(ctx context.Context, id int, cmds []command.Category, cs primary.Changeset, saveAuthor string, allowed bool, comment string, date time.Time) *primary.TicketOutcome {
	out := &primary.TicketOutcome{TicketID: id, AppliedCommands: []string{}}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		e.log.Error().Err(err).Int("ticket", id).Msg("failed to open ticket transaction")
		return out
	}
	defer tx.Rollback()

	rec, err := tx.Get(ctx, id)
	if errors.Is(err, secondary.ErrTicketNotFound) {
		e.log.Warn().Int("ticket", id).Str("rev", cs.Rev).Msg("commit references unknown ticket")
		return out
	}
	if err != nil {
		e.log.Error().Err(err).Int("ticket", id).Msg("failed to load ticket")
		return out
	}
	out.Ticket = toState(rec)

	if e.opts.CheckPerms {
		caps, err := e.perms.Capabilities(ctx, saveAuthor, id)
		if err != nil {
			e.log.Error().Err(err).Int("ticket", id).Str("author", saveAuthor).Msg("permission lookup failed")
			return out
		}
		if !caps.Has(secondary.CapTicketModify) {
			e.log.Info().Int("ticket", id).Str("author", saveAuthor).Msg("author lacks TICKET_MODIFY, ticket unchanged")
			return out
		}
	}
	if !allowed {
		e.log.Info().Int("ticket", id).Str("author", cs.Author).Msg("author domain not allowed, ticket unchanged")
		return out
	}

	tk := ticket.Ticket{
		ID:         rec.ID,
		Status:     rec.Status,
		Resolution: rec.Resolution,
		Owner:      rec.Owner,
		Reporter:   rec.Reporter,
	}
	save := false
	for _, cat := range cmds {
		fn, ok := ticket.ForCategory(cat)
		if !ok {
			continue
		}
		if fn(&tk, saveAuthor) {
			save = true
		}
		out.AppliedCommands = append(out.AppliedCommands, string(cat))
	}

	rec.Status = tk.Status
	rec.Resolution = tk.Resolution
	rec.Owner = tk.Owner
	out.Ticket = toState(rec)

	if !save {
		return out
	}
	if err := tx.Save(ctx, rec, saveAuthor, comment, date); err != nil {
		e.log.Error().Err(err).Int("ticket", id).Msg("failed to save ticket")
		return out
	}
	if err := tx.Commit(); err != nil {
		e.log.Error().Err(err).Int("ticket", id).Msg("failed to commit ticket transaction")
		return out
	}
	out.Saved = true

	e.notify(ctx, secondary.TicketChangeEvent{
		TicketID: rec.ID,
		Summary:  rec.Summary,
		Status:   rec.Status,
		Author:   saveAuthor,
		Comment:  comment,
		Date:     date,
	})
	return out
}

func (e *Engine) notify(ctx context.Context, event secondary.TicketChangeEvent) {
	if !e.opts.Notify || e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(ctx, event); err != nil {
		e.log.Error().Err(err).Int("ticket", event.TicketID).Msg("failed to send change notification")
	}
}

func toState(rec *secondary.TicketRecord) *primary.TicketState {
	return &primary.TicketState{
		ID:         rec.ID,
		Summary:    rec.Summary,
		Status:     rec.Status,
		Resolution: rec.Resolution,
		Owner:      rec.Owner,
		Reporter:   rec.Reporter,
	}
}

// Ensure Engine implements the listener port.
var _ primary.ChangeListener = (*Engine)(nil)
