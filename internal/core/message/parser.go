// Package message parses commit messages into per-ticket command lists
// using the configurable envelope and ticket-reference grammar.
// This is part of the functional core - no I/O, only pure functions.
package message

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/example/tickethook/internal/core/command"
)

// Grammar fragments. The ticket prefix accepts "#1", "ticket:1",
// "issue:1", "bug:1" with the ':' replaceable by a space or omitted.
// A reference may carry a comment anchor ("#1#comment:3" or
// "#1#comment:description").
const (
	ticketPrefix    = `(?:#|(?:ticket|issue|bug)[: ]?)`
	commentAnchor   = `(?:#comment:(?:[0-9]+|description))?`
	ticketReference = ticketPrefix + `[0-9]+` + commentAnchor
	ticketCommand   = `(?P<action>[A-Za-z_]*)\s*.?\s*` +
		`(?P<ticket>` + ticketReference + `(?:(?:[, &]*|[ ]?and[ ]?)` + ticketReference + `)*)`
)

// ticketRe extracts individual references from a matched ticket-list span.
var ticketRe = regexp.MustCompile(ticketPrefix + `([0-9]+)(?:#comment:([0-9]+|description))?`)

// Ref is a single ticket reference. Anchor is empty, a comment number,
// or the literal "description".
type Ref struct {
	ID     int
	Anchor string
}

// UpdateRequest accumulates the commands a message issues per ticket id,
// preserving the order ids were first seen and the append order of
// commands within an id. Duplicate commands are kept: the same command
// matched twice runs twice.
type UpdateRequest struct {
	order []int
	cmds  map[int][]command.Category
}

// NewUpdateRequest creates an empty update request.
func NewUpdateRequest() *UpdateRequest {
	return &UpdateRequest{cmds: make(map[int][]command.Category)}
}

// Add appends a command for a ticket id.
func (r *UpdateRequest) Add(id int, cat command.Category) {
	if _, seen := r.cmds[id]; !seen {
		r.order = append(r.order, id)
	}
	r.cmds[id] = append(r.cmds[id], cat)
}

// Remove drops a ticket id and its commands.
func (r *UpdateRequest) Remove(id int) {
	if _, seen := r.cmds[id]; !seen {
		return
	}
	delete(r.cmds, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// TicketIDs returns the ticket ids in first-seen order.
func (r *UpdateRequest) TicketIDs() []int {
	return r.order
}

// Commands returns the commands accumulated for a ticket id.
func (r *UpdateRequest) Commands(id int) []command.Category {
	return r.cmds[id]
}

// Has reports whether the request contains a ticket id.
func (r *UpdateRequest) Has(id int) bool {
	_, ok := r.cmds[id]
	return ok
}

// Empty reports whether no ticket is referenced.
func (r *UpdateRequest) Empty() bool {
	return len(r.order) == 0
}

// Parser scans commit messages for ticket commands. Built once per
// configuration load; safe for concurrent use.
type Parser struct {
	table     *command.Table
	commandRe *regexp.Regexp
	actionIdx int
	ticketIdx int
}

// NewParser compiles the command pattern. The envelope must be empty or
// exactly two characters; when set, a command is only recognized between
// the literal envelope characters.
func NewParser(table *command.Table, envelope string) (*Parser, error) {
	if len(envelope) == 1 {
		return nil, fmt.Errorf("envelope must be empty or two characters, got %q", envelope)
	}

	var begin, end string
	if envelope != "" {
		begin = regexp.QuoteMeta(envelope[:1])
		end = regexp.QuoteMeta(envelope[1:])
	}
	re, err := regexp.Compile(begin + ticketCommand + end)
	if err != nil {
		return nil, fmt.Errorf("failed to compile command pattern: %w", err)
	}

	return &Parser{
		table:     table,
		commandRe: re,
		actionIdx: re.SubexpIndex("action"),
		ticketIdx: re.SubexpIndex("ticket"),
	}, nil
}

// Parse scans the message left to right for non-overlapping command
// matches and returns the accumulated per-ticket command lists. Keywords
// that resolve to no category are dropped unless the table is in
// implicit-reference mode.
func (p *Parser) Parse(msg string) *UpdateRequest {
	req := NewUpdateRequest()
	for _, m := range p.commandRe.FindAllStringSubmatch(msg, -1) {
		cat, ok := p.table.Resolve(m[p.actionIdx])
		if !ok {
			if !p.table.ImplicitReference() {
				continue
			}
			cat = command.CategoryReference
		}
		for _, ref := range ExtractRefs(m[p.ticketIdx]) {
			req.Add(ref.ID, cat)
		}
	}
	return req
}

// ExtractRefs runs the secondary reference scan over a ticket-list span.
func ExtractRefs(span string) []Ref {
	var refs []Ref
	for _, m := range ticketRe.FindAllStringSubmatch(span, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil || id <= 0 {
			continue
		}
		refs = append(refs, Ref{ID: id, Anchor: m[2]})
	}
	return refs
}
