// Package command contains the pure command-table logic mapping commit
// message keywords to ticket transition categories.
// This is part of the functional core - no I/O, only pure functions.
package command

import "strings"

// Category identifies a ticket transition kind. Categories are fixed;
// the keywords that select them are configuration.
type Category string

const (
	CategoryClose              Category = "close"
	CategoryReopen             Category = "reopen"
	CategoryImplement          Category = "implement"
	CategoryReject             Category = "reject"
	CategoryInvalidate         Category = "invalidate"
	CategoryWorksForMe         Category = "worksforme"
	CategoryAlreadyImplemented Category = "already_implemented"
	CategoryTestReady          Category = "test_ready"
	CategoryReference          Category = "reference"
)

// SentinelAll is the reserved alias for the reference category. When
// registered, any unrecognized action keyword that still matches the
// ticket-reference grammar is treated as an implicit reference command.
const SentinelAll = "<ALL>"

// Table maps lower-cased keywords to categories. Built once at
// configuration load and read-only afterwards.
type Table struct {
	keywords map[string]Category
	allRefs  bool
}

// NewTable creates an empty command table.
func NewTable() *Table {
	return &Table{keywords: make(map[string]Category)}
}

// Register binds each alias to the category. Aliases are normalized to
// lower case; a keyword maps to at most one category, last registration
// wins. The SentinelAll alias enables implicit-reference mode instead of
// registering a keyword.
func (t *Table) Register(cat Category, aliases []string) {
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		if alias == SentinelAll {
			if cat == CategoryReference {
				t.allRefs = true
			}
			continue
		}
		t.keywords[strings.ToLower(alias)] = cat
	}
}

// Resolve returns the category for a keyword, or false if the keyword is
// not registered. Lookup is case-insensitive. An unregistered keyword is
// not an error, the caller simply drops the command.
func (t *Table) Resolve(keyword string) (Category, bool) {
	cat, ok := t.keywords[strings.ToLower(keyword)]
	return cat, ok
}

// ImplicitReference reports whether the SentinelAll alias was registered
// for the reference category.
func (t *Table) ImplicitReference() bool {
	return t.allRefs
}

// DefaultAliases returns the stock alias sets per category.
func DefaultAliases() map[Category][]string {
	return map[Category][]string{
		CategoryClose:              {"close", "closed", "closes", "fix", "fixed", "fixes"},
		CategoryReference:          {"addresses", "re", "references", "refs", "see"},
		CategoryReopen:             {"reopen", "reopens", "reopened"},
		CategoryImplement:          {"implement", "implements", "implemented", "impl"},
		CategoryReject:             {"reject", "rejects", "rejected"},
		CategoryInvalidate:         {"invalid", "invalidate", "invalidated", "invalidates"},
		CategoryWorksForMe:         {"worksforme"},
		CategoryAlreadyImplemented: {"alreadyimplemented", "already_implemented"},
		CategoryTestReady:          {"testready", "test_ready", "ready_for_test", "rft"},
	}
}

// DefaultTable builds a table from the stock aliases.
func DefaultTable() *Table {
	t := NewTable()
	for cat, aliases := range DefaultAliases() {
		t.Register(cat, aliases)
	}
	return t
}
