package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/example/tickethook/internal/ports/primary"
)

// mockListener implements primary.ChangeListener and records calls.
type mockListener struct {
	added    []primary.Changeset
	modified []primary.Changeset
	oldSeen  *primary.Changeset
	result   map[int]*primary.TicketOutcome
}

func (m *mockListener) ChangesetAdded(ctx context.Context, repo primary.Repository, cs primary.Changeset) map[int]*primary.TicketOutcome {
	m.added = append(m.added, cs)
	return m.result
}

func (m *mockListener) ChangesetModified(ctx context.Context, repo primary.Repository, cs primary.Changeset, old *primary.Changeset) map[int]*primary.TicketOutcome {
	m.modified = append(m.modified, cs)
	m.oldSeen = old
	return m.result
}

func newTestRouter(listener primary.ChangeListener) http.Handler {
	return NewRouter("test", zerolog.Nop(), listener)
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&mockListener{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestChangesetAdded(t *testing.T) {
	listener := &mockListener{result: map[int]*primary.TicketOutcome{
		1: {TicketID: 1, AppliedCommands: []string{"close"}, Saved: true},
	}}
	router := newTestRouter(listener)

	w := postJSON(t, router, "/api/changesets", `{
		"repository": "testrepo",
		"rev": "42",
		"message": "closes #1",
		"author": "user1@example.org",
		"date": "2024-05-17T10:00:00Z"
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(listener.added) != 1 {
		t.Fatalf("added calls = %d, want 1", len(listener.added))
	}
	if listener.added[0].Rev != "42" || listener.added[0].Message != "closes #1" {
		t.Errorf("changeset = %+v", listener.added[0])
	}
	if !strings.Contains(w.Body.String(), "\"applied_commands\":[\"close\"]") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestChangesetModified(t *testing.T) {
	listener := &mockListener{result: map[int]*primary.TicketOutcome{}}
	router := newTestRouter(listener)

	w := postJSON(t, router, "/api/changesets", `{
		"event": "modified",
		"rev": "42",
		"message": "refs #5 closes #6",
		"old_message": "refs #5",
		"author": "user1@example.org"
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(listener.modified) != 1 {
		t.Fatalf("modified calls = %d, want 1", len(listener.modified))
	}
	if listener.oldSeen == nil || listener.oldSeen.Message != "refs #5" {
		t.Errorf("old changeset = %+v", listener.oldSeen)
	}
}

func TestChangesetDuplicate(t *testing.T) {
	// A nil outcome map signals a suppressed duplicate.
	router := newTestRouter(&mockListener{result: nil})

	w := postJSON(t, router, "/api/changesets", `{
		"rev": "42",
		"message": "closes #1",
		"author": "user1@example.org"
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "\"duplicate\":true") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestChangesetRejectsBadPayload(t *testing.T) {
	router := newTestRouter(&mockListener{})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing rev", body: `{"message": "closes #1", "author": "a"}`},
		{name: "missing message", body: `{"rev": "42", "author": "a"}`},
		{name: "unknown event", body: `{"event": "deleted", "rev": "42", "message": "m", "author": "a"}`},
		{name: "not json", body: `rev=42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/changesets", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}
