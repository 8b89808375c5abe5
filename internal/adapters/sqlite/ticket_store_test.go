package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/tickethook/internal/adapters/sqlite"
	"github.com/example/tickethook/internal/ports/secondary"
)

func TestTicketTx_GetAndSave(t *testing.T) {
	testDB := setupTestDB(t)
	store := sqlite.NewTicketStore(testDB)
	ctx := context.Background()

	seedTicket(t, testDB, &secondary.TicketRecord{ID: 1, Summary: "the summary", Status: "new", Reporter: "user1"})

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer tx.Rollback()

	rec, err := tx.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.Summary != "the summary" || rec.Status != "new" || rec.Reporter != "user1" {
		t.Errorf("unexpected record: %+v", rec)
	}

	rec.Status = "closed"
	rec.Resolution = "fixed"
	rec.Owner = "user1"
	date := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)
	if err := tx.Save(ctx, rec, "user1", "In [changeset:\"42\" 42]:", date); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	stored, err := store.GetTicket(ctx, 1)
	if err != nil {
		t.Fatalf("GetTicket failed: %v", err)
	}
	if stored.Status != "closed" || stored.Resolution != "fixed" || stored.Owner != "user1" {
		t.Errorf("unexpected stored ticket: %+v", stored)
	}

	comments, err := store.Comments(ctx, 1)
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected one comment, got %d", len(comments))
	}
	if comments[0].Author != "user1" || comments[0].Comment != "In [changeset:\"42\" 42]:" {
		t.Errorf("unexpected comment: %+v", comments[0])
	}
}

func TestTicketTx_GetNotFound(t *testing.T) {
	testDB := setupTestDB(t)
	store := sqlite.NewTicketStore(testDB)
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Get(ctx, 12345); !errors.Is(err, secondary.ErrTicketNotFound) {
		t.Errorf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestTicketTx_RollbackDiscardsChanges(t *testing.T) {
	testDB := setupTestDB(t)
	store := sqlite.NewTicketStore(testDB)
	ctx := context.Background()

	seedTicket(t, testDB, &secondary.TicketRecord{ID: 2, Status: "new"})

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	rec, err := tx.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	rec.Status = "closed"
	if err := tx.Save(ctx, rec, "user1", "comment", time.Now().UTC()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	stored, err := store.GetTicket(ctx, 2)
	if err != nil {
		t.Fatalf("GetTicket failed: %v", err)
	}
	if stored.Status != "new" {
		t.Errorf("rolled-back change leaked: status = %q", stored.Status)
	}
	comments, err := store.Comments(ctx, 2)
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("rolled-back comment leaked: %d comments", len(comments))
	}
}

func TestTicketTx_RollbackAfterCommitIsNoOp(t *testing.T) {
	testDB := setupTestDB(t)
	store := sqlite.NewTicketStore(testDB)
	ctx := context.Background()

	seedTicket(t, testDB, &secondary.TicketRecord{ID: 3, Status: "new"})

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	rec, err := tx.Get(ctx, 3)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if err := tx.Save(ctx, rec, "user1", "comment", time.Now().UTC()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Errorf("Rollback after Commit must be a no-op, got %v", err)
	}
}

func TestCreateTicket(t *testing.T) {
	testDB := setupTestDB(t)
	store := sqlite.NewTicketStore(testDB)
	ctx := context.Background()

	t.Run("explicit id", func(t *testing.T) {
		id, err := store.CreateTicket(ctx, &secondary.TicketRecord{ID: 10, Summary: "explicit", Status: "new"})
		if err != nil {
			t.Fatalf("CreateTicket failed: %v", err)
		}
		if id != 10 {
			t.Errorf("id = %d, want 10", id)
		}
	})

	t.Run("assigned id", func(t *testing.T) {
		id, err := store.CreateTicket(ctx, &secondary.TicketRecord{Summary: "assigned", Status: "new"})
		if err != nil {
			t.Fatalf("CreateTicket failed: %v", err)
		}
		if id <= 10 {
			t.Errorf("id = %d, want > 10", id)
		}
	})
}

func TestListTickets(t *testing.T) {
	testDB := setupTestDB(t)
	store := sqlite.NewTicketStore(testDB)
	ctx := context.Background()

	seedTicket(t, testDB, &secondary.TicketRecord{ID: 1, Status: "new"})
	seedTicket(t, testDB, &secondary.TicketRecord{ID: 2, Status: "closed"})
	seedTicket(t, testDB, &secondary.TicketRecord{ID: 3, Status: "new"})

	all, err := store.ListTickets(ctx, "")
	if err != nil {
		t.Fatalf("ListTickets failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 tickets, got %d", len(all))
	}

	open, err := store.ListTickets(ctx, "new")
	if err != nil {
		t.Fatalf("ListTickets(new) failed: %v", err)
	}
	if len(open) != 2 {
		t.Errorf("expected 2 new tickets, got %d", len(open))
	}
}
