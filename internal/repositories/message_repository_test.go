package repositories

import (
	"context"
	"errors"
	"testing"

	"rentalsBack/internal/models"
)

func TestMessageInboxAndMarkRead(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	flat := seedProperty(t, db, alice.ID, "Flat", "Riga", "100", true)
	other := seedProperty(t, db, bob.ID, "Other", "Riga", "100", true)

	repo := &MessageRepository{DB: db}
	first, err := repo.CreateMessage(ctx, models.Message{PropertyID: flat.ID, SenderName: "Ann", SenderEmail: "ann@example.com", Content: "Is it free?"})
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if _, err := repo.CreateMessage(ctx, models.Message{PropertyID: flat.ID, SenderName: "Ben", SenderEmail: "ben@example.com", Content: "Pets?"}); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if _, err := repo.CreateMessage(ctx, models.Message{PropertyID: other.ID, SenderName: "Cid", SenderEmail: "cid@example.com", Content: "Hello"}); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	inbox, err := repo.GetMessagesByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetMessagesByOwner: %v", err)
	}
	if len(inbox) != 2 || inbox[0].SenderName != "Ben" || inbox[0].PropertyTitle != "Flat" {
		t.Fatalf("unexpected inbox: %+v", inbox)
	}

	unread, err := repo.CountUnread(ctx, alice.ID)
	if err != nil || unread != 2 {
		t.Fatalf("expected 2 unread, got %d (%v)", unread, err)
	}

	if err := repo.MarkRead(ctx, first.ID, bob.ID); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound for foreign owner, got %v", err)
	}
	if err := repo.MarkRead(ctx, first.ID, alice.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := repo.MarkRead(ctx, first.ID, alice.ID); err != nil {
		t.Fatalf("MarkRead twice: %v", err)
	}

	unread, err = repo.CountUnread(ctx, alice.ID)
	if err != nil || unread != 1 {
		t.Fatalf("expected 1 unread, got %d (%v)", unread, err)
	}
}
