package services

import (
	"context"
	"errors"
	"testing"

	"rentalsBack/internal/models"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != models.RoleOwner || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.Password == "s3cret-pass" {
		t.Fatal("password stored in clear text")
	}

	got, err := svc.Authenticate(ctx, "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if got.ID != user.ID || got.LastLogin == nil {
		t.Fatalf("unexpected authenticated user: %+v", got)
	}
}

func TestRegisterDuplicateCreatesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob", "bob@example.com", "s3cret-pass", models.RoleTenant); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "other@example.com", "s3cret-pass", ""); !errors.Is(err, models.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one user, got %d", n)
	}
}

func TestAuthenticateFailuresAreGeneric(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "carol", "carol@example.com", "s3cret-pass", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.CreateUser(ctx, models.User{Username: "dormant", Role: models.RoleOwner, IsActive: false}, "s3cret-pass"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tests := []struct {
		name, username, password string
	}{
		{"wrong password", "carol", "nope-nope"},
		{"unknown user", "nobody", "s3cret-pass"},
		{"inactive user", "dormant", "s3cret-pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Authenticate(ctx, tt.username, tt.password); !errors.Is(err, models.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	ctx := context.Background()

	alice, _ := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass", "")
	if _, err := svc.Register(ctx, "bob", "bob@example.com", "s3cret-pass", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, alice, "bob", "x@example.com"); !errors.Is(err, models.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, alice, "alice2", "new@example.com")
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	stored, err := svc.GetUserByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if stored.Username != "alice2" || stored.Email != "new@example.com" || updated.Username != "alice2" {
		t.Fatalf("profile not updated: %+v", stored)
	}
}
