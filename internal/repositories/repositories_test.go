package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"rentalsBack/internal/models"
	"rentalsBack/internal/storage"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := storage.Open(ctx, storage.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := storage.EnsureSchema(ctx, db, storage.DriverSQLite); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, username string) models.User {
	t.Helper()
	repo := &UserRepository{DB: db}
	user, err := repo.CreateUser(context.Background(), models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		Role:     models.RoleOwner,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedProperty(t *testing.T, db *sql.DB, ownerID int, title, location, price string, available bool) models.Property {
	t.Helper()
	repo := &PropertyRepository{DB: db}
	p, err := repo.CreateProperty(context.Background(), models.Property{
		OwnerID:      ownerID,
		Title:        title,
		Location:     location,
		Price:        decimal.RequireFromString(price),
		PropertyType: models.PropertyTypeRoom,
		Description:  "desc",
		IsAvailable:  available,
		ContactEmail: "owner@example.com",
	})
	if err != nil {
		t.Fatalf("seed property %s: %v", title, err)
	}
	return p
}

func titles(props []models.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.Title)
	}
	return out
}
