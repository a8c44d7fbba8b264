package services

import (
	"bytes"
	"context"
	"database/sql"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"rentalsBack/internal/repositories"
	"rentalsBack/internal/storage"
	"rentalsBack/internal/uploads"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

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

func newUserService(db *sql.DB) *UserService {
	return &UserService{UserRepo: &repositories.UserRepository{DB: db}, Cost: bcrypt.MinCost}
}

func newPropertyService(t *testing.T, db *sql.DB) (*PropertyService, *uploads.LocalStore) {
	t.Helper()
	store := uploads.NewLocalStore(t.TempDir(), "/media")
	return &PropertyService{
		PropertyRepo: &repositories.PropertyRepository{DB: db},
		ImageRepo:    &repositories.PropertyImageRepository{DB: db},
		Uploads:      store,
	}, store
}

// fileHeaders builds multipart headers for the given field and file names.
func fileHeaders(t *testing.T, field string, names ...string) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range names {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(pngHeader)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File[field]
}
