package handlers

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"rentalsBack/internal/models"
	"rentalsBack/internal/notify"
	"rentalsBack/internal/repositories"
	"rentalsBack/internal/services"
	"rentalsBack/internal/session"
	"rentalsBack/internal/storage"
	"rentalsBack/internal/uploads"
)

type testEnv struct {
	db         *sql.DB
	views      *Views
	users      *services.UserService
	properties *services.PropertyService
	favorites  *services.FavoriteService
	messages   *services.MessageService
	hub        *notify.Hub
}

type discardLogger struct{}

func (discardLogger) Infof(string, ...interface{})  {}
func (discardLogger) Errorf(string, ...interface{}) {}

func newTestEnv(t *testing.T) *testEnv {
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

	store := uploads.NewLocalStore(t.TempDir(), "/media")
	templates, err := NewTemplates(store)
	if err != nil {
		t.Fatalf("NewTemplates: %v", err)
	}
	sessions, err := session.NewManager(session.NewMemoryStore(), "test-signing-key", time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	propertyRepo := &repositories.PropertyRepository{DB: db}
	hub := notify.NewHub(discardLogger{})
	t.Cleanup(hub.Close)

	return &testEnv{
		db: db,
		views: &Views{
			Templates: templates,
			Sessions:  sessions,
			ErrorLog:  log.New(testWriter{t}, "ERROR\t", 0),
		},
		users: &services.UserService{UserRepo: &repositories.UserRepository{DB: db}, Cost: bcrypt.MinCost},
		properties: &services.PropertyService{
			PropertyRepo: propertyRepo,
			ImageRepo:    &repositories.PropertyImageRepository{DB: db},
			Uploads:      store,
		},
		favorites: &services.FavoriteService{
			PropertyRepo: propertyRepo,
			FavoriteRepo: &repositories.FavoriteRepository{DB: db},
			StalePolicy:  services.StaleKeep,
		},
		messages: &services.MessageService{
			MessageRepo: &repositories.MessageRepository{DB: db},
			Notifier:    hub,
		},
		hub: hub,
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func (e *testEnv) owner(t *testing.T, username string) models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), username, username+"@example.com", "s3cret-pass", models.RoleOwner)
	if err != nil {
		t.Fatalf("Register %s: %v", username, err)
	}
	return u
}

func (e *testEnv) property(t *testing.T, ownerID int, title, typ, price string, available bool) models.Property {
	t.Helper()
	p, err := e.properties.Create(context.Background(), models.Property{
		OwnerID:      ownerID,
		Title:        title,
		Location:     "Old Town",
		Price:        decimal.RequireFromString(price),
		PropertyType: typ,
		Description:  "Close to everything",
		IsAvailable:  available,
		ContactEmail: "owner@example.com",
	}, nil, nil)
	if err != nil {
		t.Fatalf("Create %s: %v", title, err)
	}
	return p
}

// request builds a request carrying sess and, when user is set, an
// authenticated user. Form values go into a urlencoded body.
func request(method, target string, form url.Values, user *models.User, sess *session.Session) *http.Request {
	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if sess == nil {
		sess = &session.Session{}
	}
	ctx := session.NewContext(r.Context(), sess)
	if user != nil {
		ctx = WithUser(ctx, user)
	}
	return r.WithContext(ctx)
}

func withID(r *http.Request, id int) *http.Request {
	r.SetPathValue("id", strconv.Itoa(id))
	return r
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
}
