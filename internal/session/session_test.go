package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(NewMemoryStore(), "test-signing-key", time.Hour)
	require.NoError(t, err)
	return m
}

func requestWith(cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", DefaultCookieName)
	return nil
}

func TestAddFavoriteKeepsOrderAndIgnoresDuplicates(t *testing.T) {
	s := &Session{}
	assert.True(t, s.AddFavorite(7))
	assert.True(t, s.AddFavorite(3))
	assert.False(t, s.AddFavorite(7))
	assert.Equal(t, []int{7, 3}, s.Favorites())
	assert.True(t, s.Modified())
}

func TestFavoritesReturnsCopy(t *testing.T) {
	s := &Session{}
	s.AddFavorite(1)
	favs := s.Favorites()
	favs[0] = 99
	assert.Equal(t, []int{1}, s.Favorites())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	s, err := m.Load(requestWith())
	require.NoError(t, err)
	s.AddFavorite(7)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(ctx, rec, s))
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	loaded, err := m.Load(requestWith(cookie))
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, []int{7}, loaded.Favorites())

	// re-adding the same id leaves the list as it was
	assert.False(t, loaded.AddFavorite(7))
	assert.Equal(t, []int{7}, loaded.Favorites())
}

func TestSaveSkipsUnmodified(t *testing.T) {
	m := newManager(t)
	rec := httptest.NewRecorder()
	s := &Session{}
	require.NoError(t, m.Save(context.Background(), rec, s))
	assert.Empty(t, rec.Result().Cookies())
	assert.Empty(t, s.ID)
}

func TestLoadRejectsForgedCookie(t *testing.T) {
	m := newManager(t)
	other, err := NewManager(m.Store, "another-key", time.Hour)
	require.NoError(t, err)

	s := &Session{}
	s.SetUser(5)
	rec := httptest.NewRecorder()
	require.NoError(t, other.Save(context.Background(), rec, s))

	loaded, err := m.Load(requestWith(sessionCookie(t, rec)))
	require.NoError(t, err)
	assert.Empty(t, loaded.ID)
	assert.Zero(t, loaded.UserID())
}

func TestRotateKeepsDataUnderNewID(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	s := &Session{}
	s.AddFavorite(4)
	require.NoError(t, m.Save(ctx, httptest.NewRecorder(), s))
	oldID := s.ID

	require.NoError(t, m.Rotate(ctx, s))
	s.SetUser(9)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(ctx, rec, s))

	assert.NotEqual(t, oldID, s.ID)
	_, ok, err := m.Store.Get(ctx, oldID)
	require.NoError(t, err)
	assert.False(t, ok, "old session id must be gone")

	loaded, err := m.Load(requestWith(sessionCookie(t, rec)))
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.UserID())
	assert.Equal(t, []int{4}, loaded.Favorites())
}

func TestDestroy(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	s := &Session{}
	s.SetUser(3)
	require.NoError(t, m.Save(ctx, httptest.NewRecorder(), s))
	id := s.ID

	rec := httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, rec, s))

	assert.Empty(t, s.ID)
	assert.Zero(t, s.UserID())
	assert.Equal(t, -1, sessionCookie(t, rec).MaxAge)
	_, ok, err := m.Store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", Data{UserID: 1}, time.Minute))
	_, ok, _ := store.Get(ctx, "a")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = store.Get(ctx, "a")
	assert.False(t, ok)
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", Data{UserID: 1}, time.Minute))
	require.NoError(t, store.Set(ctx, "long", Data{UserID: 2}, time.Hour))
	require.NoError(t, store.Set(ctx, "forever", Data{UserID: 3}, 0))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, store.DeleteExpired())

	_, ok, _ := store.Get(ctx, "long")
	assert.True(t, ok)
	_, ok, _ = store.Get(ctx, "forever")
	assert.True(t, ok)
}

func TestFromContextWithoutSession(t *testing.T) {
	s := FromContext(context.Background())
	require.NotNil(t, s)
	assert.Empty(t, s.Favorites())
}

func TestNewManagerRequiresKey(t *testing.T) {
	_, err := NewManager(NewMemoryStore(), "", time.Hour)
	assert.Error(t, err)
}
