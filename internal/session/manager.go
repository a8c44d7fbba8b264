package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const DefaultCookieName = "sessionid"

// Manager ties the session cookie to the store. The cookie carries an HS256
// token whose jti is the session id; the data itself lives in the store.
type Manager struct {
	Store      Store
	TTL        time.Duration
	CookieName string
	Secure     bool

	signingKey []byte
}

func NewManager(store Store, signingKey string, ttl time.Duration) (*Manager, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &Manager{
		Store:      store,
		TTL:        ttl,
		CookieName: DefaultCookieName,
		signingKey: []byte(signingKey),
	}, nil
}

// Load returns the session named by the request cookie. A missing, forged or
// expired cookie yields a new empty session; only store failures are errors.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.CookieName)
	if err != nil {
		return &Session{}, nil
	}
	id, err := m.parse(c.Value)
	if err != nil {
		return &Session{}, nil
	}
	data, ok, err := m.Store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Session{}, nil
	}
	return &Session{ID: id, data: data}, nil
}

// Save writes a modified session back and refreshes the cookie. Unmodified
// sessions are left alone.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if !s.modified {
		return nil
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if err := m.Store.Set(ctx, s.ID, s.data, m.TTL); err != nil {
		return err
	}
	token, err := m.sign(s.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.modified = false
	return nil
}

// Rotate moves the session to a fresh id, keeping its data. Called on login
// so a pre-login session id cannot be reused.
func (m *Manager) Rotate(ctx context.Context, s *Session) error {
	if s.ID != "" {
		if err := m.Store.Delete(ctx, s.ID); err != nil {
			return err
		}
	}
	s.ID = uuid.NewString()
	s.modified = true
	return nil
}

// Destroy deletes the session everywhere and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s.ID != "" {
		if err := m.Store.Delete(ctx, s.ID); err != nil {
			return err
		}
	}
	*s = Session{}
	http.SetCookie(w, &http.Cookie{
		Name:     m.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) sign(id string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Id:        id,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(m.TTL).Unix(),
	})
	return token.SignedString(m.signingKey)
}

func (m *Manager) parse(raw string) (string, error) {
	claims := &jwt.StandardClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.signingKey, nil
	})
	if err != nil {
		return "", err
	}
	if claims.Id == "" {
		return "", errors.New("session token without id")
	}
	return claims.Id, nil
}
