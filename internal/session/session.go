package session

import (
	"context"
	"slices"
)

// Data is what the store keeps for one session.
type Data struct {
	UserID    int   `json:"user_id,omitempty"`
	Favorites []int `json:"favorites,omitempty"`
}

// Session is the per-request view of a client's session. It is created by
// Manager.Load and written back with Manager.Save.
type Session struct {
	ID       string
	data     Data
	modified bool
}

func (s *Session) UserID() int {
	return s.data.UserID
}

// SetUser binds the session to a user; zero logs it out.
func (s *Session) SetUser(userID int) {
	s.data.UserID = userID
	s.modified = true
}

// Favorites returns the favorite property ids in the order they were added.
func (s *Session) Favorites() []int {
	return slices.Clone(s.data.Favorites)
}

// AddFavorite appends id unless it is already present and reports whether
// the list changed.
func (s *Session) AddFavorite(id int) bool {
	if slices.Contains(s.data.Favorites, id) {
		return false
	}
	s.data.Favorites = append(s.data.Favorites, id)
	s.modified = true
	return true
}

func (s *Session) SetFavorites(ids []int) {
	s.data.Favorites = slices.Clone(ids)
	s.modified = true
}

func (s *Session) Modified() bool {
	return s.modified
}

type contextKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the request's session. A request that bypassed the
// session middleware gets a fresh, empty session.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}
