package services

import (
	"context"
	"errors"

	"rentalsBack/internal/models"
	"rentalsBack/internal/repositories"
	"rentalsBack/internal/session"
)

// StalePolicy decides what happens to session favorites whose property no
// longer exists.
type StalePolicy string

const (
	StaleKeep  StalePolicy = "keep"
	StalePrune StalePolicy = "prune"
)

type FavoriteService struct {
	PropertyRepo *repositories.PropertyRepository
	FavoriteRepo *repositories.FavoriteRepository
	StalePolicy  StalePolicy
}

// AddToSession records id in the session favorites. The property is not
// looked up; unknown ids are simply never rendered.
func (s *FavoriteService) AddToSession(sess *session.Session, id int) bool {
	return sess.AddFavorite(id)
}

// ResolveSession returns the existing properties among the session
// favorites, in the order they were added. With StalePrune the missing ids
// are dropped from the session, which the caller then has to save.
func (s *FavoriteService) ResolveSession(ctx context.Context, sess *session.Session) ([]models.Property, error) {
	ids := sess.Favorites()
	props, err := s.PropertyRepo.GetPropertiesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if s.StalePolicy == StalePrune && len(props) != len(ids) {
		kept := make([]int, 0, len(props))
		for _, p := range props {
			kept = append(kept, p.ID)
		}
		sess.SetFavorites(kept)
	}
	return props, nil
}

// Save persists a favorite for the user. Saving the same property twice is
// a no-op and reports created=false.
func (s *FavoriteService) Save(ctx context.Context, userID, propertyID int) (bool, error) {
	if _, err := s.PropertyRepo.GetPropertyByID(ctx, propertyID); err != nil {
		return false, err
	}
	_, err := s.FavoriteRepo.AddFavorite(ctx, userID, propertyID)
	if errors.Is(err, repositories.ErrDuplicateFavorite) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, propertyID int) error {
	return s.FavoriteRepo.RemoveFavorite(ctx, userID, propertyID)
}

// IsSaved reports whether the user has the property in their saved list.
func (s *FavoriteService) IsSaved(ctx context.Context, userID, propertyID int) (bool, error) {
	return s.FavoriteRepo.IsFavorite(ctx, userID, propertyID)
}

func (s *FavoriteService) Saved(ctx context.Context, userID int) ([]models.Favorite, error) {
	return s.FavoriteRepo.GetFavoritesByTenant(ctx, userID)
}
