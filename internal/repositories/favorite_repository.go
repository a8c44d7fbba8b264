package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentalsBack/internal/models"
)

type FavoriteRepository struct {
	DB *sql.DB
}

// AddFavorite returns ErrDuplicateFavorite when the pair is already saved.
func (r *FavoriteRepository) AddFavorite(ctx context.Context, tenantID, propertyID int) (models.Favorite, error) {
	fav := models.Favorite{TenantID: tenantID, PropertyID: propertyID, SavedAt: time.Now().UTC()}
	result, err := r.DB.ExecContext(ctx,
		`INSERT INTO favorites (tenant_id, property_id, saved_at) VALUES (?, ?, ?)`,
		fav.TenantID, fav.PropertyID, fav.SavedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Favorite{}, ErrDuplicateFavorite
		}
		return models.Favorite{}, fmt.Errorf("add favorite: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Favorite{}, err
	}
	fav.ID = int(id)
	return fav, nil
}

func (r *FavoriteRepository) RemoveFavorite(ctx context.Context, tenantID, propertyID int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM favorites WHERE tenant_id = ? AND property_id = ?`, tenantID, propertyID)
	return err
}

func (r *FavoriteRepository) IsFavorite(ctx context.Context, tenantID, propertyID int) (bool, error) {
	var exists int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM favorites WHERE tenant_id = ? AND property_id = ?`, tenantID, propertyID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *FavoriteRepository) GetFavoritesByTenant(ctx context.Context, tenantID int) ([]models.Favorite, error) {
	query := `
        SELECT f.id, f.tenant_id, f.property_id, f.saved_at, ` + propertyColumns + `
        FROM favorites f
        JOIN properties p ON p.id = f.property_id
        WHERE f.tenant_id = ?
        ORDER BY f.saved_at DESC, f.id DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var (
			fav   models.Favorite
			phone sql.NullString
			image sql.NullString
			p     = &fav.Property
		)
		err := rows.Scan(
			&fav.ID, &fav.TenantID, &fav.PropertyID, &fav.SavedAt,
			&p.ID, &p.OwnerID, &p.Title, &p.Location, &p.Price, &p.PropertyType, &p.Description,
			&p.IsAvailable, &p.ContactEmail, &phone, &image, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if phone.Valid {
			p.ContactPhone = &phone.String
		}
		if image.Valid {
			p.Image = &image.String
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}
