package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentalsBack/internal/models"
)

type PropertyRepository struct {
	DB *sql.DB
}

const propertyColumns = `p.id, p.owner_id, p.title, p.location, p.price, p.property_type, p.description,
       p.is_available, p.contact_email, p.contact_phone, p.image, p.created_at, p.updated_at`

func (r *PropertyRepository) CreateProperty(ctx context.Context, property models.Property) (models.Property, error) {
	query := `
        INSERT INTO properties (owner_id, title, location, price, property_type, description, is_available,
                                contact_email, contact_phone, image, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now
	result, err := r.DB.ExecContext(ctx, query,
		property.OwnerID, property.Title, property.Location, property.Price, property.PropertyType,
		property.Description, property.IsAvailable, property.ContactEmail, property.ContactPhone,
		property.Image, property.CreatedAt, property.UpdatedAt,
	)
	if err != nil {
		return models.Property{}, fmt.Errorf("create property: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Property{}, err
	}
	property.ID = int(id)
	return property, nil
}

// GetPropertyByID fetches a property regardless of availability.
func (r *PropertyRepository) GetPropertyByID(ctx context.Context, id int) (models.Property, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties p WHERE p.id = ?`, id)
	return scanProperty(row)
}

// GetOwnedProperty returns ErrPropertyNotFound both when the property is
// missing and when it belongs to someone else.
func (r *PropertyRepository) GetOwnedProperty(ctx context.Context, id, ownerID int) (models.Property, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties p WHERE p.id = ? AND p.owner_id = ?`, id, ownerID)
	return scanProperty(row)
}

func (r *PropertyRepository) UpdateProperty(ctx context.Context, property models.Property) (models.Property, error) {
	query := `
        UPDATE properties
        SET title = ?, location = ?, price = ?, property_type = ?, description = ?, is_available = ?,
            contact_email = ?, contact_phone = ?, image = ?, updated_at = ?
        WHERE id = ? AND owner_id = ?
    `
	property.UpdatedAt = time.Now().UTC()
	result, err := r.DB.ExecContext(ctx, query,
		property.Title, property.Location, property.Price, property.PropertyType, property.Description,
		property.IsAvailable, property.ContactEmail, property.ContactPhone, property.Image,
		property.UpdatedAt, property.ID, property.OwnerID,
	)
	if err != nil {
		return models.Property{}, fmt.Errorf("update property: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.Property{}, err
	}
	if rowsAffected == 0 {
		// an update that changes nothing reports zero rows on mysql
		if _, err := r.GetOwnedProperty(ctx, property.ID, property.OwnerID); err != nil {
			return models.Property{}, err
		}
	}
	return property, nil
}

func (r *PropertyRepository) DeleteProperty(ctx context.Context, id, ownerID int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM properties WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepository) GetPropertiesByOwner(ctx context.Context, ownerID int) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.owner_id = ? ORDER BY p.created_at DESC, p.id DESC`
	return r.queryProperties(ctx, query, ownerID)
}

// GetAvailableProperties lists available properties, newest first, narrowed
// by every non-empty field of the filter.
func (r *PropertyRepository) GetAvailableProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	var (
		params     []interface{}
		conditions = []string{"p.is_available = ?"}
	)
	params = append(params, true)

	if loc := strings.TrimSpace(filter.Location); loc != "" {
		conditions = append(conditions, "LOWER(p.location) LIKE LOWER(?) ESCAPE '!'")
		params = append(params, "%"+escapeLike(loc)+"%")
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "p.price >= ?")
		params = append(params, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "p.price <= ?")
		params = append(params, *filter.MaxPrice)
	}
	if filter.PropertyType != "" {
		conditions = append(conditions, "p.property_type = ?")
		params = append(params, filter.PropertyType)
	}

	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY p.created_at DESC, p.id DESC`
	return r.queryProperties(ctx, query, params...)
}

// GetPropertiesByIDs returns the properties that still exist, in the order of ids.
func (r *PropertyRepository) GetPropertiesByIDs(ctx context.Context, ids []int) ([]models.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	found, err := r.queryProperties(ctx, `SELECT `+propertyColumns+` FROM properties p WHERE p.id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]models.Property, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	result := make([]models.Property, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			result = append(result, p)
			delete(byID, id)
		}
	}
	return result, nil
}

func (r *PropertyRepository) queryProperties(ctx context.Context, query string, args ...interface{}) ([]models.Property, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return properties, nil
}

func scanProperty(row rowScanner) (models.Property, error) {
	var (
		p     models.Property
		phone sql.NullString
		image sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Location, &p.Price, &p.PropertyType, &p.Description,
		&p.IsAvailable, &p.ContactEmail, &phone, &image, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Property{}, ErrPropertyNotFound
	}
	if err != nil {
		return models.Property{}, err
	}
	if phone.Valid {
		p.ContactPhone = &phone.String
	}
	if image.Valid {
		p.Image = &image.String
	}
	return p, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
