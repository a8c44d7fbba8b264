package repositories

import (
	"context"
	"database/sql"
	"time"

	"rentalsBack/internal/models"
)

type PropertyImageRepository struct {
	DB *sql.DB
}

func (r *PropertyImageRepository) AddImage(ctx context.Context, propertyID int, ref string) (models.PropertyImage, error) {
	img := models.PropertyImage{PropertyID: propertyID, Image: ref, UploadedAt: time.Now().UTC()}
	result, err := r.DB.ExecContext(ctx,
		`INSERT INTO property_images (property_id, image, uploaded_at) VALUES (?, ?, ?)`,
		img.PropertyID, img.Image, img.UploadedAt,
	)
	if err != nil {
		return models.PropertyImage{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.PropertyImage{}, err
	}
	img.ID = int(id)
	return img, nil
}

func (r *PropertyImageRepository) GetImagesByProperty(ctx context.Context, propertyID int) ([]models.PropertyImage, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, property_id, image, uploaded_at FROM property_images WHERE property_id = ? ORDER BY id`,
		propertyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.PropertyImage
	for rows.Next() {
		var img models.PropertyImage
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.Image, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *PropertyImageRepository) DeleteImage(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM property_images WHERE id = ?`, id)
	return err
}
