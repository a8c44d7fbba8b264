package models

import "time"

type PropertyImage struct {
	ID         int       `json:"id"`
	PropertyID int       `json:"property_id"`
	Image      string    `json:"image"`
	UploadedAt time.Time `json:"uploaded_at"`
}
