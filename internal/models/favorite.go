package models

import (
	"time"
)

// Favorite is a property saved by a signed-in user. A user may save a property once.
type Favorite struct {
	ID         int       `json:"id"`
	TenantID   int       `json:"tenant_id"`
	PropertyID int       `json:"property_id"`
	SavedAt    time.Time `json:"saved_at"`
	Property   Property  `json:"property"`
}
