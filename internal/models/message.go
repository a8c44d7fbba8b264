package models

import "time"

// Message is an enquiry left on a property's detail page by a visitor.
type Message struct {
	ID            int       `json:"id"`
	PropertyID    int       `json:"property_id"`
	PropertyTitle string    `json:"property_title,omitempty"`
	SenderName    string    `json:"sender_name"`
	SenderEmail   string    `json:"sender_email"`
	Content       string    `json:"content"`
	SentAt        time.Time `json:"sent_at"`
	IsRead        bool      `json:"is_read"`
}
