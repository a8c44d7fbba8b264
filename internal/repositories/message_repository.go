package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentalsBack/internal/models"
)

type MessageRepository struct {
	DB *sql.DB
}

func (r *MessageRepository) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	msg.SentAt = time.Now().UTC()
	result, err := r.DB.ExecContext(ctx, `
        INSERT INTO messages (property_id, sender_name, sender_email, content, sent_at, is_read)
        VALUES (?, ?, ?, ?, ?, ?)`,
		msg.PropertyID, msg.SenderName, msg.SenderEmail, msg.Content, msg.SentAt, false,
	)
	if err != nil {
		return models.Message{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Message{}, err
	}
	msg.ID = int(id)
	msg.IsRead = false
	return msg, nil
}

// GetMessagesByOwner returns messages left on any of the owner's properties, newest first.
func (r *MessageRepository) GetMessagesByOwner(ctx context.Context, ownerID int) ([]models.Message, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT m.id, m.property_id, p.title, m.sender_name, m.sender_email, m.content, m.sent_at, m.is_read
        FROM messages m
        JOIN properties p ON p.id = m.property_id
        WHERE p.owner_id = ?
        ORDER BY m.sent_at DESC, m.id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.PropertyID, &m.PropertyTitle, &m.SenderName, &m.SenderEmail, &m.Content, &m.SentAt, &m.IsRead); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) CountUnread(ctx context.Context, ownerID int) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
        SELECT COUNT(*)
        FROM messages m
        JOIN properties p ON p.id = m.property_id
        WHERE p.owner_id = ? AND m.is_read = ?`, ownerID, false).Scan(&n)
	return n, err
}

// MarkRead flags the message as read if it was left on one of the owner's properties.
func (r *MessageRepository) MarkRead(ctx context.Context, id, ownerID int) error {
	result, err := r.DB.ExecContext(ctx, `
        UPDATE messages SET is_read = ?
        WHERE id = ? AND property_id IN (SELECT id FROM properties WHERE owner_id = ?)`,
		true, id, ownerID,
	)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// mysql reports zero affected rows when the flag was already set
		var exists int
		err := r.DB.QueryRowContext(ctx, `
            SELECT 1 FROM messages m
            JOIN properties p ON p.id = m.property_id
            WHERE m.id = ? AND p.owner_id = ?`, id, ownerID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMessageNotFound
		}
		return err
	}
	return nil
}
