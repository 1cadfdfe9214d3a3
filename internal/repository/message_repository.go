package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bursary-portal/bursary-api/internal/models"
)

// MessageRepository manages chat messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message and returns the generated id.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) (int64, error) {
	const query = `INSERT INTO messages
        (conversation_id, sender_id, receiver_id, sender_role, message, message_type, attachment_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING message_id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query,
		msg.ConversationID, msg.SenderID, msg.ReceiverID, msg.SenderRole,
		msg.Message, msg.MessageType, msg.AttachmentURL,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("create message: %w", err)
	}
	return id, nil
}

// ListByConversation returns a conversation's messages in send order,
// excluding rows soft-deleted by either side.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID int64) ([]models.Message, error) {
	const query = `SELECT * FROM messages
        WHERE conversation_id = $1 AND sender_deleted = FALSE AND receiver_deleted = FALSE
        ORDER BY sent_at ASC`
	messages := make([]models.Message, 0)
	if err := r.db.SelectContext(ctx, &messages, query, conversationID); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// MarkRead flips is_read for all messages in the conversation addressed to
// the user from the opposite role. Running it again is a no-op.
func (r *MessageRepository) MarkRead(ctx context.Context, conversationID, userID int64, role models.Role) (int64, error) {
	const query = `UPDATE messages SET is_read = TRUE
        WHERE conversation_id = $1 AND receiver_id = $2 AND sender_role <> $3`
	res, err := r.db.ExecContext(ctx, query, conversationID, userID, role)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark messages read rows: %w", err)
	}
	return affected, nil
}
