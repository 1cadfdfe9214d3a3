package models

import "time"

// MessageTypeText is the default message type when none is supplied.
const MessageTypeText = "text"

// Message belongs to a conversation. Rows are only ever mutated to flip the
// read flag or a per-side soft-delete flag.
type Message struct {
	ID              int64     `db:"message_id" json:"message_id"`
	ConversationID  int64     `db:"conversation_id" json:"conversation_id"`
	SenderID        int64     `db:"sender_id" json:"sender_id"`
	ReceiverID      int64     `db:"receiver_id" json:"receiver_id"`
	SenderRole      Role      `db:"sender_role" json:"sender_role"`
	Message         string    `db:"message" json:"message"`
	MessageType     string    `db:"message_type" json:"message_type"`
	AttachmentURL   string    `db:"attachment_url" json:"attachment_url"`
	IsRead          bool      `db:"is_read" json:"is_read"`
	SenderDeleted   bool      `db:"sender_deleted" json:"sender_deleted"`
	ReceiverDeleted bool      `db:"receiver_deleted" json:"receiver_deleted"`
	SentAt          time.Time `db:"sent_at" json:"sent_at"`
}
