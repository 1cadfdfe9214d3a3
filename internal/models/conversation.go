package models

import "time"

// Conversation is the messaging channel between exactly one student and one
// admin, created lazily on first contact.
type Conversation struct {
	ID        int64     `db:"conversation_id" json:"conversation_id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	AdminID   int64     `db:"admin_id" json:"admin_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ConversationPartner is a conversation annotated with the counterpart's
// identity, as listed on either side of the chat.
type ConversationPartner struct {
	ConversationID int64  `db:"conversation_id" json:"conversation_id"`
	PartnerID      int64  `db:"partner_id" json:"partner_id"`
	FullName       string `db:"full_name" json:"full_name"`
	Email          string `db:"email" json:"email"`
}
