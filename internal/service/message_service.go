package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bursary-portal/bursary-api/internal/models"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
)

type messageRepository interface {
	Create(ctx context.Context, msg *models.Message) (int64, error)
	ListByConversation(ctx context.Context, conversationID int64) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, userID int64, role models.Role) (int64, error)
}

type accountDirectory interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// SendMessageRequest is the chat message payload. The receiver sits on the
// opposite side of the sender's role: an admin sends to a student and vice
// versa.
type SendMessageRequest struct {
	ConversationID int64       `json:"conversation_id" validate:"required,gt=0"`
	SenderID       int64       `json:"sender_id" validate:"required,gt=0"`
	ReceiverID     int64       `json:"receiver_id" validate:"required,gt=0"`
	SenderRole     models.Role `json:"sender_role" validate:"required,oneof=student admin"`
	Message        string      `json:"message" validate:"required"`
	MessageType    string      `json:"message_type"`
	AttachmentURL  string      `json:"attachment_url"`
}

// MessageService handles sending and reading chat messages.
type MessageService struct {
	repo      messageRepository
	students  accountDirectory
	admins    accountDirectory
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs a MessageService.
func NewMessageService(repo messageRepository, students, admins accountDirectory, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MessageService{
		repo:      repo,
		students:  students,
		admins:    admins,
		validator: validate,
		logger:    logger,
	}
}

// Send stores a message in the conversation. The receiver must exist in the
// table implied by the opposite role before anything is written.
func (s *MessageService) Send(ctx context.Context, req SendMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing conversation_id, sender_id, receiver_id, sender_role or message")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message must not be empty")
	}

	receivers := s.admins
	if req.SenderRole == models.RoleAdmin {
		receivers = s.students
	}
	if receivers != nil {
		exists, err := receivers.ExistsByID(ctx, req.ReceiverID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up receiver")
		}
		if !exists {
			return nil, appErrors.Clone(appErrors.ErrValidation, "receiver does not exist")
		}
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = models.MessageTypeText
	}

	msg := &models.Message{
		ConversationID: req.ConversationID,
		SenderID:       req.SenderID,
		ReceiverID:     req.ReceiverID,
		SenderRole:     req.SenderRole,
		Message:        req.Message,
		MessageType:    messageType,
		AttachmentURL:  req.AttachmentURL,
	}
	id, err := s.repo.Create(ctx, msg)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send message")
	}
	msg.ID = id
	return msg, nil
}

// History returns a conversation's messages in send order, excluding rows
// soft-deleted by either side. A conversation with no messages gets an empty
// history, not an error.
func (s *MessageService) History(ctx context.Context, conversationID int64) ([]models.Message, error) {
	if conversationID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "conversation id is required")
	}
	messages, err := s.repo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// MarkRead flags every message addressed to the reader in the conversation
// as read and reports how many rows changed. Re-running it is harmless.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, userID int64, role models.Role) (int64, error) {
	if conversationID <= 0 || userID <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "conversation_id and user id are required")
	}
	if !role.Valid() {
		return 0, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}
	affected, err := s.repo.MarkRead(ctx, conversationID, userID, role)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark messages read")
	}
	return affected, nil
}
