package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bursary-portal/bursary-api/internal/service"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
	"github.com/bursary-portal/bursary-api/pkg/response"
)

// MessageHandler wires HTTP endpoints to the message service.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler creates a new handler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send godoc
// @Summary Send a chat message
// @Description Store a message in an existing conversation after checking the receiver exists
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body service.SendMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/send [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid message payload"))
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, msg)
}

// History godoc
// @Summary Get conversation history
// @Tags Messages
// @Produce json
// @Param id path int true "Conversation id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/conversation/{id} [get]
func (h *MessageHandler) History(c *gin.Context) {
	conversationID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid conversation id"))
		return
	}

	messages, err := h.messages.History(c.Request.Context(), conversationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, messages, nil)
}

type markReadRequest struct {
	ConversationID int64 `json:"conversation_id"`
}

// MarkRead godoc
// @Summary Mark conversation messages read
// @Description Flag every message addressed to the caller in the conversation as read
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body markReadRequest true "Conversation"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/mark-read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mark-read payload"))
		return
	}

	affected, err := h.messages.MarkRead(c.Request.Context(), req.ConversationID, claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"marked_read": affected}, nil)
}
