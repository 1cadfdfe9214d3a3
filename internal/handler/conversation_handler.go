package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bursary-portal/bursary-api/internal/service"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
	"github.com/bursary-portal/bursary-api/pkg/response"
)

// ConversationHandler wires HTTP endpoints to the conversation service.
type ConversationHandler struct {
	conversations *service.ConversationService
}

// NewConversationHandler creates a new handler.
func NewConversationHandler(conversations *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

type initiateConversationRequest struct {
	StudentID int64 `json:"student_id"`
	AdminID   int64 `json:"admin_id"`
}

// Initiate godoc
// @Summary Initiate a conversation
// @Description Return the conversation for a (student, admin) pair, creating it when absent
// @Tags Conversations
// @Accept json
// @Produce json
// @Param payload body initiateConversationRequest true "Pair"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /conversations/initiate [post]
func (h *ConversationHandler) Initiate(c *gin.Context) {
	var req initiateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conversation payload"))
		return
	}

	id, created, err := h.conversations.Resolve(c.Request.Context(), req.StudentID, req.AdminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.JSON(c, status, gin.H{"conversation_id": id}, nil)
}

// ListByStudent godoc
// @Summary List a student's conversations
// @Tags Conversations
// @Produce json
// @Param id path int true "Student id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /conversations/student/{id} [get]
func (h *ConversationHandler) ListByStudent(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	partners, err := h.conversations.ListByStudent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, partners, nil)
}

// ListByAdmin godoc
// @Summary List an admin's conversations
// @Tags Conversations
// @Produce json
// @Param id path int true "Admin id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /conversations/admin/{id} [get]
func (h *ConversationHandler) ListByAdmin(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid admin id"))
		return
	}

	partners, err := h.conversations.ListByAdmin(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, partners, nil)
}
