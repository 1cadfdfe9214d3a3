package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bursary-portal/bursary-api/internal/service"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
	"github.com/bursary-portal/bursary-api/pkg/response"
)

// BursaryHandler wires HTTP endpoints to the bursary service.
type BursaryHandler struct {
	service *service.BursaryService
}

// NewBursaryHandler creates a new handler.
func NewBursaryHandler(svc *service.BursaryService) *BursaryHandler {
	return &BursaryHandler{service: svc}
}

// Create godoc
// @Summary Create bursary
// @Tags Bursaries
// @Accept json
// @Produce json
// @Param payload body service.BursaryRequest true "Bursary fields"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /bursaries [post]
func (h *BursaryHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.BursaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bursary payload"))
		return
	}

	bursary, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, bursary)
}

// Get godoc
// @Summary Get bursary
// @Tags Bursaries
// @Produce json
// @Param id path int true "Bursary id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /bursaries/{id} [get]
func (h *BursaryHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bursary id"))
		return
	}

	bursary, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, bursary, nil)
}

// Update godoc
// @Summary Update bursary
// @Tags Bursaries
// @Accept json
// @Produce json
// @Param id path int true "Bursary id"
// @Param payload body service.BursaryRequest true "Bursary fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /bursaries/{id} [put]
func (h *BursaryHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bursary id"))
		return
	}

	var req service.BursaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bursary payload"))
		return
	}

	bursary, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, bursary, nil)
}

// Delete godoc
// @Summary Delete bursary
// @Tags Bursaries
// @Param id path int true "Bursary id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /bursaries/{id} [delete]
func (h *BursaryHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bursary id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListAll godoc
// @Summary List all bursaries
// @Tags Bursaries
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /bursaries [get]
func (h *BursaryHandler) ListAll(c *gin.Context) {
	bursaries, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, bursaries, nil)
}

// ListAvailable godoc
// @Summary List open bursaries
// @Description Active, verified bursaries ordered by closing date
// @Tags Bursaries
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /bursaries/available [get]
func (h *BursaryHandler) ListAvailable(c *gin.Context) {
	bursaries, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, bursaries, nil)
}
