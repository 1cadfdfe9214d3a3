package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bursary-portal/bursary-api/internal/service"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
	"github.com/bursary-portal/bursary-api/pkg/response"
)

// AdminHandler wires HTTP endpoints to the admin service.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// Profile godoc
// @Summary Get admin profile
// @Tags Admins
// @Produce json
// @Param id path int true "Admin id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admins/{id} [get]
func (h *AdminHandler) Profile(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid admin id"))
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// UpdateProfile godoc
// @Summary Update admin profile
// @Tags Admins
// @Accept json
// @Produce json
// @Param id path int true "Admin id"
// @Param payload body service.UpdateAdminProfileRequest true "Profile fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admins/{id} [put]
func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid admin id"))
		return
	}

	var req service.UpdateAdminProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// List godoc
// @Summary List admins
// @Tags Admins
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, admins, nil)
}
