package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bursary-portal/bursary-api/internal/service"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
	"github.com/bursary-portal/bursary-api/pkg/response"
)

// ApplicationHandler wires HTTP endpoints to the application service.
type ApplicationHandler struct {
	service *service.ApplicationService
}

// NewApplicationHandler creates a new handler.
func NewApplicationHandler(svc *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: svc}
}

// Submit godoc
// @Summary Submit bursary application
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body service.SubmitApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req service.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	id, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"application_id": id, "message": "application submitted"})
}

// Withdraw godoc
// @Summary Withdraw bursary application
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body service.WithdrawApplicationRequest true "Withdrawal payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/withdraw [post]
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	var req service.WithdrawApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid withdrawal payload"))
		return
	}

	if err := h.service.Withdraw(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "application withdrawn"}, nil)
}

// UpdateStatus godoc
// @Summary Update application status
// @Description Append a status history entry and notify the applicant
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body service.UpdateStatusRequest true "Status update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/status/update [post]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// ListByStudent godoc
// @Summary List a student's applied bursaries
// @Tags Applications
// @Produce json
// @Param student_id query int true "Student id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /applications [get]
func (h *ApplicationHandler) ListByStudent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("student_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	ids, err := h.service.ListByStudent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"bursary_ids": ids}, nil)
}

// ListAll godoc
// @Summary List all applications with status history
// @Tags Applications
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/admin/all [get]
func (h *ApplicationHandler) ListAll(c *gin.Context) {
	overviews, err := h.service.ListWithHistory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, overviews, nil)
}

// Export godoc
// @Summary Export application register
// @Description Download the register as CSV or PDF
// @Tags Applications
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /applications/admin/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	data, contentType, err := h.service.ExportRegister(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if format == "pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("applications-%s.%s", time.Now().Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
