package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bursary-portal/bursary-api/internal/service"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
	"github.com/bursary-portal/bursary-api/pkg/response"
)

// DocumentHandler wires HTTP endpoints to the document service.
type DocumentHandler struct {
	service *service.DocumentService
}

// NewDocumentHandler creates a new handler.
func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// Upload godoc
// @Summary Upload a document
// @Description Attach a supporting document to an application
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Param application_id formData int true "Application id"
// @Param student_id formData int true "Student id"
// @Param file_category formData string false "Document category"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /documents/upload [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}

	applicationID, err := strconv.ParseInt(c.PostForm("application_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid application_id"))
		return
	}
	studentID, err := strconv.ParseInt(c.PostForm("student_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student_id"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	doc, err := h.service.Upload(c.Request.Context(), service.UploadDocumentRequest{
		ApplicationID:  applicationID,
		StudentID:      studentID,
		OriginalName:   fileHeader.Filename,
		Size:           fileHeader.Size,
		FileCategory:   c.PostForm("file_category"),
		UploadedByRole: claims.Role,
		Content:        file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, doc)
}

// Get godoc
// @Summary Get document metadata
// @Tags Documents
// @Produce json
// @Param id path int true "Document id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid document id"))
		return
	}

	doc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, doc, nil)
}

// ListByStudent godoc
// @Summary List a student's documents
// @Tags Documents
// @Produce json
// @Param id path int true "Student id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /documents/student/{id} [get]
func (h *DocumentHandler) ListByStudent(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}

	docs, err := h.service.ListByStudent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, docs, nil)
}

// ListByApplication godoc
// @Summary List an application's documents
// @Tags Documents
// @Produce json
// @Param id path int true "Application id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /documents/application/{id} [get]
func (h *DocumentHandler) ListByApplication(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid application id"))
		return
	}

	docs, err := h.service.ListByApplication(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, docs, nil)
}

// Delete godoc
// @Summary Delete a document
// @Tags Documents
// @Param id path int true "Document id"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /documents/delete/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid document id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, claims.UserID, claims.Role); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
