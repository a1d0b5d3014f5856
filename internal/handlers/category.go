package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dotlabs/dot-agent/internal/apierror"
	"github.com/dotlabs/dot-agent/internal/models"
	"github.com/dotlabs/dot-agent/internal/store"
)

type CategoryHandler struct {
	store *store.Store
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(s *store.Store) *CategoryHandler {
	return &CategoryHandler{store: s}
}

// GetCategories handles GET /api/v1/categories.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Categories())
}

// CreateCategory handles POST /api/v1/categories.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	var draft models.CategoryDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	var fieldErrors []apierror.FieldError
	if draft.Name == "" {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "name", Message: "is required", Code: "required",
		})
	}
	if draft.Color == "" {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "color", Message: "is required", Code: "required",
		})
	}
	if len(fieldErrors) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return
	}

	created, err := h.store.AddCategory(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateCategory handles PUT /api/v1/categories/:id.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	var upd models.CategoryUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	updated, err := h.store.UpdateCategory(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteCategory handles DELETE /api/v1/categories/:id. Tasks in the
// deleted category become uncategorized.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.store.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
