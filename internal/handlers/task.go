package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dotlabs/dot-agent/internal/apierror"
	"github.com/dotlabs/dot-agent/internal/models"
	"github.com/dotlabs/dot-agent/internal/store"
)

type TaskHandler struct {
	store *store.Store
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(s *store.Store) *TaskHandler {
	return &TaskHandler{store: s}
}

// GetTasks handles GET /api/v1/tasks. Query parameters select a derived
// view: ?date=2024-03-01 filters by local calendar day, ?category_id=x by
// exact category (empty value means uncategorized), ?completed=true|false
// by completion. Without parameters the whole collection is returned.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			date, err = time.Parse(time.RFC3339, dateStr)
		}
		if err != nil {
			apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
				{Field: "date", Message: "must be YYYY-MM-DD or RFC3339", Code: "invalid_format"},
			}))
			return
		}
		c.JSON(http.StatusOK, h.store.TasksByDate(date))
		return
	}

	if categoryID, ok := c.GetQuery("category_id"); ok {
		c.JSON(http.StatusOK, h.store.TasksByCategory(&categoryID))
		return
	}

	switch c.Query("completed") {
	case "true":
		c.JSON(http.StatusOK, h.store.CompletedTasks())
	case "false":
		c.JSON(http.StatusOK, h.store.IncompleteTasks())
	default:
		c.JSON(http.StatusOK, h.store.Tasks())
	}
}

// CreateTask handles POST /api/v1/tasks.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	var draft models.TaskDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	if fieldErrors := validateDraft(draft); len(fieldErrors) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return
	}

	created, err := h.store.AddTask(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func validateDraft(draft models.TaskDraft) []apierror.FieldError {
	var fieldErrors []apierror.FieldError

	if draft.Title == "" {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "title", Message: "is required", Code: "required",
		})
	}

	switch draft.RepeatRule {
	case "", models.RepeatDaily, models.RepeatWeekly, models.RepeatMonthly, models.RepeatYearly, models.RepeatCustom:
	default:
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "repeat_rule", Message: "must be daily, weekly, monthly, yearly, or custom", Code: "invalid_value",
		})
	}

	if g := draft.LocationGeofence; g != nil && g.Trigger != "enter" && g.Trigger != "exit" {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field: "location_geofence.trigger", Message: "must be enter or exit", Code: "invalid_value",
		})
	}

	return fieldErrors
}

// UpdateTask handles PUT /api/v1/tasks/:id.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	var upd models.TaskUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	updated, err := h.store.UpdateTask(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTask handles DELETE /api/v1/tasks/:id.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.store.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompleteTask handles POST /api/v1/tasks/:id/complete. The body's
// "completed" field defaults to true; false un-completes the task.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	body := struct {
		Completed *bool `json:"completed"`
	}{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
			return
		}
	}
	completed := body.Completed == nil || *body.Completed

	if err := h.store.CompleteTask(c.Request.Context(), c.Param("id"), completed); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
