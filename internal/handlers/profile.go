package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dotlabs/dot-agent/internal/apierror"
	"github.com/dotlabs/dot-agent/internal/models"
	"github.com/dotlabs/dot-agent/internal/store"
)

type ProfileHandler struct {
	store *store.Store
}

// NewProfileHandler creates a handler for the profile, settings, and
// schedule endpoints.
func NewProfileHandler(s *store.Store) *ProfileHandler {
	return &ProfileHandler{store: s}
}

// GetProfile handles GET /api/v1/profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user := h.store.User()
	if user == nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "profile", "current"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/v1/profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	var upd models.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	updated, err := h.store.UpdateProfile(c.Request.Context(), upd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetSettings handles GET /api/v1/settings.
func (h *ProfileHandler) GetSettings(c *gin.Context) {
	settings := h.store.Settings()
	if settings == nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "settings", "current"))
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/v1/settings.
func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	var upd models.SettingsUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	if upd.Theme != nil && *upd.Theme != models.ThemeDark && *upd.Theme != models.ThemeLight {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "theme", Message: "must be dark or light", Code: "invalid_value"},
		}))
		return
	}

	if err := h.store.UpdateSettings(c.Request.Context(), upd); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.store.Settings())
}

// GetSchedule handles GET /api/v1/schedule.
func (h *ProfileHandler) GetSchedule(c *gin.Context) {
	schedule := h.store.Schedule()
	if schedule == nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "schedule", "current"))
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// UpdateSchedule handles PUT /api/v1/schedule.
func (h *ProfileHandler) UpdateSchedule(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	var upd models.ScheduleUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	if err := h.store.UpdateSchedule(c.Request.Context(), upd); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.store.Schedule())
}

// GetTheme handles GET /api/v1/theme.
func (h *ProfileHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.CurrentTheme())
}
