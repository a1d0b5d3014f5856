package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dotlabs/dot-agent/internal/store"
)

type StateHandler struct {
	store *store.Store
}

// NewStateHandler creates a handler for the store lifecycle endpoints.
func NewStateHandler(s *store.Store) *StateHandler {
	return &StateHandler{store: s}
}

// GetState handles GET /api/v1/state, reporting the loading, refreshing,
// and typing flags the UI keys its chrome on.
func (h *StateHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Status())
}

// Refresh handles POST /api/v1/refresh, the explicit reload entry point
// for focus, pull-to-refresh, and foreground triggers. It blocks until the
// reload settles and returns the resulting flags.
func (h *StateHandler) Refresh(c *gin.Context) {
	h.store.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, h.store.Status())
}
