package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dotlabs/dot-agent/internal/apierror"
	"github.com/dotlabs/dot-agent/internal/store"
)

type SubscriptionHandler struct {
	store *store.Store
}

// NewSubscriptionHandler creates a new subscription handler.
func NewSubscriptionHandler(s *store.Store) *SubscriptionHandler {
	return &SubscriptionHandler{store: s}
}

// GetSubscription handles GET /api/v1/subscription. With no subscription
// row loaded the user is on the free plan; the endpoint reports that rather
// than 404 so the UI has one shape to render.
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sub := h.store.Subscription()
	if sub == nil {
		c.JSON(http.StatusOK, gin.H{"status": "inactive", "plan": "free"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// CreateCheckout handles POST /api/v1/subscription/checkout and returns the
// hosted checkout URL for the UI to open in a browser.
func (h *SubscriptionHandler) CreateCheckout(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	body := struct {
		Plan     string `json:"plan"`
		Platform string `json:"platform"`
	}{}
	if err := c.ShouldBindJSON(&body); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}
	if body.Plan != "monthly" && body.Plan != "yearly" {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "plan", Message: "must be monthly or yearly", Code: "invalid_value"},
		}))
		return
	}

	url, err := h.store.CreateCheckout(c.Request.Context(), body.Plan, body.Platform)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}
