// Package handlers exposes the store over the agent's local HTTP API. The
// UI process is the only intended client; it drives store operations here
// and re-renders from the read endpoints.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dotlabs/dot-agent/internal/apierror"
	"github.com/dotlabs/dot-agent/internal/gateway"
	"github.com/dotlabs/dot-agent/internal/store"
)

// writeError maps the store's error taxonomy onto problem-details
// responses: auth failures become 401 (the session is already terminated by
// the store), backend rejections become 502 carrying the server's message,
// anything else is a generic 500.
func writeError(c *gin.Context, err error) {
	requestID := apierror.GetRequestID(c)

	var authErr *store.AuthError
	if errors.As(err, &authErr) {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return
	}

	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		apierror.WriteProblem(c, apierror.NewUpstreamError(requestID, gwErr.Message))
		return
	}

	apierror.WriteProblem(c, apierror.NewInternalError(requestID))
}
