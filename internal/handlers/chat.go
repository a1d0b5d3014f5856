package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dotlabs/dot-agent/internal/apierror"
	"github.com/dotlabs/dot-agent/internal/store"
)

type ChatHandler struct {
	store *store.Store
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(s *store.Store) *ChatHandler {
	return &ChatHandler{store: s}
}

// GetMessages handles GET /api/v1/chat.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messages":  h.store.ChatMessages(),
		"ai_typing": h.store.IsAITyping(),
	})
}

// SendMessage handles POST /api/v1/chat. The call blocks for the single
// assistant round trip; the response carries the whole updated
// conversation, whose last entry is either the assistant's reply or the
// fallback apology.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	requestID := apierror.GetRequestID(c)

	body := struct {
		Content string `json:"content"`
	}{}
	if err := c.ShouldBindJSON(&body); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}
	if body.Content == "" {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: "content", Message: "is required", Code: "required"},
		}))
		return
	}

	if _, err := h.store.SendChatMessage(c.Request.Context(), body.Content); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": h.store.ChatMessages()})
}

// GetMessageTask handles GET /api/v1/chat/:id/task, resolving a message's
// task action against the current task collection.
func (h *ChatHandler) GetMessageTask(c *gin.Context) {
	requestID := apierror.GetRequestID(c)
	messageID := c.Param("id")

	for _, msg := range h.store.ChatMessages() {
		if msg.ID != messageID {
			continue
		}
		task, ok := h.store.ResolveTaskAction(msg)
		if !ok {
			apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "task action", messageID))
			return
		}
		c.JSON(http.StatusOK, task)
		return
	}
	apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "chat message", messageID))
}
