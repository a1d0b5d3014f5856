package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dotlabs/dot-agent/internal/gateway"
	"github.com/dotlabs/dot-agent/internal/models"
)

type chatRepository struct {
	gw *gateway.Client
}

// NewChatRepository creates a chat history repository over the webhook
// gateway.
func NewChatRepository(gw *gateway.Client) ChatRepository {
	return &chatRepository{gw: gw}
}

func (r *chatRepository) Fetch(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	raw, err := r.gw.Request(ctx, "chat/fetch", http.MethodPost, map[string]string{"user_id": userID}, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching chat history: %w", err)
	}
	return decodeList[models.ChatMessage](raw, "chat/fetch")
}

type assistantRepository struct {
	gw *gateway.Client
}

// NewAssistantRepository creates an assistant repository over the webhook
// gateway.
func NewAssistantRepository(gw *gateway.Client) AssistantRepository {
	return &assistantRepository{gw: gw}
}

func (r *assistantRepository) DoTask(ctx context.Context, userID, input string) (string, error) {
	raw, err := r.gw.Request(ctx, "ai/do_task", http.MethodPost, map[string]string{"chatInput": input}, userID)
	if err != nil {
		return "", fmt.Errorf("sending message to assistant: %w", err)
	}

	type reply struct {
		Output string `json:"output"`
	}
	rec, err := decodeFirst[reply](raw, "ai/do_task")
	if err != nil {
		return "", err
	}
	if rec == nil || rec.Output == "" {
		return "", fmt.Errorf("assistant returned no output")
	}
	return rec.Output, nil
}
