package store

import (
	"context"

	"github.com/dotlabs/dot-agent/internal/logger"
	"github.com/dotlabs/dot-agent/internal/models"
)

const assistantApology = "Sorry, I had trouble connecting. Please try again."

// AddChatMessage appends a message locally with a generated id. The user's
// own messages never wait on a server write; persistence of history is the
// backend's concern.
func (s *Store) AddChatMessage(content string, isUser bool, action *models.TaskAction) models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID := s.userID
	if userID == "" {
		userID = "local-user"
	}

	msg := models.ChatMessage{
		ID:         s.newID(),
		UserID:     userID,
		Content:    content,
		IsUser:     isUser,
		CreatedAt:  s.now(),
		TaskAction: action,
	}
	s.chat = append(s.chat, msg)
	return msg
}

// SendChatMessage appends the user's message, flips the typing flag, and
// makes exactly one assistant round trip. A well-formed reply is appended as
// an assistant message; any failure appends a fallback apology instead. The
// typing flag is cleared on every path and no retry is attempted.
func (s *Store) SendChatMessage(ctx context.Context, text string) (models.ChatMessage, error) {
	userID, err := s.requireUser(ctx, "send chat message")
	if err != nil {
		return models.ChatMessage{}, err
	}

	userMsg := s.AddChatMessage(text, true, nil)

	s.mu.Lock()
	s.aiTyping = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.aiTyping = false
		s.mu.Unlock()
	}()

	output, err := s.repos.Assistant.DoTask(ctx, userID, text)
	if err != nil {
		s.log.Warn("assistant call failed", logger.Err(err))
		s.AddChatMessage(assistantApology, false, nil)
		return userMsg, nil
	}

	s.AddChatMessage(output, false, nil)
	return userMsg, nil
}

// ResolveTaskAction resolves a message's task reference against the current
// task collection. When the referenced task is gone (or the message carries
// only an inlined snapshot), the snapshot is returned instead; ok reports
// whether anything resolvable was found.
func (s *Store) ResolveTaskAction(msg models.ChatMessage) (*models.Task, bool) {
	if msg.TaskAction == nil {
		return nil, false
	}

	if msg.TaskAction.TaskID != "" {
		s.mu.RLock()
		for i := range s.tasks {
			if s.tasks[i].ID == msg.TaskAction.TaskID {
				t := s.tasks[i]
				s.mu.RUnlock()
				return &t, true
			}
		}
		s.mu.RUnlock()
	}

	if msg.TaskAction.Task != nil {
		t := *msg.TaskAction.Task
		return &t, true
	}
	return nil, false
}

// IsAITyping reports whether an assistant round trip is in flight.
func (s *Store) IsAITyping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aiTyping
}
