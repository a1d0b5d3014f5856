// Package repository wraps the webhook gateway with typed per-resource
// operations. The store depends only on these interfaces; tests substitute
// in-memory mocks.
package repository

import (
	"context"
	"time"

	"github.com/dotlabs/dot-agent/internal/models"
)

// UserRepository covers the user profile plus its 1:1 settings and
// schedule rows.
type UserRepository interface {
	// Fetch returns the profile row, or nil when the backend has none.
	Fetch(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error)

	FetchSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	UpdateSettings(ctx context.Context, userID string, upd models.SettingsUpdate) (*models.UserSettings, error)

	FetchSchedule(ctx context.Context, userID string) (*models.UserSchedule, error)
	UpdateSchedule(ctx context.Context, userID string, upd models.ScheduleUpdate) (*models.UserSchedule, error)
}

// TaskRepository covers the task webhook group. Create and Update return the
// canonical server-side record.
type TaskRepository interface {
	Fetch(ctx context.Context, userID string) ([]models.Task, error)
	Create(ctx context.Context, userID string, draft models.TaskDraft) (*models.Task, error)
	Update(ctx context.Context, userID, taskID string, upd models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
	// Complete sets or clears completed_at and nothing else. A nil
	// completedAt clears the field (un-complete).
	Complete(ctx context.Context, userID, taskID string, completedAt *time.Time) error
}

// CategoryRepository covers the category webhook group.
type CategoryRepository interface {
	Fetch(ctx context.Context, userID string) ([]models.Category, error)
	Create(ctx context.Context, userID string, draft models.CategoryDraft) (*models.Category, error)
	Update(ctx context.Context, userID, categoryID string, upd models.CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, userID, categoryID string) error
}

// SubscriptionRepository reads billing state and initiates checkout. The
// subscription row itself is only ever written by the billing backend.
type SubscriptionRepository interface {
	Fetch(ctx context.Context, userID string) (*models.Subscription, error)
	// CreateCheckout returns the hosted checkout URL for the chosen plan.
	CreateCheckout(ctx context.Context, userID, plan, email, platform string) (string, error)
}

// ChatRepository fetches persisted conversation history.
type ChatRepository interface {
	Fetch(ctx context.Context, userID string) ([]models.ChatMessage, error)
}

// AssistantRepository sends one message to the assistant endpoint and
// returns its reply text. No retry is attempted on failure.
type AssistantRepository interface {
	DoTask(ctx context.Context, userID, input string) (string, error)
}
