package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dotlabs/dot-agent/internal/gateway"
	"github.com/dotlabs/dot-agent/internal/models"
)

type taskRepository struct {
	gw *gateway.Client
}

// NewTaskRepository creates a task repository over the webhook gateway.
func NewTaskRepository(gw *gateway.Client) TaskRepository {
	return &taskRepository{gw: gw}
}

func (r *taskRepository) Fetch(ctx context.Context, userID string) ([]models.Task, error) {
	raw, err := r.gw.Request(ctx, "task/fetch", http.MethodPost, map[string]string{"user_id": userID}, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	return decodeList[models.Task](raw, "task/fetch")
}

func (r *taskRepository) Create(ctx context.Context, userID string, draft models.TaskDraft) (*models.Task, error) {
	raw, err := r.gw.Request(ctx, "task/create", http.MethodPost, draft, userID)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return requireFirst[models.Task](raw, "task/create")
}

func (r *taskRepository) Update(ctx context.Context, userID, taskID string, upd models.TaskUpdate) (*models.Task, error) {
	payload := struct {
		models.TaskUpdate
		TaskID string `json:"task_id"`
	}{TaskUpdate: upd, TaskID: taskID}

	raw, err := r.gw.Request(ctx, "task/update", http.MethodPost, payload, userID)
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", taskID, err)
	}
	return requireFirst[models.Task](raw, "task/update")
}

func (r *taskRepository) Delete(ctx context.Context, userID, taskID string) error {
	_, err := r.gw.Request(ctx, "task/delete", http.MethodPost, map[string]string{"task_id": taskID}, userID)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", taskID, err)
	}
	return nil
}

func (r *taskRepository) Complete(ctx context.Context, userID, taskID string, completedAt *time.Time) error {
	payload := map[string]any{
		"task_id":      taskID,
		"completed_at": completedAt, // nil serializes as explicit null
	}
	_, err := r.gw.Request(ctx, "task/complete", http.MethodPost, payload, userID)
	if err != nil {
		return fmt.Errorf("completing task %s: %w", taskID, err)
	}
	return nil
}
