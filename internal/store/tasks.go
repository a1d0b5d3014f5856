package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dotlabs/dot-agent/internal/logger"
	"github.com/dotlabs/dot-agent/internal/models"
)

// AddTask creates a task and appends the server's canonical record (which
// carries the assigned id and timestamps) to local state. A reminder
// notification is scheduled as a side effect; reminder problems never fail
// the creation.
func (s *Store) AddTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	userID, err := s.requireUser(ctx, "add task")
	if err != nil {
		return nil, err
	}

	created, err := s.repos.Tasks.Create(ctx, userID, draft)
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, *created)
	s.mu.Unlock()

	if s.scheduler != nil {
		if err := s.scheduler.ScheduleReminder(ctx, created); err != nil {
			s.log.Warn("scheduling reminder failed",
				logger.String("task_id", created.ID), logger.Err(err))
		}
	}

	return created, nil
}

// UpdateTask sends the changed fields and replaces the matching local task
// with the server's canonical version. This is a confirmed update: local
// state only changes after the round trip succeeds.
func (s *Store) UpdateTask(ctx context.Context, taskID string, upd models.TaskUpdate) (*models.Task, error) {
	userID, err := s.requireUser(ctx, "update task")
	if err != nil {
		return nil, err
	}

	updated, err := s.repos.Tasks.Update(ctx, userID, taskID, upd)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i] = *updated
			break
		}
	}
	s.mu.Unlock()

	return updated, nil
}

// DeleteTask removes the task remotely, then locally.
func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	userID, err := s.requireUser(ctx, "delete task")
	if err != nil {
		return err
	}

	if err := s.repos.Tasks.Delete(ctx, userID, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()

	return nil
}

// CompleteTask toggles completion optimistically: completed_at (and
// updated_at) are set locally before the dedicated complete webhook is
// called. On failure the entire prior task slice is restored verbatim, not
// just the one task.
func (s *Store) CompleteTask(ctx context.Context, taskID string, completed bool) error {
	userID, err := s.requireUser(ctx, "complete task")
	if err != nil {
		return err
	}

	now := s.now()
	var completedTime *time.Time
	if completed {
		completedTime = &now
	}

	s.mu.Lock()
	snapshot := make([]models.Task, len(s.tasks))
	copy(snapshot, s.tasks)
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i].CompletedAt = completedTime
			s.tasks[i].UpdatedAt = now
			break
		}
	}
	s.mu.Unlock()

	guard := guardTask(taskID)
	s.beginWrite(guard)
	defer s.endWrite(guard)

	if err := s.repos.Tasks.Complete(ctx, userID, taskID, completedTime); err != nil {
		s.log.Warn("persisting completion failed, reverting",
			logger.String("task_id", taskID), logger.Err(err))
		s.mu.Lock()
		s.tasks = snapshot
		s.mu.Unlock()
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}
