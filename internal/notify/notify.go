// Package notify schedules local reminder notifications for tasks. A
// reminder is scheduled only when it lies in the future and the user has
// granted notification permission; everything else is a silent no-op so
// task creation never fails because of a reminder.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/dotlabs/dot-agent/internal/logger"
	"github.com/dotlabs/dot-agent/internal/models"
)

// Notification is the content handed to the delivery sink when a reminder
// fires.
type Notification struct {
	TaskID string    `json:"task_id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	At     time.Time `json:"at"`
}

// Permissions decides whether notifications may be shown. Implementations
// may prompt the user, consult settings, or both.
type Permissions interface {
	Request(ctx context.Context) (bool, error)
}

// PermissionsFunc adapts a function to the Permissions interface.
type PermissionsFunc func(ctx context.Context) (bool, error)

func (f PermissionsFunc) Request(ctx context.Context) (bool, error) { return f(ctx) }

// Alerter surfaces a user-visible warning outside the notification flow,
// such as a denied-permission notice.
type Alerter interface {
	Alert(title, message string)
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(title, message string)

func (f AlerterFunc) Alert(title, message string) { f(title, message) }

// Sink receives notifications when their trigger time arrives.
type Sink interface {
	Deliver(n Notification)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(n Notification)

func (f SinkFunc) Deliver(n Notification) { f(n) }

const defaultBody = "Don't forget about this task!"

// Scheduler arms one timer per accepted reminder. It makes no idempotency
// guarantee: scheduling the same task twice arms two timers, so callers
// must invoke it once per task creation.
type Scheduler struct {
	perms Permissions
	alert Alerter
	sink  Sink
	log   logger.Logger

	now func() time.Time

	mu     sync.Mutex
	timers []*time.Timer
}

// NewScheduler creates a scheduler delivering through sink.
func NewScheduler(perms Permissions, alert Alerter, sink Sink, log logger.Logger) *Scheduler {
	return &Scheduler{
		perms: perms,
		alert: alert,
		sink:  sink,
		log:   log,
		now:   time.Now,
	}
}

// ScheduleReminder arms a notification for the task's reminder time.
// Tasks without a reminder, reminders in the past, and denied permission
// all skip scheduling without error.
func (s *Scheduler) ScheduleReminder(ctx context.Context, task *models.Task) error {
	if task.ReminderAt == nil {
		s.log.Debug("task has no reminder, skipping notification", logger.String("task_id", task.ID))
		return nil
	}

	granted, err := s.perms.Request(ctx)
	if err != nil {
		return err
	}
	if !granted {
		s.alert.Alert("Permission Denied", "You need to enable notifications to receive task reminders.")
		s.log.Warn("notification permission denied", logger.String("task_id", task.ID))
		return nil
	}

	trigger := *task.ReminderAt
	delay := trigger.Sub(s.now())
	if delay <= 0 {
		s.log.Debug("reminder is in the past, not scheduling",
			logger.String("task_id", task.ID),
			logger.Time("reminder_at", trigger),
		)
		return nil
	}

	n := Notification{
		TaskID: task.ID,
		Title:  "Reminder: " + task.Title,
		Body:   task.Description,
		At:     trigger,
	}
	if n.Body == "" {
		n.Body = defaultBody
	}

	s.mu.Lock()
	s.timers = append(s.timers, time.AfterFunc(delay, func() {
		s.sink.Deliver(n)
	}))
	s.mu.Unlock()

	s.log.Info("reminder scheduled",
		logger.String("task_id", task.ID),
		logger.Time("at", trigger),
	)
	return nil
}

// Pending returns the number of timers armed since the last Stop. Timers
// that already fired still count; this is a scheduling tally, not a queue
// depth.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels all armed timers. Reminders already delivered are unaffected.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
