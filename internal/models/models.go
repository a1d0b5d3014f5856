package models

import "time"

// Theme values accepted in UserSettings.Theme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// UncategorizedID is the category_id value meaning "no category". Deleting a
// category reassigns its tasks to this sentinel.
const UncategorizedID = ""

// Repeat rules accepted in Task.RepeatRule.
const (
	RepeatDaily   = "daily"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"
	RepeatYearly  = "yearly"
	RepeatCustom  = "custom"
)

// User represents an authenticated user's profile row.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Locale    string `json:"locale"` // "en" or "ar"
}

// UserSettings holds per-user preferences, keyed 1:1 by user id. The backend
// creates the row on signup; the client only ever updates it.
type UserSettings struct {
	UserID               string `json:"user_id"`
	Theme                string `json:"theme"` // "dark" or "light"
	Language             string `json:"language"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	LocationEnabled      bool   `json:"location_enabled"`
}

// UserSchedule holds sleep and wake times as "HH:mm" strings.
type UserSchedule struct {
	UserID     string `json:"user_id"`
	SleepTime  string `json:"sleep_time"`
	WakeUpTime string `json:"wake_up_time"`
}

// Subscription statuses pushed by the billing backend.
const (
	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
	SubscriptionTrialing = "trialing"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// Subscription is the billing state for a user. It is written by the billing
// webhook on the backend; the client only initiates checkout and applies
// pushed updates.
type Subscription struct {
	UserID    string     `json:"user_id"`
	Status    string     `json:"status"`
	Plan      string     `json:"plan"` // "free", "monthly", "yearly"
	PeriodEnd *time.Time `json:"period_end,omitempty"`
}

// Category groups tasks. Position is an ordering hint assigned by the
// backend; the client does not enforce it.
type Category struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Color    string `json:"color"` // hex string
	Position int    `json:"position"`
}

// Geofence describes a location trigger attached to a task.
type Geofence struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Radius  float64 `json:"radius"`
	Trigger string  `json:"trigger"` // "enter" or "exit"
}

// Task is the central entity. A task with a non-nil CompletedAt is complete;
// completion is toggled through a dedicated operation that touches no other
// field.
type Task struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	CategoryID       string     `json:"category_id"` // may be UncategorizedID
	DueAt            *time.Time `json:"due_at,omitempty"`
	RepeatRule       string     `json:"repeat_rule,omitempty"`
	ReminderAt       *time.Time `json:"reminder_at,omitempty"`
	LocationReminder string     `json:"location_reminder,omitempty"`
	LocationGeofence *Geofence  `json:"location_geofence,omitempty"`
	DurationDays     int        `json:"duration_days,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Position         int        `json:"position"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Completed reports whether the task has been marked done.
func (t *Task) Completed() bool {
	return t.CompletedAt != nil
}

// TaskAction is an actionable task reference carried by assistant messages.
// Either TaskID or an inlined Task snapshot (or both) may be present.
type TaskAction struct {
	Type   string `json:"type"` // "create", "update", "delete"
	TaskID string `json:"task_id,omitempty"`
	Task   *Task  `json:"task,omitempty"`
}

// ChatMessage is one entry in the conversation with the assistant. Ordering
// is insertion order; the store never reorders by timestamp.
type ChatMessage struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Content    string      `json:"content"`
	IsUser     bool        `json:"is_user"`
	CreatedAt  time.Time   `json:"created_at"`
	TaskAction *TaskAction `json:"task_action,omitempty"`
}
