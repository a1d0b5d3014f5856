package models

// TaskDraft is the client-submitted shape for task creation. The backend
// assigns id, user_id, position, and timestamps; the canonical Task comes
// back in the response.
type TaskDraft struct {
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	CategoryID       string       `json:"category_id"`
	DueAt            NullableTime `json:"due_at,omitzero"`
	RepeatRule       string       `json:"repeat_rule,omitempty"`
	ReminderAt       NullableTime `json:"reminder_at,omitzero"`
	LocationReminder string       `json:"location_reminder,omitempty"`
	LocationGeofence *Geofence    `json:"location_geofence,omitempty"`
	DurationDays     int          `json:"duration_days,omitempty"`
}

// TaskUpdate carries only the fields being changed. Nullable fields
// distinguish "leave alone" (absent) from "clear" (explicit null).
type TaskUpdate struct {
	Title            *string        `json:"title,omitempty"`
	Description      NullableString `json:"description,omitzero"`
	CategoryID       *string        `json:"category_id,omitempty"`
	DueAt            NullableTime   `json:"due_at,omitzero"`
	RepeatRule       NullableString `json:"repeat_rule,omitzero"`
	ReminderAt       NullableTime   `json:"reminder_at,omitzero"`
	LocationReminder NullableString `json:"location_reminder,omitzero"`
	LocationGeofence *Geofence      `json:"location_geofence,omitempty"`
	DurationDays     *int           `json:"duration_days,omitempty"`
	Position         *int           `json:"position,omitempty"`
}

// CategoryDraft is the client-submitted shape for category creation.
type CategoryDraft struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryUpdate carries only the fields being changed.
type CategoryUpdate struct {
	Name     *string `json:"name,omitempty"`
	Color    *string `json:"color,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// SettingsUpdate carries only the settings being toggled.
type SettingsUpdate struct {
	Theme                *string `json:"theme,omitempty"`
	Language             *string `json:"language,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
	LocationEnabled      *bool   `json:"location_enabled,omitempty"`
}

// ScheduleUpdate carries only the schedule fields being changed.
// Times are "HH:mm" strings.
type ScheduleUpdate struct {
	SleepTime  *string `json:"sleep_time,omitempty"`
	WakeUpTime *string `json:"wake_up_time,omitempty"`
}

// ProfileUpdate carries profile edits. Image may be a URL or an inlined
// data-URI; the backend uploads data-URIs and returns the stored avatar URL.
type ProfileUpdate struct {
	Name  *string        `json:"name,omitempty"`
	Image NullableString `json:"image,omitzero"`
}
