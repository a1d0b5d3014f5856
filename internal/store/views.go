package store

import (
	"time"

	"github.com/dotlabs/dot-agent/internal/models"
	"github.com/dotlabs/dot-agent/internal/theme"
)

// Derived views are pure selections over the current collections; they
// allocate fresh slices so callers can never mutate store state.

// TasksByCategory returns tasks whose category_id matches exactly. A nil
// categoryID is the "show all" sentinel. Tasks holding a stale reference to
// a deleted category surface under the uncategorized sentinel, never here.
func (s *Store) TasksByCategory(categoryID *string) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if categoryID == nil || t.CategoryID == *categoryID {
			out = append(out, t)
		}
	}
	return out
}

// TasksByDate returns tasks whose due_at falls on the same calendar day as
// date, compared by year/month/day in date's location. Two timestamps an
// hour apart can land on different days across midnight; this is calendar
// equality, not a 24-hour window.
func (s *Store) TasksByDate(date time.Time) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.DueAt == nil {
			continue
		}
		if sameCalendarDay(*t.DueAt, date) {
			out = append(out, t)
		}
	}
	return out
}

func sameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.In(b.Location()).Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CompletedTasks returns tasks with a completed_at timestamp.
func (s *Store) CompletedTasks() []models.Task {
	return s.filterTasks(func(t models.Task) bool { return t.CompletedAt != nil })
}

// IncompleteTasks returns tasks without a completed_at timestamp.
func (s *Store) IncompleteTasks() []models.Task {
	return s.filterTasks(func(t models.Task) bool { return t.CompletedAt == nil })
}

func (s *Store) filterTasks(keep func(models.Task) bool) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// CurrentTheme picks the palette from the settings row, defaulting to dark
// whenever settings are unset or name anything but light.
func (s *Store) CurrentTheme() theme.Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings != nil && s.settings.Theme == models.ThemeLight {
		return theme.Light
	}
	return theme.Dark
}
