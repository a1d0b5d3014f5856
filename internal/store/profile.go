package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotlabs/dot-agent/internal/logger"
	"github.com/dotlabs/dot-agent/internal/models"
)

// UpdateSettings applies a settings change optimistically: local state
// mutates immediately, and the exact prior snapshot is restored verbatim if
// the webhook rejects the change. With no settings row loaded the call is a
// no-op; the backend trigger owns row creation.
func (s *Store) UpdateSettings(ctx context.Context, upd models.SettingsUpdate) error {
	userID, err := s.requireUser(ctx, "update settings")
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.settings == nil {
		s.mu.Unlock()
		s.log.Debug("settings update skipped: no settings loaded")
		return nil
	}
	snapshot := *s.settings
	applySettings(s.settings, upd)
	s.mu.Unlock()

	s.beginWrite(guardSettings)
	defer s.endWrite(guardSettings)

	canonical, err := s.repos.Users.UpdateSettings(ctx, userID, upd)
	if err != nil {
		s.log.Warn("persisting settings failed, reverting", logger.Err(err))
		s.mu.Lock()
		restored := snapshot
		s.settings = &restored
		s.mu.Unlock()
		return fmt.Errorf("update settings: %w", err)
	}

	if canonical != nil {
		s.mu.Lock()
		s.settings = canonical
		s.mu.Unlock()
	}
	return nil
}

func applySettings(dst *models.UserSettings, upd models.SettingsUpdate) {
	if upd.Theme != nil {
		dst.Theme = *upd.Theme
	}
	if upd.Language != nil {
		dst.Language = *upd.Language
	}
	if upd.NotificationsEnabled != nil {
		dst.NotificationsEnabled = *upd.NotificationsEnabled
	}
	if upd.LocationEnabled != nil {
		dst.LocationEnabled = *upd.LocationEnabled
	}
}

// UpdateSchedule applies a schedule change optimistically with the same
// snapshot-rollback contract as UpdateSettings.
func (s *Store) UpdateSchedule(ctx context.Context, upd models.ScheduleUpdate) error {
	userID, err := s.requireUser(ctx, "update schedule")
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.schedule == nil {
		s.mu.Unlock()
		s.log.Debug("schedule update skipped: no schedule loaded")
		return nil
	}
	snapshot := *s.schedule
	if upd.SleepTime != nil {
		s.schedule.SleepTime = *upd.SleepTime
	}
	if upd.WakeUpTime != nil {
		s.schedule.WakeUpTime = *upd.WakeUpTime
	}
	s.mu.Unlock()

	s.beginWrite(guardSchedule)
	defer s.endWrite(guardSchedule)

	canonical, err := s.repos.Users.UpdateSchedule(ctx, userID, upd)
	if err != nil {
		s.log.Warn("persisting schedule failed, reverting", logger.Err(err))
		s.mu.Lock()
		restored := snapshot
		s.schedule = &restored
		s.mu.Unlock()
		return fmt.Errorf("update schedule: %w", err)
	}

	if canonical != nil {
		s.mu.Lock()
		s.schedule = canonical
		s.mu.Unlock()
	}
	return nil
}

// UpdateProfile applies a profile edit optimistically. The avatar is only
// updated optimistically when the image is already a URL; inlined data-URIs
// wait for the backend to upload them and return the stored URL. On success
// the canonical profile replaces local state, preserving the session email
// when the profile row does not carry one.
func (s *Store) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	userID, err := s.requireUser(ctx, "update profile")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil, &AuthError{Op: "update profile"}
	}
	snapshot := *s.user
	if upd.Name != nil {
		s.user.FullName = *upd.Name
	}
	if upd.Image.Valid && !strings.HasPrefix(upd.Image.Value, "data:image") {
		s.user.AvatarURL = upd.Image.Value
	}
	s.mu.Unlock()

	s.beginWrite(guardUser)
	defer s.endWrite(guardUser)

	canonical, err := s.repos.Users.Update(ctx, userID, upd)
	if err != nil {
		s.log.Warn("persisting profile failed, reverting", logger.Err(err))
		s.mu.Lock()
		restored := snapshot
		s.user = &restored
		s.mu.Unlock()
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.mu.Lock()
	merged := *canonical
	if merged.Email == "" {
		merged.Email = snapshot.Email
	}
	if merged.ID == "" {
		merged.ID = snapshot.ID
	}
	s.user = &merged
	s.mu.Unlock()

	return &merged, nil
}
