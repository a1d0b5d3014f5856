package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dotlabs/dot-agent/internal/gateway"
	"github.com/dotlabs/dot-agent/internal/models"
)

type userRepository struct {
	gw *gateway.Client
}

// NewUserRepository creates a user repository over the webhook gateway.
func NewUserRepository(gw *gateway.Client) UserRepository {
	return &userRepository{gw: gw}
}

func (r *userRepository) Fetch(ctx context.Context, userID string) (*models.User, error) {
	raw, err := r.gw.Request(ctx, "user/fetch", http.MethodPost, map[string]string{"id": userID}, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return decodeFirst[models.User](raw, "user/fetch")
}

func (r *userRepository) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	raw, err := r.gw.Request(ctx, "user/update", http.MethodPost, upd, userID)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return requireFirst[models.User](raw, "user/update")
}

func (r *userRepository) FetchSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	raw, err := r.gw.Request(ctx, "user/settings/fetch", http.MethodPost, map[string]string{"id": userID}, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching settings: %w", err)
	}
	return decodeFirst[models.UserSettings](raw, "user/settings/fetch")
}

func (r *userRepository) UpdateSettings(ctx context.Context, userID string, upd models.SettingsUpdate) (*models.UserSettings, error) {
	// The settings webhook uses abbreviated column names for two fields.
	payload := map[string]any{}
	if upd.Theme != nil {
		payload["theme"] = *upd.Theme
	}
	if upd.Language != nil {
		payload["lang"] = *upd.Language
	}
	if upd.NotificationsEnabled != nil {
		payload["notification"] = *upd.NotificationsEnabled
	}
	if upd.LocationEnabled != nil {
		payload["location_enabled"] = *upd.LocationEnabled
	}

	raw, err := r.gw.Request(ctx, "user/settings/update", http.MethodPost, payload, userID)
	if err != nil {
		return nil, fmt.Errorf("updating settings: %w", err)
	}
	return requireFirst[models.UserSettings](raw, "user/settings/update")
}

func (r *userRepository) FetchSchedule(ctx context.Context, userID string) (*models.UserSchedule, error) {
	raw, err := r.gw.Request(ctx, "user/schedule/fetch", http.MethodPost, map[string]string{"user_id": userID}, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule: %w", err)
	}
	return decodeFirst[models.UserSchedule](raw, "user/schedule/fetch")
}

func (r *userRepository) UpdateSchedule(ctx context.Context, userID string, upd models.ScheduleUpdate) (*models.UserSchedule, error) {
	raw, err := r.gw.Request(ctx, "user/schedule/update", http.MethodPost, upd, userID)
	if err != nil {
		return nil, fmt.Errorf("updating schedule: %w", err)
	}
	return requireFirst[models.UserSchedule](raw, "user/schedule/update")
}
