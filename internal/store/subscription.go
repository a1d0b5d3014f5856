package store

import (
	"context"
	"fmt"

	"github.com/dotlabs/dot-agent/internal/logger"
	"github.com/dotlabs/dot-agent/internal/models"
)

// CreateCheckout asks the backend to create a hosted checkout session for
// the plan and returns its URL for the caller to open. The subscription row
// itself is updated later by the billing webhook and arrives through the
// real-time channel.
func (s *Store) CreateCheckout(ctx context.Context, plan, platform string) (string, error) {
	userID, err := s.requireUser(ctx, "create checkout")
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	var email string
	if s.user != nil {
		email = s.user.Email
	}
	s.mu.RUnlock()
	if email == "" {
		return "", fmt.Errorf("create checkout: user email is not available")
	}

	url, err := s.repos.Subscriptions.CreateCheckout(ctx, userID, plan, email, platform)
	if err != nil {
		return "", fmt.Errorf("create checkout: %w", err)
	}
	return url, nil
}

// ApplySubscriptionPush installs a subscription row delivered by the
// real-time channel as the new billing state, without a re-fetch. Rows for
// other users (stale channel, races around sign-out) are dropped.
func (s *Store) ApplySubscriptionPush(sub models.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == "" || (sub.UserID != "" && sub.UserID != s.userID) {
		s.log.Warn("dropping subscription push for another user",
			logger.String("pushed_user_id", sub.UserID))
		return
	}

	s.subscription = &sub
	s.log.Info("subscription updated from push",
		logger.String("status", sub.Status), logger.String("plan", sub.Plan))
}
