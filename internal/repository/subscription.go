package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dotlabs/dot-agent/internal/gateway"
	"github.com/dotlabs/dot-agent/internal/models"
)

type subscriptionRepository struct {
	gw *gateway.Client
}

// NewSubscriptionRepository creates a subscription repository over the
// webhook gateway.
func NewSubscriptionRepository(gw *gateway.Client) SubscriptionRepository {
	return &subscriptionRepository{gw: gw}
}

func (r *subscriptionRepository) Fetch(ctx context.Context, userID string) (*models.Subscription, error) {
	raw, err := r.gw.Request(ctx, "subscription/fetch", http.MethodPost, map[string]string{"user_id": userID}, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching subscription: %w", err)
	}
	return decodeFirst[models.Subscription](raw, "subscription/fetch")
}

func (r *subscriptionRepository) CreateCheckout(ctx context.Context, userID, plan, email, platform string) (string, error) {
	payload := map[string]string{
		"plan":     plan,
		"email":    email,
		"platform": platform,
	}

	raw, err := r.gw.Request(ctx, "subscription/create", http.MethodPost, payload, userID)
	if err != nil {
		return "", fmt.Errorf("creating checkout session: %w", err)
	}

	// subscription/create returns a single object, not an array.
	var resp struct {
		CheckoutURL string `json:"checkoutUrl"`
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", fmt.Errorf("decoding subscription/create response: %w", err)
		}
	}
	if resp.CheckoutURL == "" {
		return "", fmt.Errorf("subscription/create did not return a checkout URL")
	}
	return resp.CheckoutURL, nil
}
