// Package auth defines the session lifecycle events that drive the store's
// load/reset cycle. The identity provider itself (hosted auth, token
// storage, refresh) lives outside the agent; whatever fronts it feeds
// events into the store through this contract.
package auth

import "context"

// EventType enumerates session transitions.
type EventType string

const (
	SignedIn       EventType = "signed_in"
	SignedOut      EventType = "signed_out"
	TokenRefreshed EventType = "token_refreshed"
)

// Event is one session transition. UserID and Email are set for SignedIn.
type Event struct {
	Type   EventType
	UserID string
	Email  string
}

// SignOuter terminates the current session. The store calls it on the shared
// authentication-error path: an operation that cannot resolve a user id ends
// the session rather than attempting partial work.
type SignOuter interface {
	SignOut(ctx context.Context) error
}

// SignOutFunc adapts a function to the SignOuter interface.
type SignOutFunc func(ctx context.Context) error

func (f SignOutFunc) SignOut(ctx context.Context) error { return f(ctx) }

// StaticProvider is a development session source: it emits one SignedIn for
// a fixed identity and turns SignOut into a SignedOut event.
type StaticProvider struct {
	userID string
	email  string
	events chan Event
}

// NewStaticProvider creates a provider for the given identity.
func NewStaticProvider(userID, email string) *StaticProvider {
	p := &StaticProvider{
		userID: userID,
		email:  email,
		events: make(chan Event, 4),
	}
	p.events <- Event{Type: SignedIn, UserID: userID, Email: email}
	return p
}

// Events returns the session event stream.
func (p *StaticProvider) Events() <-chan Event { return p.events }

// SignOut emits a SignedOut event.
func (p *StaticProvider) SignOut(ctx context.Context) error {
	select {
	case p.events <- Event{Type: SignedOut}:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
