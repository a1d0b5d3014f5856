// Package store is the synchronized client-side state container. It holds
// every entity collection in memory as a cache of server truth, mediates all
// webhook round trips through the repository layer, applies optimistic or
// confirmed updates, and rolls back to exact snapshots on failure.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dotlabs/dot-agent/internal/auth"
	"github.com/dotlabs/dot-agent/internal/logger"
	"github.com/dotlabs/dot-agent/internal/models"
	"github.com/dotlabs/dot-agent/internal/repository"
)

// AuthError is returned when an operation needs an authenticated user and
// none is available. Raising it also terminates the session: operations
// without an identity are never partially attempted.
type AuthError struct {
	Op string
}

func (e *AuthError) Error() string {
	return "store: " + e.Op + ": user not authenticated"
}

// ReminderScheduler is the notification side effect invoked once per created
// task.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, task *models.Task) error
}

// Repositories bundles the per-resource webhook wrappers the store operates
// through.
type Repositories struct {
	Users         repository.UserRepository
	Tasks         repository.TaskRepository
	Categories    repository.CategoryRepository
	Subscriptions repository.SubscriptionRepository
	Chat          repository.ChatRepository
	Assistant     repository.AssistantRepository
}

// Store is constructed once at startup and injected into every consumer.
// All methods are safe for concurrent use; gateway round trips never run
// under the state lock.
type Store struct {
	repos     Repositories
	scheduler ReminderScheduler
	signOut   auth.SignOuter
	log       logger.Logger

	mu           sync.RWMutex
	userID       string // session identity, set on sign-in
	sessionEmail string
	user         *models.User
	settings     *models.UserSettings
	schedule     *models.UserSchedule
	subscription *models.Subscription
	categories   []models.Category
	tasks        []models.Task
	chat         []models.ChatMessage

	loaded     bool // at least one load completed since sign-in
	loading    bool // blocking initial load in progress
	refreshing bool // background reload in progress
	aiTyping   bool

	// inflight tracks entities with an optimistic write awaiting its
	// response; a concurrent refresh skips these so the write's own
	// reconciliation (or rollback) wins.
	inflight map[string]int

	newID func() string
	now   func() time.Time
}

// New creates a store. The scheduler may be nil when reminders are disabled.
func New(repos Repositories, scheduler ReminderScheduler, signOut auth.SignOuter, log logger.Logger) *Store {
	return &Store{
		repos:     repos,
		scheduler: scheduler,
		signOut:   signOut,
		log:       log,
		inflight:  make(map[string]int),
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
	}
}

// Run consumes session events until ctx is done. Sign-in triggers a full
// load, sign-out resets all state, token refreshes leave state untouched.
func (s *Store) Run(ctx context.Context, events <-chan auth.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case auth.SignedIn:
				s.log.Info("session signed in", logger.String("user_id", ev.UserID))
				s.setSession(ev.UserID, ev.Email)
				s.Load(ctx)
			case auth.SignedOut:
				s.log.Info("session signed out")
				s.Reset()
			case auth.TokenRefreshed:
				// State is keyed by user id, which a token refresh
				// cannot change.
			}
		}
	}
}

func (s *Store) setSession(userID, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.sessionEmail = email
}

// Reset drops every collection and returns the store to its uninitialized
// state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.sessionEmail = ""
	s.user = nil
	s.settings = nil
	s.schedule = nil
	s.subscription = nil
	s.categories = nil
	s.tasks = nil
	s.chat = nil
	s.loaded = false
	s.loading = false
	s.refreshing = false
	s.aiTyping = false
	s.inflight = make(map[string]int)
}

// requireUser resolves the session's user id. When none is available it
// terminates the session and returns an AuthError; the caller must not have
// touched the gateway yet.
func (s *Store) requireUser(ctx context.Context, op string) (string, error) {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID != "" {
		return userID, nil
	}

	s.log.Error("operation requires authentication, signing out", logger.String("op", op))
	if s.signOut != nil {
		if err := s.signOut.SignOut(ctx); err != nil {
			s.log.Warn("sign-out failed", logger.Err(err))
		}
	}
	return "", &AuthError{Op: op}
}

// write-guard helpers. Keys are "task:<id>" for tasks and the bare entity
// name for singleton rows.
func (s *Store) beginWrite(key string) {
	s.mu.Lock()
	s.inflight[key]++
	s.mu.Unlock()
}

func (s *Store) endWrite(key string) {
	s.mu.Lock()
	if s.inflight[key] > 1 {
		s.inflight[key]--
	} else {
		delete(s.inflight, key)
	}
	s.mu.Unlock()
}

// writeLocked reports whether key has an in-flight optimistic write. Callers
// must hold mu.
func (s *Store) writeLocked(key string) bool {
	return s.inflight[key] > 0
}

// User returns the current profile, or nil before load.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Settings returns the current settings row, or nil.
func (s *Store) Settings() *models.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil
	}
	v := *s.settings
	return &v
}

// Schedule returns the current schedule row, or nil.
func (s *Store) Schedule() *models.UserSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.schedule == nil {
		return nil
	}
	v := *s.schedule
	return &v
}

// Subscription returns the current billing state, or nil.
func (s *Store) Subscription() *models.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.subscription == nil {
		return nil
	}
	v := *s.subscription
	return &v
}

// Categories returns a copy of the category collection.
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Tasks returns a copy of the task collection.
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// ChatMessages returns a copy of the conversation in insertion order.
func (s *Store) ChatMessages() []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ChatMessage, len(s.chat))
	copy(out, s.chat)
	return out
}

// Status reports the store's lifecycle flags.
type Status struct {
	Loading    bool `json:"loading"`
	Refreshing bool `json:"refreshing"`
	AITyping   bool `json:"ai_typing"`
	Loaded     bool `json:"loaded"`
}

// Status returns the current lifecycle flags.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Loading:    s.loading,
		Refreshing: s.refreshing,
		AITyping:   s.aiTyping,
		Loaded:     s.loaded,
	}
}
