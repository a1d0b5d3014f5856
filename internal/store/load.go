package store

import (
	"context"
	"sync"

	"github.com/dotlabs/dot-agent/internal/logger"
	"github.com/dotlabs/dot-agent/internal/models"
)

// loadResults collects the outcome of the seven parallel fetches. A failed
// fetch leaves its zero value; the load still completes (all-settled
// semantics) and the failure is only logged.
type loadResults struct {
	user         *models.User
	settings     *models.UserSettings
	settingsOK   bool // settings fetch succeeded (row may still be absent)
	schedule     *models.UserSchedule
	subscription *models.Subscription
	categories   []models.Category
	tasks        []models.Task
	chat         []models.ChatMessage
}

// Load performs the blocking initial fetch of all collections. Subsequent
// calls behave like Refresh. With no session it clears the collections and
// leaves the store uninitialized.
func (s *Store) Load(ctx context.Context) {
	s.load(ctx)
}

// Refresh is the explicit reload entry point for external triggers such as
// app foregrounding or pull-to-refresh. The first load after sign-in sets
// the blocking loading flag; later calls set only the refreshing flag so the
// UI can keep rendering current data.
func (s *Store) Refresh(ctx context.Context) {
	s.load(ctx)
}

func (s *Store) load(ctx context.Context) {
	s.mu.Lock()
	userID := s.userID
	if userID == "" {
		s.user = nil
		s.settings = nil
		s.schedule = nil
		s.subscription = nil
		s.categories = nil
		s.tasks = nil
		s.chat = nil
		s.loading = false
		s.refreshing = false
		s.mu.Unlock()
		return
	}
	if s.loaded {
		s.refreshing = true
	} else {
		s.loading = true
	}
	email := s.sessionEmail
	s.mu.Unlock()

	res := s.fetchAll(ctx, userID)
	s.apply(userID, email, res)
}

// fetchAll issues the seven collection fetches in parallel and waits for all
// of them. Each fetch succeeds or fails independently.
func (s *Store) fetchAll(ctx context.Context, userID string) *loadResults {
	res := &loadResults{}
	var wg sync.WaitGroup

	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	run(func() {
		user, err := s.repos.Users.Fetch(ctx, userID)
		if err != nil {
			s.log.Warn("user fetch failed", logger.Err(err))
			return
		}
		res.user = user
	})
	run(func() {
		settings, err := s.repos.Users.FetchSettings(ctx, userID)
		if err != nil {
			s.log.Warn("settings fetch failed", logger.Err(err))
			return
		}
		res.settings = settings
		res.settingsOK = true
	})
	run(func() {
		schedule, err := s.repos.Users.FetchSchedule(ctx, userID)
		if err != nil {
			s.log.Warn("schedule fetch failed", logger.Err(err))
			return
		}
		res.schedule = schedule
	})
	run(func() {
		sub, err := s.repos.Subscriptions.Fetch(ctx, userID)
		if err != nil {
			s.log.Warn("subscription fetch failed", logger.Err(err))
			return
		}
		res.subscription = sub
	})
	run(func() {
		categories, err := s.repos.Categories.Fetch(ctx, userID)
		if err != nil {
			s.log.Warn("category fetch failed", logger.Err(err))
			return
		}
		res.categories = categories
	})
	run(func() {
		tasks, err := s.repos.Tasks.Fetch(ctx, userID)
		if err != nil {
			s.log.Warn("task fetch failed", logger.Err(err))
			return
		}
		res.tasks = tasks
	})
	run(func() {
		chat, err := s.repos.Chat.Fetch(ctx, userID)
		if err != nil {
			s.log.Warn("chat fetch failed", logger.Err(err))
			return
		}
		res.chat = chat
	})

	wg.Wait()
	return res
}

// apply installs fetched collections, skipping any entity that has an
// optimistic write in flight so the write's own response (or rollback)
// decides its final value.
func (s *Store) apply(userID, email string, res *loadResults) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The session may have ended or changed while fetches were in flight.
	if s.userID != userID {
		s.loading = false
		s.refreshing = false
		return
	}

	if !s.writeLocked(guardUser) {
		if res.user != nil {
			merged := *res.user
			// The profile row does not carry the auth email.
			if merged.Email == "" {
				merged.Email = email
			}
			s.user = &merged
		} else {
			s.user = nil
		}
	}

	if !s.writeLocked(guardSettings) {
		if res.settingsOK && res.settings == nil {
			// The backend trigger creates this row on signup, so an
			// absent row is a backend problem worth surfacing in logs.
			s.log.Error("user settings not found; signup trigger may have failed",
				logger.String("user_id", userID))
		}
		s.settings = res.settings
	}

	if !s.writeLocked(guardSchedule) {
		s.schedule = res.schedule
	}

	s.subscription = res.subscription

	if res.categories != nil {
		s.categories = res.categories
	} else {
		s.categories = []models.Category{}
	}

	s.tasks = s.mergeTasksLocked(res.tasks)

	if res.chat != nil {
		s.chat = res.chat
	} else {
		s.chat = []models.ChatMessage{}
	}

	s.loaded = true
	s.loading = false
	s.refreshing = false
}

// mergeTasksLocked replaces the task collection with fetched records but
// keeps the local copy of any task whose optimistic write has not resolved
// yet. Callers must hold mu.
func (s *Store) mergeTasksLocked(fetched []models.Task) []models.Task {
	if fetched == nil {
		fetched = []models.Task{}
	}

	var guarded []models.Task
	for _, t := range s.tasks {
		if s.writeLocked(guardTask(t.ID)) {
			guarded = append(guarded, t)
		}
	}
	if len(guarded) == 0 {
		return fetched
	}

	merged := make([]models.Task, 0, len(fetched))
	replaced := make(map[string]bool, len(guarded))
	for _, t := range fetched {
		kept := t
		for _, g := range guarded {
			if g.ID == t.ID {
				kept = g
				replaced[g.ID] = true
				break
			}
		}
		merged = append(merged, kept)
	}
	// Guarded tasks missing from the fetch stay until their write settles.
	for _, g := range guarded {
		if !replaced[g.ID] {
			merged = append(merged, g)
		}
	}
	return merged
}

// Guard keys for singleton rows.
const (
	guardUser     = "user"
	guardSettings = "settings"
	guardSchedule = "schedule"
)

func guardTask(id string) string { return "task:" + id }
