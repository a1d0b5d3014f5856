package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dotlabs/dot-agent/internal/logger"
	"github.com/dotlabs/dot-agent/internal/models"
)

// Hand-written repository mocks. Function fields override behavior per
// test; unset fields fall back to a benign default. Call counters let tests
// assert the gateway was (or was not) touched.

type mockUserRepo struct {
	mu            sync.Mutex
	fetchCalls    int
	settingsCalls int

	user     *models.User
	settings *models.UserSettings
	schedule *models.UserSchedule

	fetchErr    error
	settingsErr error
	scheduleErr error

	updateSettingsFn func(upd models.SettingsUpdate) (*models.UserSettings, error)
	updateScheduleFn func(upd models.ScheduleUpdate) (*models.UserSchedule, error)
	updateFn         func(upd models.ProfileUpdate) (*models.User, error)
}

func (m *mockUserRepo) Fetch(ctx context.Context, userID string) (*models.User, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.user, nil
}

func (m *mockUserRepo) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	if m.updateFn != nil {
		return m.updateFn(upd)
	}
	return nil, fmt.Errorf("unexpected profile update")
}

func (m *mockUserRepo) FetchSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	m.mu.Lock()
	m.settingsCalls++
	m.mu.Unlock()
	if m.settingsErr != nil {
		return nil, m.settingsErr
	}
	return m.settings, nil
}

func (m *mockUserRepo) UpdateSettings(ctx context.Context, userID string, upd models.SettingsUpdate) (*models.UserSettings, error) {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(upd)
	}
	return nil, fmt.Errorf("unexpected settings update")
}

func (m *mockUserRepo) FetchSchedule(ctx context.Context, userID string) (*models.UserSchedule, error) {
	if m.scheduleErr != nil {
		return nil, m.scheduleErr
	}
	return m.schedule, nil
}

func (m *mockUserRepo) UpdateSchedule(ctx context.Context, userID string, upd models.ScheduleUpdate) (*models.UserSchedule, error) {
	if m.updateScheduleFn != nil {
		return m.updateScheduleFn(upd)
	}
	return nil, fmt.Errorf("unexpected schedule update")
}

type mockTaskRepo struct {
	mu            sync.Mutex
	createCalls   int
	updateCalls   int
	deleteCalls   int
	completeCalls int

	tasks    []models.Task
	fetchErr error
	fetchFn  func() ([]models.Task, error)

	createFn   func(draft models.TaskDraft) (*models.Task, error)
	updateFn   func(taskID string, upd models.TaskUpdate) (*models.Task, error)
	deleteErr  error
	completeFn func(taskID string, completedAt *time.Time) error
}

func (m *mockTaskRepo) Fetch(ctx context.Context, userID string) ([]models.Task, error) {
	if m.fetchFn != nil {
		return m.fetchFn()
	}
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.tasks, nil
}

func (m *mockTaskRepo) Create(ctx context.Context, userID string, draft models.TaskDraft) (*models.Task, error) {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()
	if m.createFn != nil {
		return m.createFn(draft)
	}
	return nil, fmt.Errorf("unexpected task create")
}

func (m *mockTaskRepo) Update(ctx context.Context, userID, taskID string, upd models.TaskUpdate) (*models.Task, error) {
	m.mu.Lock()
	m.updateCalls++
	m.mu.Unlock()
	if m.updateFn != nil {
		return m.updateFn(taskID, upd)
	}
	return nil, fmt.Errorf("unexpected task update")
}

func (m *mockTaskRepo) Delete(ctx context.Context, userID, taskID string) error {
	m.mu.Lock()
	m.deleteCalls++
	m.mu.Unlock()
	return m.deleteErr
}

func (m *mockTaskRepo) Complete(ctx context.Context, userID, taskID string, completedAt *time.Time) error {
	m.mu.Lock()
	m.completeCalls++
	m.mu.Unlock()
	if m.completeFn != nil {
		return m.completeFn(taskID, completedAt)
	}
	return nil
}

type mockCategoryRepo struct {
	mu          sync.Mutex
	createCalls int
	deleteCalls int

	categories []models.Category
	fetchErr   error

	createFn  func(draft models.CategoryDraft) (*models.Category, error)
	updateFn  func(categoryID string, upd models.CategoryUpdate) (*models.Category, error)
	deleteErr error
}

func (m *mockCategoryRepo) Fetch(ctx context.Context, userID string) ([]models.Category, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.categories, nil
}

func (m *mockCategoryRepo) Create(ctx context.Context, userID string, draft models.CategoryDraft) (*models.Category, error) {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()
	if m.createFn != nil {
		return m.createFn(draft)
	}
	return nil, fmt.Errorf("unexpected category create")
}

func (m *mockCategoryRepo) Update(ctx context.Context, userID, categoryID string, upd models.CategoryUpdate) (*models.Category, error) {
	if m.updateFn != nil {
		return m.updateFn(categoryID, upd)
	}
	return nil, fmt.Errorf("unexpected category update")
}

func (m *mockCategoryRepo) Delete(ctx context.Context, userID, categoryID string) error {
	m.mu.Lock()
	m.deleteCalls++
	m.mu.Unlock()
	return m.deleteErr
}

type mockSubscriptionRepo struct {
	subscription *models.Subscription
	fetchErr     error
	checkoutFn   func(plan, email, platform string) (string, error)
}

func (m *mockSubscriptionRepo) Fetch(ctx context.Context, userID string) (*models.Subscription, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.subscription, nil
}

func (m *mockSubscriptionRepo) CreateCheckout(ctx context.Context, userID, plan, email, platform string) (string, error) {
	if m.checkoutFn != nil {
		return m.checkoutFn(plan, email, platform)
	}
	return "", fmt.Errorf("unexpected checkout")
}

type mockChatRepo struct {
	messages []models.ChatMessage
	fetchErr error
}

func (m *mockChatRepo) Fetch(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.messages, nil
}

type mockAssistantRepo struct {
	mu    sync.Mutex
	calls int

	output string
	err    error
}

func (m *mockAssistantRepo) DoTask(ctx context.Context, userID, input string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

type mockScheduler struct {
	mu    sync.Mutex
	tasks []models.Task
}

func (m *mockScheduler) ScheduleReminder(ctx context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, *task)
	return nil
}

type mockSignOuter struct {
	mu    sync.Mutex
	calls int
}

func (m *mockSignOuter) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return nil
}

// testEnv bundles a store wired to fresh mocks with a signed-in session.
type testEnv struct {
	store     *Store
	users     *mockUserRepo
	tasks     *mockTaskRepo
	cats      *mockCategoryRepo
	subs      *mockSubscriptionRepo
	chat      *mockChatRepo
	assistant *mockAssistantRepo
	scheduler *mockScheduler
	signOut   *mockSignOuter
}

const testUserID = "user-1"

func newTestEnv() *testEnv {
	env := &testEnv{
		users:     &mockUserRepo{},
		tasks:     &mockTaskRepo{},
		cats:      &mockCategoryRepo{},
		subs:      &mockSubscriptionRepo{},
		chat:      &mockChatRepo{},
		assistant: &mockAssistantRepo{},
		scheduler: &mockScheduler{},
		signOut:   &mockSignOuter{},
	}
	env.store = New(Repositories{
		Users:         env.users,
		Tasks:         env.tasks,
		Categories:    env.cats,
		Subscriptions: env.subs,
		Chat:          env.chat,
		Assistant:     env.assistant,
	}, env.scheduler, env.signOut, logger.Nop())
	env.store.setSession(testUserID, "user@example.com")
	return env
}
