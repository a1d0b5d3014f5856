package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dotlabs/dot-agent/internal/gateway"
	"github.com/dotlabs/dot-agent/internal/logger"
	"github.com/dotlabs/dot-agent/internal/models"
)

// fakeWebhook records the last request and replies with a canned body per
// path.
type fakeWebhook struct {
	t *testing.T

	lastPath string
	lastBody map[string]any

	responses map[string]string
	status    int
}

func newFakeWebhook(t *testing.T) (*fakeWebhook, *gateway.Client) {
	f := &fakeWebhook{t: t, responses: map[string]string{}, status: http.StatusOK}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.lastPath = r.URL.Path
		f.lastBody = nil
		if r.Body != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				f.lastBody = body
			}
		}
		w.WriteHeader(f.status)
		if resp, ok := f.responses[r.URL.Path]; ok {
			w.Write([]byte(resp))
		}
	}))
	t.Cleanup(srv.Close)
	return f, gateway.NewClient(srv.URL, logger.Nop())
}

func TestTaskCreateReturnsCanonicalRecord(t *testing.T) {
	f, gw := newFakeWebhook(t)
	f.responses["/task/create"] = `[{"id":"server-id","title":"Buy milk","position":4}]`
	repo := NewTaskRepository(gw)

	task, err := repo.Create(context.Background(), "user-1", models.TaskDraft{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID != "server-id" || task.Position != 4 {
		t.Errorf("unexpected canonical task %+v", task)
	}
	if f.lastBody["title"] != "Buy milk" || f.lastBody["user_id"] != "user-1" {
		t.Errorf("unexpected request body %v", f.lastBody)
	}
}

func TestTaskCreateEmptyResponseIsError(t *testing.T) {
	f, gw := newFakeWebhook(t)
	f.responses["/task/create"] = `[]`
	repo := NewTaskRepository(gw)

	if _, err := repo.Create(context.Background(), "user-1", models.TaskDraft{Title: "x"}); err == nil {
		t.Fatal("expected error when mutation returns no record")
	}
}

func TestTaskUpdateCarriesTaskID(t *testing.T) {
	f, gw := newFakeWebhook(t)
	f.responses["/task/update"] = `[{"id":"t1","title":"Renamed"}]`
	repo := NewTaskRepository(gw)

	title := "Renamed"
	if _, err := repo.Update(context.Background(), "user-1", "t1", models.TaskUpdate{Title: &title}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if f.lastBody["task_id"] != "t1" {
		t.Errorf("expected task_id in body, got %v", f.lastBody)
	}
	if f.lastBody["title"] != "Renamed" {
		t.Errorf("expected changed field in body, got %v", f.lastBody)
	}
	if _, present := f.lastBody["due_at"]; present {
		t.Error("expected untouched nullable field absent from body")
	}
}

func TestTaskUpdateSendsExplicitNullToClear(t *testing.T) {
	f, gw := newFakeWebhook(t)
	f.responses["/task/update"] = `[{"id":"t1"}]`
	repo := NewTaskRepository(gw)

	upd := models.TaskUpdate{DueAt: models.NullTime()}
	if _, err := repo.Update(context.Background(), "user-1", "t1", upd); err != nil {
		t.Fatalf("Update: %v", err)
	}
	val, present := f.lastBody["due_at"]
	if !present {
		t.Fatal("expected due_at present in body")
	}
	if val != nil {
		t.Errorf("expected explicit null, got %v", val)
	}
}

func TestTaskComplete(t *testing.T) {
	f, gw := newFakeWebhook(t)
	repo := NewTaskRepository(gw)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.Complete(context.Background(), "user-1", "t1", &at); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if f.lastPath != "/task/complete" {
		t.Errorf("path = %q", f.lastPath)
	}
	if f.lastBody["completed_at"] != at.Format(time.RFC3339) {
		t.Errorf("completed_at = %v", f.lastBody["completed_at"])
	}

	// Clearing sends an explicit null, not an absent field.
	if err := repo.Complete(context.Background(), "user-1", "t1", nil); err != nil {
		t.Fatalf("Complete(nil): %v", err)
	}
	val, present := f.lastBody["completed_at"]
	if !present || val != nil {
		t.Errorf("expected explicit null completed_at, got %v (present=%v)", val, present)
	}
}

func TestCategoryEndpointsUseCatID(t *testing.T) {
	f, gw := newFakeWebhook(t)
	f.responses["/category/update"] = `[{"id":"c1","name":"Work"}]`
	repo := NewCategoryRepository(gw)

	name := "Work"
	if _, err := repo.Update(context.Background(), "user-1", "c1", models.CategoryUpdate{Name: &name}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if f.lastBody["cat_id"] != "c1" {
		t.Errorf("expected cat_id key, got %v", f.lastBody)
	}

	if err := repo.Delete(context.Background(), "user-1", "c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.lastPath != "/category/delete" || f.lastBody["cat_id"] != "c1" {
		t.Errorf("delete request: path=%q body=%v", f.lastPath, f.lastBody)
	}
}

func TestSettingsUpdateUsesAbbreviatedKeys(t *testing.T) {
	f, gw := newFakeWebhook(t)
	f.responses["/user/settings/update"] = `[{"user_id":"user-1","theme":"light"}]`
	repo := NewUserRepository(gw)

	theme := models.ThemeLight
	lang := "ar"
	enabled := true
	upd := models.SettingsUpdate{Theme: &theme, Language: &lang, NotificationsEnabled: &enabled}
	if _, err := repo.UpdateSettings(context.Background(), "user-1", upd); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	if f.lastBody["theme"] != "light" {
		t.Errorf("theme = %v", f.lastBody["theme"])
	}
	if f.lastBody["lang"] != "ar" {
		t.Errorf("expected abbreviated lang key, got %v", f.lastBody)
	}
	if f.lastBody["notification"] != true {
		t.Errorf("expected abbreviated notification key, got %v", f.lastBody)
	}
	if _, present := f.lastBody["location_enabled"]; present {
		t.Error("expected untouched field absent from body")
	}
}

func TestUserFetchAbsentRow(t *testing.T) {
	f, gw := newFakeWebhook(t)
	f.responses["/user/settings/fetch"] = `[]`
	repo := NewUserRepository(gw)

	settings, err := repo.FetchSettings(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("FetchSettings: %v", err)
	}
	if settings != nil {
		t.Errorf("expected nil for absent row, got %+v", settings)
	}
}

func TestCheckoutDecodesSingleObject(t *testing.T) {
	f, gw := newFakeWebhook(t)
	f.responses["/subscription/create"] = `{"checkoutUrl":"https://pay.example.com/s/1"}`
	repo := NewSubscriptionRepository(gw)

	url, err := repo.CreateCheckout(context.Background(), "user-1", "monthly", "user@example.com", "web")
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if url != "https://pay.example.com/s/1" {
		t.Errorf("url = %q", url)
	}
	if f.lastBody["plan"] != "monthly" || f.lastBody["email"] != "user@example.com" {
		t.Errorf("body = %v", f.lastBody)
	}
}

func TestCheckoutMissingURLIsError(t *testing.T) {
	f, gw := newFakeWebhook(t)
	f.responses["/subscription/create"] = `{}`
	repo := NewSubscriptionRepository(gw)

	if _, err := repo.CreateCheckout(context.Background(), "user-1", "monthly", "e@x.com", "web"); err == nil {
		t.Fatal("expected error for missing checkout URL")
	}
}

func TestAssistantDoTask(t *testing.T) {
	f, gw := newFakeWebhook(t)
	f.responses["/ai/do_task"] = `[{"output":"Task created."}]`
	repo := NewAssistantRepository(gw)

	out, err := repo.DoTask(context.Background(), "user-1", "remind me to buy milk")
	if err != nil {
		t.Fatalf("DoTask: %v", err)
	}
	if out != "Task created." {
		t.Errorf("output = %q", out)
	}
	if f.lastBody["chatInput"] != "remind me to buy milk" {
		t.Errorf("body = %v", f.lastBody)
	}
}

func TestAssistantEmptyOutputIsError(t *testing.T) {
	f, gw := newFakeWebhook(t)
	f.responses["/ai/do_task"] = `[{"output":""}]`
	repo := NewAssistantRepository(gw)

	if _, err := repo.DoTask(context.Background(), "user-1", "hello"); err == nil {
		t.Fatal("expected error for empty assistant output")
	}
}
