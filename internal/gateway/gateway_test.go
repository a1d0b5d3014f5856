package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dotlabs/dot-agent/internal/logger"
)

func TestRequestGetSerializesParams(t *testing.T) {
	var gotQuery map[string][]string
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`[{"id":"t1"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.Nop())
	raw, err := c.Request(context.Background(), "task/fetch", http.MethodGet, Params{"completed": "true"}, "user-1")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if gotPath != "/task/fetch" {
		t.Errorf("path = %q", gotPath)
	}
	if got := gotQuery["user_id"]; len(got) != 1 || got[0] != "user-1" {
		t.Errorf("user_id query = %v", got)
	}
	if got := gotQuery["completed"]; len(got) != 1 || got[0] != "true" {
		t.Errorf("completed query = %v", got)
	}
	if string(raw) != `[{"id":"t1"}]` {
		t.Errorf("raw = %s", raw)
	}
}

func TestRequestGetRejectsNonParamsPayload(t *testing.T) {
	c := NewClient("http://unused", logger.Nop())
	_, err := c.Request(context.Background(), "task/fetch", http.MethodGet, struct{}{}, "user-1")
	if err == nil {
		t.Fatal("expected error for non-Params GET payload")
	}
}

func TestRequestPostMergesUserID(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.Write([]byte(`[{"id":"t1","title":"Buy milk"}]`))
	}))
	defer srv.Close()

	type draft struct {
		Title string `json:"title"`
	}
	c := NewClient(srv.URL, logger.Nop())
	if _, err := c.Request(context.Background(), "task/create", http.MethodPost, draft{Title: "Buy milk"}, "user-1"); err != nil {
		t.Fatalf("Request: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotBody["title"] != "Buy milk" {
		t.Errorf("title = %v", gotBody["title"])
	}
	if gotBody["user_id"] != "user-1" {
		t.Errorf("user_id = %v; the identity field must be merged into every write", gotBody["user_id"])
	}
}

func TestRequestErrorUsesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"title is required"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.Nop())
	_, err := c.Request(context.Background(), "task/create", http.MethodPost, nil, "user-1")

	var gwErr *Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if gwErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", gwErr.Status)
	}
	if gwErr.Message != "title is required" {
		t.Errorf("message = %q", gwErr.Message)
	}
}

func TestRequestErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.Nop())
	_, err := c.Request(context.Background(), "task/fetch", http.MethodGet, nil, "user-1")

	var gwErr *Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if gwErr.Message != http.StatusText(http.StatusBadGateway) {
		t.Errorf("message = %q", gwErr.Message)
	}
}

func TestRequestEmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.Nop())
	raw, err := c.Request(context.Background(), "task/delete", http.MethodPost, map[string]string{"task_id": "t1"}, "user-1")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if raw != nil {
		t.Errorf("expected nil body, got %s", raw)
	}
}
