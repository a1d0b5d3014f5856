package apierror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	// Set gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

func TestProblemDetailsJSON(t *testing.T) {
	problem := &ProblemDetails{
		Type:        TypeValidation,
		Title:       TitleValidation,
		Status:      http.StatusBadRequest,
		Detail:      "Field validation failed",
		Instance:    "/api/v1/tasks",
		RequestID:   "req-abc123",
		UserMessage: "Please fix the errors",
		Action:      "fix_validation",
		Errors: []FieldError{
			{Field: "title", Message: "is required", Code: "required"},
			{Field: "repeat_rule", Message: "must be one of daily, weekly, monthly, yearly, custom", Code: "invalid_enum"},
		},
	}

	data, err := json.Marshal(problem)
	if err != nil {
		t.Fatalf("Failed to marshal ProblemDetails: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	// Check standard RFC 9457 fields
	if result["type"] != TypeValidation {
		t.Errorf("Expected type=%q, got %q", TypeValidation, result["type"])
	}
	if result["title"] != TitleValidation {
		t.Errorf("Expected title=%q, got %q", TitleValidation, result["title"])
	}
	if result["status"] != float64(http.StatusBadRequest) {
		t.Errorf("Expected status=%d, got %v", http.StatusBadRequest, result["status"])
	}
	if result["instance"] != "/api/v1/tasks" {
		t.Errorf("Expected instance=%q, got %q", "/api/v1/tasks", result["instance"])
	}

	// Check extension fields
	if result["request_id"] != "req-abc123" {
		t.Errorf("Expected request_id=%q, got %q", "req-abc123", result["request_id"])
	}
	if result["action"] != "fix_validation" {
		t.Errorf("Expected action=%q, got %q", "fix_validation", result["action"])
	}
	errs, ok := result["errors"].([]interface{})
	if !ok || len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %v", result["errors"])
	}
}

func TestProblemDetailsJSONOmitsEmpty(t *testing.T) {
	problem := &ProblemDetails{
		Type:   TypeInternal,
		Title:  TitleInternal,
		Status: http.StatusInternalServerError,
	}

	data, err := json.Marshal(problem)
	if err != nil {
		t.Fatalf("Failed to marshal ProblemDetails: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	omittedFields := []string{"detail", "instance", "request_id", "user_message", "action", "errors"}
	for _, field := range omittedFields {
		if _, exists := result[field]; exists {
			t.Errorf("Expected field %q to be omitted when empty, but it was present", field)
		}
	}

	requiredFields := []string{"type", "title", "status"}
	for _, field := range requiredFields {
		if _, exists := result[field]; !exists {
			t.Errorf("Expected required field %q to be present", field)
		}
	}
}

func TestWriteProblemContentType(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteProblem(c, NewUnauthorizedError("req-1"))

	if got := w.Header().Get("Content-Type"); got != ContentTypeProblemJSON {
		t.Errorf("Content-Type = %q, want %q", got, ContentTypeProblemJSON)
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(w.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Action != "sign_in" {
		t.Errorf("action = %q, want sign_in", problem.Action)
	}
}

func TestGetRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)

	if got := GetRequestID(c); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}

	c.Request.Header.Set("X-Request-ID", "from-header")
	if got := GetRequestID(c); got != "from-header" {
		t.Errorf("expected header fallback, got %q", got)
	}

	c.Set("request_id", "from-context")
	if got := GetRequestID(c); got != "from-context" {
		t.Errorf("expected context value to win, got %q", got)
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		problem    *ProblemDetails
		wantType   string
		wantStatus int
	}{
		{"validation", NewValidationError("r", nil), TypeValidation, http.StatusBadRequest},
		{"bad request", NewBadRequestError("r", "d", "u"), TypeBadRequest, http.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("r"), TypeUnauthorized, http.StatusUnauthorized},
		{"not found", NewNotFoundError("r", "task", "t1"), TypeNotFound, http.StatusNotFound},
		{"upstream", NewUpstreamError("r", "webhook said no"), TypeUpstream, http.StatusBadGateway},
		{"internal", NewInternalError("r"), TypeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.problem.Type != tt.wantType {
				t.Errorf("type = %q, want %q", tt.problem.Type, tt.wantType)
			}
			if tt.problem.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.problem.Status, tt.wantStatus)
			}
			if tt.problem.RequestID != "r" {
				t.Errorf("request_id = %q", tt.problem.RequestID)
			}
		})
	}
}
