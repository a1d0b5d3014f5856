// Package apierror provides RFC 9457 Problem Details responses for the
// agent's local API.
package apierror

// ProblemDetails represents an RFC 9457 Problem Details response.
// See https://www.rfc-editor.org/rfc/rfc9457.html
type ProblemDetails struct {
	// RFC 9457 standard fields
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Extension fields
	RequestID   string       `json:"request_id,omitempty"`
	UserMessage string       `json:"user_message,omitempty"` // UI-safe message
	Action      string       `json:"action,omitempty"`       // client action hint, e.g. "sign_in"
	Errors      []FieldError `json:"errors,omitempty"`
}

// FieldError reports a validation failure for one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error implements the error interface.
func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}
