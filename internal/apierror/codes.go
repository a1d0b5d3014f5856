package apierror

// Error type URIs following the urn:dot:error:* pattern, used as the "type"
// field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:dot:error:validation"

	// TypeBadRequest indicates a malformed request (400)
	TypeBadRequest = "urn:dot:error:bad_request"

	// TypeUnauthorized indicates there is no signed-in session (401)
	TypeUnauthorized = "urn:dot:error:unauthorized"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:dot:error:not_found"

	// TypeUpstream indicates the backend webhook rejected or failed the
	// operation (502)
	TypeUpstream = "urn:dot:error:upstream"

	// TypeInternal indicates an unexpected agent error (500)
	TypeInternal = "urn:dot:error:internal"
)

// Titles for each error type.
const (
	TitleValidation   = "Validation Error"
	TitleBadRequest   = "Bad Request"
	TitleUnauthorized = "Authentication Required"
	TitleNotFound     = "Resource Not Found"
	TitleUpstream     = "Backend Request Failed"
	TitleInternal     = "Internal Error"
)
