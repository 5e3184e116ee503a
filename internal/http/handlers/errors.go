// HTTP-layer error codes used across all API endpoints.
//
// These constants are mapped to responses via the fail() helper and give
// clients a stable, machine-readable taxonomy alongside the human-readable
// message. Generic codes mirror HTTP status semantics; domain-specific codes
// are reserved for failures a status alone cannot convey (e.g. an upstream
// search provider erroring behind a 500).

package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeAnswerFailed     = "answer_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeUploadRejected   = "upload_rejected"
	ErrCodeUpstreamFailed   = "upstream_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
