package services

import (
	"errors"
	"net/http"
	"strings"
)

// Sentinel markers for pipeline failure classification. Stage code wraps its
// errors with one of these so callers can map a failure to an HTTP status and
// a user-facing message without inspecting internals.
var (
	// ErrResolution covers asset fetch and decode failures.
	ErrResolution = errors.New("asset resolution error")
	// ErrNormalization covers per-part segment encode failures.
	ErrNormalization = errors.New("normalization error")
	// ErrEncoding covers concatenation and overlay engine failures.
	ErrEncoding = errors.New("encoding error")
	// ErrEngineUnavailable signals the encoding engine binary is missing.
	ErrEngineUnavailable = errors.New("encoding engine unavailable")
	// ErrInvalidIdentity signals a retrieval identity that failed validation.
	ErrInvalidIdentity = errors.New("invalid artifact identity")
	// ErrValidation covers malformed job submissions.
	ErrValidation = errors.New("validation error")
	// ErrNotFound signals an artifact that is absent (reaped or never created).
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error that tags the failure with the provided marker for
// later classification while recording stage context. The marker should be
// one of the exported sentinel errors above. The stage, operation, and
// message arguments become the caller-facing detail text and must not carry
// filesystem paths; err is the internal cause, kept for logs only.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrEncoding
	}
	return &serviceError{marker: marker, detail: buildDetail(stage, operation, message), cause: err}
}

// FailureDetails carries the caller-safe description of a pipeline failure.
type FailureDetails struct {
	Stage   string
	Message string
}

// Details extracts the caller-facing failure description. For errors built by
// Wrap only the marker and detail text are surfaced; the wrapped cause stays
// out because OS errors and engine output routinely name scratch paths.
// Errors that never passed through Wrap have path-like tokens redacted.
func Details(err error) FailureDetails {
	if err == nil {
		return FailureDetails{}
	}
	stage, _ := StageFromError(err)
	var svc *serviceError
	if errors.As(err, &svc) {
		return FailureDetails{Stage: stage, Message: svc.marker.Error() + ": " + svc.detail}
	}
	return FailureDetails{Stage: stage, Message: redactPaths(err.Error())}
}

// HTTPStatus maps a classified error to the response status the API should use.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidIdentity):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEngineUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// serviceError separates the caller-facing detail from the internal cause.
// Error() renders the full chain for logs; Details surfaces only the marker
// and detail.
type serviceError struct {
	marker error
	detail string
	cause  error
}

func (e *serviceError) Error() string {
	text := e.marker.Error() + ": " + e.detail
	if e.cause != nil {
		text += ": " + e.cause.Error()
	}
	return text
}

func (e *serviceError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.marker}
	}
	return []error{e.marker, e.cause}
}

type stagedError struct {
	stage string
	err   error
}

func (e *stagedError) Error() string { return e.err.Error() }

func (e *stagedError) Unwrap() error { return e.err }

// WithErrorStage tags err with the pipeline stage it originated from.
func WithErrorStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &stagedError{stage: stage, err: err}
}

// StageFromError returns the originating stage recorded by WithErrorStage.
func StageFromError(err error) (string, bool) {
	var staged *stagedError
	if errors.As(err, &staged) {
		return staged.stage, true
	}
	return "", false
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// redactPaths replaces absolute-path tokens in message. Applied to errors
// from outside the Wrap taxonomy before they reach API callers.
func redactPaths(message string) string {
	fields := strings.Fields(strings.TrimSpace(message))
	redacted := false
	for i, field := range fields {
		token := strings.Trim(field, `"'():;,`)
		if strings.HasPrefix(token, "/") || strings.HasPrefix(token, "~/") {
			fields[i] = strings.Replace(field, token, "<path>", 1)
			redacted = true
		}
	}
	if !redacted {
		return strings.TrimSpace(message)
	}
	return strings.Join(fields, " ")
}
