package opsbeacon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ValidationError reports malformed or missing caller input. It is always
// raised before any network call is made.
type ValidationError struct {
	Field   string // offending parameter, when identifiable
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("opsbeacon: %s (field: %s)", e.Message, e.Field)
	}
	return "opsbeacon: " + e.Message
}

// AuthenticationError reports a 401 or 403 response. It is never retried
// automatically.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "opsbeacon: authentication failed, check your API token"
	}
	return "opsbeacon: " + e.Message
}

// APIError reports any HTTP error response not covered by a more specific
// error type. It carries the status code and the raw response body.
type APIError struct {
	Message    string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("opsbeacon: %s (status: %d)", e.Message, e.StatusCode)
	}
	return "opsbeacon: " + e.Message
}

// ResourceNotFoundError reports that a specific named resource does not exist.
type ResourceNotFoundError struct {
	Resource string // e.g. "Trigger", "Tool"
	ID       string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("opsbeacon: %s %q not found", e.Resource, e.ID)
}

// RateLimitError reports a 429 response. RetryAfter is zero when the server
// sent no numeric Retry-After header; retrying is the caller's responsibility.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("opsbeacon: rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "opsbeacon: rate limit exceeded, please retry later"
}

// ConnectionError reports a network-level failure (DNS, connect) before any
// HTTP response was obtained.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("opsbeacon: failed to connect to %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError reports that a request exceeded the configured timeout.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("opsbeacon: request timed out after %s", e.Timeout)
}

// CommandExecutionError wraps an API failure during command execution with
// the command and connection names for diagnostics.
type CommandExecutionError struct {
	Command    string // command name, or the full command text
	Connection string
	Err        error
}

func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("opsbeacon: command execution failed: %v", e.Err)
}

func (e *CommandExecutionError) Unwrap() error { return e.Err }

// FileOperationError reports a failed file operation. Op is one of "upload",
// "get_download_url", or "download".
type FileOperationError struct {
	FileName string
	Op       string
	Message  string
	Err      error
}

func (e *FileOperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("opsbeacon: file %s failed for %q: %v", e.Op, e.FileName, e.Err)
	}
	return fmt.Sprintf("opsbeacon: file %s failed for %q: %s", e.Op, e.FileName, e.Message)
}

func (e *FileOperationError) Unwrap() error { return e.Err }

// MCPError reports a failed MCP trigger operation, carrying the trigger name.
type MCPError struct {
	TriggerName string
	Message     string
	Err         error
}

func (e *MCPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("opsbeacon: mcp trigger %q: %s: %v", e.TriggerName, e.Message, e.Err)
	}
	return fmt.Sprintf("opsbeacon: mcp trigger %q: %s", e.TriggerName, e.Message)
}

func (e *MCPError) Unwrap() error { return e.Err }

// classifyResponse maps an HTTP error response to a typed error. Callers pass
// the already-read body so the response can also be logged.
func classifyResponse(statusCode int, header http.Header, body []byte) error {
	switch {
	case statusCode == http.StatusUnauthorized:
		return &AuthenticationError{}
	case statusCode == http.StatusForbidden:
		return &AuthenticationError{Message: "access forbidden, check your API token permissions"}
	case statusCode == http.StatusNotFound:
		return &APIError{Message: "resource not found", StatusCode: 404, Body: string(body)}
	case statusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: parseRetryAfter(header.Get("Retry-After"))}
	case statusCode >= 400:
		return &APIError{
			Message:    "API error: " + errorMessage(body),
			StatusCode: statusCode,
			Body:       string(body),
		}
	}
	return nil
}

// errorMessage extracts the server's error message from a response body:
// the "err" or "error" JSON field when the body parses, else the raw text.
func errorMessage(body []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg, ok := parsed["err"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := parsed["error"].(string); ok && msg != "" {
			return msg
		}
	}
	return string(body)
}

// parseRetryAfter parses a numeric Retry-After header value in seconds.
// Absent or non-numeric values yield zero (unset).
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// isAPIFailure reports whether err is an API-level failure (an error HTTP
// response), as opposed to validation, auth, or transport failures. The
// domain-specific wrappers re-raise only these.
func isAPIFailure(err error) bool {
	switch err.(type) {
	case *APIError, *RateLimitError:
		return true
	}
	return false
}
