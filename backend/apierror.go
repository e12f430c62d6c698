package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/workline/docspace-crm-plugin/internal/errkind"
)

// Structured cause values carried by 503 responses when the installation
// configuration makes the backend unable to reach the workspace.
const (
	CauseURLNotFound    = "workspace-url-not-found"
	CauseAPIKeyNotFound = "api-key-not-found"
	CauseAPIKeyInvalid  = "api-key-invalid"
)

// Validation error code carried by 400 responses to key validation.
const CodeInvalidAPIKey = "invalid-api-key"

// StatusError is a non-2xx backend response with its structured body, kept
// intact so call sites can classify it.
type StatusError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Cause   string `json:"cause"`
	Message string `json:"message"`
}

func (e *StatusError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("backend responded %d (cause: %s)", e.Status, e.Cause)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend responded %d (code: %s)", e.Status, e.Code)
	}
	return fmt.Sprintf("backend responded %d", e.Status)
}

// AsStatusError unwraps err to the StatusError in its chain, if any.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsStatus reports whether err carries the given HTTP status.
func IsStatus(err error, status int) bool {
	se, ok := AsStatusError(err)
	return ok && se.Status == status
}

// IsNotFound reports whether err is the backend's "resource absent" signal.
// On room lookup this is a normal outcome, not a failure.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// IsQuotaExceeded reports whether err is a plan/quota limit (402).
func IsQuotaExceeded(err error) bool {
	return IsStatus(err, http.StatusPaymentRequired)
}

// Classify maps a backend failure to the user-facing error taxonomy. It is
// the single place status codes and structured bodies are interpreted; a
// 401 from any endpoint is a session-wide TokenExpired.
func Classify(err error) errkind.Kind {
	if err == nil {
		return errkind.None
	}

	se, ok := AsStatusError(err)
	if !ok {
		return errkind.Common
	}

	switch se.Status {
	case http.StatusUnauthorized:
		return errkind.TokenExpired
	case http.StatusServiceUnavailable:
		switch se.Cause {
		case CauseURLNotFound, CauseAPIKeyNotFound:
			return errkind.PluginNotAvailable
		case CauseAPIKeyInvalid:
			return errkind.InvalidAPIKey
		}
		return errkind.Common
	case http.StatusBadRequest:
		if se.Code == CodeInvalidAPIKey {
			return errkind.InvalidAPIKey
		}
		return errkind.Common
	default:
		return errkind.Common
	}
}
