// Package errors defines the chat domain error taxonomy.
// Every value here is a rule violation recoverable by the caller: the aggregate
// never swallows or retries, the transport layer classifies them for clients.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation             = fmt.Errorf("validation failed")
	ErrNotConnected           = fmt.Errorf("user is not connected to the room")
	ErrBanned                 = fmt.Errorf("user is banned from the room")
	ErrMuted                  = fmt.Errorf("user is temporarily muted")
	ErrPolicyViolation        = fmt.Errorf("message violates chat policy")
	ErrParticipantNotFound    = fmt.Errorf("moderator or target not found in the room")
	ErrInsufficientPermission = fmt.Errorf("user has no moderation permission")
	ErrSelfModeration         = fmt.Errorf("moderator cannot target themselves")
	ErrInvalidDuration        = fmt.Errorf("timeout duration must be positive")
	ErrDurationExceeded       = fmt.Errorf("timeout duration exceeds 24 hours")
	ErrRoomNotFound           = fmt.Errorf("chat room not found")
	ErrRoomExists             = fmt.Errorf("chat room already exists")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)

// domainErrors is the closed list used for client/server classification.
var domainErrors = []error{
	ErrValidation,
	ErrNotConnected,
	ErrBanned,
	ErrMuted,
	ErrPolicyViolation,
	ErrParticipantNotFound,
	ErrInsufficientPermission,
	ErrSelfModeration,
	ErrInvalidDuration,
	ErrDurationExceeded,
	ErrRoomNotFound,
	ErrRoomExists,
}

// IsDomain reports whether err (or anything it wraps) belongs to the domain
// taxonomy. Anything else is a server-side failure.
func IsDomain(err error) bool {
	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return true
		}
	}
	return false
}

// HTTPStatus maps an error to the status code the transport must answer with.
// Domain errors are caller mistakes (400-class), the rest is on us (500).
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoomExists):
		return http.StatusConflict
	case IsDomain(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
