package errors

import (
	"errors"
	"fmt"
)

// Common error types for the plugin core
var (
	// Host SDK errors
	ErrTokenMint   = errors.New("signed token mint failed")
	ErrHostCommand = errors.New("host command failed")

	// Backend errors
	ErrSessionExpired = errors.New("session credential expired")
	ErrNotFound       = errors.New("not found")
	ErrQuotaExceeded  = errors.New("plan quota exceeded")
	ErrRateLimited    = errors.New("rate limited")
	ErrValidation     = errors.New("validation failed")

	// Embedded workspace errors
	ErrFrameUnreachable = errors.New("embedded workspace unreachable")
	ErrNoRoomAccess     = errors.New("no access to room")
	ErrLoginRejected    = errors.New("embedded login rejected")

	// State errors
	ErrNotBootstrapped = errors.New("session not bootstrapped")
	ErrWrongPhase      = errors.New("operation not valid in current phase")

	// General errors
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
