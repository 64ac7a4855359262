// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for all CLI commands in lineadmin.
//
// STANDARDIZED PATTERN:
//   - ALWAYS return errors (never just print and return nil)
//   - Let the caller decide how to display errors
//   - Use structured error types for better error handling
package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/lineadmin-tui/internal/api"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates authentication or authorization failure
	ExitAuthError = 4
	// ExitNetworkError indicates network or connectivity error
	ExitNetworkError = 5
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with an exit code.
type CommandError struct {
	Code    int
	Message string
	Cause   error
}

func (e *CommandError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}

// UsageError builds a CommandError for invalid invocations.
func UsageError(format string, args ...any) *CommandError {
	return &CommandError{Code: ExitUsageError, Message: fmt.Sprintf(format, args...)}
}

// AuthError builds a CommandError for sign-in failures.
func AuthError(message string) *CommandError {
	return &CommandError{Code: ExitAuthError, Message: message}
}

// ConfigError wraps a configuration failure.
func ConfigError(message string, cause error) *CommandError {
	return &CommandError{Code: ExitConfigError, Message: message, Cause: cause}
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code
	}

	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return ExitAuthError
	case errors.Is(err, api.ErrUnreachable), errors.Is(err, api.ErrTimeout):
		return ExitNetworkError
	}

	var clientErr *api.ClientError
	if errors.As(err, &clientErr) {
		switch clientErr.Type {
		case api.ErrTypeConnection, api.ErrTypeTimeout:
			return ExitNetworkError
		case api.ErrTypeUnauthorized:
			return ExitAuthError
		}
	}
	return ExitGeneralError
}
