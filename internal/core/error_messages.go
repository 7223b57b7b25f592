package core

// # Error Codes Reference
//
// User-facing messages with codes for support reference. Codes are grouped
// by category:
//
// # Configuration Errors (CFG001-CFG099)
//
// Logic errors in the caller. These are never retried or swallowed.
//
//	CFG001 - Unknown filter: The filter does not exist for this dataset
//	         Action: Reload the page to refresh the filter list
//	         Matches: ErrUnknownFilter
//
//	CFG002 - Unknown column: The column does not exist for this dataset
//	         Action: Reload the page to refresh the column list
//	         Matches: ErrUnknownColumn
//
//	CFG003 - Unknown dataset: The dataset is not configured
//	         Action: Choose one of the listed datasets
//	         Matches: ErrUnknownDataset
//
// # Source Errors (SRC001-SRC099)
//
// The Data Source failed to produce a dataset. The engine shows an empty
// dataset instead.
//
//	SRC001 - Dataset unavailable: The dataset could not be loaded
//	         Action: Try again later or switch to another dataset
//	         Matches: ErrSourceUnavailable
//
//	SRC002 - File missing: The dataset file was not found
//	         Action: Check the DATASETS configuration
//	         Patterns: "no such file", "cannot find the file"
//
//	SRC003 - Database unreachable: Unable to connect to database
//	         Action: Please try again in a few moments
//	         Patterns: "connection refused", "connection reset"
//
//	SRC004 - Busy: Too many datasets are loading
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent loads"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Session expired: The filter session was not found
//	         Action: Reload the page to start a new session
//	         Matches: ErrSessionNotFound
//
//	REQ002 - Invalid request body
//	         Action: Send a JSON object with a "values" array
//	         Patterns: "invalid request body"
//
//	REQ003 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ004 - Request timed out
//	         Patterns: "context deadline exceeded", "timeout"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.
//
// Sentinels are matched first with errors.Is; patterns are then matched
// case-insensitively with strings.Contains, first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages maps sentinel errors to user messages. More specific
// sentinels come before the ones they wrap.
var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{ErrUnknownFilter, UserMessage{
		Message: "The filter does not exist for this dataset",
		Action:  "Reload the page to refresh the filter list",
		Code:    "CFG001",
	}},
	{ErrUnknownColumn, UserMessage{
		Message: "The column does not exist for this dataset",
		Action:  "Reload the page to refresh the column list",
		Code:    "CFG002",
	}},
	{ErrUnknownDataset, UserMessage{
		Message: "The dataset is not configured",
		Action:  "Choose one of the listed datasets",
		Code:    "CFG003",
	}},
	{ErrSessionNotFound, UserMessage{
		Message: "The filter session was not found",
		Action:  "Reload the page to start a new session",
		Code:    "REQ001",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// Order matters: source-specific causes precede the generic SRC001 catch-all.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Source Errors (SRC002-SRC004)
	// =========================================================================
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The dataset file was not found",
			Action:  "Check the DATASETS configuration",
			Code:    "SRC002",
		},
	},
	{
		pattern: "cannot find the file",
		msg: UserMessage{
			Message: "The dataset file was not found",
			Action:  "Check the DATASETS configuration",
			Code:    "SRC002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "SRC003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "SRC003",
		},
	},
	{
		pattern: "too many concurrent loads",
		msg: UserMessage{
			Message: "Too many datasets are loading",
			Action:  "Please wait a moment and try again",
			Code:    "SRC004",
		},
	},

	// =========================================================================
	// Request Errors (REQ002-REQ004)
	// =========================================================================
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  `Send a JSON object with a "values" array`,
			Code:    "REQ002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ004",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// sourceUnavailableMessage is used when a load failed for a reason no
// pattern recognises (SRC001).
var sourceUnavailableMessage = UserMessage{
	Message: "The dataset could not be loaded",
	Action:  "Try again later or switch to another dataset",
	Code:    "SRC001",
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := ApplyFilter(ds, state, "colour", []string{"red"})
//	msg := MapError(err)
//	// msg.Code == "CFG001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	if errors.Is(err, ErrSourceUnavailable) {
		return sourceUnavailableMessage
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
