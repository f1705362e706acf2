// Package core provides the editing logic for tabular files.
//
// # Error Codes Reference
//
// This file maps technical errors to user-friendly messages with codes for
// support reference. Codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Patterns: "file too large", "request body too large"
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Patterns: "invalid csv"
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//	FILE005 - Empty file: The uploaded file has no data rows
//	          Patterns: "empty file"
//	FILE006 - Invalid JSON: File is not valid JSON
//	          Patterns: "invalid json"
//	FILE007 - Unsupported format: File type is not supported
//	          Patterns: "unsupported format"
//	FILE008 - Invalid YAML: File is not valid YAML
//	          Patterns: "invalid yaml"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many imports in progress
//	         Patterns: "too many concurrent imports"
//	UPL004 - Request cancelled
//	         Patterns: "context canceled"
//	UPL005 - Request timeout
//	         Patterns: "context deadline exceeded"
//	UPL006 - Import in progress: This sheet is already importing a file
//	         Patterns: "import already in progress"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session expired: The editor session no longer exists
//	         Patterns: "session not found"
//	SES002 - Too many sessions
//	         Patterns: "too many open sessions"
//	SES003 - Nothing loaded: The action needs a loaded file
//	         Patterns: "no dataset loaded"
//
// # Row Errors (ROW001-ROW099)
//
//	ROW001 - Row not found: The row was deleted or never existed
//	         Patterns: "row not found"
//
// # Submit Errors (SUB001-SUB099)
//
//	SUB001 - Submit unavailable: There is no submit destination yet
//	         Patterns: "submit not implemented"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for the
// original technical error.
//
// # Pattern Matching
//
// Errors wrapping one of the package sentinels (or a context error) are
// mapped with errors.Is first, so text such as a file name inside the
// message cannot change the code. Other errors are matched
// case-insensitively using strings.Contains. The first matching pattern
// wins, so more specific patterns come before general ones.
package core

import (
	"context"
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

type errorPattern struct {
	target  error
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors
	// =========================================================================
	{
		target:  ErrFileTooLarge,
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller parts",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller parts",
			Code:    "FILE001",
		},
	},
	{
		target:  ErrInvalidCSV,
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with a header row",
			Code:    "FILE002",
		},
	},
	{
		target:  ErrNoFile,
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a CSV or JSON file to open",
			Code:    "FILE004",
		},
	},
	{
		target:  ErrEmptyFile,
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file has no data rows",
			Action:  "Upload a file with a header and at least one row",
			Code:    "FILE005",
		},
	},
	{
		target:  ErrInvalidJSON,
		pattern: "invalid json",
		msg: UserMessage{
			Message: "File is not valid JSON",
			Action:  "Upload an object or an array of objects",
			Code:    "FILE006",
		},
	},
	{
		target:  ErrUnsupportedFormat,
		pattern: "unsupported format",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Upload a .csv, .json or .yaml file",
			Code:    "FILE007",
		},
	},
	{
		target:  ErrInvalidYAML,
		pattern: "invalid yaml",
		msg: UserMessage{
			Message: "File is not valid YAML",
			Action:  "Upload a mapping or a list of mappings",
			Code:    "FILE008",
		},
	},

	// =========================================================================
	// Upload Errors
	// =========================================================================
	{
		target:  ErrTooManyImports,
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		target:  context.Canceled,
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		target:  context.DeadlineExceeded,
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		target:  ErrImportInProgress,
		pattern: "import already in progress",
		msg: UserMessage{
			Message: "This sheet is already importing a file",
			Action:  "Wait for the current import to finish",
			Code:    "UPL006",
		},
	},

	// =========================================================================
	// Session Errors
	// =========================================================================
	{
		target:  ErrSessionNotFound,
		pattern: "session not found",
		msg: UserMessage{
			Message: "Your editor session has expired",
			Action:  "Reload the page and upload the file again",
			Code:    "SES001",
		},
	},
	{
		target:  ErrTooManySessions,
		pattern: "too many open sessions",
		msg: UserMessage{
			Message: "The editor is at capacity",
			Action:  "Please try again later",
			Code:    "SES002",
		},
	},
	{
		target:  ErrNotLoaded,
		pattern: "no dataset loaded",
		msg: UserMessage{
			Message: "No file is open",
			Action:  "Upload a file first",
			Code:    "SES003",
		},
	},

	// =========================================================================
	// Row Errors
	// =========================================================================
	{
		target:  ErrRowNotFound,
		pattern: "row not found",
		msg: UserMessage{
			Message: "That row no longer exists",
			Action:  "Refresh the table",
			Code:    "ROW001",
		},
	},

	// =========================================================================
	// Submit Errors
	// =========================================================================
	{
		target:  ErrSubmitNotImplemented,
		pattern: "submit not implemented",
		msg: UserMessage{
			Message: "Submitting data is not available yet",
			Action:  "Export the sheet as CSV instead",
			Code:    "SUB001",
		},
	},

	// =========================================================================
	// Rate Limiting
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

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern, or the ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, ep := range errorPatterns {
		if ep.target != nil && errors.Is(err, ep.target) {
			return ep.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
