// Package core provides the table transforms behind the stacking tool.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Both front ends show the mapped message instead of the technical error.
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Empty input: No data was provided
//	         Action: Paste the copied cells, including the header row
//	         Patterns: "input is empty", "empty input"
//
//	VAL002 - Invalid column: A column reference matches no header
//	         Action: Use an exact header name or a zero-based column number
//	         Patterns: "invalid column reference"
//
//	VAL003 - Invalid pad width: The pad width is not a positive number
//	         Action: Use a pad width of 1 or more
//	         Patterns: "invalid pad width"
//
//	VAL004 - Invalid request: The submitted data could not be read
//	         Action: Send the text as JSON, a form field, or a plain body
//	         Patterns: "invalid request"
//
//	VAL005 - Invalid profile: The profile file is missing or malformed
//	         Action: Check the profile path and its YAML keys
//	         Patterns: "invalid profile"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Input too large: Input exceeds the configured size limit
//	          Action: Convert the data in smaller pieces
//	          Patterns: "input too large", "request body too large"
//
//	FILE002 - Unsupported format: The requested output format is unknown
//	          Action: Choose csv or xlsx
//	          Patterns: "unsupported output format"
//
//	FILE003 - Write failed: The output file could not be written
//	          Action: Check that the output folder exists and is writable
//	          Patterns: "write csv", "write xlsx", "permission denied", "create output"
//
// # Conversion Errors (CNV001-CNV099)
//
//	CNV001 - Not found: The conversion result has expired or never existed
//	         Action: Convert the data again, then save
//	         Patterns: "conversion not found"
//
//	CNV002 - System busy: Too many conversions are running
//	         Action: Please wait a moment and try again
//	         Patterns: "too many conversions"
//
//	CNV003 - Request cancelled
//	         Patterns: "context canceled"
//
//	CNV004 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the logs for the
// original technical error.
//
// Sentinel errors (ErrEmptyInput, ErrInvalidColumn and the rest) are matched
// with errors.Is first. Patterns are only consulted when no sentinel is in
// the chain; they match case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.
package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/JonMunkholm/stacktable/internal/config"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorSentinel maps a wrapped sentinel error to its user message.
type errorSentinel struct {
	target error
	msg    UserMessage
}

var (
	msgEmptyInput = UserMessage{
		Message: "No data was provided",
		Action:  "Paste the copied cells, including the header row",
		Code:    "VAL001",
	}
	msgInvalidColumn = UserMessage{
		Message: "A column reference matches no header",
		Action:  "Use an exact header name or a zero-based column number",
		Code:    "VAL002",
	}
	msgInvalidPadWidth = UserMessage{
		Message: "The pad width must be a positive number",
		Action:  "Use a pad width of 1 or more",
		Code:    "VAL003",
	}
	msgInvalidRequest = UserMessage{
		Message: "The submitted data could not be read",
		Action:  "Send the text as JSON, a form field, or a plain body",
		Code:    "VAL004",
	}
	msgInvalidProfile = UserMessage{
		Message: "The profile could not be loaded",
		Action:  "Check the profile path and its YAML keys",
		Code:    "VAL005",
	}
	msgTooLarge = UserMessage{
		Message: "Input exceeds the size limit",
		Action:  "Convert the data in smaller pieces",
		Code:    "FILE001",
	}
	msgUnsupportedFormat = UserMessage{
		Message: "The requested output format is not supported",
		Action:  "Choose csv or xlsx",
		Code:    "FILE002",
	}
	msgWriteFailed = UserMessage{
		Message: "The output file could not be written",
		Action:  "Check that the output folder exists and is writable",
		Code:    "FILE003",
	}
	msgNotFound = UserMessage{
		Message: "The conversion result has expired",
		Action:  "Convert the data again, then save",
		Code:    "CNV001",
	}
	msgBusy = UserMessage{
		Message: "System is busy processing other conversions",
		Action:  "Please wait a moment and try again",
		Code:    "CNV002",
	}
	msgCanceled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "CNV003",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try converting less data at once",
		Code:    "CNV004",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// errorSentinels is checked with errors.Is before any text matching, since
// error text may carry user input such as column names or file paths.
// Order matters: the first sentinel found in the chain wins.
var errorSentinels = []errorSentinel{
	{target: ErrEmptyInput, msg: msgEmptyInput},
	{target: ErrInvalidColumn, msg: msgInvalidColumn},
	{target: ErrInvalidPadWidth, msg: msgInvalidPadWidth},
	{target: ErrInvalidRequest, msg: msgInvalidRequest},
	{target: config.ErrInvalidProfile, msg: msgInvalidProfile},
	{target: ErrInputTooLarge, msg: msgTooLarge},
	{target: ErrUnsupportedFormat, msg: msgUnsupportedFormat},
	{target: ErrWriteFailed, msg: msgWriteFailed},
	{target: os.ErrPermission, msg: msgWriteFailed},
	{target: ErrConversionNotFound, msg: msgNotFound},
	{target: ErrTooManyConversions, msg: msgBusy},
	{target: context.Canceled, msg: msgCanceled},
	{target: context.DeadlineExceeded, msg: msgTimeout},
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages for errors that carry no known sentinel.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Validation Errors (VAL001-VAL005)
	// =========================================================================
	{pattern: "input is empty", msg: msgEmptyInput},
	{pattern: "empty input", msg: msgEmptyInput},
	{pattern: "invalid column reference", msg: msgInvalidColumn},
	{pattern: "invalid pad width", msg: msgInvalidPadWidth},
	{pattern: "invalid request", msg: msgInvalidRequest},
	{pattern: "invalid profile", msg: msgInvalidProfile},

	// =========================================================================
	// File Errors (FILE001-FILE003)
	// =========================================================================
	{pattern: "input too large", msg: msgTooLarge},
	{pattern: "request body too large", msg: msgTooLarge},
	{pattern: "unsupported output format", msg: msgUnsupportedFormat},
	{pattern: "write csv", msg: msgWriteFailed},
	{pattern: "write xlsx", msg: msgWriteFailed},
	{pattern: "create output", msg: msgWriteFailed},
	{pattern: "permission denied", msg: msgWriteFailed},

	// =========================================================================
	// Conversion Errors (CNV001-CNV004)
	// =========================================================================
	{pattern: "conversion not found", msg: msgNotFound},
	{pattern: "too many conversions", msg: msgBusy},
	{pattern: "context canceled", msg: msgCanceled},
	{pattern: "context deadline exceeded", msg: msgTimeout},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{pattern: "rate limit", msg: msgRateLimited},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Known sentinels and error types in the chain decide first; the text
// patterns are a fallback for errors without one. Unmatched errors map to
// ERR000.
//
// Example:
//
//	_, err := core.Parse("   ")
//	msg := core.MapError(err)
//	// msg.Code == "VAL001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.target) {
			return es.msg
		}
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return msgEmptyInput
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return msgTooLarge
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
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

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
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
