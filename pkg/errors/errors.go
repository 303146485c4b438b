// Package errors provides the unified error type and factory functions for
// polychain. Every layer (domain, codec, storage, interfaces) uses AppError
// as the single carrier of structured error information, enabling consistent
// CLI exit messages, HTTP responses, and metric labels.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 16

// captureStack returns a formatted call-stack string starting above the
// factory function that requested it. Standard-library frames are trimmed to
// keep traces readable.
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// AppError is the single structured error type used throughout polychain.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so errors.Is / errors.As / errors.Unwrap work across layers.
//
// Usage:
//
//	return errors.InvalidParam("units must be >= 1")
//	return errors.Wrap(err, errors.CodeSourceUnavailable, "open monomer file")
type AppError struct {
	// Code is the typed error code identifying the failure category.
	Code ErrorCode

	// Message is the primary human-readable description, suitable for API
	// responses and CLI output.
	Message string

	// Detail carries supplementary context (parameter values, line numbers,
	// file names) that aids debugging without cluttering Message.
	Detail string

	// Cause is the underlying error, if any.
	Cause error

	// Stack is the formatted call stack captured at creation. It is not
	// included in Error() output; logging layers read it directly.
	Stack string
}

// Error implements the error interface.
// Format: "[CODE] message: detail"; the detail segment is omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As
// traversal of the full chain.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe to call on a nil pointer.
func (e *AppError) WithDetail(format string, args ...interface{}) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = fmt.Sprintf(format, args...)
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error. If err is nil,
// Wrap returns nil so it can be used inline on function results. When err is
// already an *AppError and code is CodeUnknown the original code is
// preserved, so cross-layer wrapping does not lose the domain classification.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var ae *AppError
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain.
// Returns CodeOK for nil and CodeUnknown when no AppError is present.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// IsInvalidParam reports whether err's chain carries any parameter-validation
// code (generic or chain-specific).
func IsInvalidParam(err error) bool {
	switch GetCode(err) {
	case CodeInvalidParam, CodeChainInvalidUnits, CodeChainInvalidAngle,
		CodeChainInvalidLength, CodeChainInvalidElement, CodeChainEmptyMonomer:
		return true
	}
	return false
}

// IsMalformed reports whether err's chain carries an XYZ codec failure code.
func IsMalformed(err error) bool {
	switch GetCode(err) {
	case CodeMalformedDocument, CodeMalformedLine, CodeCountMismatch:
		return true
	}
	return false
}

// IsNotFound reports whether err's chain carries CodeNotFound.
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// Convenience factories for the most common conditions. Call sites read
// naturally:
//
//	return errors.InvalidParam("bond length must be positive")
//	return errors.SourceUnavailable("monomer.xyz")

// InvalidParam constructs a CodeInvalidParam AppError.
func InvalidParam(message string) *AppError {
	return &AppError{Code: CodeInvalidParam, Message: message, Stack: captureStack(1)}
}

// MalformedDocument constructs a CodeMalformedDocument AppError.
func MalformedDocument(message string) *AppError {
	return &AppError{Code: CodeMalformedDocument, Message: message, Stack: captureStack(1)}
}

// SourceUnavailable constructs a CodeSourceUnavailable AppError naming the
// unreadable source.
func SourceUnavailable(source string) *AppError {
	return &AppError{
		Code:    CodeSourceUnavailable,
		Message: "source unavailable",
		Detail:  source,
		Stack:   captureStack(1),
	}
}

// NotFound constructs a CodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Stack: captureStack(1)}
}

// Internal constructs a CodeInternal AppError. Use for unexpected failures
// where no more specific code applies.
func Internal(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Stack: captureStack(1)}
}
