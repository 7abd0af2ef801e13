// Package errors defines the coded errors nestlayout reports.
//
// Every failure that leaves a package carries a [Code]. The CLI turns codes
// into exit statuses and the HTTP service turns them into response statuses,
// so callers branch on codes rather than on message text:
//
//	err := errors.New(errors.ErrCodeInvalidGraph, "unknown parent %q", id)
//	if errors.Is(err, errors.ErrCodeInvalidGraph) {
//	    // keep the previous positions
//	}
//
//	err = errors.Wrap(errors.ErrCodeLayoutFailed, dotErr, "compound layout")
//
// Codes prefixed INVALID_ describe bad input. LAYOUT_ codes are engine
// failures, BACKEND_UNAVAILABLE means Graphviz or a cache server could not be
// reached, and INTERNAL_ERROR is a bug.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidGraph   Code = "INVALID_GRAPH"
	ErrCodeInvalidOptions Code = "INVALID_OPTIONS"
	ErrCodeInvalidNodeID  Code = "INVALID_NODE_ID"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"

	ErrCodeLayoutFailed       Code = "LAYOUT_FAILED"
	ErrCodeLayoutTimeout      Code = "LAYOUT_TIMEOUT"
	ErrCodeBackendUnavailable Code = "BACKEND_UNAVAILABLE"
	ErrCodeInternal           Code = "INTERNAL_ERROR"
	ErrCodeUnsupported        Code = "UNSUPPORTED"
)

// codeInfo records, per code, whether the caller is at fault and which
// HTTP status reports it. Unlisted codes are server errors.
var codeInfo = map[Code]struct {
	client bool
	status int
}{
	ErrCodeInvalidInput:       {true, http.StatusBadRequest},
	ErrCodeInvalidGraph:       {true, http.StatusBadRequest},
	ErrCodeInvalidOptions:     {true, http.StatusBadRequest},
	ErrCodeInvalidNodeID:      {true, http.StatusBadRequest},
	ErrCodeInvalidPath:        {true, http.StatusBadRequest},
	ErrCodeFileNotFound:       {true, http.StatusNotFound},
	ErrCodeUnsupported:        {false, http.StatusBadRequest},
	ErrCodeLayoutFailed:       {false, http.StatusUnprocessableEntity},
	ErrCodeLayoutTimeout:      {false, http.StatusGatewayTimeout},
	ErrCodeBackendUnavailable: {false, http.StatusServiceUnavailable},
}

// Client reports whether c blames the input rather than the engine.
func (c Code) Client() bool { return codeInfo[c].client }

// HTTPStatus is the response status for c. LAYOUT_FAILED is 422 because
// the request was well formed but could not be laid out.
func (c Code) HTTPStatus() int {
	if info, ok := codeInfo[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with an underlying cause, reachable through errors.Unwrap.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

func outermost(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e := outermost(err); e != nil {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e := outermost(err)
	return e != nil && e.Code == code
}

// UserMessage is the message of the outermost *Error without its code and
// cause, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e := outermost(err); e != nil {
		return e.Message
	}
	return err.Error()
}

// IsClientError reports whether err was caused by bad input.
func IsClientError(err error) bool { return GetCode(err).Client() }

// HTTPStatus is the response status for err: GetCode(err).HTTPStatus().
func HTTPStatus(err error) int { return GetCode(err).HTTPStatus() }
