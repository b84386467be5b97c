// Package apperr defines the error taxonomy shared by services and
// transports. Services attach a Code; transports map codes to statuses.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
	CodeDecodeFailure      Code = "DECODE_FAILURE"
)

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Constructors
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Unauthorized(message string) error {
	return New(CodeUnauthorized, message)
}

func NotFound(message string) error {
	return New(CodeNotFound, message)
}

func InvalidInput(message string) error {
	return New(CodeInvalidInput, message)
}

func Storage(message string, cause error) error {
	return Wrap(CodeStorageUnavailable, message, cause)
}

func DecodeFailure(message string, cause error) error {
	return Wrap(CodeDecodeFailure, message, cause)
}

// CodeOf extracts the Code carried by err, or CodeUnknown when err carries
// none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
