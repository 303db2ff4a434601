// Package goerror carries the application's error classification from use
// cases to the HTTP layer: a Type (who is at fault), a Code (which maps to an
// HTTP status) and a user-facing message.
package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned by repositories on a unique constraint violation.
	ErrConflict = errors.New("resource conflict")
)

type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

var typeInfo = map[Type]struct {
	name     string
	fallback string
}{
	TypeServer:     {"ERROR_TYPE_SERVER", "Internal error"},
	TypeBusiness:   {"ERROR_TYPE_BUSINESS", "Logical business not meet with requirement"},
	TypeValidation: {"ERROR_TYPE_VALIDATION", "Validation violation"},
}

func (t Type) String() string {
	if info, ok := typeInfo[t]; ok {
		return info.name
	}
	return "ERROR_TYPE_UNKNOWN"
}

// Code decides the HTTP status of an error.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	// CodeUnauthorized is for an unknown or unusable credential, such as a
	// subscription token that matches nothing.
	CodeUnauthorized
)

var codeInfo = map[Code]struct {
	name   string
	status int
}{
	CodeInternal:      {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat: {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:  {"ERROR_CODE_INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeNotFound:      {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeConflict:      {"ERROR_CODE_CONFLICT", http.StatusConflict},
	CodeUnauthorized:  {"ERROR_CODE_UNAUTHORIZED", http.StatusUnauthorized},
}

func (c Code) String() string {
	if info, ok := codeInfo[c]; ok {
		return info.name
	}
	return codeInfo[CodeInternal].name
}

// Error is the structured error returned by use cases. Error() reports the
// wrapped cause when there is one, so logs keep the detail while Msg() stays
// safe to show to clients.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	}
	if info, ok := typeInfo[e.errType]; ok {
		return info.fallback
	}
	return "Unknown error"
}

// String is the verbose form used when debugging.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType, e.code, e.msg, e.err)
}

func (e *Error) Msg() string               { return e.msg }
func (e *Error) Type() Type                { return e.errType }
func (e *Error) Code() Code                { return e.code }
func (e *Error) Fields() map[string]string { return e.fields }
func (e *Error) Unwrap() error             { return e.err }

func (e *Error) StatusCode() int {
	if info, ok := codeInfo[e.code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// NewServer hides cause behind a generic message; the cause stays reachable
// through errors.Is/As for logging.
func NewServer(cause error) error {
	return &Error{err: cause, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

// NewBusiness reports a rule violation the client can act on.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput builds a 422. Either cause carries the field messages (a
// validator error), or kv lists field/message pairs; an odd kv is a 400.
func NewInvalidInput(cause error, kv ...string) error {
	if cause != nil {
		return &Error{err: cause, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	}
	if len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	fields := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}

	return &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}

// NewInvalidFormat builds a 400 for a body or parameter that could not be read.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidFormat}
}
