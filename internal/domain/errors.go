package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes pipeline failure semantics across stages.
type ErrorCode string

const (
	// CodeConnection marks a failure to open or verify the database session.
	CodeConnection ErrorCode = "connection"
	// CodeQuery marks a read failure (catalog or taxonomy pull).
	CodeQuery ErrorCode = "query"
	// CodeInsert marks a load failure; the surrounding transaction is rolled
	// back before the error is surfaced.
	CodeInsert ErrorCode = "insert"
	// CodeInternal marks everything else (transaction begin, run bookkeeping).
	CodeInternal ErrorCode = "internal"
)

// Error is the canonical pipeline error wrapper. Callers branch on Code via
// IsCode/CodeOf instead of checking nil/false sentinels.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a pipeline error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with pipeline error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var pipeErr *Error
	if !errors.As(err, &pipeErr) {
		return false
	}
	return pipeErr.Code == code
}

// CodeOf extracts the pipeline error code when available.
func CodeOf(err error) ErrorCode {
	var pipeErr *Error
	if !errors.As(err, &pipeErr) {
		return ""
	}
	return pipeErr.Code
}
