package object

import (
	"errors"
	"fmt"
)

// Error represents a recoverable fault detected by a memory-model
// operation. Errors are ordinary return values so the operator engine can
// map them onto its own error-signalling convention; nothing in this core
// panics or retries.
type Error struct {
	// Code identifies the error category.
	Code ErrCode

	// Op names the operation that failed ("put", "getinterval", ...).
	Op string

	// Message is a human-readable description.
	Message string

	// Identity identifies the affected object, when known.
	Identity Identity
}

// ErrCode categorizes memory-model errors.
type ErrCode string

const (
	// ErrCodeRangeCheck indicates an index or count outside valid bounds.
	ErrCodeRangeCheck ErrCode = "RANGECHECK"

	// ErrCodeInvalidAccess indicates an access-level violation, or an
	// attempt to store a local composite into a global object.
	ErrCodeInvalidAccess ErrCode = "INVALIDACCESS"

	// ErrCodeInvalidRestore indicates a restore token that is not the top
	// of its context's checkpoint stack. Produced by the vm package.
	ErrCodeInvalidRestore ErrCode = "INVALIDRESTORE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Identity != 0 {
		return fmt.Sprintf("%s: %s: %s (object=%d)", e.Code, e.Op, e.Message, e.Identity)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
}

// IsRangeCheck returns true if the error is a bounds violation.
// Uses errors.As to handle wrapped errors.
func IsRangeCheck(err error) bool {
	return codeOf(err) == ErrCodeRangeCheck
}

// IsInvalidAccess returns true if the error is an access or containment
// violation. Uses errors.As to handle wrapped errors.
func IsInvalidAccess(err error) bool {
	return codeOf(err) == ErrCodeInvalidAccess
}

// IsInvalidRestore returns true if the error is a checkpoint-nesting
// violation. Uses errors.As to handle wrapped errors.
func IsInvalidRestore(err error) bool {
	return codeOf(err) == ErrCodeInvalidRestore
}

// CodeOf extracts the error code, or "" for non-model errors.
func CodeOf(err error) ErrCode {
	return codeOf(err)
}

func codeOf(err error) ErrCode {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code
	}
	return ""
}

func rangeErr(op string, id Identity, format string, args ...any) *Error {
	return &Error{
		Code:     ErrCodeRangeCheck,
		Op:       op,
		Message:  fmt.Sprintf(format, args...),
		Identity: id,
	}
}

func accessErr(op string, id Identity, format string, args ...any) *Error {
	return &Error{
		Code:     ErrCodeInvalidAccess,
		Op:       op,
		Message:  fmt.Sprintf(format, args...),
		Identity: id,
	}
}
