// Package accel structured error types shared by the device runtime and the
// estimator packages built on it.
package accel

import (
	"errors"
	"fmt"
)

// ErrorType represents categories of errors.
type ErrorType int

const (
	// Invalid argument errors
	ErrTypeInvalidArg ErrorType = iota
	// Device selection errors
	ErrTypeDevice
	// Kernel execution errors
	ErrTypeExecution
	// Numerical errors
	ErrTypeNumerical
	// Operations on an estimator that has not been fitted
	ErrTypeNotFitted
	// Serialization and deserialization errors
	ErrTypeSerialization
)

// String returns the error type as a string.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeDevice:
		return "Device"
	case ErrTypeExecution:
		return "Execution"
	case ErrTypeNumerical:
		return "Numerical"
	case ErrTypeNotFitted:
		return "NotFitted"
	case ErrTypeSerialization:
		return "Serialization"
	default:
		return "Unknown"
	}
}

// Error is a structured error with operation context.
type Error struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("accel %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("accel %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Common error constructors

// NewInvalidArgError creates an invalid argument error.
func NewInvalidArgError(op string, message string) error {
	return &Error{Type: ErrTypeInvalidArg, Op: op, Message: message}
}

// NewDeviceError creates a device selection error.
func NewDeviceError(op string, message string) error {
	return &Error{Type: ErrTypeDevice, Op: op, Message: message}
}

// NewExecutionError creates a kernel execution error.
func NewExecutionError(op string, message string, err error) error {
	return &Error{Type: ErrTypeExecution, Op: op, Message: message, Err: err}
}

// NewNumericalError creates a numerical error.
func NewNumericalError(op string, message string) error {
	return &Error{Type: ErrTypeNumerical, Op: op, Message: message}
}

// NewNotFittedError reports a transform/predict call on an unfitted
// estimator. The op names the estimator and method, e.g. "UMAP.Transform".
func NewNotFittedError(op string) error {
	return &Error{
		Type:    ErrTypeNotFitted,
		Op:      op,
		Message: "estimator is not fitted; call Fit first",
	}
}

// NewSerializationError creates a serialization error.
func NewSerializationError(op string, message string, err error) error {
	return &Error{Type: ErrTypeSerialization, Op: op, Message: message, Err: err}
}

// Common pre-defined errors

var (
	// ErrInvalidDevice indicates an unknown device type.
	ErrInvalidDevice = NewDeviceError("SetDeviceType", "invalid device type")

	// ErrEmptyInput indicates an empty dataset argument.
	ErrEmptyInput = NewInvalidArgError("Fit", "input matrix has no rows")
)

// isType reports whether err (or anything it wraps) is an *Error of type t.
func isType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// IsNotFittedError checks if an error reports an unfitted estimator.
func IsNotFittedError(err error) bool {
	return isType(err, ErrTypeNotFitted)
}

// IsInvalidArgError checks if an error is an invalid argument error.
func IsInvalidArgError(err error) bool {
	return isType(err, ErrTypeInvalidArg)
}

// IsDeviceError checks if an error is a device selection error.
func IsDeviceError(err error) bool {
	return isType(err, ErrTypeDevice)
}

// IsSerializationError checks if an error is a serialization error.
func IsSerializationError(err error) bool {
	return isType(err, ErrTypeSerialization)
}
