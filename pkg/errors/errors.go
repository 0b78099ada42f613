// Package errors provides the error taxonomy used across plantcare.
//
// Typed errors carry the context a caller needs to react programmatically and
// work with the standard errors.Is / errors.As helpers:
//
//   - EncodingError: an observation could not be turned into a feature vector
//   - NotFittedError: a model was used before training completed
//   - ConfigurationError: an estimator was configured or fed in an unusable way
//   - DimensionError, ValueError, ValidationError, ModelError: general ML errors
//
// Stack-carrying construction and wrapping helpers (New, Newf, Wrap, Wrapf) are
// thin re-exports of github.com/cockroachdb/errors so that callers only need a
// single errors import.
//
// Example:
//
//	vec, err := encoder.Encode(obs)
//	var encErr *errors.EncodingError
//	if errors.As(err, &encErr) {
//		fmt.Println("bad field:", encErr.Field)
//	}
package errors

import (
	"fmt"

	cockroach "github.com/cockroachdb/errors"
)

// Sentinel errors. Typed errors report Is() == true for the matching sentinel.
var (
	// ErrNotFitted is matched by NotFittedError.
	ErrNotFitted = cockroach.New("model is not fitted")
	// ErrDimensionMismatch is matched by DimensionError.
	ErrDimensionMismatch = cockroach.New("dimension mismatch")
	// ErrEmptyData signals a zero-row matrix or empty input.
	ErrEmptyData = cockroach.New("empty data")
	// ErrUnknownCategory is matched by EncodingError for unmapped categorical values.
	ErrUnknownCategory = cockroach.New("unknown category")
	// ErrInvalidInput is matched by EncodingError and ValidationError.
	ErrInvalidInput = cockroach.New("invalid input")
	// ErrInvalidConfiguration is matched by ConfigurationError.
	ErrInvalidConfiguration = cockroach.New("invalid configuration")
)

// New creates an error with a stack trace.
func New(msg string) error { return cockroach.New(msg) }

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error { return cockroach.Newf(format, args...) }

// Wrap annotates err with msg. Returns nil if err is nil.
func Wrap(err error, msg string) error { return cockroach.Wrap(err, msg) }

// Wrapf annotates err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return cockroach.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return cockroach.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return cockroach.As(err, target) }

// Unwrap returns the next error in err's chain.
func Unwrap(err error) error { return cockroach.UnwrapOnce(err) }

// NotFittedError is returned when prediction or transformation is requested
// from a model that has not completed training.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) error {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s called before the model was trained", e.ModelName, e.Method)
}

// Is reports whether target is ErrNotFitted.
func (e *NotFittedError) Is(target error) bool { return target == ErrNotFitted }

// EncodingError is returned when a raw observation field cannot be mapped to
// its numeric feature value.
type EncodingError struct {
	Field  string
	Value  interface{}
	Reason string
	// Unknown is true when Value is absent from the field's fixed lookup.
	Unknown bool
}

// NewEncodingError creates an EncodingError for an invalid field value.
func NewEncodingError(field string, value interface{}, reason string) error {
	return &EncodingError{Field: field, Value: value, Reason: reason}
}

// NewUnknownCategoryError creates an EncodingError for a categorical value that
// has no entry in the field's lookup.
func NewUnknownCategoryError(field string, value string) error {
	return &EncodingError{
		Field:   field,
		Value:   value,
		Reason:  fmt.Sprintf("unknown category %q", value),
		Unknown: true,
	}
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %s", e.Field, e.Reason)
}

// Is matches ErrInvalidInput and, for unmapped categories, ErrUnknownCategory.
func (e *EncodingError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	return e.Unknown && target == ErrUnknownCategory
}

// ConfigurationError is returned when an estimator is asked to train with an
// unusable setup, such as an empty class set or a training matrix without rows.
type ConfigurationError struct {
	Op     string
	Reason string
	Err    error
}

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(op, reason string) error {
	return &ConfigurationError{Op: op, Reason: reason}
}

// NewEmptyDataError creates a ConfigurationError that also matches ErrEmptyData.
func NewEmptyDataError(op string) error {
	return &ConfigurationError{Op: op, Reason: "training matrix has zero rows", Err: ErrEmptyData}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: invalid configuration: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrInvalidConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrInvalidConfiguration }

// Unwrap returns the underlying cause, if any.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// DimensionError is returned when matrix or vector shapes disagree.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	// Axis is 0 for rows and 1 for columns.
	Axis int
}

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) error {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "features"
	}
	return fmt.Sprintf("%s: dimension mismatch: expected %d %s, got %d", e.Op, e.Expected, axis, e.Got)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }

// ValueError is returned for an argument with the right type but an
// unusable value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) error {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// ValidationError reports a parameter or input field outside its allowed domain.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

// NewValidationError creates a ValidationError.
func NewValidationError(paramName, reason string, value interface{}) error {
	return &ValidationError{ParamName: paramName, Reason: reason, Value: value}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.ParamName, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// ModelError wraps a lower-level failure with the operation that hit it.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

// NewModelError creates a ModelError.
func NewModelError(op, kind string, err error) error {
	return &ModelError{Op: op, Kind: kind, Err: err}
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("plantcare: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("plantcare: %s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ModelError) Unwrap() error { return e.Err }

// Recover converts a panic in the calling function into an error assigned to
// *err. It must be deferred directly:
//
//	func (m *Model) Fit(X, y mat.Matrix) (err error) {
//		defer errors.Recover(&err, "Model.Fit")
//		...
//	}
func Recover(err *error, op string) {
	if r := recover(); r != nil {
		cause, ok := r.(error)
		if !ok {
			cause = cockroach.Newf("%v", r)
		}
		*err = cockroach.WithStack(NewModelError(op, "panic", cause))
	}
}
