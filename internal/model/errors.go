package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode categorizes engine failures.
type ErrorCode string

const (
	// ErrCodeEmptyInput indicates a computation received no samples.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"

	// ErrCodeEmptyIntersection indicates two series share no key.
	ErrCodeEmptyIntersection ErrorCode = "EMPTY_INTERSECTION"

	// ErrCodeLengthMismatch indicates paired inputs of different lengths.
	ErrCodeLengthMismatch ErrorCode = "LENGTH_MISMATCH"

	// ErrCodeIncompatibleSymmetry indicates strict matching of two series
	// whose calibration frames differ.
	ErrCodeIncompatibleSymmetry ErrorCode = "INCOMPATIBLE_SYMMETRY"

	// ErrCodeZeroObservations indicates a dataset whose bins hold no observations.
	ErrCodeZeroObservations ErrorCode = "ZERO_OBSERVATIONS"

	// ErrCodeMalformedBinTable indicates a bin table missing expected columns.
	ErrCodeMalformedBinTable ErrorCode = "MALFORMED_BIN_TABLE"

	// ErrCodeDuplicateKey indicates a key occurring twice within one series.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"

	// ErrCodeNonFinite indicates a NaN or infinite sample.
	ErrCodeNonFinite ErrorCode = "NON_FINITE"

	// ErrCodeInvalidParameter indicates an out-of-range tuning parameter.
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"
)

// Sentinels for errors.Is. They match any *Error carrying the same code.
var (
	ErrEmptyInput           = &Error{Code: ErrCodeEmptyInput}
	ErrEmptyIntersection    = &Error{Code: ErrCodeEmptyIntersection}
	ErrLengthMismatch       = &Error{Code: ErrCodeLengthMismatch}
	ErrIncompatibleSymmetry = &Error{Code: ErrCodeIncompatibleSymmetry}
	ErrZeroObservations     = &Error{Code: ErrCodeZeroObservations}
	ErrMalformedBinTable    = &Error{Code: ErrCodeMalformedBinTable}
	ErrDuplicateKey         = &Error{Code: ErrCodeDuplicateKey}
	ErrNonFinite            = &Error{Code: ErrCodeNonFinite}
	ErrInvalidParameter     = &Error{Code: ErrCodeInvalidParameter}
)

// Error is the structured failure returned by the engine.
//
// Every failure is fail-fast: the computations are deterministic, so the
// caller either corrects its input or gives up.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the operation that failed (e.g. "summarize").
	Op string

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + e.Details[k]
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	return b.String()
}

// Is matches errors by code so that sentinels compare equal to any
// error of the same category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates an Error for the given operation.
func NewError(code ErrorCode, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// WithDetail returns the error with an extra detail attached.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// CodeOf extracts the error code from err.
// Returns the empty code if err is not (and does not wrap) an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
