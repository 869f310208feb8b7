// Package errors provides error handling for qmin.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints on validation failures
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check against a validation sentinel
//	if errors.Is(err, errors.ErrInvalidWidth) {
//	    // caller supplied a bad width
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Validation sentinels. Every way a caller-supplied encoder spec can be
// rejected is one of these; wrap them with errors.Wrap to add the
// offending value while preserving the kind for errors.Is checks.
// Generation itself cannot fail once validation has passed.
var (
	// ErrArgumentCount indicates too few positional parameters
	ErrArgumentCount = New("missing required arguments")

	// ErrInvalidWidth indicates an encoder width that is not an integer >= 2
	ErrInvalidWidth = New("invalid encoder width")

	// ErrInvalidPrefixWidth indicates a prefix width that is not a positive integer
	ErrInvalidPrefixWidth = New("invalid prefix width")

	// ErrInvalidCombDepth indicates a max combinational depth that is not a positive integer
	ErrInvalidCombDepth = New("invalid max combinational depth")

	// ErrInvalidMuxStyle indicates a mux style outside CASE, IFELSE, EXTLUT
	ErrInvalidMuxStyle = New("invalid mux style")

	// ErrInvalidSuffix indicates a module suffix that is not a Verilog identifier
	ErrInvalidSuffix = New("invalid module suffix")

	// ErrUnknownFlag indicates an unrecognized optional flag token
	ErrUnknownFlag = New("unknown flag")

	// ErrManifest indicates a batch manifest that could not be decoded
	ErrManifest = New("invalid manifest")

	// ErrStale indicates a check-mode mismatch between the rendered
	// artifact and the file on disk
	ErrStale = New("artifact is out of date")
)

// usageSentinels are the spec-validation kinds that should be reported
// as caller-input mistakes (message + non-zero exit, never retried).
var usageSentinels = []error{
	ErrArgumentCount,
	ErrInvalidWidth,
	ErrInvalidPrefixWidth,
	ErrInvalidCombDepth,
	ErrInvalidMuxStyle,
	ErrInvalidSuffix,
	ErrUnknownFlag,
}

// IsUsageError reports whether err is (or wraps) one of the validation
// sentinels, i.e. corrected input is required rather than a retry.
func IsUsageError(err error) bool {
	if err == nil {
		return false
	}
	return IsAny(err, usageSentinels...)
}

// IsStaleError reports whether err is (or wraps) ErrStale.
func IsStaleError(err error) bool {
	return err != nil && Is(err, ErrStale)
}
