// Package hdl plans balanced 4-ary arg-min reduction networks. Given
// an entry count and payload width it derives the tree shape, the
// per-level bit bookkeeping and the pipeline register placement; the
// hdl/verilog package renders the planned structure as Verilog-2001.
package hdl

import (
	"regexp"
	"strings"

	"github.com/teranos/qmin/errors"
)

// MuxStyle selects how a reduction node forwards the winning child's
// index and payload.
type MuxStyle int

const (
	// MuxCase emits an exhaustive case statement over the select pair.
	MuxCase MuxStyle = iota

	// MuxIfElse emits a priority if/else chain over the decoded select
	// terms, defaulting to the last child.
	MuxIfElse

	// MuxExtendedLUT requests the wide-input vendor LUT form. There is
	// no portable primitive for it, so rendering falls back to the case
	// form and the generator warns once per run.
	MuxExtendedLUT
)

// String returns the canonical flag token for the style.
func (m MuxStyle) String() string {
	switch m {
	case MuxCase:
		return "CASE"
	case MuxIfElse:
		return "IFELSE"
	case MuxExtendedLUT:
		return "EXTLUT"
	}
	return "UNKNOWN"
}

// ParseMuxStyle maps a flag token to a MuxStyle. Matching is
// case-insensitive.
func ParseMuxStyle(s string) (MuxStyle, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CASE":
		return MuxCase, nil
	case "IFELSE":
		return MuxIfElse, nil
	case "EXTLUT":
		return MuxExtendedLUT, nil
	}
	return MuxCase, errors.Wrapf(errors.ErrInvalidMuxStyle, "unknown mux style %q (want CASE, IFELSE or EXTLUT)", s)
}

// EncoderSpec fully determines one generated network. Validate runs
// before any structure is built; generation never mutates the spec and
// cannot fail once validation passes.
type EncoderSpec struct {
	// ModuleSuffix distinguishes the emitted modules. Every module
	// name ends in _<ModuleSuffix> and the artifact file is named
	// argmin_<ModuleSuffix>.v.
	ModuleSuffix string

	// Width is the number of input entries W.
	Width int

	// PrefixWidth is the payload width P in bits per entry.
	PrefixWidth int

	// MaxCombDepth bounds how many compare levels may stack between
	// register stages. Zero means unbounded, a fully combinational
	// core.
	MaxCombDepth int

	// MuxStyle selects the per-node forwarding form.
	MuxStyle MuxStyle

	// RegisterInputs adds a register stage on the raw input vectors.
	RegisterInputs bool

	// RegisterOutputs adds a register stage on the final outputs.
	RegisterOutputs bool
}

// Verilog identifiers: letter or underscore first, then letters,
// digits, underscores. Escaped identifiers are not worth supporting in
// generated module names.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks every spec field and reports the first violation.
// All validation happens here, before any structure is built, so a
// failed run emits nothing.
func (s *EncoderSpec) Validate() error {
	if !identPattern.MatchString(s.ModuleSuffix) {
		return errors.Wrapf(errors.ErrInvalidSuffix, "module suffix %q is not a Verilog identifier", s.ModuleSuffix)
	}
	if s.Width < 2 {
		return errors.Wrapf(errors.ErrInvalidWidth, "width %d: a reduction needs at least 2 entries", s.Width)
	}
	if s.PrefixWidth < 1 {
		return errors.Wrapf(errors.ErrInvalidPrefixWidth, "prefix width %d: payloads need at least 1 bit", s.PrefixWidth)
	}
	if s.MaxCombDepth < 0 {
		return errors.Wrapf(errors.ErrInvalidCombDepth, "max combinational depth %d: want 0 (unbounded) or a positive level count", s.MaxCombDepth)
	}
	if s.MuxStyle < MuxCase || s.MuxStyle > MuxExtendedLUT {
		return errors.Wrapf(errors.ErrInvalidMuxStyle, "mux style %d is out of range", int(s.MuxStyle))
	}
	return nil
}
