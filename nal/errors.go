package nal

import (
	"errors"
	"fmt"
)

// Sentinel errors for NAL unit header validation. These enable callers
// to distinguish failure modes with errors.Is.
var (
	ErrForbiddenBit    = errors.New("nal: forbidden_zero_bit set")
	ErrTruncatedHeader = errors.New("nal: unit shorter than two-byte header")

	// ErrDependentSlice is returned by slice header accessors for
	// fields a dependent slice segment inherits from the preceding
	// independent segment instead of carrying itself.
	ErrDependentSlice = errors.New("nal: field not carried by dependent slice segment")
)

// HeaderError indicates a NAL unit header that violates a fixed
// invariant. The unit it belongs to is reported invalid; scanning of
// subsequent units continues.
type HeaderError struct {
	Err error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("nal: malformed unit header: %v", e.Err)
}

func (e *HeaderError) Unwrap() error { return e.Err }

// ParamSetKind identifies one of the three parameter set registries.
type ParamSetKind uint8

const (
	KindVPS ParamSetKind = iota
	KindSPS
	KindPPS
)

func (k ParamSetKind) String() string {
	switch k {
	case KindVPS:
		return "VPS"
	case KindSPS:
		return "SPS"
	case KindPPS:
		return "PPS"
	}
	return fmt.Sprintf("ParamSetKind(%d)", uint8(k))
}

// UnresolvedParameterSetError indicates a cross-reference that could not
// be resolved in the [Context] at decode time. It is recoverable: the
// caller may register the missing set (for example when it arrives later
// in the stream) and retry the same accessor.
type UnresolvedParameterSetError struct {
	Kind ParamSetKind
	ID   uint8
}

func (e *UnresolvedParameterSetError) Error() string {
	return fmt.Sprintf("nal: unresolved %s id %d", e.Kind, e.ID)
}

// UnsupportedSyntaxError indicates a syntax element whose width depends
// on unmodeled extension state. Decoding of the structure stops at the
// point of ambiguity; fields decoded before it remain valid and cached.
type UnsupportedSyntaxError struct {
	Field string
}

func (e *UnsupportedSyntaxError) Error() string {
	return fmt.Sprintf("nal: unsupported syntax at %s", e.Field)
}

// ValueError indicates a decoded syntax element outside its allowed
// range. Later fields in the structure cannot be trusted, so the decode
// stops.
type ValueError struct {
	Field string
	Value uint32
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("nal: %s out of range: %d", e.Field, e.Value)
}
