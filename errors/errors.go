package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // dispatch table construction
	PhaseEncode   Phase = "encode"   // host value to wire
	PhaseDecode   Phase = "decode"   // wire to host value
	PhaseStream   Phase = "stream"   // message framing in a session
	PhaseBridge   Phase = "bridge"   // wasm guest boundary
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindDispatch         Kind = "dispatch"
	KindMalformedInput   Kind = "malformed_input"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindDepthExceeded    Kind = "depth_exceeded"
	KindTypeMismatch     Kind = "type_mismatch"
	KindOverflow         Kind = "overflow"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindRegistration     Kind = "registration"
	KindInvalidInput     Kind = "invalid_input"
	KindNotFound         Kind = "not_found"
)

// Error is the structured error type used throughout mxpack
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	HostType string
	WireType string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(JoinPath(e.Path))
	}

	if e.HostType != "" || e.WireType != "" {
		b.WriteString(": ")
		switch {
		case e.HostType != "" && e.WireType != "":
			b.WriteString("host class ")
			b.WriteString(e.HostType)
			b.WriteString(", wire kind ")
			b.WriteString(e.WireType)
		case e.HostType != "":
			b.WriteString("host class ")
			b.WriteString(e.HostType)
		default:
			b.WriteString("wire kind ")
			b.WriteString(e.WireType)
		}
	}

	if e.Detail != "" {
		if e.HostType != "" || e.WireType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// JoinPath renders a path, attaching index segments like "[2]" without a dot.
func JoinPath(path []string) string {
	var b strings.Builder
	for i, p := range path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// HostType sets the host class name
func (b *Builder) HostType(t string) *Builder {
	b.err.HostType = t
	return b
}

// WireType sets the wire kind name
func (b *Builder) WireType(t string) *Builder {
	b.err.WireType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NoDecoder reports a wire kind without a registered decode handler
func NoDecoder(path []string, wireKind string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindDispatch,
		Path:     path,
		WireType: wireKind,
		Detail:   "no decoder registered",
	}
}

// NoEncoder reports a host class without a registered encode handler
func NoEncoder(path []string, hostClass string) *Error {
	return &Error{
		Phase:    PhaseEncode,
		Kind:     KindDispatch,
		Path:     path,
		HostType: hostClass,
		Detail:   "no encoder registered",
	}
}

// Malformed creates a malformed input error
func Malformed(phase Phase, offset int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedInput,
		Detail: fmt.Sprintf("no valid message at offset %d", offset),
		Value:  offset,
		Cause:  cause,
	}
}

// DepthExceeded creates a nesting limit error
func DepthExceeded(phase Phase, path []string, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepthExceeded,
		Path:   path,
		Detail: fmt.Sprintf("nesting deeper than %d", limit),
		Value:  limit,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, hostType, wireType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		HostType: hostType,
		WireType: wireType,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, limit string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v overflows %s", value, limit),
		Value:  value,
	}
}

// CapacityExceeded creates a bounded-output error
func CapacityExceeded(phase Phase, need, capacity int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCapacityExceeded,
		Detail: fmt.Sprintf("need %d bytes, capacity %d", need, capacity),
		Value:  need,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) out of bounds", offset, uint64(offset)+uint64(length)),
		Value:  offset,
	}
}

// Registration creates a registration error
func Registration(detail string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindRegistration,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsDispatch reports whether err is an unknown-type failure
func IsDispatch(err error) bool {
	return KindOf(err) == KindDispatch
}

// IsMalformed reports whether err is a malformed-bytes failure
func IsMalformed(err error) bool {
	return KindOf(err) == KindMalformedInput
}
