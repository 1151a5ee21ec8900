package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseToManaged Phase = "to_managed" // script value to managed object
	PhaseToScript  Phase = "to_script"  // managed object to script value
	PhaseCodec     Phase = "codec"      // big-integer conversion
	PhaseLayout    Phase = "layout"     // engine cell layout access
	PhaseHeap      Phase = "heap"       // engine memory operations
	PhaseEngine    Phase = "engine"     // script engine operations
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupported        Kind = "unsupported"         // value kind has no analog on the other side
	KindUnrecognizedObject Kind = "unrecognized_object" // no dispatch rule matched
	KindMeasurement        Kind = "measurement"         // bit-length introspection failed
	KindArchUnsupported    Kind = "arch_unsupported"    // non-little-endian host
	KindSignCorrupt        Kind = "sign_corrupt"        // sign-count field in an impossible state
	KindOutOfBounds        Kind = "out_of_bounds"       // heap access outside engine memory
	KindAllocation         Kind = "allocation"          // engine cell allocation failed
	KindInvalidRadix       Kind = "invalid_radix"       // big-integer parse radix or digits
	KindOverflow           Kind = "overflow"            // magnitude exceeds destination limits
	KindReleased           Kind = "released"            // use of a released wrapper
	KindLayoutVersion      Kind = "layout_version"      // no contract covers the engine build
	KindBadValue           Kind = "bad_value"           // malformed script value
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	ScriptKind string
	Managed    string
	Detail     string
	Path       []string
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
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.ScriptKind != "" || e.Managed != "" {
		b.WriteString(": ")
		if e.ScriptKind != "" && e.Managed != "" {
			b.WriteString("script ")
			b.WriteString(e.ScriptKind)
			b.WriteString(", managed ")
			b.WriteString(e.Managed)
		} else if e.ScriptKind != "" {
			b.WriteString("script ")
			b.WriteString(e.ScriptKind)
		} else {
			b.WriteString("managed ")
			b.WriteString(e.Managed)
		}
	}

	if e.Detail != "" {
		if e.ScriptKind != "" || e.Managed != "" {
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

// IsKind reports whether err is a bridge error of the given kind.
// Callers use this to tell unsupported-kind outcomes from hard failures.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// ScriptKind sets the script-side kind or class name
func (b *Builder) ScriptKind(k string) *Builder {
	b.err.ScriptKind = k
	return b
}

// Managed sets the managed-side type name
func (b *Builder) Managed(t string) *Builder {
	b.err.Managed = t
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

// Unsupported creates an unsupported-kind error. Non-fatal by contract:
// the value is dropped, execution continues.
func Unsupported(phase Phase, kind string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindUnsupported,
		ScriptKind: kind,
		Detail:     fmt.Sprintf("%s values are not convertible", kind),
	}
}

// Unrecognized creates the hard failure for a value no dispatch rule matched.
// rendering is the value's textual form, carried for diagnostics.
func Unrecognized(phase Phase, kind, rendering string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindUnrecognizedObject,
		ScriptKind: kind,
		Detail:     fmt.Sprintf("cannot convert value of kind %s: %s", kind, rendering),
		Value:      rendering,
	}
}

// Measurement creates a codec failure for a bit-length probe that failed.
func Measurement(cause error) *Error {
	return &Error{
		Phase:  PhaseCodec,
		Kind:   KindMeasurement,
		Detail: "magnitude bit length could not be determined",
		Cause:  cause,
	}
}

// ArchUnsupported creates the fail-fast error for big-endian hosts.
func ArchUnsupported() *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindArchUnsupported,
		Detail: "big-endian hosts are not supported",
	}
}

// OutOfBounds creates an engine memory bounds error.
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access of %d bytes at %#x exceeds memory size %d", length, offset, size),
	}
}

// AllocationFailed creates a cell allocation failure error.
func AllocationFailed(size, align uint32) *Error {
	return &Error{
		Phase:  PhaseHeap,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// InvalidRadix creates a big-integer parse error.
func InvalidRadix(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseEngine,
		Kind:   KindInvalidRadix,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Released creates a use-after-release error for wrappers.
func Released(what string) *Error {
	return &Error{
		Phase:  PhaseToScript,
		Kind:   KindReleased,
		Detail: fmt.Sprintf("%s already released", what),
	}
}

// LayoutVersion creates an error for an engine build no contract covers.
func LayoutVersion(build string) *Error {
	return &Error{
		Phase:  PhaseLayout,
		Kind:   KindLayoutVersion,
		Detail: fmt.Sprintf("no layout contract covers engine build %q", build),
	}
}

// BadValue creates an error for a malformed script value.
func BadValue(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBadValue,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// SignCorrupt creates an error for an impossible sign-count state.
func SignCorrupt(size, digits int) *Error {
	return &Error{
		Phase:  PhaseCodec,
		Kind:   KindSignCorrupt,
		Detail: fmt.Sprintf("sign-count %d does not match %d stored digits", size, digits),
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
