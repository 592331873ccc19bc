package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which container operation produced the error
type Phase string

const (
	PhaseConstruct Phase = "construct" // construct-from-value, Set
	PhaseCopy      Phase = "copy"      // Copy, Assign
	PhaseAccess    Phase = "access"    // checked typed access
	PhaseAlloc     Phase = "alloc"     // allocator bookkeeping
	PhaseParse     Phase = "parse"     // shape catalogs
	PhaseHandle    Phase = "handle"    // handle table operations
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation   Kind = "allocation"
	KindUnsupported  Kind = "unsupported"
	KindTypeMismatch Kind = "type_mismatch"
	KindEmpty        Kind = "empty"
	KindClone        Kind = "clone"
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindBusy         Kind = "busy"
	KindClosed       Kind = "closed"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string // type requested or being constructed
	Stored string // type actually held, for mismatches
	Detail string
	Path   []string
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

	if e.Type != "" || e.Stored != "" {
		b.WriteString(": ")
		switch {
		case e.Type != "" && e.Stored != "":
			b.WriteString("want ")
			b.WriteString(e.Type)
			b.WriteString(", holds ")
			b.WriteString(e.Stored)
		case e.Type != "":
			b.WriteString("type ")
			b.WriteString(e.Type)
		default:
			b.WriteString("holds ")
			b.WriteString(e.Stored)
		}
	}

	if e.Detail != "" {
		if e.Type != "" || e.Stored != "" {
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

// Type sets the requested type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Stored sets the held type name
func (b *Builder) Stored(t string) *Builder {
	b.err.Stored = t
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

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, typeName string, size, align uintptr) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Type:   typeName,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// TypeMismatch creates a type mismatch error for checked access
func TypeMismatch(phase Phase, want, stored string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Type:   want,
		Stored: stored,
	}
}

// Empty creates an error for access to an empty container
func Empty(phase Phase, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEmpty,
		Type:   want,
		Detail: "container is empty",
	}
}

// Unsupported creates an error for a payload type the container cannot admit
func Unsupported(phase Phase, typeName, why string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Type:   typeName,
		Detail: why,
	}
}

// CloneFailed wraps an error returned by a payload's Clone method
func CloneFailed(typeName string, cause error) *Error {
	return &Error{
		Phase:  PhaseCopy,
		Kind:   KindClone,
		Type:   typeName,
		Detail: "clone payload",
		Cause:  cause,
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

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
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
