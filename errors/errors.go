package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates which boundary concern raised the error
type Phase string

const (
	PhaseHandle   Phase = "handle"   // handle wrap/unwrap/release
	PhasePose     Phase = "pose"     // host pose to engine transform
	PhaseGeometry Phase = "geometry" // tessellation
	PhaseBinding  Phase = "binding"  // user data attach/detach
	PhaseEngine   Phase = "engine"   // calls forwarded to the engine
	PhaseConfig   Phase = "config"   // scene file loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidHandle       Kind = "invalid_handle"
	KindInvalidPoseShape    Kind = "invalid_pose_shape"
	KindUnsupportedGeometry Kind = "unsupported_geometry"
	KindDoubleRelease       Kind = "double_release"
	KindInvalidData         Kind = "invalid_data"
	KindInvalidInput        Kind = "invalid_input"
	KindUnsupported         Kind = "unsupported"
	KindNotFound            Kind = "not_found"
	KindClosed              Kind = "closed"
)

// Kind-only sentinels for errors.Is.
var (
	ErrInvalidHandle       = &Error{Kind: KindInvalidHandle}
	ErrInvalidPoseShape    = &Error{Kind: KindInvalidPoseShape}
	ErrUnsupportedGeometry = &Error{Kind: KindUnsupportedGeometry}
	ErrDoubleRelease       = &Error{Kind: KindDoubleRelease}
	ErrClosed              = &Error{Kind: KindClosed}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
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

// InvalidHandle creates an invalid handle error. h is kept as the error value.
func InvalidHandle(h any, reason string) *Error {
	return &Error{
		Phase:  PhaseHandle,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("%v: %s", h, reason),
		Value:  h,
	}
}

// DoubleRelease creates the error the arena panics with on a second release
func DoubleRelease(h any) *Error {
	return &Error{
		Phase:  PhaseHandle,
		Kind:   KindDoubleRelease,
		Detail: fmt.Sprintf("%v already released", h),
		Value:  h,
	}
}

// InvalidPoseShape creates a pose decoding error
func InvalidPoseShape(path []string, value any, detail string) *Error {
	return &Error{
		Phase:  PhasePose,
		Kind:   KindInvalidPoseShape,
		Path:   path,
		Detail: detail,
		Value:  value,
	}
}

// UnsupportedGeometry creates an error for a geometry kind with no tessellation
func UnsupportedGeometry(kind string) *Error {
	return &Error{
		Phase:  PhaseGeometry,
		Kind:   KindUnsupportedGeometry,
		Detail: fmt.Sprintf("no tessellation for %s geometry", kind),
		Value:  kind,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an invalid data error for an index past the end of a buffer
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
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

// Closed creates an error for an operation on a closed arena, registry or runtime
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: what + " closed",
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

// Engine wraps a failure reported by the engine
func Engine(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseEngine,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Config creates a scene configuration error at the given path
func Config(path []string, cause error, detail string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
		Cause:  cause,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
