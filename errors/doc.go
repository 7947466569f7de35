// Package errors provides structured error types for the rigidbind boundary layer.
//
// Errors are categorized by Phase (which boundary concern raised it) and Kind
// (error category). The Error type carries the field path into the host value,
// the offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhasePose, errors.KindInvalidPoseShape).
//		Path("pose", "1").
//		Value(input).
//		Detail("orientation has no w field").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidHandle(h, "released")
//	err := errors.UnsupportedGeometry("plane")
//
// Kind-only sentinels (ErrInvalidHandle, ErrInvalidPoseShape, ...) match any
// phase through errors.Is:
//
//	if errors.Is(err, errors.ErrInvalidHandle) { ... }
//
// DoubleRelease errors are never returned. The resource arena panics with one,
// since the engine's resource table cannot be trusted after a second free.
package errors
