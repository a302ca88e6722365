// Package apierrors defines the error taxonomy fakecluster uses between
// its tracker, selectors, patch, immutability, and validator packages and
// the HTTP dispatcher that renders them onto the wire. Every error the
// core produces is one of the Reasons below; the dispatcher maps each to
// an HTTP status code and Kubernetes Status body.
package apierrors

import (
	"errors"
	"fmt"
)

// Reason is one of a fixed taxonomy of error kinds. It mirrors
// metav1.StatusReason but is kept local so the core packages do not need
// to import apimachinery's error package just to originate an error.
type Reason string

const (
	ReasonNotFound                 Reason = "NotFound"
	ReasonAlreadyExists            Reason = "AlreadyExists"
	ReasonConflict                 Reason = "Conflict"
	ReasonInvalid                  Reason = "Invalid"
	ReasonBadRequest               Reason = "BadRequest"
	ReasonMethodNotAllowed         Reason = "MethodNotAllowed"
	ReasonInternalError            Reason = "InternalError"
)

// codeForReason is the fixed Reason->HTTP-code table.
var codeForReason = map[Reason]int{
	ReasonNotFound:         404,
	ReasonAlreadyExists:    409,
	ReasonConflict:         409,
	ReasonInvalid:          422,
	ReasonBadRequest:       400,
	ReasonMethodNotAllowed: 405,
	ReasonInternalError:    500,
}

// Error is the single error type carried through the core. Dispatcher code
// renders it into a wire Status object using Reason and Code; everything
// else in the core treats it as an ordinary error.
type Error struct {
	Reason  Reason
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(reason Reason, message string) *Error {
	return &Error{Reason: reason, Code: codeForReason[reason], Message: message}
}

// NotFound returns the byte-exact NotFound error for (plural, name).
func NotFound(plural, name string) *Error {
	return newError(ReasonNotFound, fmt.Sprintf("%s %q not found", plural, name))
}

// AlreadyExists returns the byte-exact AlreadyExists error for (plural, name).
func AlreadyExists(plural, name string) *Error {
	return newError(ReasonAlreadyExists, fmt.Sprintf("%s %q already exists", plural, name))
}

// Conflict returns a free-form optimistic-concurrency conflict error.
func Conflict(message string) *Error {
	return newError(ReasonConflict, message)
}

// Invalid returns a free-form InvalidRequest/MetadataError.
func Invalid(message string) *Error {
	return newError(ReasonInvalid, message)
}

// PatchFailed returns the byte-exact PatchError message.
func PatchFailed(message string) *Error {
	return newError(ReasonInvalid, fmt.Sprintf("Patch error: %s", message))
}

// ImmutableField returns the byte-exact ImmutableField error for a field path.
func ImmutableField(path string) *Error {
	return newError(ReasonInvalid, fmt.Sprintf("field is immutable: %s", path))
}

// ValidationFailed returns the byte-exact ValidationFailed error carrying
// the schema validator's error list rendered into a single message.
func ValidationFailed(kind, errs string) *Error {
	return newError(ReasonInvalid, fmt.Sprintf("%s failed schema validation: %s", kind, errs))
}

// FieldSelectorNotSupported returns the byte-exact error for an
// unregistered field-selector field.
func FieldSelectorNotSupported(field, kind string) *Error {
	return newError(ReasonBadRequest, fmt.Sprintf("field selector %s not supported for %s", field, kind))
}

// SerializationFailed returns the byte-exact SerializationError message.
func SerializationFailed(message string) *Error {
	return newError(ReasonBadRequest, fmt.Sprintf("Serialization error: %s", message))
}

// ResourceNotRegistered returns the byte-exact error for an unknown GVR.
func ResourceNotRegistered(group, plural string) *Error {
	return newError(ReasonNotFound, fmt.Sprintf("the server could not find the requested resource (%s/%s)", group, plural))
}

// VerbNotSupported returns the byte-exact error for a verb the discovery
// table (or registry) does not list for this kind.
func VerbNotSupported(kind, verb string) *Error {
	return newError(ReasonMethodNotAllowed, fmt.Sprintf("%s %q is forbidden: verb %q is not supported", kind, kind, verb))
}

// Internal wraps an unexpected error as a taxonomy Internal error.
func Internal(message string) *Error {
	return newError(ReasonInternalError, message)
}

// As reports whether err is (or wraps) an *Error, returning it if so.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
