package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel categories. Typed errors below report these through Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrValidation     = errors.New("validation failed")
	ErrProtectedKey   = errors.New("protected key")
	ErrIO             = errors.New("i/o failure")
	ErrPartialFailure = errors.New("partial failure")
)

// Kind names the thing an error is about.
type Kind string

const (
	KindFile      Kind = "file"
	KindSection   Kind = "section"
	KindKey       Kind = "key"
	KindProfile   Kind = "profile"
	KindWorkspace Kind = "workspace"
	KindGroup     Kind = "group"
	KindValue     Kind = "value"
)

// NotFoundError reports a missing file, section, key, profile, workspace or group.
type NotFoundError struct {
	Kind Kind
	Name string
	// Path is the file or directory that was searched, if any.
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Path != "" && e.Kind != KindFile {
		return fmt.Sprintf("%s %q not found in %s", e.Kind, e.Name, e.Path)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is allows errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError reports a create/clone/rename target that is already taken.
type AlreadyExistsError struct {
	Kind Kind
	Name string
	Path string
}

func (e *AlreadyExistsError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %q already exists in %s", e.Kind, e.Name, e.Path)
	}
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}

// Is allows errors.Is(err, ErrAlreadyExists).
func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError reports a name or value rejected by the naming rules.
// It is the InvalidNameError of the text primitives.
type ValidationError struct {
	Kind   Kind
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s name %q: %s", e.Kind, e.Name, e.Reason)
}

// Is allows errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ProtectedKeyError reports a refused mutation on a protected key.
type ProtectedKeyError struct {
	Key string
	Op  string
}

func (e *ProtectedKeyError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("key %q is protected", e.Key)
	}
	return fmt.Sprintf("cannot %s key %q: key is protected", e.Op, e.Key)
}

// Is allows errors.Is(err, ErrProtectedKey).
func (e *ProtectedKeyError) Is(target error) bool {
	return target == ErrProtectedKey
}

// IOError wraps a filesystem failure with the operation and path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes the underlying os error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrIO).
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// ItemError is a single failed item inside a PartialFailure.
type ItemError struct {
	Item string
	Err  error
}

// PartialFailure reports an aggregate operation where some items failed.
// The operation still returns the items that succeeded.
type PartialFailure struct {
	Op       string
	Failures []ItemError
}

func (e *PartialFailure) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Item, f.Err))
	}
	return fmt.Sprintf("%s: %d item(s) failed: %s", e.Op, len(e.Failures), strings.Join(parts, "; "))
}

// Is allows errors.Is(err, ErrPartialFailure).
func (e *PartialFailure) Is(target error) bool {
	return target == ErrPartialFailure
}

// Add records one failed item.
func (e *PartialFailure) Add(item string, err error) {
	e.Failures = append(e.Failures, ItemError{Item: item, Err: err})
}

// HasFailures returns true if at least one item failed.
func (e *PartialFailure) HasFailures() bool {
	return len(e.Failures) > 0
}

// ErrOrNil returns e when it holds failures and nil otherwise, so callers
// can return it directly without creating a typed-nil interface value.
func (e *PartialFailure) ErrOrNil() error {
	if e == nil || !e.HasFailures() {
		return nil
	}
	return e
}

// NotFound builds a NotFoundError.
func NotFound(kind Kind, name, path string) error {
	return &NotFoundError{Kind: kind, Name: name, Path: path}
}

// AlreadyExists builds an AlreadyExistsError.
func AlreadyExists(kind Kind, name, path string) error {
	return &AlreadyExistsError{Kind: kind, Name: name, Path: path}
}

// Invalid builds a ValidationError.
func Invalid(kind Kind, name, reason string) error {
	return &ValidationError{Kind: kind, Name: name, Reason: reason}
}

// Protected builds a ProtectedKeyError.
func Protected(key, op string) error {
	return &ProtectedKeyError{Key: key, Op: op}
}

// IO wraps err as an IOError. A nil err yields nil.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// IsNotFound reports whether err is in the not-found category.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAlreadyExists reports whether err is in the already-exists category.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// IsValidation reports whether err is in the validation category.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsProtected reports whether err is in the protected-key category.
func IsProtected(err error) bool { return errors.Is(err, ErrProtectedKey) }

// IsNotFoundKind reports whether err is a NotFoundError about the given kind.
func IsNotFoundKind(err error, kind Kind) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Kind == kind
}
