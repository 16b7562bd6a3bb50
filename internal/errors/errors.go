package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitgarden/internal/logger"
)

var (
	// ErrValidation matches any ValidationError
	ErrValidation = stderrors.New("validation failed")
	// ErrNotFound matches any NotFoundError
	ErrNotFound = stderrors.New("not found")
	// ErrAlreadyFriend matches any AlreadyFriendError
	ErrAlreadyFriend = stderrors.New("already a friend")
)

// ValidationError reports malformed input. The operation left state unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validation builds a ValidationError for field.
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to an entity that does not exist.
type NotFoundError struct {
	Kind string // "user", "habit", "post", ...
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// AlreadyFriendError reports a duplicate friendship attempt.
type AlreadyFriendError struct {
	Username string
}

func (e *AlreadyFriendError) Error() string {
	return fmt.Sprintf("already friends with %s", e.Username)
}

func (e *AlreadyFriendError) Is(target error) bool { return target == ErrAlreadyFriend }

// New, Is and As re-export the standard helpers so callers need a single import.
func New(text string) error { return stderrors.New(text) }
func Is(err, target error) bool { return stderrors.Is(err, target) }
func As(err error, target any) bool { return stderrors.As(err, target) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
