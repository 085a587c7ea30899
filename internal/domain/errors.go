// Package domain defines the error taxonomy shared by services and handlers.
package domain

import "fmt"

// Code is the machine-readable error type surfaced to callers.
type Code string

const (
	CodeValidation        Code = "validation_error"
	CodeTimeSlotConflict  Code = "time_slot_conflict"
	CodeWeekendBlocked    Code = "weekend_blocked"
	CodePastDate          Code = "past_date"
	CodeDateBlocked       Code = "date_blocked"
	CodeSameDateBooking   Code = "same_date_booking_exists"
	CodeMaxActiveBookings Code = "max_active_bookings"
	CodeNotFound          Code = "not_found"
	CodeInvalidStatus     Code = "invalid_status"
	CodeInvalidState      Code = "invalid_state"
	CodeDependency        Code = "dependency_error"
)

// Error carries the code plus enough structured context for the caller to
// explain the rejection to an end user without a second query (conflicting
// booking's date/time/status, blocked-date reason, existing active bookings).
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetail attaches a context value and returns the same error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// Dependency wraps a storage failure as a retryable dependency error. The
// underlying error stays server-side; callers only see the operation name.
func Dependency(op string, err error) *Error {
	e := Newf(CodeDependency, "storage unavailable during %s", op)
	e.cause = err
	return e.WithDetail("op", op)
}

// Unwrap exposes the wrapped storage error for errors.Is/As and logging.
func (e *Error) Unwrap() error {
	return e.cause
}
