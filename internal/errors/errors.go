package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// Configuration errors - missing or invalid configuration
	ErrorTypeConfig ErrorType = iota
	// Validation errors - invalid search input
	ErrorTypeValidation
	// Search errors - the Search API rejected or failed the whole request
	ErrorTypeSearch
	// RateLimited errors - upstream throttling on a single repository
	ErrorTypeRateLimited
	// Fetch errors - non-throttling upstream failure on a single repository
	ErrorTypeFetch
	// Network errors - transport failures talking to GitHub
	ErrorTypeNetwork
	// Internal errors - unexpected internal state
	ErrorTypeInternal
)

// Severity represents how critical an error is
type Severity int

const (
	// SeverityLow - absorbed into a degraded result
	SeverityLow Severity = iota
	// SeverityMedium - should be addressed but not fatal
	SeverityMedium
	// SeverityHigh - aborts the current search
	SeverityHigh
	// SeverityCritical - must be addressed, stops execution
	SeverityCritical
)

// Error represents a structured error with context
type Error struct {
	Type       ErrorType
	Severity   Severity
	Message    string
	Cause      error
	Context    map[string]interface{}
	StackTrace string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Is matches on error type, so errors.Is(err, errors.ErrSearch) works for any search failure
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// DetailedString returns a detailed error message with context
func (e *Error) DetailedString() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] [%s] %s\n",
		severityString(e.Severity),
		typeString(e.Type),
		e.Message))

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("Caused by: %v\n", e.Cause))
	}

	if len(e.Context) > 0 {
		sb.WriteString("Context:\n")
		for k, v := range e.Context {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", k, v))
		}
	}

	if e.StackTrace != "" {
		sb.WriteString(fmt.Sprintf("Stack trace:\n%s\n", e.StackTrace))
	}

	return sb.String()
}

// Sentinels for errors.Is checks against a category
var (
	ErrConfig      = &Error{Type: ErrorTypeConfig}
	ErrValidation  = &Error{Type: ErrorTypeValidation}
	ErrSearch      = &Error{Type: ErrorTypeSearch}
	ErrRateLimited = &Error{Type: ErrorTypeRateLimited}
	ErrFetch       = &Error{Type: ErrorTypeFetch}
	ErrNetwork     = &Error{Type: ErrorTypeNetwork}
)

func (t ErrorType) String() string {
	return typeString(t)
}

func typeString(t ErrorType) string {
	switch t {
	case ErrorTypeConfig:
		return "CONFIG"
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeSearch:
		return "SEARCH"
	case ErrorTypeRateLimited:
		return "RATE_LIMITED"
	case ErrorTypeFetch:
		return "FETCH"
	case ErrorTypeNetwork:
		return "NETWORK"
	case ErrorTypeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

func severityString(s Severity) string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// captureStackTrace captures the current stack trace
func captureStackTrace(skip int) string {
	var sb strings.Builder
	for i := skip; i < skip+10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			break
		}
		sb.WriteString(fmt.Sprintf("  %s:%d %s\n", file, line, fn.Name()))
	}
	return sb.String()
}

// New creates a new error with the given type, severity, and message
func New(errType ErrorType, severity Severity, message string) *Error {
	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, severity Severity, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Cause:      err,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(2),
	}
}

// ConfigErrorf creates a configuration error with formatting
func ConfigErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeConfig, SeverityCritical, fmt.Sprintf(format, args...))
}

// ValidationError creates a validation error
func ValidationError(message string) *Error {
	return New(ErrorTypeValidation, SeverityHigh, message)
}

// ValidationErrorf creates a validation error with formatting
func ValidationErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeValidation, SeverityHigh, fmt.Sprintf(format, args...))
}

// SearchFailure wraps a whole-request Search API failure. message is what the user sees.
func SearchFailure(err error, message string) *Error {
	if message == "" {
		message = "Failed to fetch repositories"
	}
	if err == nil {
		return New(ErrorTypeSearch, SeverityHigh, message)
	}
	return Wrap(err, ErrorTypeSearch, SeverityHigh, message)
}

// RateLimited wraps an upstream throttling signal for one repository
func RateLimited(err error, repo string) *Error {
	e := New(ErrorTypeRateLimited, SeverityLow, "rate limit exceeded")
	e.Cause = err
	return e.WithContext("repository", repo)
}

// FetchErrored wraps a non-throttling upstream failure for one repository
func FetchErrored(err error, repo string) *Error {
	if err == nil {
		err = stderrors.New("unknown upstream failure")
	}
	return Wrap(err, ErrorTypeFetch, SeverityLow, "fetch events").
		WithContext("repository", repo)
}

// NetworkError wraps a network error
func NetworkError(err error, message string) *Error {
	return Wrap(err, ErrorTypeNetwork, SeverityHigh, message)
}

// IsRateLimited reports whether err (or anything it wraps) is a throttling signal
func IsRateLimited(err error) bool {
	return stderrors.Is(err, ErrRateLimited)
}

// Detail returns the detailed rendering of the outermost structured error in err's chain,
// or err.Error() for plain errors
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.DetailedString()
	}
	return err.Error()
}

// GetType returns the type of an error
func GetType(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeInternal
}

// UserMessage returns the message to show an end user for err.
// Structured errors expose their Message without the wrapped cause chain.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
