// Package failure defines the failure taxonomy shared by the bulkhead and
// retry layers: transient vs. permanent kinds, construction helpers, and
// the classifier that decides whether an observed error is worth retrying.
package failure

import (
	"fmt"
	"time"
)

// Failure is the tagged failure type a unit of work may signal.
type Failure struct {
	// Code is a machine-readable failure code.
	Code Code `json:"code"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// Retryable indicates whether re-attempting the operation can succeed.
	Retryable bool `json:"retryable"`
	// Details carries additional context for the failure.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error returns the string representation of the failure.
func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", f.Code, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error { return f.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (f *Failure) WithCause(cause error) *Failure {
	f.Cause = cause
	return f
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (f *Failure) WithDetail(key string, value any) *Failure {
	if f.Details == nil {
		f.Details = make(map[string]any)
	}
	f.Details[key] = value
	return f
}

// Retryable creates a failure explicitly marked as transient.
func Retryable(message string) *Failure {
	return &Failure{Code: CodeRetryable, Message: message, Retryable: true}
}

// Permanent creates a failure that retrying cannot fix.
func Permanent(message string) *Failure {
	return &Failure{Code: CodePermanent, Message: message, Retryable: false}
}

// Timeout creates a failure for a partition call that exceeded its deadline.
func Timeout(partition string, timeout time.Duration) *Failure {
	return &Failure{
		Code:      CodeTimeout,
		Message:   fmt.Sprintf("operation timed out in partition %q after %s", partition, timeout),
		Retryable: true,
		Details:   map[string]any{"partition": partition, "timeout": timeout.String()},
	}
}

// ConnectionFailed creates a failure for an unreachable provider.
func ConnectionFailed(target string) *Failure {
	return &Failure{
		Code:      CodeConnectionFailed,
		Message:   fmt.Sprintf("unable to connect to %s", target),
		Retryable: true,
		Details:   map[string]any{"target": target},
	}
}

// Config creates a failure for invalid setup. Fatal at construction,
// never retried.
func Config(message string) *Failure {
	return &Failure{Code: CodeConfiguration, Message: message, Retryable: false}
}

// ShutDown creates a failure for use of a resource after shutdown.
func ShutDown(resource string) *Failure {
	return &Failure{
		Code:      CodeShutDown,
		Message:   fmt.Sprintf("%s has been shut down", resource),
		Retryable: false,
		Details:   map[string]any{"resource": resource},
	}
}

// Exhausted creates the terminal failure returned when every allowed
// attempt failed. The most recent underlying cause is attached and
// reachable via errors.Unwrap.
func Exhausted(attempts int, last error) *Failure {
	return &Failure{
		Code:      CodeRetryExhausted,
		Message:   fmt.Sprintf("all %d attempts failed", attempts),
		Retryable: false,
		Details:   map[string]any{"attempts": attempts},
		Cause:     last,
	}
}
