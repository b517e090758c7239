package failure

// Code is a machine-readable failure code.
type Code string

// Transient failures (retryable)
const (
	// CodeRetryable marks a failure explicitly signalled as transient.
	CodeRetryable Code = "RETRYABLE"
	// CodeTimeout indicates an operation exceeded its deadline.
	CodeTimeout Code = "TIMEOUT"
	// CodeConnectionFailed indicates a failed connection to a provider.
	CodeConnectionFailed Code = "CONNECTION_FAILED"
)

// Terminal failures (never retried)
const (
	// CodePermanent marks a failure explicitly signalled as permanent.
	CodePermanent Code = "PERMANENT"
	// CodeConfiguration indicates invalid setup, fatal at construction.
	CodeConfiguration Code = "CONFIGURATION"
	// CodeShutDown indicates use of a resource after shutdown.
	CodeShutDown Code = "SHUT_DOWN"
	// CodeRetryExhausted indicates every allowed attempt failed.
	CodeRetryExhausted Code = "RETRY_EXHAUSTED"
)
