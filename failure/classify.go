package failure

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// Classify maps an arbitrary error to a failure code. Tagged failures keep
// their own code; host-environment timeout and connectivity errors map to
// CodeTimeout and CodeConnectionFailed; everything else is CodeRetryable.
func Classify(err error) Code {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) {
		return CodeConnectionFailed
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return CodeConnectionFailed
	}

	// Unrecognized failures default to retryable. The system is tuned to
	// over-retry infrastructure glitches rather than silently drop them.
	return CodeRetryable
}

// IsRetryable reports whether err should be re-attempted under the default
// policy: tagged failures answer for themselves, everything else retries.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Retryable
	}
	return true
}

// IsPermanent reports whether err was explicitly signalled as permanent.
func IsPermanent(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Code == CodePermanent
}

// IsTimeout reports whether err is a partition timeout failure.
func IsTimeout(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Code == CodeTimeout
}

// IsConfig reports whether err is a configuration failure.
func IsConfig(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Code == CodeConfiguration
}

// IsShutDown reports whether err signals use after shutdown.
func IsShutDown(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Code == CodeShutDown
}

// IsExhausted reports whether err is the retries-exhausted failure.
func IsExhausted(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Code == CodeRetryExhausted
}

// RetryOnly builds a predicate that retries only failures classifying to
// one of the given codes. Use it to narrow the default retry-everything
// policy for a particular call site.
func RetryOnly(codes ...Code) func(error) bool {
	set := make(map[Code]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return func(err error) bool {
		if err == nil {
			return false
		}
		_, ok := set[Classify(err)]
		return ok
	}
}
