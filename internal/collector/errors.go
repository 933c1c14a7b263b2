package collector

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkFailure marks an unreachable feed or a non-success response.
	ErrNetworkFailure = errors.New("network failure")
	// ErrMalformedPayload marks a reachable feed whose payload cannot be normalized.
	ErrMalformedPayload = errors.New("malformed payload")
)

func networkErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNetworkFailure, fmt.Sprintf(format, args...))
}

func malformedErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}

// Classify names the failure kind of err for logs and health reports.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetworkFailure):
		return "network"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed"
	default:
		return "unknown"
	}
}
