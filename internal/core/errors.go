package core

import (
	"errors"
	"fmt"
	"strings"
)

// The error taxonomy of the dashboard. Callers branch on the variant with
// errors.As rather than parsing message text.

// ConfigError reports a fatal configuration problem. It is only produced
// during process startup; nothing recovers from it per request.
type ConfigError struct {
	Field  string
	Reason string
}

func (e ConfigError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// ValidationError rejects a malformed or rule-violating order before any
// network call. Reason is the exact client-facing message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string { return e.Reason }

// SecurityError rejects a request at one of the safety gates (non-testnet
// endpoint, bad dashboard token) regardless of order content.
type SecurityError struct {
	Reason string
}

func (e SecurityError) Error() string { return e.Reason }

// UpstreamError wraps any failure at the exchange boundary. Status and
// Code/Msg are set when the exchange answered with a structured error;
// Status == 0 means the call never completed (transport failure) and Err
// carries the underlying cause.
type UpstreamError struct {
	Status int
	Code   int
	Msg    string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return "exchange unreachable: " + e.Err.Error()
	}
	if e.Code == 0 {
		// Non-JSON exchange body; only the HTTP status is meaningful.
		return fmt.Sprintf("binance api error (http %d): %s", e.Status, e.Msg)
	}
	return fmt.Sprintf("binance api error %d: %s", e.Code, e.Msg)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Unavailable reports whether the failure should surface as a 502 rather
// than a client-attributable rejection.
func (e *UpstreamError) Unavailable() bool {
	return e.Status == 0 || e.Status >= 500
}

// Sentinel kinds joined onto UpstreamError when the exchange error code is
// recognized, so callers can branch without knowing Binance numerics.
var (
	ErrOrderRejected      = errors.New("order rejected")
	ErrInsufficientMargin = errors.New("insufficient margin")
	ErrWouldTrigger       = errors.New("order would immediately trigger")
	ErrBadPrecision       = errors.New("precision over symbol maximum")
	ErrBelowMinNotional   = errors.New("notional below minimum")
)

// AsUpstreamError unwraps the exchange-boundary variant from an error chain.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		return nil, false
	}
	return upErr, true
}

// JoinReasons folds hard-failure messages into one client-facing string.
func JoinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}
