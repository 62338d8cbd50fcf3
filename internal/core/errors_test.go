package core

import (
	"errors"
	"strings"
	"testing"
)

func TestUpstreamErrorString(t *testing.T) {
	structured := &UpstreamError{Status: 400, Code: -2019, Msg: "Margin is insufficient."}
	if got := structured.Error(); got != "binance api error -2019: Margin is insufficient." {
		t.Fatalf("Error() = %q", got)
	}

	// Non-JSON body leaves the code unset; the message must not invent
	// a code of 0.
	raw := &UpstreamError{Status: 502, Msg: "<html>Bad Gateway</html>"}
	if got := raw.Error(); strings.Contains(got, " 0:") {
		t.Fatalf("Error() = %q, zero code should be omitted", got)
	}
	if got := raw.Error(); !strings.Contains(got, "502") {
		t.Fatalf("Error() = %q, want the http status visible", got)
	}

	transport := &UpstreamError{Err: errors.New("dial tcp: connection refused")}
	if got := transport.Error(); !strings.Contains(got, "exchange unreachable") {
		t.Fatalf("Error() = %q", got)
	}
}

func TestUpstreamErrorUnavailable(t *testing.T) {
	cases := []struct {
		err  *UpstreamError
		want bool
	}{
		{&UpstreamError{Err: errors.New("timeout")}, true},
		{&UpstreamError{Status: 503, Code: -1001}, true},
		{&UpstreamError{Status: 400, Code: -2019}, false},
	}
	for _, tc := range cases {
		if got := tc.err.Unavailable(); got != tc.want {
			t.Fatalf("Unavailable() = %v for %+v, want %v", got, tc.err, tc.want)
		}
	}
}
