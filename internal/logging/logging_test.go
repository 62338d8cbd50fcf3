package logging

import "testing"

func TestRedactParams(t *testing.T) {
	in := map[string]string{
		"symbol":    "BTCUSDT",
		"signature": "deadbeefcafe",
	}
	out := RedactParams(in)
	if out["signature"] != "[REDACTED]" {
		t.Fatalf("signature = %q, want [REDACTED]", out["signature"])
	}
	if out["symbol"] != "BTCUSDT" {
		t.Fatalf("symbol = %q", out["symbol"])
	}
	if in["signature"] != "deadbeefcafe" {
		t.Fatalf("input map must not be mutated")
	}
}
