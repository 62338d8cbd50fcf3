package binance

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"futures-dashboard/internal/core"
)

func TestBuildOrderParamsMarket(t *testing.T) {
	order := core.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     core.Buy,
		Type:     core.Market,
		Quantity: decimal.RequireFromString("0.001"),
	}
	p, err := BuildOrderParams(order)
	if err != nil {
		t.Fatalf("BuildOrderParams() error = %v", err)
	}
	got := p.Encode()
	want := "symbol=BTCUSDT&side=BUY&type=MARKET&quantity=0.001"
	if got != want {
		t.Fatalf("Encode() = %q, want %q", got, want)
	}
	if strings.Contains(got, "price") || strings.Contains(got, "stopPrice") || strings.Contains(got, "timeInForce") {
		t.Fatalf("MARKET params must not carry price fields: %q", got)
	}
}

func TestBuildOrderParamsLimit(t *testing.T) {
	order := core.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     core.Sell,
		Type:     core.Limit,
		Quantity: decimal.RequireFromString("0.5"),
		Price:    decimal.RequireFromString("50000.10"),
	}
	p, err := BuildOrderParams(order)
	if err != nil {
		t.Fatalf("BuildOrderParams() error = %v", err)
	}
	want := "symbol=BTCUSDT&side=SELL&type=LIMIT&quantity=0.5&price=50000.10&timeInForce=GTC"
	if got := p.Encode(); got != want {
		t.Fatalf("Encode() = %q, want %q", got, want)
	}
}

func TestBuildOrderParamsStop(t *testing.T) {
	order := core.OrderRequest{
		Symbol:    "ETHUSDT",
		Side:      core.Buy,
		Type:      core.Stop,
		Quantity:  decimal.RequireFromString("2"),
		Price:     decimal.RequireFromString("2510"),
		StopPrice: decimal.RequireFromString("2500"),
	}
	p, err := BuildOrderParams(order)
	if err != nil {
		t.Fatalf("BuildOrderParams() error = %v", err)
	}
	want := "symbol=ETHUSDT&side=BUY&type=STOP&quantity=2&price=2510&stopPrice=2500&timeInForce=GTC"
	if got := p.Encode(); got != want {
		t.Fatalf("Encode() = %q, want %q", got, want)
	}
}

func TestBuildOrderParamsMissingPrice(t *testing.T) {
	limit := core.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     core.Buy,
		Type:     core.Limit,
		Quantity: decimal.RequireFromString("1"),
	}
	_, err := BuildOrderParams(limit)
	var vErr core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}

	stop := core.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     core.Buy,
		Type:     core.Stop,
		Quantity: decimal.RequireFromString("1"),
		Price:    decimal.RequireFromString("50000"),
	}
	if _, err := BuildOrderParams(stop); !errors.As(err, &vErr) {
		t.Fatalf("stop without trigger error = %v, want ValidationError", err)
	}
}

func TestBuildOrderParamsPreservesDecimalText(t *testing.T) {
	order := core.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     core.Buy,
		Type:     core.Market,
		Quantity: decimal.RequireFromString("0.00000001"),
	}
	p, err := BuildOrderParams(order)
	if err != nil {
		t.Fatalf("BuildOrderParams() error = %v", err)
	}
	if got := p.Encode(); !strings.Contains(got, "quantity=0.00000001") {
		t.Fatalf("quantity must not use scientific notation: %q", got)
	}

	// Trailing zeros are significant to the signed byte sequence.
	order.Quantity = decimal.RequireFromString("0.100")
	p, err = BuildOrderParams(order)
	if err != nil {
		t.Fatalf("BuildOrderParams() error = %v", err)
	}
	if got := p.Encode(); !strings.Contains(got, "quantity=0.100") {
		t.Fatalf("quantity trailing zeros must survive: %q", got)
	}
}

func TestParamsEncodePreservesInsertionOrder(t *testing.T) {
	var p Params
	p.Set("zulu", "1")
	p.Set("alpha", "2")
	p.Set("mike", "a b")
	if got := p.Encode(); got != "zulu=1&alpha=2&mike=a+b" {
		t.Fatalf("Encode() = %q, want insertion order with escaping", got)
	}
	// overwriting keeps the original position
	p.Set("alpha", "3")
	if got := p.Encode(); got != "zulu=1&alpha=3&mike=a+b" {
		t.Fatalf("Encode() after overwrite = %q", got)
	}
}

func TestParamsRedactedMasksSignature(t *testing.T) {
	var p Params
	p.Set("symbol", "BTCUSDT")
	p.Set("signature", "deadbeef")
	red := p.Redacted()
	if red["signature"] != "[REDACTED]" {
		t.Fatalf("signature not redacted: %q", red["signature"])
	}
	if red["symbol"] != "BTCUSDT" {
		t.Fatalf("symbol mangled: %q", red["symbol"])
	}
}
