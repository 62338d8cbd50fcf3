package core

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func btcFilters() SymbolFilters {
	return SymbolFilters{
		Symbol: "BTCUSDT",
		LotSize: LotSizeFilter{
			MinQty:   decimal.RequireFromString("0.0001"),
			MaxQty:   decimal.RequireFromString("1000"),
			StepSize: decimal.RequireFromString("0.0001"),
		},
		Price: PriceFilter{
			MinPrice: decimal.RequireFromString("0.01"),
			MaxPrice: decimal.RequireFromString("1000000"),
			TickSize: decimal.RequireFromString("0.01"),
		},
		MinNotional: decimal.RequireFromString("5"),
		PercentPrice: PercentPriceFilter{
			MultiplierUp:   decimal.RequireFromString("1.1"),
			MultiplierDown: decimal.RequireFromString("0.9"),
		},
	}
}

func TestCheckFiltersMarketNotionalBoundary(t *testing.T) {
	current := decimal.RequireFromString("50000")

	pass := OrderRequest{Symbol: "BTCUSDT", Side: Buy, Type: Market, Quantity: decimal.RequireFromString("0.0001")}
	res := CheckFilters(pass, btcFilters(), current)
	if res.HardFail() || res.NeedsConfirmation() {
		t.Fatalf("notional 5.0 should pass clean, got %+v", res)
	}

	warn := OrderRequest{Symbol: "BTCUSDT", Side: Buy, Type: Market, Quantity: decimal.RequireFromString("0.00005")}
	res = CheckFilters(warn, btcFilters(), current)
	if res.HardFail() {
		t.Fatalf("notional violation must be soft, got failures %v", res.Failures)
	}
	if !res.NeedsConfirmation() {
		t.Fatalf("notional 2.5 should warn, got %+v", res)
	}
	// min-qty and notional both fire for this quantity
	foundNotional := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "notional") {
			foundNotional = true
		}
	}
	if !foundNotional {
		t.Fatalf("missing notional warning in %v", res.Warnings)
	}
}

func TestCheckFiltersQuantityBounds(t *testing.T) {
	current := decimal.RequireFromString("50000")
	order := OrderRequest{Symbol: "BTCUSDT", Side: Sell, Type: Market, Quantity: decimal.RequireFromString("2000")}
	res := CheckFilters(order, btcFilters(), current)
	if res.HardFail() {
		t.Fatalf("lot size violation must be soft, got %v", res.Failures)
	}
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], "above maximum") {
		t.Fatalf("expected max-qty warning, got %v", res.Warnings)
	}
}

func TestCheckFiltersLimitPercentBand(t *testing.T) {
	current := decimal.RequireFromString("50000")

	inside := OrderRequest{Symbol: "BTCUSDT", Side: Buy, Type: Limit,
		Quantity: decimal.RequireFromString("0.001"),
		Price:    decimal.RequireFromString("49000")}
	res := CheckFilters(inside, btcFilters(), current)
	if res.NeedsConfirmation() || res.HardFail() {
		t.Fatalf("price inside band should pass, got %+v", res)
	}

	outside := OrderRequest{Symbol: "BTCUSDT", Side: Buy, Type: Limit,
		Quantity: decimal.RequireFromString("0.001"),
		Price:    decimal.RequireFromString("30000")}
	res = CheckFilters(outside, btcFilters(), current)
	if res.HardFail() {
		t.Fatalf("band violation must be soft, got %v", res.Failures)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "outside allowed band") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected band warning, got %v", res.Warnings)
	}
}

func TestCheckFiltersStopTriggerDirection(t *testing.T) {
	current := decimal.RequireFromString("50000")
	filters := btcFilters()

	buyBelow := OrderRequest{Symbol: "BTCUSDT", Side: Buy, Type: Stop,
		Quantity:  decimal.RequireFromString("0.001"),
		Price:     decimal.RequireFromString("49500"),
		StopPrice: decimal.RequireFromString("49000")}
	res := CheckFilters(buyBelow, filters, current)
	if !res.HardFail() {
		t.Fatalf("BUY trigger below market must hard-fail, got %+v", res)
	}

	buyAtMarket := buyBelow
	buyAtMarket.StopPrice = current
	buyAtMarket.Price = current
	if res := CheckFilters(buyAtMarket, filters, current); !res.HardFail() {
		t.Fatalf("BUY trigger at market must hard-fail (strict inequality), got %+v", res)
	}

	buyOK := OrderRequest{Symbol: "BTCUSDT", Side: Buy, Type: Stop,
		Quantity:  decimal.RequireFromString("0.001"),
		Price:     decimal.RequireFromString("51100"),
		StopPrice: decimal.RequireFromString("51000")}
	if res := CheckFilters(buyOK, filters, current); res.HardFail() {
		t.Fatalf("valid BUY stop rejected: %v", res.Failures)
	}

	sellAbove := OrderRequest{Symbol: "BTCUSDT", Side: Sell, Type: Stop,
		Quantity:  decimal.RequireFromString("0.001"),
		Price:     decimal.RequireFromString("51000"),
		StopPrice: decimal.RequireFromString("51000")}
	if res := CheckFilters(sellAbove, filters, current); !res.HardFail() {
		t.Fatalf("SELL trigger above market must hard-fail, got %+v", res)
	}

	sellOK := OrderRequest{Symbol: "BTCUSDT", Side: Sell, Type: Stop,
		Quantity:  decimal.RequireFromString("0.001"),
		Price:     decimal.RequireFromString("48900"),
		StopPrice: decimal.RequireFromString("49000")}
	if res := CheckFilters(sellOK, filters, current); res.HardFail() {
		t.Fatalf("valid SELL stop rejected: %v", res.Failures)
	}
}

func TestCheckFiltersStopLimitTriggerConsistency(t *testing.T) {
	current := decimal.RequireFromString("50000")

	buyLimitBelowTrigger := OrderRequest{Symbol: "BTCUSDT", Side: Buy, Type: Stop,
		Quantity:  decimal.RequireFromString("0.001"),
		Price:     decimal.RequireFromString("50900"),
		StopPrice: decimal.RequireFromString("51000")}
	if res := CheckFilters(buyLimitBelowTrigger, btcFilters(), current); !res.HardFail() {
		t.Fatalf("BUY limit below trigger must hard-fail, got %+v", res)
	}

	sellLimitAboveTrigger := OrderRequest{Symbol: "BTCUSDT", Side: Sell, Type: Stop,
		Quantity:  decimal.RequireFromString("0.001"),
		Price:     decimal.RequireFromString("49100"),
		StopPrice: decimal.RequireFromString("49000")}
	if res := CheckFilters(sellLimitAboveTrigger, btcFilters(), current); !res.HardFail() {
		t.Fatalf("SELL limit above trigger must hard-fail, got %+v", res)
	}
}

func TestCheckFiltersStopWithoutCurrentPrice(t *testing.T) {
	order := OrderRequest{Symbol: "BTCUSDT", Side: Buy, Type: Stop,
		Quantity:  decimal.RequireFromString("0.001"),
		Price:     decimal.RequireFromString("51100"),
		StopPrice: decimal.RequireFromString("51000")}
	res := CheckFilters(order, btcFilters(), decimal.Zero)
	if !res.HardFail() {
		t.Fatalf("stop order without live price must hard-fail, got %+v", res)
	}
}

func TestCheckFiltersStepAndTickAlignment(t *testing.T) {
	current := decimal.RequireFromString("50000")
	order := OrderRequest{Symbol: "BTCUSDT", Side: Buy, Type: Limit,
		Quantity: decimal.RequireFromString("0.00015"),
		Price:    decimal.RequireFromString("49000.005")}
	res := CheckFilters(order, btcFilters(), current)
	if res.HardFail() {
		t.Fatalf("alignment violations must be soft, got %v", res.Failures)
	}
	if len(res.Warnings) < 2 {
		t.Fatalf("expected step and tick warnings, got %v", res.Warnings)
	}
}

func TestRoundDown(t *testing.T) {
	got := RoundDown(decimal.RequireFromString("0.123456"), decimal.RequireFromString("0.001"))
	if !got.Equal(decimal.RequireFromString("0.123")) {
		t.Fatalf("RoundDown() = %s, want 0.123", got)
	}
	// zero step is a no-op
	got = RoundDown(decimal.RequireFromString("1.5"), decimal.Zero)
	if !got.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("RoundDown(zero step) = %s, want 1.5", got)
	}
}
