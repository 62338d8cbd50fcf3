package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CheckResult carries the two validation tiers of the filter check.
// Failures must reject the order outright. Warnings are advisory: the
// exchange will make its own ruling, so the caller may resubmit with an
// explicit proceed flag.
type CheckResult struct {
	Failures []string `json:"failures,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r CheckResult) HardFail() bool { return len(r.Failures) > 0 }

func (r CheckResult) NeedsConfirmation() bool { return len(r.Warnings) > 0 }

func (r *CheckResult) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *CheckResult) failf(format string, args ...interface{}) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// CheckFilters validates a canonical order against the exchange-published
// trading filters for its symbol. currentPrice is the latest mark price;
// zero means no live price is available, which skips the advisory checks
// that need it but hard-fails stop orders (their trigger direction cannot
// be verified without a market reference).
func CheckFilters(order OrderRequest, filters SymbolFilters, currentPrice decimal.Decimal) CheckResult {
	var res CheckResult

	checkQuantity(&res, order, filters)
	checkNotional(&res, order, filters, currentPrice)
	checkPriceBand(&res, order, filters, currentPrice)
	checkStopTrigger(&res, order, currentPrice)

	return res
}

func checkQuantity(res *CheckResult, order OrderRequest, filters SymbolFilters) {
	lot := filters.LotSize
	if lot.MinQty.Cmp(decimal.Zero) > 0 && order.Quantity.Cmp(lot.MinQty) < 0 {
		res.warnf("quantity %s below minimum %s", order.Quantity, lot.MinQty)
	}
	if lot.MaxQty.Cmp(decimal.Zero) > 0 && order.Quantity.Cmp(lot.MaxQty) > 0 {
		res.warnf("quantity %s above maximum %s", order.Quantity, lot.MaxQty)
	}
	if lot.StepSize.Cmp(decimal.Zero) > 0 && !RoundDown(order.Quantity, lot.StepSize).Equal(order.Quantity) {
		res.warnf("quantity %s not a multiple of step size %s", order.Quantity, lot.StepSize)
	}
}

func checkNotional(res *CheckResult, order OrderRequest, filters SymbolFilters, currentPrice decimal.Decimal) {
	if filters.MinNotional.Cmp(decimal.Zero) <= 0 {
		return
	}
	ref := order.ReferencePrice(currentPrice)
	if ref.Cmp(decimal.Zero) <= 0 {
		return
	}
	notional := order.Quantity.Mul(ref)
	if notional.Cmp(filters.MinNotional) < 0 {
		res.warnf("order notional %s below minimum %s", notional, filters.MinNotional)
	}
}

func checkPriceBand(res *CheckResult, order OrderRequest, filters SymbolFilters, currentPrice decimal.Decimal) {
	if order.Type == Market {
		return
	}
	pf := filters.Price
	if pf.MinPrice.Cmp(decimal.Zero) > 0 && order.Price.Cmp(pf.MinPrice) < 0 {
		res.warnf("price %s below minimum %s", order.Price, pf.MinPrice)
	}
	if pf.MaxPrice.Cmp(decimal.Zero) > 0 && order.Price.Cmp(pf.MaxPrice) > 0 {
		res.warnf("price %s above maximum %s", order.Price, pf.MaxPrice)
	}
	if pf.TickSize.Cmp(decimal.Zero) > 0 && !RoundDown(order.Price, pf.TickSize).Equal(order.Price) {
		res.warnf("price %s not a multiple of tick size %s", order.Price, pf.TickSize)
	}

	// The percent-price band applies to LIMIT orders only; stop orders are
	// priced relative to their trigger, not the live market.
	if order.Type != Limit || currentPrice.Cmp(decimal.Zero) <= 0 {
		return
	}
	band := filters.PercentPrice.MultiplierUp.Sub(decimal.NewFromInt(1))
	if band.Cmp(decimal.Zero) <= 0 {
		return
	}
	one := decimal.NewFromInt(1)
	low := currentPrice.Mul(one.Sub(band))
	high := currentPrice.Mul(one.Add(band))
	if order.Price.Cmp(low) < 0 || order.Price.Cmp(high) > 0 {
		res.warnf("price %s outside allowed band %s - %s around current price %s",
			order.Price, low, high, currentPrice)
	}
}

// checkStopTrigger enforces trigger direction and limit-vs-trigger
// consistency for stop orders. These are hard failures: a trigger on the
// wrong side of the market is economically nonsensical for this order
// style, and the exchange rejection for it carries no code worth mapping
// back to user guidance.
func checkStopTrigger(res *CheckResult, order OrderRequest, currentPrice decimal.Decimal) {
	if order.Type != Stop {
		return
	}
	if currentPrice.Cmp(decimal.Zero) <= 0 {
		res.failf("current price unavailable, cannot verify stop trigger direction")
		return
	}
	switch order.Side {
	case Buy:
		if order.StopPrice.Cmp(currentPrice) <= 0 {
			res.failf("BUY stop trigger %s must be above current price %s", order.StopPrice, currentPrice)
		}
		if order.Price.Cmp(order.StopPrice) < 0 {
			res.failf("BUY stop limit price %s must be at or above trigger %s", order.Price, order.StopPrice)
		}
	case Sell:
		if order.StopPrice.Cmp(currentPrice) >= 0 {
			res.failf("SELL stop trigger %s must be below current price %s", order.StopPrice, currentPrice)
		}
		if order.Price.Cmp(order.StopPrice) > 0 {
			res.failf("SELL stop limit price %s must be at or below trigger %s", order.Price, order.StopPrice)
		}
	}
}
