package core

import (
	"github.com/shopspring/decimal"
)

type Side string

type OrderType string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
	Stop   OrderType = "STOP"
)

// QuoteSuffix is the only quote asset the dashboard trades against.
const QuoteSuffix = "USDT"

// TimeInForceGTC is the fixed time-in-force for every LIMIT and STOP order.
const TimeInForceGTC = "GTC"

// OrderRequest is a validated, canonical order. Price is set only for
// LIMIT/STOP orders and StopPrice only for STOP orders; a MARKET order never
// carries either, even when the raw payload offered them.
type OrderRequest struct {
	Symbol    string          `json:"symbol"`
	Side      Side            `json:"side"`
	Type      OrderType       `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price,omitempty"`
	StopPrice decimal.Decimal `json:"stopPrice,omitempty"`
	DryRun    bool            `json:"dryRun"`
}

// ReferencePrice is the price the notional of the order is computed against:
// the live price for MARKET, the limit price for LIMIT, and the trigger for
// STOP orders.
func (o OrderRequest) ReferencePrice(currentPrice decimal.Decimal) decimal.Decimal {
	switch o.Type {
	case Limit:
		return o.Price
	case Stop:
		return o.StopPrice
	default:
		return currentPrice
	}
}

type LotSizeFilter struct {
	MinQty   decimal.Decimal `json:"minQty"`
	MaxQty   decimal.Decimal `json:"maxQty"`
	StepSize decimal.Decimal `json:"stepSize"`
}

type PriceFilter struct {
	MinPrice decimal.Decimal `json:"minPrice"`
	MaxPrice decimal.Decimal `json:"maxPrice"`
	TickSize decimal.Decimal `json:"tickSize"`
}

type PercentPriceFilter struct {
	MultiplierUp   decimal.Decimal `json:"multiplierUp"`
	MultiplierDown decimal.Decimal `json:"multiplierDown"`
}

// SymbolFilters is the per-symbol trading rule set published by the exchange.
// Zero-valued fields mean the exchange did not publish that filter; the
// corresponding check is skipped.
type SymbolFilters struct {
	Symbol       string             `json:"symbol"`
	LotSize      LotSizeFilter      `json:"lotSize"`
	Price        PriceFilter        `json:"priceFilter"`
	MinNotional  decimal.Decimal    `json:"minNotional"`
	PercentPrice PercentPriceFilter `json:"percentPrice"`
}

// NormalizedOrderResponse is the stable client-facing order acknowledgment.
// Price and StopPrice are present only when the exchange returned a non-zero
// value for them; this presence rule is part of the response contract.
type NormalizedOrderResponse struct {
	OrderID     int64  `json:"orderId"`
	Symbol      string `json:"symbol"`
	Status      string `json:"status"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	Quantity    string `json:"quantity"`
	ExecutedQty string `json:"executedQty"`
	AvgPrice    string `json:"avgPrice"`
	Price       string `json:"price,omitempty"`
	StopPrice   string `json:"stopPrice,omitempty"`
}

// RoundDown snaps value to the largest multiple of step not exceeding it.
func RoundDown(value, step decimal.Decimal) decimal.Decimal {
	if step.Cmp(decimal.Zero) <= 0 {
		return value
	}
	return value.Div(step).Floor().Mul(step)
}
