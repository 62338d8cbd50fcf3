package core

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderPayload mirrors the order form JSON the dashboard submits. Numeric
// fields decode as json.Number so the literal decimal text survives into
// the wire parameters untouched.
type OrderPayload struct {
	Symbol    string      `json:"symbol"`
	Side      string      `json:"side"`
	Type      string      `json:"type"`
	Quantity  json.Number `json:"quantity"`
	Price     json.Number `json:"price"`
	StopPrice json.Number `json:"stopPrice"`
	DryRun    bool        `json:"dryRun"`
	// Proceed acknowledges soft filter warnings from a previous attempt.
	Proceed bool `json:"proceed"`
}

// ValidateOrderPayload checks the raw payload field by field, first failure
// wins, and returns the canonical order. Warnings report fields that were
// silently dropped (price on a MARKET order) without failing the request.
func ValidateOrderPayload(p OrderPayload) (OrderRequest, []string, error) {
	if strings.TrimSpace(p.Symbol) == "" {
		return OrderRequest{}, nil, ValidationError{Field: "symbol", Reason: "Symbol is required and must be a string"}
	}

	side := Side(strings.ToUpper(strings.TrimSpace(p.Side)))
	if side != Buy && side != Sell {
		return OrderRequest{}, nil, ValidationError{Field: "side", Reason: "Side must be BUY or SELL"}
	}

	orderType := OrderType(strings.ToUpper(strings.TrimSpace(p.Type)))
	switch orderType {
	case Market, Limit, Stop:
	default:
		return OrderRequest{}, nil, ValidationError{Field: "type", Reason: "Type must be MARKET, LIMIT, or STOP"}
	}

	qty, ok := parsePositive(p.Quantity)
	if !ok {
		return OrderRequest{}, nil, ValidationError{Field: "quantity", Reason: "Quantity must be a number greater than 0"}
	}

	symbol := strings.ToUpper(strings.TrimSpace(p.Symbol))
	if !strings.HasSuffix(symbol, QuoteSuffix) {
		return OrderRequest{}, nil, ValidationError{Field: "symbol", Reason: "Symbol must end with " + QuoteSuffix + " for " + QuoteSuffix + "-M futures"}
	}

	order := OrderRequest{
		Symbol:   symbol,
		Side:     side,
		Type:     orderType,
		Quantity: qty,
		DryRun:   p.DryRun,
	}

	var warnings []string
	switch orderType {
	case Limit:
		price, ok := parsePositive(p.Price)
		if !ok {
			return OrderRequest{}, nil, ValidationError{Field: "price", Reason: "Price is required for LIMIT orders and must be greater than 0"}
		}
		order.Price = price
	case Stop:
		price, ok := parsePositive(p.Price)
		if !ok {
			return OrderRequest{}, nil, ValidationError{Field: "price", Reason: "Price is required for STOP orders and must be greater than 0"}
		}
		stopPrice, ok := parsePositive(p.StopPrice)
		if !ok {
			return OrderRequest{}, nil, ValidationError{Field: "stopPrice", Reason: "Stop price is required for STOP orders and must be greater than 0"}
		}
		order.Price = price
		order.StopPrice = stopPrice
	case Market:
		// Lenient on purpose: offered price fields are dropped with a
		// warning rather than rejected.
		if p.Price != "" || p.StopPrice != "" {
			warnings = append(warnings, "MARKET order should not have price/stopPrice, ignoring")
		}
	}

	return order, warnings, nil
}

func parsePositive(n json.Number) (decimal.Decimal, bool) {
	if n == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, false
	}
	if d.Cmp(decimal.Zero) <= 0 {
		return decimal.Zero, false
	}
	return d, true
}
