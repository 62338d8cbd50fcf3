package binance

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"futures-dashboard/internal/core"
	"futures-dashboard/internal/logging"
)

// Params is an insertion-ordered parameter list. The exchange recomputes the
// signature over the exact byte sequence it receives, so encoding must never
// reorder keys the way url.Values does.
type Params struct {
	pairs []paramPair
}

type paramPair struct {
	key   string
	value string
}

func (p *Params) Set(key, value string) {
	for i := range p.pairs {
		if p.pairs[i].key == key {
			p.pairs[i].value = value
			return
		}
	}
	p.pairs = append(p.pairs, paramPair{key: key, value: value})
}

// Encode joins the parameters as key=value pairs in insertion order with
// percent-encoded values.
func (p Params) Encode() string {
	var b strings.Builder
	for i, pair := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(pair.key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair.value))
	}
	return b.String()
}

// Redacted returns the parameters as a map safe for logging.
func (p Params) Redacted() map[string]string {
	out := make(map[string]string, len(p.pairs))
	for _, pair := range p.pairs {
		out[pair.key] = pair.value
	}
	return logging.RedactParams(out)
}

// BuildOrderParams maps a validated order into the wire parameter set, in
// the documented stable order: symbol, side, type, quantity, then the
// type-specific price fields and time-in-force. Quantities and prices go on
// the wire with the precision the caller submitted.
//
// The missing-price checks duplicate the request validator on purpose, as a
// second line of defense for callers that reach the builder directly.
func BuildOrderParams(order core.OrderRequest) (Params, error) {
	var p Params
	p.Set("symbol", order.Symbol)
	p.Set("side", string(order.Side))
	p.Set("type", string(order.Type))
	p.Set("quantity", formatDecimal(order.Quantity))

	switch order.Type {
	case core.Limit:
		if order.Price.IsZero() {
			return Params{}, core.ValidationError{Field: "price", Reason: "Price is required for LIMIT orders"}
		}
		p.Set("price", formatDecimal(order.Price))
		p.Set("timeInForce", core.TimeInForceGTC)
	case core.Stop:
		if order.Price.IsZero() || order.StopPrice.IsZero() {
			return Params{}, core.ValidationError{Field: "price", Reason: "Price and stopPrice are required for STOP orders"}
		}
		p.Set("price", formatDecimal(order.Price))
		p.Set("stopPrice", formatDecimal(order.StopPrice))
		p.Set("timeInForce", core.TimeInForceGTC)
	}

	return p, nil
}

// formatDecimal renders a value at the scale it was parsed with.
// Decimal.String trims trailing zeros, which would turn a submitted
// "50000.10" into "50000.1" and change the signed byte sequence.
func formatDecimal(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}
