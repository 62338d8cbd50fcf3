package binance

import (
	"github.com/shopspring/decimal"

	"futures-dashboard/internal/core"
)

// normalizeAck maps the verbose exchange acknowledgment onto the stable
// client response. price/stopPrice are included only when the exchange
// returned a non-zero value; the exact string is preserved, never
// reformatted. This presence rule is part of the response contract.
func normalizeAck(ack orderAckResponse) core.NormalizedOrderResponse {
	out := core.NormalizedOrderResponse{
		OrderID:     ack.OrderID,
		Symbol:      ack.Symbol,
		Status:      ack.Status,
		Side:        ack.Side,
		Type:        ack.Type,
		Quantity:    ack.OrigQty,
		ExecutedQty: ack.ExecutedQty,
		AvgPrice:    ack.AvgPrice,
	}
	if out.AvgPrice == "" {
		out.AvgPrice = "0.00"
	}
	if !isZeroPrice(ack.Price) {
		out.Price = ack.Price
	}
	if !isZeroPrice(ack.StopPrice) {
		out.StopPrice = ack.StopPrice
	}
	return out
}

// isZeroPrice reports whether the exchange value is absent or a zero
// placeholder such as "0" or "0.00".
func isZeroPrice(s string) bool {
	if s == "" {
		return true
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return true
	}
	return v.IsZero()
}
