package binance

import "testing"

func TestNormalizeAckOmitsZeroPrices(t *testing.T) {
	ack := orderAckResponse{
		OrderID:     42,
		Symbol:      "BTCUSDT",
		Status:      "NEW",
		Side:        "BUY",
		Type:        "MARKET",
		OrigQty:     "0.001",
		ExecutedQty: "0.001",
		AvgPrice:    "50010.2",
		Price:       "0.00",
		StopPrice:   "0",
	}
	got := normalizeAck(ack)
	if got.Price != "" {
		t.Fatalf("Price = %q, want omitted for zero placeholder", got.Price)
	}
	if got.StopPrice != "" {
		t.Fatalf("StopPrice = %q, want omitted for zero placeholder", got.StopPrice)
	}
	if got.AvgPrice != "50010.2" {
		t.Fatalf("AvgPrice = %q", got.AvgPrice)
	}
}

func TestNormalizeAckPreservesPriceText(t *testing.T) {
	ack := orderAckResponse{
		OrderID:   7,
		Symbol:    "BTCUSDT",
		Status:    "NEW",
		Side:      "SELL",
		Type:      "STOP",
		OrigQty:   "1",
		Price:     "105.30",
		StopPrice: "106.00",
	}
	got := normalizeAck(ack)
	if got.Price != "105.30" {
		t.Fatalf("Price = %q, want the exact string 105.30", got.Price)
	}
	if got.StopPrice != "106.00" {
		t.Fatalf("StopPrice = %q, want 106.00", got.StopPrice)
	}
	if got.AvgPrice != "0.00" {
		t.Fatalf("empty avgPrice must default to 0.00, got %q", got.AvgPrice)
	}
}
