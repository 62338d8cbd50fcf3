package binance

import (
	"github.com/shopspring/decimal"

	"futures-dashboard/internal/core"
)

type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type serverTimeResponse struct {
	ServerTime int64 `json:"serverTime"`
}

type premiumIndexResponse struct {
	Symbol    string `json:"symbol"`
	MarkPrice string `json:"markPrice"`
}

// orderAckResponse is the full USDT-M futures order acknowledgment. Only a
// subset survives normalization; the rest is decoded so the raw shape is
// available for logging.
type orderAckResponse struct {
	OrderID       int64  `json:"orderId"`
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
	ClientOrderID string `json:"clientOrderId"`
	Price         string `json:"price"`
	AvgPrice      string `json:"avgPrice"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	CumQty        string `json:"cumQty"`
	CumQuote      string `json:"cumQuote"`
	TimeInForce   string `json:"timeInForce"`
	Type          string `json:"type"`
	ReduceOnly    bool   `json:"reduceOnly"`
	ClosePosition bool   `json:"closePosition"`
	Side          string `json:"side"`
	PositionSide  string `json:"positionSide"`
	StopPrice     string `json:"stopPrice"`
	WorkingType   string `json:"workingType"`
	PriceProtect  bool   `json:"priceProtect"`
	OrigType      string `json:"origType"`
	UpdateTime    int64  `json:"updateTime"`
}

type exchangeInfoResponse struct {
	Symbols []symbolInfoResponse `json:"symbols"`
}

type symbolInfoResponse struct {
	Symbol  string `json:"symbol"`
	Filters []struct {
		FilterType     string `json:"filterType"`
		MinQty         string `json:"minQty"`
		MaxQty         string `json:"maxQty"`
		StepSize       string `json:"stepSize"`
		MinPrice       string `json:"minPrice"`
		MaxPrice       string `json:"maxPrice"`
		TickSize       string `json:"tickSize"`
		Notional       string `json:"notional"`
		MinNotional    string `json:"minNotional"`
		MultiplierUp   string `json:"multiplierUp"`
		MultiplierDown string `json:"multiplierDown"`
	} `json:"filters"`
}

func parseSymbolFilters(src symbolInfoResponse) core.SymbolFilters {
	out := core.SymbolFilters{Symbol: src.Symbol}
	for _, f := range src.Filters {
		switch f.FilterType {
		case "LOT_SIZE":
			out.LotSize = core.LotSizeFilter{
				MinQty:   parseDecimal(f.MinQty),
				MaxQty:   parseDecimal(f.MaxQty),
				StepSize: parseDecimal(f.StepSize),
			}
		case "PRICE_FILTER":
			out.Price = core.PriceFilter{
				MinPrice: parseDecimal(f.MinPrice),
				MaxPrice: parseDecimal(f.MaxPrice),
				TickSize: parseDecimal(f.TickSize),
			}
		case "MIN_NOTIONAL", "NOTIONAL":
			// Futures publishes "notional", spot "minNotional"; accept both
			// and keep the stricter minimum if each appears.
			v := parseDecimal(f.Notional)
			if v.IsZero() {
				v = parseDecimal(f.MinNotional)
			}
			if v.Cmp(out.MinNotional) > 0 {
				out.MinNotional = v
			}
		case "PERCENT_PRICE":
			out.PercentPrice = core.PercentPriceFilter{
				MultiplierUp:   parseDecimal(f.MultiplierUp),
				MultiplierDown: parseDecimal(f.MultiplierDown),
			}
		}
	}
	return out
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}
