package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"futures-dashboard/internal/core"
)

type dryRunResponse struct {
	DryRun  bool              `json:"dryRun"`
	Request core.OrderRequest `json:"request"`
	Message string            `json:"message"`
}

type timeResponse struct {
	ServerTime int64  `json:"serverTime"`
	BaseURL    string `json:"baseUrl"`
}

type priceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	if !s.passTestnetGate(w) {
		return
	}

	var payload core.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	order, warnings, err := core.ValidateOrderPayload(payload)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, msg := range warnings {
		s.log.Warn(msg, zap.String("symbol", order.Symbol))
	}

	ctx := r.Context()
	filters := s.symbolFilters(ctx, order.Symbol)
	current := s.currentPrice(ctx, order.Symbol)

	check := core.CheckFilters(order, filters, current)
	if check.HardFail() {
		respondError(w, http.StatusBadRequest, core.JoinReasons(check.Failures))
		return
	}
	if check.NeedsConfirmation() && !payload.Proceed {
		respondJSON(w, http.StatusBadRequest, confirmationResponse{
			Error:    "Order failed advisory filter checks; resubmit with proceed=true to override",
			Warnings: check.Warnings,
		})
		return
	}

	if order.DryRun {
		respondJSON(w, http.StatusOK, dryRunResponse{
			DryRun:  true,
			Request: order,
			Message: "Dry run completed. Order was not sent to exchange.",
		})
		return
	}

	resp, err := s.ex.PlaceOrder(ctx, order)
	if err != nil {
		s.respondOrderError(w, order, err)
		return
	}

	s.alerts.Important("order_placed", map[string]string{
		"symbol":  resp.Symbol,
		"side":    resp.Side,
		"type":    resp.Type,
		"qty":     resp.Quantity,
		"orderId": fmt.Sprintf("%d", resp.OrderID),
	})
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	if !s.passTestnetGate(w) {
		return
	}
	ts, err := s.ex.ServerTime(r.Context())
	if err != nil {
		s.log.Warn("connectivity probe failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "Failed to connect to Binance")
		return
	}
	respondJSON(w, http.StatusOK, timeResponse{ServerTime: ts, BaseURL: s.ex.BaseURL()})
}

func (s *Server) handleExchangeInfo(w http.ResponseWriter, r *http.Request) {
	if !s.passTestnetGate(w) {
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol query parameter is required")
		return
	}
	filters, err := s.ex.SymbolFilters(r.Context(), symbol)
	if err != nil {
		// Metadata lookup, not an order: map the status directly without
		// going through the order_rejected alert path.
		s.log.Warn("exchange info lookup failed", zap.String("symbol", symbol), zap.Error(err))
		if upErr, ok := core.AsUpstreamError(err); ok && !upErr.Unavailable() {
			respondJSON(w, http.StatusBadRequest, apiErrorResponse{
				Error: fmt.Sprintf("Binance API Error %d: %s", upErr.Code, upErr.Msg),
				Code:  upErr.Code,
				Msg:   upErr.Msg,
			})
			return
		}
		respondError(w, http.StatusBadGateway, "Failed to fetch exchange info for "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, s.applyFilterDefaults(filters))
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	if !s.passTestnetGate(w) {
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol query parameter is required")
		return
	}
	price := s.currentPrice(r.Context(), symbol)
	if price.IsZero() {
		respondError(w, http.StatusBadGateway, "Live price unavailable for "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, priceResponse{Symbol: symbol, Price: price.String()})
}

// currentPrice prefers the websocket cache and falls back to the REST mark
// price. A zero result means no live price could be obtained.
func (s *Server) currentPrice(ctx context.Context, symbol string) decimal.Decimal {
	if s.prices != nil {
		if p, ok := s.prices.Price(symbol); ok {
			return p
		}
	}
	p, err := s.ex.MarkPrice(ctx, symbol)
	if err != nil {
		s.log.Warn("mark price lookup failed", zap.String("symbol", symbol), zap.Error(err))
		return decimal.Zero
	}
	return p
}

// symbolFilters fetches the exchange filters for a symbol, degrading to
// configured defaults when the metadata feed is unavailable. The filter
// check is advisory; the exchange remains the source of truth.
func (s *Server) symbolFilters(ctx context.Context, symbol string) core.SymbolFilters {
	filters, err := s.ex.SymbolFilters(ctx, symbol)
	if err != nil {
		s.log.Warn("exchange info lookup failed", zap.String("symbol", symbol), zap.Error(err))
		filters = core.SymbolFilters{Symbol: symbol}
	}
	return s.applyFilterDefaults(filters)
}

func (s *Server) applyFilterDefaults(filters core.SymbolFilters) core.SymbolFilters {
	if filters.MinNotional.IsZero() {
		filters.MinNotional = s.defaults.MinNotional.Decimal
	}
	if filters.PercentPrice.MultiplierUp.IsZero() {
		one := decimal.NewFromInt(1)
		filters.PercentPrice.MultiplierUp = one.Add(s.defaults.PercentPriceBand.Decimal)
		filters.PercentPrice.MultiplierDown = one.Sub(s.defaults.PercentPriceBand.Decimal)
	}
	return filters
}
