package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"futures-dashboard/internal/core"
)

// apiErrorResponse is the stable error payload. Code and Msg appear only
// when the error originated from the exchange.
type apiErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
	Msg   string `json:"msg,omitempty"`
}

// confirmationResponse carries soft filter warnings back to the caller,
// which may resubmit with the proceed flag set.
type confirmationResponse struct {
	Error    string   `json:"error"`
	Warnings []string `json:"warnings"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, apiErrorResponse{Error: msg})
}

// respondOrderError re-classifies a failure from the exchange boundary into
// the client-facing contract: exchange 5xx and transport failures become
// 502, structured exchange rejections become 400 with code/msg preserved
// verbatim, and anything unclassified is a generic 500 that leaks nothing.
func (s *Server) respondOrderError(w http.ResponseWriter, order core.OrderRequest, err error) {
	var vErr core.ValidationError
	if errors.As(err, &vErr) {
		respondError(w, http.StatusBadRequest, vErr.Error())
		return
	}

	if upErr, ok := core.AsUpstreamError(err); ok {
		if upErr.Status == 0 {
			s.log.Warn("exchange unreachable", zap.String("symbol", order.Symbol), zap.Error(err))
			respondError(w, http.StatusBadGateway, "Failed to reach exchange")
			return
		}
		status := http.StatusBadRequest
		if upErr.Status >= 500 {
			status = http.StatusBadGateway
		}
		s.alerts.Important("order_rejected", map[string]string{
			"symbol": order.Symbol,
			"code":   fmt.Sprintf("%d", upErr.Code),
			"msg":    upErr.Msg,
		})
		respondJSON(w, status, apiErrorResponse{
			Error: fmt.Sprintf("Binance API Error %d: %s", upErr.Code, upErr.Msg),
			Code:  upErr.Code,
			Msg:   upErr.Msg,
		})
		return
	}

	s.log.Error("unexpected order error", zap.String("symbol", order.Symbol), zap.Error(err))
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
