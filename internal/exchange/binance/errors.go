package binance

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"futures-dashboard/internal/core"
)

// USDT-M futures error codes worth branching on.
const (
	apiCodeNewOrderRejected   = -2010
	apiCodeMarginInsufficient = -2019
	apiCodeWouldTrigger       = -2021
	apiCodeBadPrecision       = -1111
	apiCodeMinNotional        = -4164
)

var apiCodeKinds = map[int]error{
	apiCodeNewOrderRejected:   core.ErrOrderRejected,
	apiCodeMarginInsufficient: core.ErrInsufficientMargin,
	apiCodeWouldTrigger:       core.ErrWouldTrigger,
	apiCodeBadPrecision:       core.ErrBadPrecision,
	apiCodeMinNotional:        core.ErrBelowMinNotional,
}

// parseAPIError turns a non-2xx exchange response into an UpstreamError,
// joined with a sentinel kind when the code is recognized.
func parseAPIError(status int, body []byte) error {
	var payload apiError
	if err := json.Unmarshal(body, &payload); err == nil && payload.Msg != "" {
		upErr := &core.UpstreamError{Status: status, Code: payload.Code, Msg: payload.Msg}
		if kind, ok := apiCodeKinds[payload.Code]; ok {
			return errors.Join(upErr, kind)
		}
		return upErr
	}
	return &core.UpstreamError{
		Status: status,
		Msg:    fmt.Sprintf("http error %d: %s", status, strings.TrimSpace(string(body))),
	}
}

// transportError wraps a failure that never produced an exchange response.
func transportError(err error) error {
	return &core.UpstreamError{Err: err}
}
