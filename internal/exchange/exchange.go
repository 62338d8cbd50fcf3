package exchange

import (
	"context"

	"github.com/shopspring/decimal"

	"futures-dashboard/internal/core"
)

// Exchange is the surface the order pipeline needs from the venue.
type Exchange interface {
	Name() string
	BaseURL() string
	// ServerTime is the unauthenticated connectivity probe; failures mean
	// the venue is unreachable, not that credentials are bad.
	ServerTime(ctx context.Context) (int64, error)
	SymbolFilters(ctx context.Context, symbol string) (core.SymbolFilters, error)
	MarkPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	PlaceOrder(ctx context.Context, order core.OrderRequest) (core.NormalizedOrderResponse, error)
}
