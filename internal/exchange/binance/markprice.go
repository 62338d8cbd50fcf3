package binance

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceFeed keeps the latest mark price per symbol from the combined
// mark-price websocket stream. The cache is best-effort: callers fall back
// to the REST premium index when a symbol has not ticked yet.
type PriceFeed struct {
	wsBaseURL string
	symbols   []string
	log       *zap.Logger

	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

type combinedStreamMessage struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

type markPriceEvent struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	MarkPrice string `json:"p"`
}

func NewPriceFeed(wsBaseURL string, symbols []string, logger *zap.Logger) *PriceFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceFeed{
		wsBaseURL: strings.TrimRight(wsBaseURL, "/"),
		symbols:   symbols,
		log:       logger,
		prices:    make(map[string]decimal.Decimal),
	}
}

// Price returns the cached mark price for a symbol, if any tick arrived.
func (f *PriceFeed) Price(symbol string) (decimal.Decimal, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.prices[strings.ToUpper(symbol)]
	return p, ok
}

// Run connects and re-connects the stream until the context is cancelled.
func (f *PriceFeed) Run(ctx context.Context) {
	if len(f.symbols) == 0 || f.wsBaseURL == "" {
		return
	}
	backoff := time.Second
	for {
		if err := f.consume(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			f.log.Warn("mark price stream disconnected", zap.Error(err), zap.Duration("retry_in", backoff))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (f *PriceFeed) consume(ctx context.Context) error {
	streams := make([]string, 0, len(f.symbols))
	for _, s := range f.symbols {
		streams = append(streams, strings.ToLower(s)+"@markPrice")
	}
	endpoint := f.wsBaseURL + "/stream?streams=" + strings.Join(streams, "/")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	f.log.Info("mark price stream connected", zap.Strings("symbols", f.symbols))

	// The watcher must not outlive this connection attempt, so it exits
	// when either the context ends or the read loop returns.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var msg combinedStreamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		var ev markPriceEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			continue
		}
		if ev.EventType != "markPriceUpdate" || ev.Symbol == "" {
			continue
		}
		price, err := decimal.NewFromString(ev.MarkPrice)
		if err != nil || price.IsZero() {
			continue
		}
		f.mu.Lock()
		f.prices[ev.Symbol] = price
		f.mu.Unlock()
	}
}
