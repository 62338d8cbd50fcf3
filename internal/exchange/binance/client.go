package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"futures-dashboard/internal/config"
	"futures-dashboard/internal/core"
)

type AuthType int

const (
	AuthNone AuthType = iota
	AuthSigned
)

// Client is the signed USDT-M futures REST client. The credential pair is
// read-only after construction, so a single Client is safe for unlimited
// concurrent use.
type Client struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	recvWindow time.Duration
	httpClient *http.Client
	log        *zap.Logger

	mu          sync.Mutex
	filterCache map[string]core.SymbolFilters
}

type Options struct {
	APIKey         string
	APISecret      string
	RestBaseURL    string
	RecvWindowMs   int64
	HTTPTimeoutSec int64
	Logger         *zap.Logger
}

// NewClient builds the client from configuration. Missing credentials are a
// fatal configuration error, not a per-request condition.
func NewClient(cfg config.ExchangeConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, core.ConfigError{Field: "exchange", Reason: "api_key and api_secret are required"}
	}
	return NewClientWithOptions(Options{
		APIKey:         cfg.APIKey,
		APISecret:      cfg.APISecret,
		RestBaseURL:    cfg.RestBaseURL,
		RecvWindowMs:   cfg.RecvWindowMs,
		HTTPTimeoutSec: cfg.HTTPTimeoutSec,
		Logger:         logger,
	}), nil
}

func NewClientWithOptions(opts Options) *Client {
	timeout := 15 * time.Second
	if opts.HTTPTimeoutSec > 0 {
		timeout = time.Duration(opts.HTTPTimeoutSec) * time.Second
	}
	recvWindow := 5000 * time.Millisecond
	if opts.RecvWindowMs > 0 {
		recvWindow = time.Duration(opts.RecvWindowMs) * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:      opts.APIKey,
		apiSecret:   opts.APISecret,
		baseURL:     strings.TrimRight(opts.RestBaseURL, "/"),
		recvWindow:  recvWindow,
		httpClient:  &http.Client{Timeout: timeout},
		log:         logger,
		filterCache: make(map[string]core.SymbolFilters),
	}
}

func (c *Client) Name() string { return "binance-futures" }

func (c *Client) BaseURL() string { return c.baseURL }

// ServerTime probes /fapi/v1/time. The endpoint is unauthenticated, so a
// failure here means the venue is unreachable, never that credentials are
// bad.
func (c *Client) ServerTime(ctx context.Context) (int64, error) {
	var p Params
	body, err := c.doRequest(ctx, http.MethodGet, "/fapi/v1/time", p, AuthNone)
	if err != nil {
		return 0, err
	}
	var resp serverTimeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, err
	}
	return resp.ServerTime, nil
}

// SymbolFilters fetches the trading filters for a symbol, cached for the
// client lifetime (exchange metadata changes far slower than order flow).
func (c *Client) SymbolFilters(ctx context.Context, symbol string) (core.SymbolFilters, error) {
	if symbol == "" {
		return core.SymbolFilters{}, errors.New("symbol is required")
	}
	c.mu.Lock()
	if cached, ok := c.filterCache[symbol]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	var p Params
	p.Set("symbol", symbol)
	body, err := c.doRequest(ctx, http.MethodGet, "/fapi/v1/exchangeInfo", p, AuthNone)
	if err != nil {
		return core.SymbolFilters{}, err
	}
	var resp exchangeInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return core.SymbolFilters{}, err
	}
	if len(resp.Symbols) == 0 {
		return core.SymbolFilters{}, errors.New("symbol not found")
	}
	filters := parseSymbolFilters(resp.Symbols[0])

	c.mu.Lock()
	c.filterCache[symbol] = filters
	c.mu.Unlock()
	return filters, nil
}

// MarkPrice returns the current mark price from the premium index endpoint.
func (c *Client) MarkPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	var p Params
	p.Set("symbol", symbol)
	body, err := c.doRequest(ctx, http.MethodGet, "/fapi/v1/premiumIndex", p, AuthNone)
	if err != nil {
		return decimal.Zero, err
	}
	var resp premiumIndexResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.Zero, err
	}
	price, err := decimal.NewFromString(resp.MarkPrice)
	if err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

// PlaceOrder builds the wire parameters, signs them, and submits the order.
func (c *Client) PlaceOrder(ctx context.Context, order core.OrderRequest) (core.NormalizedOrderResponse, error) {
	params, err := BuildOrderParams(order)
	if err != nil {
		return core.NormalizedOrderResponse{}, err
	}

	c.log.Info("placing order",
		zap.String("endpoint", "/fapi/v1/order"),
		zap.Any("params", params.Redacted()),
	)

	body, err := c.doRequest(ctx, http.MethodPost, "/fapi/v1/order", params, AuthSigned)
	if err != nil {
		return core.NormalizedOrderResponse{}, err
	}
	var ack orderAckResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return core.NormalizedOrderResponse{}, err
	}

	c.log.Info("order placed",
		zap.Int64("orderId", ack.OrderID),
		zap.String("symbol", ack.Symbol),
		zap.String("status", ack.Status),
	)
	return normalizeAck(ack), nil
}

// doRequest performs one exchange call. For signed requests the timestamp is
// taken immediately before signing, never cached, and the signed query is
// sent exactly as signed.
func (c *Client) doRequest(ctx context.Context, method, path string, params Params, auth AuthType) ([]byte, error) {
	query := params.Encode()
	if auth == AuthSigned {
		query = c.signQuery(params)
	}

	urlStr := c.baseURL + path
	if query != "" {
		urlStr += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, method, urlStr, nil)
	if err != nil {
		return nil, err
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if auth == AuthSigned {
		// The key travels in a header; it is never part of the signed query.
		req.Header.Set("X-MBX-APIKEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// signQuery appends timestamp and recvWindow, signs the canonical query with
// HMAC-SHA256, and returns the final query string with the signature as the
// last parameter.
func (c *Client) signQuery(params Params) string {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("recvWindow", strconv.FormatInt(c.recvWindow.Milliseconds(), 10))
	payload := params.Encode()
	return payload + "&signature=" + sign(c.apiSecret, payload)
}

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
