package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"futures-dashboard/internal/alert"
	"futures-dashboard/internal/config"
	"futures-dashboard/internal/exchange"
)

// PriceSource serves cached live prices; the websocket feed implements it.
type PriceSource interface {
	Price(symbol string) (decimal.Decimal, bool)
}

type Options struct {
	Exchange       exchange.Exchange
	Prices         PriceSource
	Alerts         *alert.Manager
	Token          string
	FilterDefaults config.FilterDefaults
	AllowedOrigins []string
	Logger         *zap.Logger
}

// Server exposes the order dashboard API. All state is read-only after
// construction; every request is an independent request-response cycle.
type Server struct {
	ex       exchange.Exchange
	prices   PriceSource
	alerts   *alert.Manager
	token    string
	defaults config.FilterDefaults
	origins  []string
	log      *zap.Logger
	router   *mux.Router
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		ex:       opts.Exchange,
		prices:   opts.Prices,
		alerts:   opts.Alerts,
		token:    opts.Token,
		defaults: opts.FilterDefaults,
		origins:  opts.AllowedOrigins,
		log:      logger,
		router:   mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	s.router.MethodNotAllowedHandler = methodNotAllowed

	api := s.router.PathPrefix("/api").Subrouter()
	// Subrouters do not inherit the root handler; without this a verb
	// mismatch under /api falls through to a 404.
	api.MethodNotAllowedHandler = methodNotAllowed
	api.Use(s.requireToken)
	api.HandleFunc("/place-order", s.handlePlaceOrder).Methods(http.MethodPost)
	api.HandleFunc("/time", s.handleTime).Methods(http.MethodGet)
	api.HandleFunc("/exchange-info", s.handleExchangeInfo).Methods(http.MethodGet)
	api.HandleFunc("/price", s.handlePrice).Methods(http.MethodGet)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

// Handler wraps the router with CORS for the browser dashboard.
func (s *Server) Handler() http.Handler {
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-DASHBOARD-TOKEN"},
	})
	return c.Handler(s.router)
}

// requireToken enforces the shared-secret header when a token is
// configured; an unconfigured token admits everything.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("X-DASHBOARD-TOKEN") != s.token {
			respondError(w, http.StatusUnauthorized, "Unauthorized: Invalid or missing dashboard token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// passTestnetGate enforces the standing safety invariant: no signed
// activity unless the exchange endpoint is a test environment. Checked on
// every request so a bad deploy fails loudly rather than trading live.
func (s *Server) passTestnetGate(w http.ResponseWriter) bool {
	baseURL := s.ex.BaseURL()
	if strings.Contains(baseURL, "testnet") {
		return true
	}
	s.alerts.Important("security_violation", map[string]string{"base_url": baseURL})
	respondError(w, http.StatusBadRequest,
		`Security violation: exchange base URL must contain "testnet". This dashboard only works with testnet.`)
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
