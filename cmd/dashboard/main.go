package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"futures-dashboard/internal/alert"
	"futures-dashboard/internal/config"
	"futures-dashboard/internal/exchange/binance"
	"futures-dashboard/internal/logging"
	"futures-dashboard/internal/server"
)

func main() {
	var configPath string
	var debug bool
	flag.StringVar(&configPath, "config", "", "config yaml path (empty = env only)")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := logging.New(debug)
	if err != nil {
		fatal(err.Error())
	}
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err.Error())
	}

	client, err := binance.NewClient(cfg.Exchange, logger)
	if err != nil {
		fatal(err.Error())
	}

	alerts := buildAlertManager(cfg, logger)
	if alerts != nil {
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := alerts.Close(closeCtx); err != nil {
				logger.Warn("close alert manager failed", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed := binance.NewPriceFeed(cfg.Exchange.WSBaseURL, cfg.Dashboard.Symbols, logger)
	go feed.Run(ctx)

	srv := server.New(server.Options{
		Exchange:       client,
		Prices:         feed,
		Alerts:         alerts,
		Token:          cfg.Dashboard.Token,
		FilterDefaults: cfg.Filters,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard listening",
			zap.String("addr", cfg.Server.ListenAddr),
			zap.String("exchange", client.BaseURL()),
			zap.Bool("testnet", cfg.IsTestnet()),
		)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", zap.Error(err))
		}
		logger.Info("dashboard stopped")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(err.Error())
		}
	}
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

func buildAlertManager(cfg config.Config, logger *zap.Logger) *alert.Manager {
	tg := cfg.Observability.Telegram
	if !tg.Enabled {
		return nil
	}
	return alert.NewManager(alert.NewTelegramNotifier(tg), logger)
}
