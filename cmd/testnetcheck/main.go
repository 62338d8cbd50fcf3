package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"futures-dashboard/internal/config"
	"futures-dashboard/internal/core"
	"futures-dashboard/internal/exchange/binance"
)

type checkStatus string

const (
	statusPass checkStatus = "PASS"
	statusFail checkStatus = "FAIL"
)

type checkResult struct {
	Name       string      `json:"name"`
	Status     checkStatus `json:"status"`
	DurationMs int64       `json:"duration_ms"`
	Detail     string      `json:"detail,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type report struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	BaseURL    string        `json:"base_url"`
	Symbols    []string      `json:"symbols"`
	Checks     []checkResult `json:"checks"`
}

type selectedChecks struct {
	connectivity bool
	filters      bool
	markPrice    bool
	pipeline     bool
}

func main() {
	var (
		configPath  string
		timeoutSec  int
		outJSONPath string
		checkFlag   string
	)
	flag.StringVar(&configPath, "config", "", "config yaml path (empty = env only)")
	flag.IntVar(&timeoutSec, "timeout-sec", 60, "total timeout seconds")
	flag.StringVar(&outJSONPath, "out-json", "", "optional output report path")
	flag.StringVar(&checkFlag, "check", "all", "checks to run: all | comma list (connectivity,filters,markprice,pipeline)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err.Error())
	}
	if !cfg.IsTestnet() {
		fatal("testnetcheck requires a testnet base URL; refusing to probe " + cfg.Exchange.RestBaseURL)
	}
	checks, err := parseCheckFlag(checkFlag)
	if err != nil {
		fatal(err.Error())
	}
	if timeoutSec < 10 {
		timeoutSec = 10
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	client, err := binance.NewClient(cfg.Exchange, zap.NewNop())
	if err != nil {
		fatal(err.Error())
	}

	r := report{
		StartedAt: time.Now().UTC(),
		BaseURL:   client.BaseURL(),
		Symbols:   cfg.Dashboard.Symbols,
	}

	run := func(name string, fn func() (string, error)) {
		start := time.Now()
		detail, err := fn()
		cr := checkResult{
			Name:       name,
			DurationMs: time.Since(start).Milliseconds(),
			Detail:     detail,
		}
		if err != nil {
			cr.Status = statusFail
			cr.Error = err.Error()
		} else {
			cr.Status = statusPass
		}
		r.Checks = append(r.Checks, cr)
		if cr.Status == statusPass {
			fmt.Printf("[PASS] %s (%dms)", name, cr.DurationMs)
			if cr.Detail != "" {
				fmt.Printf(" - %s", cr.Detail)
			}
			fmt.Println()
		} else {
			fmt.Printf("[FAIL] %s (%dms) - %s\n", name, cr.DurationMs, cr.Error)
		}
	}

	if checks.connectivity {
		run("exchange_connectivity", func() (string, error) {
			sent := time.Now()
			ts, err := client.ServerTime(ctx)
			if err != nil {
				return "", err
			}
			rtt := time.Since(sent)
			drift := sent.Add(rtt/2).UnixMilli() - ts
			if drift < 0 {
				drift = -drift
			}
			if drift > 1000 {
				return "", fmt.Errorf("clock drift %dms exceeds 1000ms; signed requests will be rejected", drift)
			}
			return fmt.Sprintf("serverTime=%d drift=%dms", ts, drift), nil
		})
	}

	if checks.filters {
		for _, symbol := range cfg.Dashboard.Symbols {
			symbol := symbol
			run("exchange_filters_"+strings.ToLower(symbol), func() (string, error) {
				filters, err := client.SymbolFilters(ctx, symbol)
				if err != nil {
					return "", err
				}
				if filters.LotSize.StepSize.IsZero() {
					return "", errors.New("missing LOT_SIZE step")
				}
				return fmt.Sprintf("minQty=%s step=%s tick=%s minNotional=%s",
					filters.LotSize.MinQty, filters.LotSize.StepSize,
					filters.Price.TickSize, filters.MinNotional), nil
			})
		}
	}

	if checks.markPrice {
		for _, symbol := range cfg.Dashboard.Symbols {
			symbol := symbol
			run("mark_price_"+strings.ToLower(symbol), func() (string, error) {
				price, err := client.MarkPrice(ctx, symbol)
				if err != nil {
					return "", err
				}
				if price.LessThanOrEqual(decimal.Zero) {
					return "", fmt.Errorf("non-positive mark price %s", price)
				}
				return "price=" + price.String(), nil
			})
		}
	}

	if checks.pipeline {
		run("order_pipeline_dry_run", func() (string, error) {
			symbol := "BTCUSDT"
			if len(cfg.Dashboard.Symbols) > 0 {
				symbol = cfg.Dashboard.Symbols[0]
			}
			filters, err := client.SymbolFilters(ctx, symbol)
			if err != nil {
				return "", err
			}
			price, err := client.MarkPrice(ctx, symbol)
			if err != nil {
				return "", err
			}
			qty := filters.LotSize.MinQty
			if !filters.MinNotional.IsZero() {
				byNotional := filters.MinNotional.Div(price)
				if !filters.LotSize.StepSize.IsZero() {
					byNotional = byNotional.Div(filters.LotSize.StepSize).Ceil().Mul(filters.LotSize.StepSize)
				}
				if byNotional.GreaterThan(qty) {
					qty = byNotional
				}
			}
			order := core.OrderRequest{
				Symbol:   symbol,
				Side:     core.Buy,
				Type:     core.Market,
				Quantity: qty,
				DryRun:   true,
			}
			check := core.CheckFilters(order, filters, price)
			if check.HardFail() {
				return "", errors.New(core.JoinReasons(check.Failures))
			}
			detail := fmt.Sprintf("symbol=%s qty=%s markPrice=%s", symbol, qty, price)
			if len(check.Warnings) > 0 {
				detail += " warnings=" + core.JoinReasons(check.Warnings)
			}
			// Dry run by definition: the order never leaves this process.
			return detail, nil
		})
	}

	r.FinishedAt = time.Now().UTC()
	printSummary(r)

	if outJSONPath != "" {
		if err := writeReport(outJSONPath, r); err != nil {
			fatal(err.Error())
		}
		fmt.Printf("report written: %s\n", outJSONPath)
	}

	for _, c := range r.Checks {
		if c.Status == statusFail {
			os.Exit(1)
		}
	}
}

func parseCheckFlag(raw string) (selectedChecks, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" || raw == "default" {
		return selectedChecks{connectivity: true, filters: true, markPrice: true, pipeline: true}, nil
	}

	var out selectedChecks
	for _, p := range strings.Split(raw, ",") {
		name := strings.TrimSpace(p)
		switch name {
		case "":
			continue
		case "connectivity", "exchange_connectivity":
			out.connectivity = true
		case "filters", "exchange_filters":
			out.filters = true
		case "markprice", "mark_price":
			out.markPrice = true
		case "pipeline", "dryrun", "order_pipeline_dry_run":
			out.pipeline = true
		default:
			return selectedChecks{}, fmt.Errorf("unknown check: %s", name)
		}
	}
	if !out.connectivity && !out.filters && !out.markPrice && !out.pipeline {
		return selectedChecks{}, errors.New("no checks selected")
	}
	return out, nil
}

func printSummary(r report) {
	pass := 0
	fail := 0
	for _, c := range r.Checks {
		if c.Status == statusPass {
			pass++
		} else {
			fail++
		}
	}
	fmt.Printf("\nsummary base_url=%s symbols=%s pass=%d fail=%d duration=%s\n",
		r.BaseURL,
		strings.Join(r.Symbols, ","),
		pass,
		fail,
		r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
	)
}

func writeReport(path string, r report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, strings.TrimSpace(msg))
	os.Exit(1)
}
