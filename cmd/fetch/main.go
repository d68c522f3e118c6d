// Command fetch is a smoke tool: it dumps popular stocks or cryptos, or one
// symbol, as JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"marketdash/internal/coingecko"
	"marketdash/internal/config"
	"marketdash/internal/crypto"
	"marketdash/internal/httpx"
	"marketdash/internal/marketcap"
	"marketdash/internal/stocks"
	"marketdash/internal/yahoo"
)

func main() {
	kind := flag.String("kind", "stocks", "what to fetch: stocks, crypto")
	top := flag.Int("top", 10, "number of entries")
	symbol := flag.String("symbol", "", "fetch one symbol instead of the popular list")
	full := flag.Bool("full", false, "fetch the full detail record")
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	hc := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

	var out any
	switch *kind {
	case "crypto":
		client := coingecko.New(cfg.Crypto.APIKey,
			coingecko.WithBaseURL(cfg.Crypto.BaseURL),
			coingecko.WithLogger(logger),
		)
		svc := crypto.New(cfg.Crypto, client, logger)
		if *symbol != "" {
			out, err = svc.BySymbol(ctx, *symbol)
		} else {
			out, err = svc.Top(ctx, *top)
		}
	default:
		scraper := marketcap.New(marketcap.Config{URL: cfg.Stocks.MarketCapURL}, hc, logger)
		yc := yahoo.New(yahoo.Config{BaseURL: cfg.Yahoo.BaseURL}, hc, logger)
		svc := stocks.New(cfg.Stocks, yc, scraper, logger)
		if *symbol != "" {
			out, err = svc.Stock(ctx, *symbol, *full)
		} else {
			out, err = svc.Popular(ctx, *top)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "fetch:", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "encode:", err)
		os.Exit(1)
	}
}
