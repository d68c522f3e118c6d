package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"marketdash/internal/api"
	"marketdash/internal/coingecko"
	"marketdash/internal/config"
	"marketdash/internal/crypto"
	"marketdash/internal/httpx"
	"marketdash/internal/marketcap"
	"marketdash/internal/ratelimit"
	"marketdash/internal/stocks"
	"marketdash/internal/yahoo"
)

func main() {
	configPath := flag.String("config", "", "path to config.json")
	flag.Parse()

	// Missing .env is fine; the environment may be set by the runtime.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}

	logger := newLogger(cfg.Server)

	hc := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

	scraper := marketcap.New(marketcap.Config{URL: cfg.Stocks.MarketCapURL}, hc, logger)
	yahooClient := yahoo.New(yahoo.Config{BaseURL: cfg.Yahoo.BaseURL}, hc, logger)
	geckoClient := coingecko.New(cfg.Crypto.APIKey,
		coingecko.WithBaseURL(cfg.Crypto.BaseURL),
		coingecko.WithLimiter(ratelimit.NewTokenBucket(float64(cfg.Crypto.MaxRequestsPerMinute)/60, cfg.Crypto.Burst)),
		coingecko.WithLogger(logger),
	)

	stockSvc := stocks.New(cfg.Stocks, yahooClient, scraper, logger)
	cryptoSvc := crypto.New(cfg.Crypto, geckoClient, logger)
	server := api.New(cfg, stockSvc, cryptoSvc, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithField("addr", httpServer.Addr).Info("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

func newLogger(cfg config.Server) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
