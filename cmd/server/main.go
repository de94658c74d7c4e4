// Static site host with the wallet session API.
// Usage: go run ./cmd/server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AlexZinkM/webthree/internal/api"
	"github.com/AlexZinkM/webthree/internal/client"
	"github.com/AlexZinkM/webthree/internal/config"
	"github.com/AlexZinkM/webthree/internal/handler"
	"github.com/AlexZinkM/webthree/internal/metrics"
	"github.com/AlexZinkM/webthree/wallet"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: config.GetLogLevel()}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// No RPC URL means there is no wallet: connecting reports the provider as absent
	var provider wallet.Provider
	if rpcURL := config.GetRPCURL(); rpcURL != "" {
		eth, err := client.NewEthereumClient(ctx, rpcURL, logger)
		if err != nil {
			return err
		}
		defer eth.Close()
		go eth.Watch(ctx, config.GetPollInterval())
		provider = eth
	} else {
		logger.Warn("ETH_RPC_URL is empty, wallet provider disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	controller := wallet.NewController(provider,
		wallet.WithLogger(logger),
		wallet.WithRecorder(metrics.New(reg)),
		wallet.WithFetchTimeout(config.GetFetchTimeout()),
	)
	controller.Mount()
	defer controller.Close()

	var rates handler.RateSource
	if config.GetFiatCurrency() != "" {
		rates = client.NewCoinGeckoClient()
	}
	sessionHandler := handler.NewSessionHandler(controller, rates, config.GetFiatCurrency(), logger)

	router, err := api.SetupRouter(sessionHandler, config.GetStaticDir(), reg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is running",
			slog.String("port", config.GetPort()),
			slog.String("static_dir", config.GetStaticDir()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
