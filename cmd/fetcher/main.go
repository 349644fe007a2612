package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/auth"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/client"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/config"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/worker"
	"github.com/jessevdk/go-flags"
)

type options struct {
	Once bool `long:"once" description:"run a single poll pass and exit"`
}

func main() {
	opts := &options{}
	if _, err := flags.ParseArgs(opts, os.Args[1:]); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.LoadFetcherConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting fetcher",
		"identity", cfg.Fetcher.Identity,
		"gateway_url", cfg.Fetcher.GatewayURL,
		"feed_url", cfg.Feed.BaseURL,
		"originators", len(cfg.Fetcher.Originators),
	)

	signingKey, err := auth.LoadSigningKey(cfg.Auth.SigningKeyFile)
	if err != nil {
		logger.Error("failed to load signing key", "error", err)
		os.Exit(1)
	}
	issuer := auth.NewIssuer(cfg.Auth, domain.AccountID(cfg.Fetcher.Identity), signingKey)
	authedClient := issuer.HTTPClient(cfg.Client.Timeout)

	gateway := client.NewGatewayClient(cfg.Fetcher.GatewayURL, client.WithHTTPClient(authedClient))
	feed := client.NewFeedSource(cfg.Feed.BaseURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Client.Timeout}),
	)
	deliverer := client.NewCallbackDeliverer(cfg.Fetcher.Originators, client.WithHTTPClient(authedClient))

	fetcher := worker.NewFetcher(
		gateway,
		client.NewRetryDataSource(feed, cfg.Retry),
		client.NewRetryDeliverer(deliverer, cfg.Retry),
		cfg.Fetcher.Interval,
		cfg.Fetcher.BatchSize,
		cfg.Fetcher.Concurrency,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.Once {
		report, err := fetcher.Poll(ctx)
		if err != nil {
			logger.Error("poll failed", "error", err)
			os.Exit(1)
		}
		logger.Info("poll finished",
			"listed", report.Listed,
			"delivered", report.Delivered,
			"removed", report.Removed,
			"fetch_failed", report.FetchFailed,
			"delivery_failed", report.DeliveryFailed,
			"race_lost", report.RaceLost,
			"remove_failed", report.RemoveFailed,
		)
		return
	}

	fetcher.Start(ctx)
	logger.Info("fetcher exited")
}
