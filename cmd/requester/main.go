package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/oracle-relay-gateway/docs"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/auth"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/client"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/handler"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/handler/middleware"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/memory"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/postgres"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/config"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/service"
	"github.com/jessevdk/go-flags"
	"github.com/shopspring/decimal"
)

type options struct {
	FirstID uint64 `long:"first-id" description:"reset the request counter before serving"`
}

func main() {
	opts := &options{}
	if _, err := flags.ParseArgs(opts, os.Args[1:]); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.LoadRequesterConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting requester",
		"identity", cfg.Requester.Identity,
		"port", cfg.Server.Port,
		"authorized_deliverer", cfg.Requester.AuthorizedDeliverer,
	)

	ctx := context.Background()

	var (
		store  ports.ResponseStore
		checks = map[string]handler.HealthCheck{}
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		store = postgres.NewResponseStore(db)
		checks["database"] = db.Ping
	default:
		store = memory.NewResponseStore()
	}

	deposit := decimal.Zero
	if cfg.Requester.Deposit != "" {
		deposit, err = decimal.NewFromString(cfg.Requester.Deposit)
		if err != nil {
			logger.Error("invalid deposit", "error", err)
			os.Exit(1)
		}
	}

	signingKey, err := auth.LoadSigningKey(cfg.Auth.SigningKeyFile)
	if err != nil {
		logger.Error("failed to load signing key", "error", err)
		os.Exit(1)
	}
	keys, err := auth.LoadPublicKeys(cfg.Auth.PublicKeysDir)
	if err != nil {
		logger.Error("failed to load public keys", "error", err)
		os.Exit(1)
	}
	issuer := auth.NewIssuer(cfg.Auth, domain.AccountID(cfg.Requester.Identity), signingKey)
	gateway := client.NewGatewayClient(cfg.Requester.GatewayURL,
		client.WithHTTPClient(issuer.HTTPClient(cfg.Client.Timeout)),
	)

	callbackService, err := service.NewCallbackService(store, gateway, service.CallbackOptions{
		AuthorizedDeliverer: domain.AccountID(cfg.Requester.AuthorizedDeliverer),
		CallbackRef:         cfg.Requester.CallbackRef,
		Deposit:             deposit,
	}, logger)
	if err != nil {
		logger.Error("failed to create callback service", "error", err)
		os.Exit(1)
	}
	if opts.FirstID > 0 {
		callbackService.SetID(opts.FirstID)
	}

	doc, err := middleware.LoadSwagger([]byte(docs.SwaggerInfo.ReadDoc()))
	if err != nil {
		logger.Error("failed to load api document", "error", err)
		os.Exit(1)
	}
	validate, err := middleware.ValidateRequests(doc)
	if err != nil {
		logger.Error("failed to build request validator", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	handler.NewRequesterHandler(callbackService, logger).RegisterRoutes(mux)
	handler.NewHealthHandler(checks, logger).RegisterRoutes(mux)

	h := validate(http.Handler(mux))
	h = middleware.Authenticate(auth.NewVerifier(cfg.Auth, keys), logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.Timeout(cfg.Server.HandlerTimeout, logger)(h)
	h = middleware.Logging(logger)(h)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
