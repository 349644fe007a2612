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

	"github.com/DanielPopoola/oracle-relay-gateway/docs"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/auth"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/handler"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/handler/middleware"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/memory"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/adapters/postgres"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/config"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/domain"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/ports"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/core/service"
	"github.com/DanielPopoola/oracle-relay-gateway/internal/worker"
	"github.com/jessevdk/go-flags"
)

type options struct {
	InitOwner  string `long:"init-owner" env:"GATEWAY_INIT_OWNER" description:"initialize the registry with this owner identity"`
	MinDeposit string `long:"min-deposit" env:"GATEWAY_MIN_DEPOSIT" default:"0" description:"minimum deposit attached to each request"`
}

func main() {
	opts := &options{}
	if _, err := flags.ParseArgs(opts, os.Args[1:]); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.LoadGatewayConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting gateway service",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Driver,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()

	var (
		requestRepo ports.RequestRepository
		stateRepo   ports.StateRepository
		checks      = map[string]handler.HealthCheck{}
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		requestRepo = postgres.NewRequestRepository(db)
		stateRepo = postgres.NewStateRepository(db)
		checks["database"] = db.Ping
	default:
		requestRepo = memory.NewRequestRepository()
		stateRepo = memory.NewStateRepository()
	}

	registryService := service.NewRegistryService(requestRepo, stateRepo, logger)
	if err := initialize(ctx, registryService, opts, logger); err != nil {
		logger.Error("failed to initialize registry", "error", err)
		os.Exit(1)
	}
	checks["registry"] = func(ctx context.Context) error {
		_, err := registryService.State(ctx)
		return err
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

	keys, err := auth.LoadPublicKeys(cfg.Auth.PublicKeysDir)
	if err != nil {
		logger.Error("failed to load public keys", "error", err)
		os.Exit(1)
	}
	logger.Info("public keys loaded", "accounts", len(keys))

	mux := http.NewServeMux()
	handler.NewRegistryHandler(registryService, logger).RegisterRoutes(mux)
	handler.NewHealthHandler(checks, logger).RegisterRoutes(mux)

	router := http.Handler(mux)

	h := validate(router)
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

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if cfg.Monitor.Interval > 0 {
		monitor := worker.NewStaleMonitor(registryService, cfg.Monitor.Interval, cfg.Monitor.MaxAge, logger)
		go monitor.Start(workerCtx)
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

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// initialize sets up the registry on first start. Restarting with the same
// flags against an initialized store is fine; the stored owner wins.
func initialize(ctx context.Context, registry *service.RegistryService, opts *options, logger *slog.Logger) error {
	if opts.InitOwner == "" {
		state, err := registry.State(ctx)
		if err != nil {
			logger.Warn("registry is not initialized; start once with --init-owner", "error", err)
			return nil
		}
		logger.Info("registry loaded", "owner_id", state.OwnerID, "min_deposit", state.MinDeposit.String())
		return nil
	}

	state, err := registry.Initialize(ctx, service.InitializeCommand{
		OwnerID:    opts.InitOwner,
		MinDeposit: opts.MinDeposit,
	})
	if err == nil {
		logger.Info("registry initialized", "owner_id", state.OwnerID, "min_deposit", state.MinDeposit.String())
		return nil
	}
	if !errors.Is(err, domain.ErrInvalidAmbientState) {
		return err
	}

	state, loadErr := registry.State(ctx)
	if loadErr != nil {
		return err
	}
	if state.OwnerID != domain.AccountID(opts.InitOwner) {
		logger.Warn("registry already initialized with a different owner; keeping it",
			"owner_id", state.OwnerID,
			"requested_owner", opts.InitOwner,
		)
		return nil
	}
	logger.Info("registry already initialized", "owner_id", state.OwnerID)
	return nil
}
