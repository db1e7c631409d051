package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/SscSPs/wallet_ledger/internal/adapters/coinbase"
	"github.com/SscSPs/wallet_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/wallet_ledger/internal/adapters/firebase"
	portsrepo "github.com/SscSPs/wallet_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/wallet_ledger/internal/core/services"
	"github.com/SscSPs/wallet_ledger/internal/handlers"
	"github.com/SscSPs/wallet_ledger/internal/middleware"
	"github.com/SscSPs/wallet_ledger/internal/platform/config"
	"github.com/SscSPs/wallet_ledger/internal/utils"
	"github.com/SscSPs/wallet_ledger/pkg/database"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// @title Wallet Ledger API
// @version 1.0
// @description Wallet ledger store: identity, Checking and Bitcoin accounts, USD views.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := portsrepo.RepositoryProvider{}
	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer dbPool.Close()
		logger.Info("Database connection pool established.")

		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to run database migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	}

	remote, err := newRemoteClients(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize remote clients", slog.String("error", err.Error()))
		os.Exit(1)
	}
	container := services.NewServiceContainer(remote, repos)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, "", logger)
	defer posthogClient.Close()

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors, rate limiting)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(rateLimiter),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, posthogClient)

	// Background workers stop with ctx.
	workerCtx := middleware.AddLoggerToCtx(ctx, logger.With(slog.String("component", "worker")))
	var workers sync.WaitGroup
	if container.Snapshots != nil {
		workers.Add(1)
		go func() {
			defer workers.Done()
			container.Snapshots.Run(workerCtx)
		}()
	}
	workers.Add(1)
	go func() {
		defer workers.Done()
		services.NewRefresher(container.Wallet, cfg.RefreshInterval).Run(workerCtx)
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	workers.Wait()
	logger.Info("Server stopped")
}

// newRemoteClients builds the adapters the wallet store refreshes from. Firebase sources are
// skipped when no project is configured.
func newRemoteClients(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.RemoteClients, error) {
	remote := services.RemoteClients{
		Prices: coinbase.NewPriceClient(cfg.CoinbaseBaseURL, cfg.PriceCurrencyPair, cfg.RemoteTimeout),
	}
	if cfg.FirebaseProjectID == "" {
		return remote, nil
	}

	opts, err := firebase.FirestoreOptions(ctx, cfg.FirebaseCredentialsFile, cfg.FirestoreEndpoint)
	if err != nil {
		return remote, err
	}
	reader, err := firebase.NewDocumentReader(ctx, cfg.FirebaseProjectID, opts...)
	if err != nil {
		return remote, err
	}
	remote.Documents = reader

	functionsURL := cfg.FirebaseFunctionsBaseURL
	if functionsURL == "" {
		functionsURL = firebase.FunctionsBaseURL(cfg.FirebaseRegion, cfg.FirebaseProjectID)
	}
	tokenSource, err := firebase.FunctionTokenSource(ctx, cfg.FirebaseCredentialsFile, firebase.FiatBalancesURL(functionsURL))
	if err != nil {
		return remote, err
	}
	remote.Balances = firebase.NewFiatBalanceClient(firebase.NewCallableClient(functionsURL, tokenSource, cfg.RemoteTimeout))

	logger.Info("Firebase clients initialized",
		slog.String("project_id", cfg.FirebaseProjectID),
		slog.String("functions_url", functionsURL))
	return remote, nil
}
