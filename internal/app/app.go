package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/fulbitoplay/prediction-pool/internal/config"
	"github.com/fulbitoplay/prediction-pool/internal/infrastructure/account/gatekeeper"
	cacherepo "github.com/fulbitoplay/prediction-pool/internal/infrastructure/repository/cache"
	"github.com/fulbitoplay/prediction-pool/internal/infrastructure/repository/postgres"
	"github.com/fulbitoplay/prediction-pool/internal/interfaces/httpapi"
	basecache "github.com/fulbitoplay/prediction-pool/internal/platform/cache"
	idgen "github.com/fulbitoplay/prediction-pool/internal/platform/id"
	"github.com/fulbitoplay/prediction-pool/internal/platform/logging"
	"github.com/fulbitoplay/prediction-pool/internal/platform/resilience"
	"github.com/fulbitoplay/prediction-pool/internal/usecase"
)

// NewHTTPServer builds the full service: traced postgres pool,
// repositories with their caching decorators, the use-case layer and
// the HTTP router. The returned cleanup closes the database pool.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.ConnectContext(ctx, "postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	cleanup := db.Close

	if cfg.SeedOnStart {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = cleanup()
			return nil, nil, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	server, err := buildServer(cfg, db, logger)
	if err != nil {
		_ = cleanup()
		return nil, nil, err
	}

	return server, cleanup, nil
}

func buildServer(cfg config.Config, db *sqlx.DB, logger *logging.Logger) (*http.Server, error) {
	userRepo := postgres.NewUserRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	entitlementRepo := postgres.NewEntitlementRepository(db)
	predictionRepo := postgres.NewPredictionRepository(db)

	readCache := basecache.NewStore(cfg.LeaderboardCacheTTL)
	eventRepo := cacherepo.NewEventRepository(postgres.NewEventRepository(db), readCache)
	matchRepo := cacherepo.NewMatchRepository(postgres.NewMatchRepository(db), readCache)

	ids := idgen.NewRandomGenerator()

	ledgerSvc := usecase.NewLedgerService(userRepo, ledgerRepo, ids)
	entitlementSvc := usecase.NewEntitlementService(userRepo, eventRepo, matchRepo, entitlementRepo)
	predictionSvc := usecase.NewPredictionService(userRepo, eventRepo, matchRepo, entitlementRepo, predictionRepo)
	scoringSvc := usecase.NewScoringService(userRepo, eventRepo, matchRepo, predictionRepo)
	leaderboardSvc := usecase.NewLeaderboardService(eventRepo, matchRepo, predictionRepo, userRepo, cfg.LeaderboardCacheTTL)
	scoringSvc.SetLeaderboard(leaderboardSvc)
	eventSvc := usecase.NewEventService(userRepo, eventRepo, matchRepo, entitlementRepo, predictionRepo, ids)
	accountSvc := usecase.NewAccountService(userRepo, ledgerRepo, entitlementRepo)

	verifier := gatekeeper.NewClient(
		&http.Client{Timeout: cfg.GatekeeperTimeout},
		cfg.GatekeeperBaseURL,
		cfg.GatekeeperIntrospectPath,
		cfg.GatekeeperAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.GatekeeperCircuitEnabled,
			FailureThreshold: cfg.GatekeeperCircuitFailureCount,
			OpenTimeout:      cfg.GatekeeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GatekeeperCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		ledgerSvc,
		entitlementSvc,
		predictionSvc,
		scoringSvc,
		leaderboardSvc,
		eventSvc,
		accountSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
