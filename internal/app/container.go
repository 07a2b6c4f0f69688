// Package app wires configuration, storage, messaging and the billing
// handlers into a single container shared by the CLI and the worker.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
	billingDomain "github.com/kaiwenho/fixnest/internal/billing/domain"
	"github.com/kaiwenho/fixnest/internal/billing/infrastructure/cache"
	"github.com/kaiwenho/fixnest/internal/billing/infrastructure/gateway"
	billingPersistence "github.com/kaiwenho/fixnest/internal/billing/infrastructure/persistence"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	sharedApplication "github.com/kaiwenho/fixnest/internal/shared/application"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/database/postgres"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/database/sqlite"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/eventbus"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/migrations"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/kaiwenho/fixnest/internal/shared/infrastructure/persistence"
	"github.com/kaiwenho/fixnest/pkg/config"
)

// Container holds all wired dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage
	DB       *pgxpool.Pool
	SQLiteDB *sql.DB

	// Redis (nil when entitlements are cached in memory)
	RedisClient *redis.Client

	// Catalog
	Catalog *catalog.Catalog

	// Repositories
	SubscriptionRepo billingDomain.SubscriptionRepository
	MembershipRepo   billingDomain.MembershipRepository
	ChangeRecordRepo billingDomain.ChangeRecordRepository
	OutboxRepo       outbox.Repository

	UnitOfWork     sharedApplication.UnitOfWork
	EventPublisher eventbus.Publisher

	// Payments and entitlement cache
	PaymentGateway   commands.PaymentProcessor
	EntitlementCache queries.EntitlementCache

	// Subscription command handlers
	CreateSubscriptionHandler    *commands.CreateSubscriptionHandler
	ChangePlanHandler            *commands.ChangePlanHandler
	CancelSubscriptionHandler    *commands.CancelSubscriptionHandler
	ReinstateSubscriptionHandler *commands.ReinstateSubscriptionHandler
	RenewSubscriptionsHandler    *commands.RenewSubscriptionsHandler

	// Subscription query handlers
	GetSubscriptionHandler   *queries.GetSubscriptionHandler
	PreviewPlanChangeHandler *queries.PreviewPlanChangeHandler

	// Membership command handlers
	CreateMembershipHandler    *commands.CreateMembershipHandler
	ChangeTierHandler          *commands.ChangeTierHandler
	CancelMembershipHandler    *commands.CancelMembershipHandler
	ReinstateMembershipHandler *commands.ReinstateMembershipHandler
	RenewMembershipsHandler    *commands.RenewMembershipsHandler

	// Membership query handlers
	GetMembershipHandler     *queries.GetMembershipHandler
	PreviewTierChangeHandler *queries.PreviewTierChangeHandler

	// Entitlement and commission query handlers
	ResolveEntitlementsHandler *queries.ResolveEntitlementsHandler
	CommissionQuoteHandler     *queries.CommissionQuoteHandler
	TierChangeHistoryHandler   *queries.TierChangeHistoryHandler

	// Outbox Processor
	OutboxProcessor *outbox.Processor
}

// NewContainer creates and wires all dependencies against PostgreSQL.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = pool
	logger.Info("connected to database")

	// Connect to Redis (optional in development)
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				pool.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, entitlement cache will use in-memory fallback", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					pool.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, entitlement cache will use in-memory fallback", "error", err)
			} else {
				c.RedisClient = redisClient
				logger.Info("connected to Redis")
			}
		}
	}

	if c.RedisClient != nil {
		c.EntitlementCache = cache.NewRedisEntitlementCache(c.RedisClient, cache.DefaultEntitlementTTL)
	} else {
		c.EntitlementCache = cache.NewInMemoryEntitlementCache(cache.DefaultEntitlementTTL)
	}

	// Create repositories
	c.SubscriptionRepo = billingPersistence.NewPostgresSubscriptionRepository(pool)
	c.MembershipRepo = billingPersistence.NewPostgresMembershipRepository(pool)
	c.ChangeRecordRepo = billingPersistence.NewPostgresChangeRecordRepository(pool)
	c.OutboxRepo = outbox.NewPostgresRepository(pool)
	c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	// Create event publisher
	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		// Fall back to noop publisher in development
		if cfg.IsDevelopment() {
			logger.Warn("RabbitMQ not available, using noop publisher")
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			pool.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
	} else {
		c.EventPublisher = publisher
	}

	if cfg.PaymentGatewayURL != "" {
		c.PaymentGateway = gateway.NewHTTPPaymentGateway(
			gateway.DefaultConfig(cfg.PaymentGatewayURL, cfg.PaymentGatewayToken), logger)
	} else {
		if !cfg.IsDevelopment() {
			pool.Close()
			return nil, fmt.Errorf("PAYMENT_GATEWAY_URL is required outside development")
		}
		logger.Warn("payment gateway not configured, charges will only be logged")
		c.PaymentGateway = gateway.NewLoggingPaymentGateway(logger)
	}

	if err := c.wireHandlers(); err != nil {
		pool.Close()
		return nil, err
	}

	return c, nil
}

// NewLocalContainer creates a container for local mode with SQLite.
// This provides zero-config operation without requiring PostgreSQL, Redis,
// or RabbitMQ.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	conn, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := migrations.RunSQLiteMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	c.SQLiteDB = conn
	logger.Info("local mode", "sqlite_path", cfg.SQLitePath)

	c.SubscriptionRepo = billingPersistence.NewSQLiteSubscriptionRepository(conn)
	c.MembershipRepo = billingPersistence.NewSQLiteMembershipRepository(conn)
	c.ChangeRecordRepo = billingPersistence.NewSQLiteChangeRecordRepository(conn)
	c.OutboxRepo = outbox.NewSQLiteRepository(conn)
	c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(conn)

	c.EntitlementCache = cache.NewInMemoryEntitlementCache(cache.DefaultEntitlementTTL)
	c.EventPublisher = eventbus.NewNoopPublisher(logger)
	c.PaymentGateway = gateway.NewLoggingPaymentGateway(logger)

	if err := c.wireHandlers(); err != nil {
		conn.Close()
		return nil, err
	}

	return c, nil
}

// wireHandlers builds every command and query handler from the container's
// repositories. The plan catalog is validated once here so a bad catalog
// fails at startup instead of mid-operation.
func (c *Container) wireHandlers() error {
	cat := catalog.DefaultCatalog()
	if err := cat.Validate(); err != nil {
		return fmt.Errorf("invalid plan catalog: %w", err)
	}
	c.Catalog = cat

	clock := billingDomain.RealClock{}
	invalidator := c.EntitlementCache.(commands.EntitlementInvalidator)

	c.CreateSubscriptionHandler = commands.NewCreateSubscriptionHandler(
		c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, cat, c.PaymentGateway, clock)
	c.ChangePlanHandler = commands.NewChangePlanHandler(
		c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, cat, c.PaymentGateway, clock)
	c.CancelSubscriptionHandler = commands.NewCancelSubscriptionHandler(
		c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, cat, c.PaymentGateway, clock)
	c.ReinstateSubscriptionHandler = commands.NewReinstateSubscriptionHandler(
		c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, clock)
	c.RenewSubscriptionsHandler = commands.NewRenewSubscriptionsHandler(
		c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, cat, c.PaymentGateway, clock, c.Logger)

	c.GetSubscriptionHandler = queries.NewGetSubscriptionHandler(c.SubscriptionRepo, cat)
	c.PreviewPlanChangeHandler = queries.NewPreviewPlanChangeHandler(c.SubscriptionRepo, cat, clock)

	c.CreateMembershipHandler = commands.NewCreateMembershipHandler(
		c.MembershipRepo, c.OutboxRepo, c.UnitOfWork, cat, c.PaymentGateway, clock)
	c.ChangeTierHandler = commands.NewChangeTierHandler(
		c.MembershipRepo, c.ChangeRecordRepo, c.OutboxRepo, c.UnitOfWork, cat, c.PaymentGateway, invalidator, clock)
	c.CancelMembershipHandler = commands.NewCancelMembershipHandler(
		c.MembershipRepo, c.OutboxRepo, c.UnitOfWork, cat, c.PaymentGateway, invalidator, clock)
	c.ReinstateMembershipHandler = commands.NewReinstateMembershipHandler(
		c.MembershipRepo, c.OutboxRepo, c.UnitOfWork, clock)
	c.RenewMembershipsHandler = commands.NewRenewMembershipsHandler(
		c.MembershipRepo, c.OutboxRepo, c.UnitOfWork, cat, c.PaymentGateway, invalidator, clock, c.Logger)

	c.GetMembershipHandler = queries.NewGetMembershipHandler(c.MembershipRepo, cat, clock)
	c.PreviewTierChangeHandler = queries.NewPreviewTierChangeHandler(c.MembershipRepo, cat, clock)

	c.ResolveEntitlementsHandler = queries.NewResolveEntitlementsHandler(
		c.MembershipRepo, cat, c.EntitlementCache, c.Logger)
	c.CommissionQuoteHandler = queries.NewCommissionQuoteHandler(c.MembershipRepo, cat)
	c.TierChangeHistoryHandler = queries.NewTierChangeHistoryHandler(c.ChangeRecordRepo)

	return nil
}

// StartOutboxProcessor starts the background publisher loop. The caller owns
// the processor lifecycle; Close stops it.
func (c *Container) StartOutboxProcessor(ctx context.Context) {
	cfg := outbox.DefaultProcessorConfig()
	cfg.PollInterval = c.Config.OutboxPollInterval
	cfg.BatchSize = c.Config.OutboxBatchSize
	cfg.MaxRetries = c.Config.OutboxMaxRetries

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, cfg, c.Logger)
	c.OutboxProcessor.Start(ctx)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("PostgreSQL connection closed")
	}

	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("error closing SQLite connection", "error", err)
		} else {
			c.Logger.Info("SQLite connection closed")
		}
	}
}
