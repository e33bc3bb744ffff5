package main

import (
	"context"
	"os"
	"time"

	"github.com/Beka01247/smart-stock/internal/auth"
	"github.com/Beka01247/smart-stock/internal/cache"
	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/env"
	"github.com/Beka01247/smart-stock/internal/notify"
	"github.com/Beka01247/smart-stock/internal/parser"
	"github.com/Beka01247/smart-stock/internal/queue"
	"github.com/Beka01247/smart-stock/internal/ratelimiter"
	"github.com/Beka01247/smart-stock/internal/repo"
	"github.com/Beka01247/smart-stock/internal/service"
	"github.com/Beka01247/smart-stock/internal/store/memory"
	"github.com/Beka01247/smart-stock/internal/store/mongo"
	"github.com/Beka01247/smart-stock/internal/supplier"
	"github.com/Beka01247/smart-stock/internal/worker"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const version = "1.0.0"

//	@title			Smart Stock
//	@description	Restaurant back-office API
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	http://www.swagger.io/support
//	@contact.email	support@swagger.io

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath					/api
//
// @securityDefinitions.apiKey	ApiKeyAuth
// @in							header
// @name						Authorization
// @description
func main() {
	_ = godotenv.Load()

	cfg := config{
		addr:    env.GetString("ADDR", ":8000"),
		apiURL:  env.GetString("EXTERNAL_URL", "localhost:8000"),
		env:     env.GetString("ENV", "development"),
		devMode: env.GetBool("DEV_MODE", false),
		cors: corsConfig{
			AllowedOrigins: env.GetList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:5173",
				"http://localhost:3000",
				env.GetString("FRONTEND_URL", ""),
			}),
		},
		rateLimiter: ratelimiter.Config{
			RequestsPerTimeFrame: env.GetInt("RATELIMITER_REQUESTS_COUNT", 100),
			TimeFrame:            time.Second * 5,
			Enabled:              env.GetBool("RATE_LIMITER_ENABLED", true),
		},
		mongo: mongoConfig{
			URI:      env.GetString("MONGO_URI", ""),
			Database: env.GetString("MONGO_DATABASE", "smart_stock"),
			Timeout:  time.Second * 10,
		},
		rabbitMQ: rabbitMQConfig{
			URL:           env.GetString("RABBITMQ_URL", ""),
			MaxRetries:    env.GetInt("RABBITMQ_MAX_RETRIES", 3),
			RetryDelay:    time.Second * 2,
			PrefetchCount: env.GetInt("RABBITMQ_PREFETCH_COUNT", 10),
		},
		googleCreds: env.GetString("GOOGLE_CREDENTIALS_PATH", ""),
		auth: authConfig{
			APIKey:   env.GetString("IDENTITY_API_KEY", ""),
			Endpoint: env.GetString("IDENTITY_ENDPOINT", auth.DefaultIdentityEndpoint),
			Timeout:  env.GetDuration("IDENTITY_TIMEOUT", 10*time.Second),
		},
		cacheTTL: env.GetDuration("PRICING_CACHE_TTL", 5*time.Minute),
		suppliers: supplierConfig{
			RetryDelay: env.GetDuration("SUPPLIER_RETRY_DELAY", time.Second),
		},
		telegram: telegramConfig{
			Endpoint: env.GetString("TELEGRAM_API_ENDPOINT", ""),
		},
	}

	// logger
	logger := zap.Must(zap.NewProduction()).Sugar()
	if cfg.env == "development" {
		logger = zap.Must(zap.NewDevelopment()).Sugar()
	}
	defer logger.Sync()

	if cfg.devMode {
		logger.Warn("DEV_MODE is on, authentication is bypassed")
	}

	// rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	// storage
	var (
		store storage
		repos repo.Repositories
	)
	if cfg.mongo.URI != "" {
		mongoStorage, err := mongo.New(mongo.Config{
			URI:      cfg.mongo.URI,
			Database: cfg.mongo.Database,
			Timeout:  cfg.mongo.Timeout,
		})
		if err != nil {
			logger.Fatalw("failed to connect to MongoDB", "error", err)
		}

		logger.Info("connected to MongoDB")

		// create indexes
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := mongoStorage.CreateIndexes(ctx); err != nil {
			logger.Warnw("failed to create indexes", "error", err)
		} else {
			logger.Info("MongoDB indexes created successfully")
		}
		cancel()

		store, repos = mongoStorage, mongoStorage.Repositories()
	} else {
		memoryStorage := memory.New()
		store, repos = memoryStorage, memoryStorage.Repositories()
		logger.Warn("MONGO_URI not set, records are kept in memory")
	}

	// broker
	queueConfig := queue.Config{
		URL:           cfg.rabbitMQ.URL,
		MaxRetries:    cfg.rabbitMQ.MaxRetries,
		RetryDelay:    cfg.rabbitMQ.RetryDelay,
		PrefetchCount: cfg.rabbitMQ.PrefetchCount,
	}
	var broker queue.Broker
	if cfg.rabbitMQ.URL != "" {
		rabbit, err := queue.NewRabbitMQBroker(queueConfig)
		if err != nil {
			logger.Fatalw("failed to connect to RabbitMQ", "error", err)
		}
		broker = rabbit
		logger.Info("connected to RabbitMQ")
	} else {
		broker = queue.NewMemoryBroker(queueConfig)
		logger.Warn("RABBITMQ_URL not set, using the in-process broker")
	}

	// authentication
	var authenticator auth.Authenticator = auth.DevVerifier{}
	if !cfg.devMode {
		if cfg.auth.APIKey == "" {
			logger.Warn("IDENTITY_API_KEY not set, every authenticated request will be rejected")
		}
		authenticator = auth.NewIdentityToolkit(auth.IdentityConfig{
			APIKey:   cfg.auth.APIKey,
			Endpoint: cfg.auth.Endpoint,
			Timeout:  cfg.auth.Timeout,
		}, nil)
	}

	// spreadsheet import
	var salesSource service.SalesSource
	if cfg.googleCreds != "" {
		credsJSON, err := os.ReadFile(cfg.googleCreds)
		if err != nil {
			logger.Fatalw("failed to read Google credentials", "error", err)
		}

		googleParser, err := parser.New(parser.Config{
			CredentialsJSON: credsJSON,
		})
		if err != nil {
			logger.Fatalw("failed to create Google Sheets parser", "error", err)
		}
		salesSource = googleParser
		logger.Info("Google Sheets parser initialized")
	} else {
		logger.Warn("Google credentials not provided, spreadsheet imports are disabled")
	}

	// suppliers
	registry := supplier.LoadFromEnv()
	for _, issue := range registry.Validate() {
		logger.Warnw("supplier configuration issue", "issue", issue)
	}

	pricingCache := cache.New()

	notifications := service.NewNotifications(
		repos.Integrations,
		broker,
		notify.Options{TelegramEndpoint: cfg.telegram.Endpoint},
		logger,
	)

	inventory := service.NewInventory(repos.Inventory, repos.StockAudit, notifications, logger)
	views := service.NewAnalytics(repos)

	ordering := service.NewOrdering(
		registry,
		pricingCache,
		repos,
		views,
		notifications,
		service.OrderingConfig{
			PricingTTL: cfg.cacheTTL,
			RetryDelay: cfg.suppliers.RetryDelay,
		},
		logger,
	)

	importing := service.NewImporting(
		repos.ImportTasks,
		repos.Sales,
		salesSource,
		broker,
		notifications,
		logger,
	)

	importWorker := worker.NewSalesImportWorker(importing, broker, logger)
	notifyWorker := worker.NewNotificationWorker(notifications, broker, logger)

	app := &application{
		config:         cfg,
		logger:         logger,
		rateLimiter:    rateLimiter,
		authenticator:  authenticator,
		storage:        store,
		broker:         broker,
		cache:          pricingCache,
		inventory:      inventory,
		suppliers:      service.NewRecords[domain.Supplier](domain.CollectionSuppliers, repos.Suppliers, nil, logger),
		menuItems:      service.NewRecords[domain.MenuItem](domain.CollectionMenuItems, repos.MenuItems, nil, logger),
		sales:          service.NewRecords[domain.SalesRecord](domain.CollectionSales, repos.Sales, nil, logger),
		orderTemplates: service.NewRecords[domain.OrderTemplate](domain.CollectionOrderTemplates, repos.OrderTemplates, nil, logger),
		ordering:       ordering,
		importing:      importing,
		notifications:  notifications,
		analytics:      views,
		importWorker:   importWorker,
		notifyWorker:   notifyWorker,
	}

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
