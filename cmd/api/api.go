package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Beka01247/smart-stock/docs"
	"github.com/Beka01247/smart-stock/internal/auth"
	"github.com/Beka01247/smart-stock/internal/cache"
	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/queue"
	"github.com/Beka01247/smart-stock/internal/ratelimiter"
	"github.com/Beka01247/smart-stock/internal/service"
	"github.com/Beka01247/smart-stock/internal/worker"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// storage is the document store behind the repositories.
type storage interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type application struct {
	config         config
	logger         *zap.SugaredLogger
	rateLimiter    ratelimiter.Limiter
	authenticator  auth.Authenticator
	storage        storage
	broker         queue.Broker
	cache          *cache.Cache
	inventory      *service.Inventory
	suppliers      *service.Records[domain.Supplier, *domain.Supplier]
	menuItems      *service.Records[domain.MenuItem, *domain.MenuItem]
	sales          *service.Records[domain.SalesRecord, *domain.SalesRecord]
	orderTemplates *service.Records[domain.OrderTemplate, *domain.OrderTemplate]
	ordering       *service.Ordering
	importing      *service.Importing
	notifications  *service.Notifications
	analytics      *service.Analytics
	importWorker   *worker.SalesImportWorker
	notifyWorker   *worker.NotificationWorker
}

type config struct {
	addr        string
	env         string
	apiURL      string
	devMode     bool
	cors        corsConfig
	rateLimiter ratelimiter.Config
	mongo       mongoConfig
	rabbitMQ    rabbitMQConfig
	googleCreds string
	auth        authConfig
	cacheTTL    time.Duration
	suppliers   supplierConfig
	telegram    telegramConfig
}

type corsConfig struct {
	AllowedOrigins []string
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

type authConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

type supplierConfig struct {
	RetryDelay time.Duration
}

type telegramConfig struct {
	Endpoint string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.corsMiddleware)
	r.Use(app.RateLimiterMiddleware)

	r.Get("/health", app.healthCheckHandler)

	docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.apiURL)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", app.loginHandler)

		r.Group(func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)

			r.Get("/auth/me", app.currentUserHandler)

			r.Route("/inventory", func(r chi.Router) {
				mountRecords[domain.InventoryItem, domain.InventoryPatch](app, r, app.inventory, app.inventory.Update)
				r.Get("/{id}/history", app.stockHistoryHandler)
				r.Post("/{id}/stock", app.setStockHandler)
			})
			r.Route("/suppliers", func(r chi.Router) {
				mountRecords(app, r, recordService[domain.Supplier](app.suppliers), updateWith[domain.Supplier, domain.SupplierPatch](app.suppliers))
			})
			r.Route("/menu-items", func(r chi.Router) {
				mountRecords(app, r, recordService[domain.MenuItem](app.menuItems), updateWith[domain.MenuItem, domain.MenuItemPatch](app.menuItems))
				r.Get("/costing", app.menuCostingHandler)
			})
			r.Route("/sales", func(r chi.Router) {
				mountRecords(app, r, recordService[domain.SalesRecord](app.sales), updateWith[domain.SalesRecord, domain.SalesPatch](app.sales))
			})
			r.Route("/order-templates", func(r chi.Router) {
				mountRecords(app, r, recordService[domain.OrderTemplate](app.orderTemplates), updateWith[domain.OrderTemplate, domain.OrderTemplatePatch](app.orderTemplates))
			})

			r.Route("/supplier-integrations", func(r chi.Router) {
				r.Get("/suppliers", app.listSuppliersHandler)
				r.Post("/pricing", app.pricingHandler)
				r.Post("/order", app.placeOrderHandler)
				r.Get("/test/{supplier_id}", app.testSupplierHandler)
			})

			r.Route("/ordering", func(r chi.Router) {
				r.Get("/suggestions", app.orderSuggestionsHandler)
				r.Post("/templates/{id}/place", app.placeTemplateHandler)
				r.Get("/orders", app.listOrdersHandler)
				r.Patch("/orders/{id}/status", app.updateOrderStatusHandler)
				r.Post("/batch", app.placeBatchHandler)
			})

			r.Route("/forecasting", func(r chi.Router) {
				r.Post("/upload-csv", app.uploadSalesCSVHandler)
				r.Get("/forecast", app.forecastHandler)
			})

			r.Post("/imports", app.createImportTaskHandler)
			r.Get("/imports/{task_id}", app.getImportTaskHandler)

			r.Route("/integrations", func(r chi.Router) {
				r.Get("/settings", app.listIntegrationSettingsHandler)
				r.Post("/settings", app.saveIntegrationSettingHandler)
				r.Delete("/settings/{id}", app.deleteIntegrationSettingHandler)
				r.Post("/test", app.testIntegrationHandler)
				r.Post("/notify", app.sendNotificationHandler)
			})

			r.Get("/dashboard", app.dashboardHandler)

			r.Get("/cache/stats", app.cacheStatsHandler)
			r.Delete("/cache", app.clearCacheHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// docs
	docs.SwaggerInfo.Title = "Smart Stock"
	docs.SwaggerInfo.Description = "Restaurant back-office API: inventory, suppliers, menu costing, sales and ordering"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api"

	// workers
	if app.importWorker != nil {
		if err := app.importWorker.Start(); err != nil {
			return fmt.Errorf("failed to start import worker: %w", err)
		}
	}
	if app.notifyWorker != nil {
		if err := app.notifyWorker.Start(); err != nil {
			return fmt.Errorf("failed to start notification worker: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		if app.importWorker != nil {
			app.importWorker.Stop()
		}
		if app.notifyWorker != nil {
			app.notifyWorker.Stop()
		}

		if app.broker != nil {
			if err := app.broker.Close(); err != nil {
				app.logger.Errorw("error closing broker", "error", err)
			} else {
				app.logger.Info("broker closed gracefully")
			}
		}

		if app.storage != nil {
			if err := app.storage.Close(ctx); err != nil {
				app.logger.Errorw("error closing storage", "error", err)
			} else {
				app.logger.Info("storage closed gracefully")
			}
		}

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env, "dev_mode", app.config.devMode)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
