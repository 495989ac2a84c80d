package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"kirana/internal/config"
	"kirana/internal/handlers"
	"kirana/internal/metrics"
	"kirana/internal/middleware"
	"kirana/internal/services"
	"kirana/internal/store"
	"kirana/pkg/logger"
	"kirana/pkg/rabbitmq"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Fiber *fiber.App
	Store *store.RecordStore
	MQ    *rabbitmq.Client // nil when events are disabled

	cfg *config.Config
	log zerolog.Logger
}

// NewApp opens the record store and, when RABBITMQ_URL is set, the event broker, then wires
// services, handlers and routes.
func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	st, err := store.Open(ctx, store.Config{
		Driver:    cfg.StoreDriver,
		DSN:       cfg.DatabaseDSN,
		RedisAddr: cfg.RedisAddr,
		RedisDB:   cfg.RedisDB,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	a := &App{Store: st, cfg: cfg, log: log}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.MQ = mq
		publisher = mq
	} else {
		log.Warn().Msg("RABBITMQ_URL is empty, order events are disabled")
	}

	// --- Services ---
	authService := services.NewAuthService(st, cfg.JWTSecret, cfg.SessionTTL(), log)
	accountService := services.NewAccountService(st, log)
	productService := services.NewProductService(st, log)
	cartService := services.NewCartService(st, log)
	settlementService := services.NewSettlementService(st, publisher, log, cfg.OrderDateLayout)
	orderService := services.NewOrderService(st, log)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, log)
	accountHandler := handlers.NewAccountHandler(accountService, log)
	productHandler := handlers.NewProductHandler(productService, log)
	cartHandler := handlers.NewCartHandler(cartService, log)
	orderHandler := handlers.NewOrderHandler(settlementService, orderService, log)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())

	app.Get("/health", a.handleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	auth := middleware.AuthRequired(authService, log)
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	accountHandler.RegisterRoutes(apiV1, auth)
	productHandler.RegisterRoutes(apiV1, auth)
	cartHandler.RegisterRoutes(apiV1, auth)
	orderHandler.RegisterRoutes(apiV1, auth)

	a.Fiber = app
	return a, nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	events := "disabled"
	if a.MQ != nil {
		events = "connected"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
		"store":  a.cfg.StoreDriver,
		"events": events,
	})
}

// StartConsumer logs order events from the broker. It is a no-op when events are disabled.
func (a *App) StartConsumer() error {
	if a.MQ == nil {
		return nil
	}
	return a.MQ.ConsumeOrderEvents(func(msg amqp.Delivery) error {
		err := services.HandleOrderEvent(a.log, msg.RoutingKey, msg.Body)
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.OrderEventsConsumedTotal.WithLabelValues(status).Inc()
		return err
	})
}

// Close shuts down the HTTP server and releases the broker and store.
func (a *App) Close() error {
	var errs []error
	if a.Fiber != nil {
		if err := a.Fiber.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
		}
	}
	if a.MQ != nil {
		if err := a.MQ.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("record store close: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	app, err := NewApp(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}

	if err := app.StartConsumer(); err != nil {
		log.Error().Err(err).Msg("failed to start order event consumer")
	}

	go func() {
		log.Info().Str("addr", cfg.AppPort).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.Close(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}
