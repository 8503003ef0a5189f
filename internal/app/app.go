package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/foodcart/internal/config"
	"github.com/nikolayk812/foodcart/internal/database"
	"github.com/nikolayk812/foodcart/internal/event"
	handler "github.com/nikolayk812/foodcart/internal/handler/http"
	"github.com/nikolayk812/foodcart/internal/metrics"
	"github.com/nikolayk812/foodcart/internal/port"
	"github.com/nikolayk812/foodcart/internal/repository"
	"github.com/nikolayk812/foodcart/internal/repository/memory"
	"github.com/nikolayk812/foodcart/internal/service"
	"github.com/nikolayk812/foodcart/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// App wires together all dependencies and runs the HTTP server.
type App struct {
	cfg        config.Config
	logger     *slog.Logger
	httpServer *http.Server
	closers    []closer
}

type closer struct {
	name  string
	close func() error
}

type stores struct {
	products  port.ProductRepository
	orders    port.OrderRepository
	customers port.CustomerRepository
}

// New builds the application. Registry receives the checkout metrics and
// backs the /metrics endpoint.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, registry *prometheus.Registry) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	st, err := a.openStores(ctx)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	carts, err := a.openCartStore(ctx)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	publisher := a.openPublisher()

	checkout := service.NewCheckoutService(
		st.products,
		st.orders,
		st.customers,
		carts,
		publisher,
		metrics.NewCheckout(registry),
		logger,
		service.CheckoutConfig{
			LowStockThreshold: cfg.Checkout.LowStockThreshold,
			Compensation: service.CompensationConfig{
				InitialInterval: cfg.Checkout.CompensationInitialInterval,
				MaxInterval:     cfg.Checkout.CompensationMaxInterval,
				MaxElapsedTime:  cfg.Checkout.CompensationMaxElapsed,
			},
		},
	)

	router := handler.NewRouter(handler.Services{
		Catalog:  service.NewCatalogService(st.products, cfg.Checkout.LowStockThreshold),
		Cart:     service.NewCartService(st.products, carts, logger),
		Checkout: checkout,
		Orders:   service.NewOrderService(st.orders, st.customers),
	}, registry, logger)

	a.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

func (a *App) openStores(ctx context.Context) (stores, error) {
	if a.cfg.StoreBackend == "memory" {
		a.logger.Warn("using in-memory stores, data is lost on restart")
		return stores{
			products:  memory.NewProductStore(),
			orders:    memory.NewOrderStore(),
			customers: memory.NewCustomerStore(),
		}, nil
	}

	pool, err := database.NewPostgresPool(ctx, a.cfg.Postgres, a.logger)
	if err != nil {
		return stores{}, err
	}
	a.closers = append(a.closers, closer{name: "postgres", close: func() error {
		pool.Close()
		return nil
	}})

	if err := database.Migrate(pool, a.logger); err != nil {
		return stores{}, fmt.Errorf("database.Migrate: %w", err)
	}

	return newPostgresStores(pool)
}

func newPostgresStores(pool *pgxpool.Pool) (stores, error) {
	products, err := repository.NewProduct(pool)
	if err != nil {
		return stores{}, fmt.Errorf("repository.NewProduct: %w", err)
	}
	orders, err := repository.NewOrder(pool)
	if err != nil {
		return stores{}, fmt.Errorf("repository.NewOrder: %w", err)
	}
	customers, err := repository.NewCustomer(pool)
	if err != nil {
		return stores{}, fmt.Errorf("repository.NewCustomer: %w", err)
	}

	return stores{products: products, orders: orders, customers: customers}, nil
}

func (a *App) openCartStore(ctx context.Context) (port.CartStore, error) {
	if a.cfg.CartBackend == "memory" {
		return memory.NewCartStore(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	a.closers = append(a.closers, closer{name: "redis", close: rdb.Close})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.logger.Info("connected to redis",
		slog.String("addr", a.cfg.Redis.Addr),
		slog.Int("db", a.cfg.Redis.DB),
	)

	return session.NewRedisCartStore(rdb, a.cfg.Redis.CartTTL), nil
}

func (a *App) openPublisher() port.EventPublisher {
	if len(a.cfg.Kafka.Brokers) == 0 {
		a.logger.Info("kafka brokers not configured, events are not published")
		return event.NopPublisher{}
	}

	producer := event.NewProducer(event.ProducerConfig{
		Brokers:      a.cfg.Kafka.Brokers,
		BatchTimeout: 10 * time.Millisecond,
		Source:       a.cfg.ServiceName,
	}, a.logger)
	a.closers = append(a.closers, closer{name: "kafka", close: producer.Close})
	a.logger.Info("kafka producer initialized", slog.Any("brokers", a.cfg.Kafka.Brokers))

	return producer
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting http server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.closeAll()
		return err
	}

	return a.Shutdown()
}

// Shutdown drains in-flight requests, then closes connections in reverse
// order of opening.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	a.closeAll()

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.logger.Error("close failed", slog.String("component", c.name), slog.String("error", err.Error()))
		}
	}
	a.closers = nil
}
