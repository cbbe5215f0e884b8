package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/order-fulfillment/internal/adapter/client"
	"github.com/rl1809/order-fulfillment/internal/adapter/handler"
	"github.com/rl1809/order-fulfillment/internal/adapter/handler/pb"
	"github.com/rl1809/order-fulfillment/internal/adapter/messaging"
	"github.com/rl1809/order-fulfillment/internal/adapter/storage"
	"github.com/rl1809/order-fulfillment/internal/config"
	"github.com/rl1809/order-fulfillment/internal/core/service"
	"github.com/rl1809/order-fulfillment/internal/logging"
	"github.com/rl1809/order-fulfillment/internal/observability"
	"github.com/rl1809/order-fulfillment/internal/port"
)

func main() {
	cfg, err := config.LoadOrderService()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.ServiceName, cfg.OtelEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}

	orders, closeStore, err := openOrderStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("failed to open order store")
	}
	log.Info().Str("store", cfg.Store).Msg("order store ready")

	inventory, closeInventory, err := newInventoryClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("transport", cfg.InventoryTransport).Msg("failed to create inventory client")
	}

	var cache port.CacheRepository
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 100})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect redis")
		}
		cache = storage.NewRedisAdapter(rdb)
		log.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")
	}

	var publisher port.EventPublisher = messaging.NopPublisher{}
	var rabbit *messaging.RabbitPublisher
	if cfg.RabbitURL != "" {
		rabbit, err = messaging.NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect rabbitmq")
		}
		publisher = rabbit
		log.Info().Str("exchange", cfg.RabbitExchange).Msg("connected to rabbitmq")
	}

	orderService := service.NewOrderService(orders, inventory, cache, cfg.EventQueueSize)

	var workers sync.WaitGroup
	for i := 0; i < cfg.EventWorkers; i++ {
		workers.Add(1)
		go func(id int) {
			defer workers.Done()
			messaging.WorkerLoop(id, orderService.GetPlacedQueue(), publisher)
		}(i)
	}
	log.Info().Int("workers", cfg.EventWorkers).Msg("started event workers")

	grpcServer := grpc.NewServer()
	pb.RegisterOrderServer(grpcServer, handler.NewGRPCHandler(orderService))

	mux := http.NewServeMux()
	handler.NewHTTPHandler(orderService).Register(mux)
	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type", "Idempotency-Key"},
		}).Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		log.Info().Str("addr", cfg.GRPCAddr).Msg("gRPC server listening")
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP shutdown")
		}
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server error")
	}

	orderService.Close()
	workers.Wait()
	log.Info().Msg("event workers stopped")

	if rabbit != nil {
		rabbit.Close()
	}
	if rdb != nil {
		rdb.Close()
	}
	if err := closeInventory(); err != nil {
		log.Error().Err(err).Msg("close inventory client")
	}
	if err := closeStore(); err != nil {
		log.Error().Err(err).Msg("close order store")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownGrace)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("flush traces")
	}
	log.Info().Msg("stopped")
}

func openOrderStore(ctx context.Context, cfg *config.OrderService) (port.OrderRepository, func() error, error) {
	if cfg.Store == config.StoreSQLite {
		db, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	adapter := storage.NewMySQLAdapter(db)
	if err := adapter.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return adapter, db.Close, nil
}

func newInventoryClient(cfg *config.OrderService) (port.InventoryClient, func() error, error) {
	if cfg.InventoryTransport == config.TransportGRPC {
		c, err := client.NewInventoryGRPCClient(cfg.InventoryGRPCAddr, cfg.InventoryTimeout)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
	return client.NewInventoryHTTPClient(cfg.InventoryHTTPURL, cfg.InventoryTimeout), func() error { return nil }, nil
}
