package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMySQL  = "mysql"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"

	TransportHTTP = "http"
	TransportGRPC = "grpc"

	ShutdownGrace = 10 * time.Second
)

// Common holds settings shared by both services.
type Common struct {
	LogLevel     string
	LogFormat    string
	OtelEndpoint string
	MySQLDSN     string
	SQLitePath   string
	RedisAddr    string
}

type OrderService struct {
	Common
	ServiceName        string
	HTTPAddr           string
	GRPCAddr           string
	Store              string
	InventoryTransport string
	InventoryHTTPURL   string
	InventoryGRPCAddr  string
	InventoryTimeout   time.Duration
	RabbitURL          string
	RabbitExchange     string
	EventWorkers       int
	EventQueueSize     int
	CORSAllowedOrigins []string
}

type InventoryService struct {
	Common
	ServiceName string
	HTTPAddr    string
	GRPCAddr    string
	Store       string
	Seed        bool
}

// loadDotEnv reads .env when present; real environment variables win.
func loadDotEnv() {
	_ = godotenv.Load()
}

func loadCommon(defaultSQLite string) Common {
	return Common{
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "json"),
		OtelEndpoint: getenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		MySQLDSN:     getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/orders?parseTime=true"),
		SQLitePath:   getenv("SQLITE_PATH", defaultSQLite),
		RedisAddr:    getenv("REDIS_ADDR", ""),
	}
}

func LoadOrderService() (*OrderService, error) {
	loadDotEnv()

	cfg := &OrderService{
		Common:             loadCommon("order.db"),
		ServiceName:        getenv("ORDER_SERVICE_NAME", "order-service"),
		HTTPAddr:           getenv("ORDER_HTTP_ADDR", ":8080"),
		GRPCAddr:           getenv("ORDER_GRPC_ADDR", ":50051"),
		Store:              getenv("ORDER_STORE", StoreSQLite),
		InventoryTransport: getenv("INVENTORY_TRANSPORT", TransportHTTP),
		InventoryHTTPURL:   getenv("INVENTORY_HTTP_URL", "http://localhost:8082"),
		InventoryGRPCAddr:  getenv("INVENTORY_GRPC_ADDR", "localhost:50052"),
		RabbitURL:          getenv("RABBITMQ_URL", ""),
		RabbitExchange:     getenv("RABBITMQ_EXCHANGE", "orders"),
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.InventoryTimeout, err = getDuration("INVENTORY_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.EventWorkers, err = getInt("EVENT_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.EventQueueSize, err = getInt("EVENT_QUEUE_SIZE", 1000); err != nil {
		return nil, err
	}

	switch cfg.Store {
	case StoreMySQL, StoreSQLite:
	default:
		return nil, fmt.Errorf("ORDER_STORE must be %q or %q, got %q", StoreMySQL, StoreSQLite, cfg.Store)
	}
	switch cfg.InventoryTransport {
	case TransportHTTP, TransportGRPC:
	default:
		return nil, fmt.Errorf("INVENTORY_TRANSPORT must be %q or %q, got %q", TransportHTTP, TransportGRPC, cfg.InventoryTransport)
	}
	if cfg.InventoryTimeout <= 0 {
		return nil, fmt.Errorf("INVENTORY_TIMEOUT must be positive")
	}
	if cfg.EventWorkers < 1 || cfg.EventQueueSize < 1 {
		return nil, fmt.Errorf("EVENT_WORKERS and EVENT_QUEUE_SIZE must be positive")
	}

	return cfg, nil
}

func LoadInventoryService() (*InventoryService, error) {
	loadDotEnv()

	cfg := &InventoryService{
		Common:      loadCommon("inventory.db"),
		ServiceName: getenv("INVENTORY_SERVICE_NAME", "inventory-service"),
		HTTPAddr:    getenv("INVENTORY_HTTP_ADDR", ":8082"),
		GRPCAddr:    getenv("INVENTORY_GRPC_ADDR", ":50052"),
		Store:       getenv("INVENTORY_STORE", StoreSQLite),
	}

	var err error
	if cfg.Seed, err = getBool("INVENTORY_SEED", true); err != nil {
		return nil, err
	}

	switch cfg.Store {
	case StoreMySQL, StoreSQLite:
	case StoreRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when INVENTORY_STORE=%s", StoreRedis)
		}
	default:
		return nil, fmt.Errorf("INVENTORY_STORE must be %q, %q or %q, got %q", StoreMySQL, StoreSQLite, StoreRedis, cfg.Store)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
