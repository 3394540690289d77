package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"github.com/rl1809/pedidos-client/internal/adapter/backend"
	"github.com/rl1809/pedidos-client/internal/adapter/handler"
	"github.com/rl1809/pedidos-client/internal/adapter/messaging"
	"github.com/rl1809/pedidos-client/internal/adapter/storage"
	"github.com/rl1809/pedidos-client/internal/config"
	"github.com/rl1809/pedidos-client/internal/core/service"
	"github.com/rl1809/pedidos-client/internal/logger"
	"github.com/rl1809/pedidos-client/internal/port"
)

const serviceName = "pedidos-session-service"

func main() {
	// the pedidos API and the session API exchange prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog := logger.New(serviceName, os.Stdout, cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	api := backend.NewPedidosClient(cfg.BackendURL, cfg.BackendTimeout)

	// Initialize Redis
	var cache port.CatalogCache
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			PoolSize: 20,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		cache = storage.NewRedisCatalogCache(rdb, cfg.CatalogTTL)
		appLog.Info("redis_connected", "", "catalog cache enabled")
	}

	// Initialize MySQL
	var receipts port.ReceiptRepository
	var db *sql.DB
	if cfg.MySQLDSN != "" {
		db, err = sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("failed to ping mysql: %v", err)
		}
		journal := storage.NewMySQLReceiptJournal(db)
		if err := journal.Migrate(ctx); err != nil {
			log.Fatalf("failed to migrate mysql: %v", err)
		}
		receipts = journal
		appLog.Info("mysql_connected", "", "receipt journal enabled")
	}

	// Initialize RabbitMQ
	var events port.EventPublisher
	var publisher *messaging.AMQPPublisher
	if cfg.RabbitMQURL != "" {
		publisher, err = messaging.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("failed to connect rabbitmq: %v", err)
		}
		events = publisher
		appLog.Info("rabbitmq_connected", "", "session events enabled")
	}

	// Initialize services
	sessions := service.NewSessionRegistry(
		service.NewCatalog(api, cache, appLog),
		service.NewOrderSubmitter(api, receipts, appLog),
		service.NewStatusTracker(api, appLog),
		events, appLog)

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	handler.RegisterSessionServiceServer(grpcServer, handler.NewGRPCHandler(sessions, appLog))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	go func() {
		appLog.Info("grpc_started", "", fmt.Sprintf("gRPC server listening on :%d", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLog.Error("grpc_failed", "", "gRPC server error", err)
		}
	}()

	// Initialize HTTP server
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: handler.NewHTTPHandler(sessions, appLog).Router(),
	}

	go func() {
		appLog.Info("http_started", "", fmt.Sprintf("HTTP server listening on :%d", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("http_failed", "", "HTTP server error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutdown", "", "shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("http_shutdown_failed", "", "HTTP shutdown error", err)
	}
	appLog.Info("http_stopped", "", "HTTP server stopped")

	grpcServer.GracefulStop()
	appLog.Info("grpc_stopped", "", "gRPC server stopped")

	// Close connections
	if publisher != nil {
		publisher.Close()
	}
	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	appLog.Info("connections_closed", "", "connections closed")
}
