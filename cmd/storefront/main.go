package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/example/pizzacraft-storefront/internal/api"
	"github.com/example/pizzacraft-storefront/internal/client"
	"github.com/example/pizzacraft-storefront/internal/config"
	"github.com/example/pizzacraft-storefront/internal/domain/cart"
	"github.com/example/pizzacraft-storefront/internal/domain/checkout"
	"github.com/example/pizzacraft-storefront/internal/infrastructure/kafka"
	"github.com/example/pizzacraft-storefront/internal/infrastructure/store"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	if cfg.PaymentGatewayKey == "" {
		log.Fatal("[Storefront] PAYMENT_GATEWAY_KEY environment variable is required")
	}

	log.Println("[Storefront] ========================================")
	log.Println("[Storefront] PizzaCraft Storefront")
	log.Println("[Storefront] ========================================")
	log.Printf("[Storefront] Backend API: %s", cfg.BackendBaseURL)

	// Cart persistence: Redis when configured, otherwise process memory.
	var persister cart.Persister
	var catalogCache client.CatalogCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("[Storefront] Failed to connect to Redis: %v", err)
		}
		log.Printf("[Storefront] Carts persisted to Redis at %s", cfg.RedisAddr)
		persister = store.NewRedisCartStore(rdb)
		catalogCache = store.NewRedisCatalogCache(rdb)
	} else {
		log.Println("[Storefront] REDIS_ADDR not set, carts will not survive a restart")
		persister = store.NewMemoryCartStore()
	}

	// Lifecycle events are best-effort; without brokers the orchestrator
	// simply runs silent.
	var events checkout.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		log.Printf("[Storefront] Publishing lifecycle events to %v topic %s", cfg.KafkaBrokers, cfg.KafkaTopic)
		events = producer
	} else {
		log.Println("[Storefront] KAFKA_BROKERS not set, lifecycle events disabled")
	}

	// Collaborator clients.
	catalogClient := client.NewCatalogClient(cfg.BackendBaseURL, cfg.RequestTimeout, catalogCache)
	authClient := client.NewAuthClient(cfg.BackendBaseURL, cfg.RequestTimeout)
	paymentClient := client.NewPaymentClient(cfg.BackendBaseURL, cfg.RequestTimeout)
	orderClient := client.NewOrderClient(cfg.BackendBaseURL, cfg.RequestTimeout)

	carts := cart.NewManager(persister)
	checkouts := checkout.NewRegistry()
	orch := checkout.NewOrchestrator(
		paymentClient,
		orderClient,
		authClient,
		events,
		cfg.PaymentGatewayKey,
		cfg.WidgetTTL,
	)

	// Reap checkout sessions whose payment widget never called back.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		checkouts.Sweep(ctx, cfg.SweepInterval)
	}()

	handlers := api.NewHandlers(carts, checkouts, orch, catalogClient, orderClient)
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.NewRouter(handlers, cfg.RequestTimeout),
	}

	go func() {
		log.Printf("[Storefront] Server started on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Storefront] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Storefront] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Storefront] Shutdown error: %v", err)
	}

	wg.Wait()
}
