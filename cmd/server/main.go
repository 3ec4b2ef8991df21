/**
 * @description
 * This is the main entry point for the openfinance service. It is responsible
 * for initializing all components of the service, including configuration,
 * the MongoDB connection, the Redis rate limiter, the RabbitMQ producer, the
 * repository, the application services, and the HTTP server. It wires
 * everything together and starts the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/joho/godotenv: Loads a local .env file during development.
 * - github.com/redis/go-redis/v9: Redis client backing the rate limiter.
 * - internal/api, internal/app, internal/config, internal/store: Internal packages for the service.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/api"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/app"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/config"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/pkg/rabbitmq"
)

func main() {
	// Load a local .env file when present. Deployed environments inject
	// variables directly.
	if err := godotenv.Load(); err != nil {
		log.Println("level=info component=bootstrap msg=\"no .env file found; using environment values\"")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.MongoDBURI) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"mongodb uri must be configured\" env=MONGODB_URI")
	}

	log.Printf("level=info component=bootstrap msg=\"starting openfinance service\" port=%s", cfg.ServerPort)

	// Establish the MongoDB connection with a bounded startup ping.
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := store.Connect(connectCtx, cfg.MongoDBURI)
	cancelConnect()
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"mongodb connection failed\" err=%v", err)
	}
	defer func() {
		disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelDisconnect()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Printf("level=error component=bootstrap msg=\"mongodb disconnect failed\" err=%v", err)
		}
	}()
	log.Println("level=info component=bootstrap msg=\"mongodb connected\"")

	// Initialize the RabbitMQ producer to publish account lifecycle events.
	// A broker outage must not keep the API from booting.
	var producer rabbitmq.Publisher
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"rabbitmq url missing; account events disabled\" env=RABBITMQ_URL")
		producer = &rabbitmq.EventProducerFallback{}
	} else {
		eventProducer, prodErr := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if prodErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", prodErr)
			producer = &rabbitmq.EventProducerFallback{}
		} else {
			producer = eventProducer
			log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
		}
	}
	defer producer.Close()

	// Redis backs per-route rate limiting. Missing or unreachable Redis
	// degrades to unlimited traffic rather than failing startup.
	var limiter *app.RedisRateLimiter
	if strings.TrimSpace(cfg.RedisURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"redis url missing; rate limiting disabled\" env=REDIS_URL")
	} else {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; rate limiting disabled\" err=%v", parseErr)
		} else {
			redisClient := redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := redisClient.Ping(pingCtx).Err()
			cancelPing()
			if pingErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis ping failed; rate limiting disabled\" err=%v", pingErr)
				redisClient.Close()
			} else {
				defer redisClient.Close()
				limiter = app.NewRedisRateLimiter(redisClient, cfg.RedisRateLimitPrefix)
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
			}
		}
	}

	// Initialize the data access layer (repository).
	repository := store.NewMongoRepository(client, cfg.LeafyBankDBName, cfg.OpenFinanceDBName)

	// Initialize the application services with their dependencies.
	handlers := api.NewHandlers(
		app.NewAPIKeyAuthenticator(repository),
		app.NewBearerTokenAuthenticator(repository),
		app.NewProvisioner(repository),
		app.NewUsers(repository),
		app.NewAccounts(repository, producer, cfg.AccountBalanceLimit),
		app.NewTransactions(repository, cfg.RecentTransactionsLimit),
		app.NewExternalAccounts(repository),
		app.NewExternalProducts(repository),
		app.NewAggregations(repository),
	)

	router := api.NewRouter(handlers, limiter)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
