package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"ms-registration/internal/auth"
	"ms-registration/internal/config"
	"ms-registration/internal/database/migrations"
	"ms-registration/internal/identity"
	"ms-registration/internal/logger"
	"ms-registration/internal/payment/gateway"
	paymenthandlers "ms-registration/internal/payment/handler"
	"ms-registration/internal/payment/storage"
	"ms-registration/internal/registration"
	regdb "ms-registration/internal/registration/db"
	regkafka "ms-registration/internal/registration/kafka"
	"ms-registration/internal/registration/registration_api"
	rediswrap "ms-registration/internal/registration/redis"
	"ms-registration/internal/tickets"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	appLogger := logger.NewLogger()

	// --- PostgreSQL Setup ---
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	connector := pgdriver.NewConnector(pgdriver.WithDSN(dsn))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	if err := sqldb.Ping(); err != nil {
		appLogger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to Postgres: %v", err))
	}

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	// Versioned migrations first, bun CreateTable as a safety net for dev.
	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := runner.RunMigrations(); err != nil {
		appLogger.Warn("DATABASE", fmt.Sprintf("Migration runner: %v (falling back to schema sync)", err))
		if err := regdb.Migrate(ctx, bunDB); err != nil {
			appLogger.Fatal("DATABASE", fmt.Sprintf("Failed to sync schema: %v", err))
		}
	}

	// --- Redis Setup ---
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	var attemptLock registration.AttemptLock
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Warn("REDIS", fmt.Sprintf("Redis unavailable, attempt locking disabled: %v", err))
	} else {
		attemptLock = rediswrap.NewRedis(redisClient)
	}

	// --- Kafka Setup ---
	var publisher registration.Publisher
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer := regkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
	}

	// --- Payment Intent Audit Store ---
	intentStore, err := storage.NewPostgreSQLStoreWithDB(sqldb, appLogger)
	if err != nil {
		appLogger.Fatal("DATABASE", fmt.Sprintf("Failed to initialize payment intent store: %v", err))
	}

	// --- Stripe Gateway ---
	stripeGateway, err := gateway.NewStripeGateway(gateway.StripeConfig{
		SecretKey:   cfg.Stripe.SecretKey,
		CallTimeout: cfg.Stripe.CallTimeout,
		MaxRetries:  cfg.Stripe.MaxRetries,
	}, appLogger)
	if err != nil {
		appLogger.Fatal("STRIPE", fmt.Sprintf("Failed to initialize payment gateway: %v", err))
	}

	// --- Core Service Wiring ---
	dbLayer := &regdb.DB{Bun: bunDB}
	issuer := tickets.NewIssuer(cfg.Registration.TicketSecret)
	resolver := identity.NewResolver()

	service := registration.NewService(dbLayer, dbLayer, stripeGateway, issuer, registration.Options{
		Lock:          attemptLock,
		Kafka:         publisher,
		Audit:         intentStore,
		Logger:        appLogger,
		Currency:      cfg.Stripe.Currency,
		PendingTTL:    cfg.Registration.PendingTTL,
		WebhookSecret: cfg.Stripe.WebhookSecret,
	})

	handler := registration_api.NewHandler(service, resolver)

	// --- Pending-Expiry Sweeper ---
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	sweeper := registration.NewSweeper(service, cfg.Registration.SweepInterval)
	go sweeper.Run(sweepCtx)

	// --- Auth ---
	verifier, err := auth.NewVerifier()
	if err != nil {
		appLogger.Fatal("AUTH", fmt.Sprintf("Failed to initialize OIDC verifier: %v", err))
	}
	if verifier == nil {
		appLogger.Warn("AUTH", "OIDC_ISSUER not set, all requests treated as anonymous")
	}

	// --- Payment Surface (gin, mounted under chi) ---
	gin.SetMode(gin.ReleaseMode)
	paymentEngine := gin.New()
	paymentEngine.Use(gin.Recovery())
	paymentHandler := paymenthandlers.NewStripeHandler(stripeGateway, intentStore, service, appLogger)
	paymentHandler.Routes(paymentEngine)

	// --- Router ---
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(auth.Optional(verifier))
		r.Post("/api/v1/events/{eventId}/register", handler.Register)
		r.Post("/api/v1/events/{eventId}/create-payment-intent", handler.CreatePaymentIntent)
		r.Post("/api/v1/registrations/confirm", handler.ConfirmRegistration)
		r.Get("/api/v1/registrations/{registrationId}/ticket", handler.GetTicket)
		r.Post("/api/v1/tickets/{ticketNumber}/check-in", handler.CheckInTicket)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Require(verifier))
		r.Get("/api/v1/events/user/{identityId}/registrations", handler.GetRegistrationsByIdentity)
	})

	// Webhook signature is its own authentication.
	r.Post("/api/v1/webhooks/stripe", handler.HandleWebhook)

	r.Mount("/api/v1/payments", paymentEngine)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("SERVER", "Registration Service running on :"+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("SERVER", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("SERVER", "Shutdown signal received. Cleaning up...")

	stopSweep()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLogger.Fatal("SERVER", fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLogger.Info("SERVER", "Server exited gracefully")
}
