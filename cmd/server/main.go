package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/bazaarbuddy/paylater-engine/internal/config"
	"github.com/bazaarbuddy/paylater-engine/internal/handler"
	"github.com/bazaarbuddy/paylater-engine/internal/repository"
	"github.com/bazaarbuddy/paylater-engine/internal/service"
	"github.com/bazaarbuddy/paylater-engine/pkg/response"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	ledgerRepo := repository.NewLedgerRepository(db)
	txRepo := repository.NewTransactionRepository(db)

	// Initialize service and handlers
	ledgerService := service.NewLedgerService(ledgerRepo, txRepo, redisClient, cfg)
	payLaterHandler, err := handler.NewPayLaterHandler(ledgerService)
	if err != nil {
		log.Fatalf("Failed to initialize handler: %v", err)
	}
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	router := setupRoutes(payLaterHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
	})
}

func setupRoutes(payLaterHandler *handler.PayLaterHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/vendors/{vendorId}/pay-later/enroll", payLaterHandler.Enroll).Methods("POST")
	api.HandleFunc("/vendors/{vendorId}/pay-later", payLaterHandler.GetLedger).Methods("GET")
	api.HandleFunc("/vendors/{vendorId}/pay-later/standing", payLaterHandler.Standing).Methods("GET")
	api.HandleFunc("/vendors/{vendorId}/pay-later/charge", payLaterHandler.Charge).Methods("POST")
	api.HandleFunc("/vendors/{vendorId}/pay-later/repay", payLaterHandler.Repay).Methods("POST")
	api.HandleFunc("/vendors/{vendorId}/pay-later/transactions", payLaterHandler.Transactions).Methods("GET")

	return router
}
