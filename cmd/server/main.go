package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	httpapi "libraryhub-backend/internal/api/http"
	"libraryhub-backend/internal/config"
	"libraryhub-backend/internal/logger"
	"libraryhub-backend/internal/repository/postgres"
	"libraryhub-backend/internal/security"
	"libraryhub-backend/internal/service"
	"libraryhub-backend/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LibraryHub Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
	)

	// Initialize Storage
	localStorage, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize local storage", "error", err)
		log.Fatalf("Failed to initialize local storage: %v", err)
	}
	logger.Info("Using local filesystem storage", "upload_dir", cfg.Storage.UploadDir)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)

	// Initialize Services
	authSvc := service.NewAuthService(
		store.UserRepository,
		tokenManager,
		emailSvc,
		localStorage,
		time.Duration(cfg.Library.ResetTokenExpiry)*time.Minute,
	)
	userSvc := service.NewUserService(store.UserRepository, store.BookRepository, localStorage)
	bookSvc := service.NewBookService(store.BookRepository, store.UserRepository, localStorage)
	borrowSvc := service.NewBorrowService(
		store.BorrowRequestRepository,
		store.BookRepository,
		store.UserRepository,
		emailSvc,
		cfg.Library.TaxRatePercent,
		cfg.Library.DailyFineCents,
	)

	// Initialize HTTP handlers
	uploadHandler := httpapi.NewUploadHandler(localStorage, cfg.Storage.MaxFileSize, cfg.Storage.AllowedTypes)
	authHandler := httpapi.NewAuthHandler(authSvc, uploadHandler, cfg.Storage.BaseURL, cfg.JWT.CookieExpiryDays)
	bookHandler := httpapi.NewBookHandler(bookSvc, uploadHandler)
	userHandler := httpapi.NewUserHandler(userSvc, uploadHandler)
	borrowHandler := httpapi.NewBorrowHandler(borrowSvc)
	mw := httpapi.NewMiddleware(tokenManager)

	router := httpapi.NewRouter(authHandler, bookHandler, userHandler, borrowHandler, uploadHandler, mw)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
