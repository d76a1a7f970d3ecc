package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/Odorikoma/booknest/internal/handlers"
	"github.com/Odorikoma/booknest/internal/jwt"
	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/middlewares"
	"github.com/Odorikoma/booknest/internal/repositories"
	"github.com/Odorikoma/booknest/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// Config holds every setting the service needs, built once at startup
// and passed by reference. No component reads the environment itself.
type Config struct {
	AppHost  string
	AppPort  string
	LogLevel string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDatabase     string
	PGMaxOpenConns int
	PGMaxIdleConns int

	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	RedisCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecretKey string
	JWTExp       time.Duration
}

// @title booknest API
// @version 1.0.0
// @description Library-management backend: user auth, book catalog and borrow-request lifecycle
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and builds the
// application configuration.
func parseConfig(path string) (*Config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getEnvInt := func(key string, defaultValue int) (int, error) {
		return strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	}

	cfg := &Config{
		AppHost:       getEnv("APP_HOST", "localhost"),
		AppPort:       getEnv("APP_PORT", "8080"),
		LogLevel:      getEnv("APP_LOG_LEVEL", "info"),
		PGHost:        getEnv("POSTGRES_HOST", "localhost"),
		PGUser:        getEnv("POSTGRES_USER", "user"),
		PGPassword:    getEnv("POSTGRES_PASSWORD", "password"),
		PGDatabase:    getEnv("POSTGRES_DB", "booknest"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "borrow-events"),
		JWTSecretKey:  getEnv("JWT_SECRET_KEY", "my_super_secret_key"),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	var err error
	if cfg.PGPort, err = getEnvInt("POSTGRES_PORT", 5432); err != nil {
		return nil, err
	}
	if cfg.PGMaxOpenConns, err = getEnvInt("POSTGRES_MAX_OPEN_CONNS", 16); err != nil {
		return nil, err
	}
	if cfg.PGMaxIdleConns, err = getEnvInt("POSTGRES_MAX_IDLE_CONNS", 8); err != nil {
		return nil, err
	}
	if cfg.RedisPort, err = getEnvInt("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cacheTTLSecond, err := getEnvInt("REDIS_CACHE_TTL_SECOND", 300)
	if err != nil {
		return nil, err
	}
	cfg.RedisCacheTTL = time.Duration(cacheTTLSecond) * time.Second

	// Zero means tokens never expire, matching the original deployment.
	jwtExpSecond, err := getEnvInt("JWT_EXP_SECOND", 0)
	if err != nil {
		return nil, err
	}
	cfg.JWTExp = time.Duration(jwtExpSecond) * time.Second

	return cfg, nil
}

// run initializes the logger, database, Redis, Kafka writer and HTTP
// server. It sets up routes, applies middleware, and handles graceful
// shutdown.
func run(ctx context.Context, cfg *Config) error {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDatabase)
	logger.Log.Infof("Connecting to PostgreSQL: %s:%d/%s", cfg.PGHost, cfg.PGPort, cfg.PGDatabase)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka writer for borrow lifecycle events; nil disables publishing
	var kafkaWriter *kafka.Writer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaWriter = &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Topic:    cfg.KafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer kafkaWriter.Close()
	}

	// Initialize JWT service
	tokener := jwt.New(
		jwt.WithSecretKey(cfg.JWTSecretKey),
		jwt.WithExpiration(cfg.JWTExp),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	bookReadRepo := repositories.NewBookReadRepository(db)
	bookWriteRepo := repositories.NewBookWriteRepository(db, middlewares.GetTxFromContext)
	borrowReadRepo := repositories.NewBorrowReadRepository(db, middlewares.GetTxFromContext)
	borrowWriteRepo := repositories.NewBorrowWriteRepository(db, middlewares.GetTxFromContext)
	bookCacheRepo := repositories.NewBookCacheRepository(rdb, cfg.RedisCacheTTL)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokener)
	catalogService := services.NewCatalogService(bookReadRepo, bookWriteRepo, bookCacheRepo)
	var writer services.KafkaWriter
	if kafkaWriter != nil {
		writer = kafkaWriter
	}
	borrowService := services.NewBorrowService(
		bookReadRepo, bookWriteRepo, borrowReadRepo, borrowWriteRepo,
		userReadRepo, bookCacheRepo, writer,
	)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	authMiddleware := middlewares.AuthMiddleware(tokener)

	// Public routes
	r.Get("/api/health", handlers.NewHealthHandler())
	r.Get("/api/search", handlers.NewSearchUsersHandler(authService))
	r.Post("/api/auth/register", handlers.NewRegisterHandler(authService))
	r.Post("/api/auth/login", handlers.NewLoginHandler(authService))
	r.Get("/api/books", handlers.NewListBooksHandler(catalogService))
	r.Get("/api/books/{id}", handlers.NewGetBookHandler(catalogService))
	r.Get("/api/borrows/{id}", handlers.NewGetBorrowHandler(borrowService))

	// Protected routes with JWT middleware
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/api/books", handlers.NewCreateBookHandler(catalogService))
		r.Put("/api/books/{id}", handlers.NewUpdateBookHandler(catalogService))
		r.Delete("/api/books/{id}", handlers.NewDeleteBookHandler(catalogService))

		r.Get("/api/borrows", handlers.NewListBorrowsHandler(borrowService))
		r.Get("/api/borrows/user/{id}", handlers.NewListUserBorrowsHandler(borrowService))

		// Ledger mutations run inside a per-request transaction so the
		// duplicate-borrow check and stock adjustments are atomic.
		r.Group(func(r chi.Router) {
			r.Use(middlewares.TxMiddleware(db))
			r.Post("/api/borrows", handlers.NewCreateBorrowHandler(borrowService))
			r.Put("/api/borrows/{id}/borrow_status", handlers.NewUpdateBorrowStatusHandler(borrowService))
			r.Put("/api/borrows/{id}/return", handlers.NewReturnBookHandler(borrowService))
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
