package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/hospital-api/internal/cache"
	"github.com/harentsoaR/hospital-api/internal/config"
	"github.com/harentsoaR/hospital-api/internal/database"
	"github.com/harentsoaR/hospital-api/internal/handlers"
	"github.com/harentsoaR/hospital-api/internal/repository"
	"github.com/harentsoaR/hospital-api/internal/services"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

type stores struct {
	users        services.UserRepository
	appointments services.AppointmentRepository
	tx           services.Transactor
	mongo        *mongo.Client
}

func main() {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogger(log, cfg)
	log.WithFields(logrus.Fields{
		"env":          cfg.App.Env,
		"store":        cfg.Store.Driver,
		"database":     cfg.Mongo.Database,
		"transactions": cfg.Mongo.Transactions,
	}).Info("Configuration loaded")

	// --- Stores ---
	st, err := openStores(cfg, log)
	if err != nil {
		log.Fatalf("Failed to open stores: %v", err)
	}

	sessions, redisClient, err := openSessionStore(cfg, log)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}

	// --- Services ---
	validator := utils.NewValidator()
	tokens := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpires)
	notifier := services.NewNotificationService(cfg.Notify.TextbeltAPIKey, log)

	userSvc := services.NewUserService(st.users, sessions, tokens, validator, log, cfg.Auth.BcryptCost)
	caregiverSvc := services.NewCaregiverService(st.users, st.tx, validator, log)
	appointmentSvc := services.NewAppointmentService(st.appointments, st.users, notifier, validator, log)

	// --- Router ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.NewHandler(userSvc, caregiverSvc, appointmentSvc, log, cfg.Auth.CookieExpire)
	router := handlers.NewRouter(h, cfg.CORS.AllowOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	if st.mongo != nil {
		_ = st.mongo.Disconnect(ctx)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Info("Server shutdown complete")
}

func setupLogger(log *logrus.Logger, cfg *config.Config) {
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.App.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}

func openStores(cfg *config.Config, log *logrus.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreMemory {
		log.Warn("Using in-memory store; data is lost on restart.")
		return &stores{
			users:        repository.NewMemoryUserRepository(),
			appointments: repository.NewMemoryAppointmentRepository(),
			tx:           repository.NewMemoryTransactor(),
		}, nil
	}

	client, err := database.Connect(cfg.Mongo.URI, log)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Mongo.Database)
	if err := database.EnsureUserIndexes(db, log); err != nil {
		log.WithError(err).Warn("user index warning")
	}
	if err := database.EnsureAppointmentIndexes(db, log); err != nil {
		log.WithError(err).Warn("appointment index warning")
	}

	return &stores{
		users:        repository.NewUserRepository(db),
		appointments: repository.NewAppointmentRepository(db),
		tx:           repository.NewMongoTransactor(client, cfg.Mongo.Transactions),
		mongo:        client,
	}, nil
}

func openSessionStore(cfg *config.Config, log *logrus.Logger) (services.SessionStore, *redis.Client, error) {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR is not set; revoked sessions are kept in process memory.")
		return cache.NewMemorySessionStore(), nil, nil
	}
	client, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisSessionStore(client), client, nil
}
