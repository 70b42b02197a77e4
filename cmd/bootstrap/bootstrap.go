package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-scheduler/config"
	deliveryHttp "clinic-scheduler/internal/delivery/http"
	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Services    *Services
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	setupLogger(cfg.App)
	logrus.Info("Configuration loaded successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	services, err := NewServices(ctx, cfg, logrus.StandardLogger())
	if err != nil {
		return nil, err
	}
	app.Services = services
	app.DB = services.DB
	app.RedisClient = services.RedisClient

	app.Server = initializeServer(cfg, services)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, s *Services) *http.Server {
	customValidator := validator.NewValidator()
	log := s.Log

	// Initialize handlers
	authHandler := handler.NewAuthHandler(s.AuthUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(s.DoctorUsecase, s.WorkingHoursUsecase, s.AvailabilityUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(s.AppointmentUsecase, customValidator)
	adminHandler := handler.NewAdminHandler(s.UserUsecase, s.AuditLogUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.JWTService, s.TokenStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(
		log,
		cfg.App.RequestTimeout,
		authHandler,
		doctorHandler,
		appointmentHandler,
		adminHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run serves HTTP until SIGINT or SIGTERM, then drains in-flight requests
// and releases every connection.
func (app *App) Run() error {
	log := app.Services.Log
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr": app.Server.Addr,
			"env":  app.Config.App.Env,
		}).Info("Server starting")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case err := <-serveErr:
		runErr = fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Server forced to shutdown: %v", err)
		}
	}

	app.Close()
	log.Info("Server shutdown complete")
	return runErr
}

// Close stops background workers and closes connections
func (app *App) Close() {
	if app.Services != nil {
		app.Services.Close()
	}
}
