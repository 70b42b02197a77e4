package bootstrap

import (
	"context"
	"fmt"

	"clinic-scheduler/config"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/infrastructure/cache"
	"clinic-scheduler/internal/infrastructure/database"
	repoImpl "clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/clock"
	"clinic-scheduler/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services is the wired core shared by the HTTP server and the seeder
type Services struct {
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	TxManager   repository.TxManager

	Catalog    service.Catalog
	Locker     service.KeyLocker
	Cache      service.AvailabilityCache
	TokenStore service.TokenStore
	JWTService *jwt.JWTService

	UserRepo repository.UserRepository

	AuthUsecase         usecase.AuthUsecase
	DoctorUsecase       usecase.DoctorUsecase
	UserUsecase         usecase.UserUsecase
	WorkingHoursUsecase usecase.WorkingHoursUsecase
	AvailabilityUsecase usecase.AvailabilityUsecase
	AppointmentUsecase  usecase.AppointmentUsecase
	AuditLogUsecase     usecase.AuditLogUsecase
}

// NewServices connects to storage, applies migrations, loads the catalog
// and wires repositories, services and usecases.
func NewServices(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Services, error) {
	s := &Services{Log: log}

	db, err := database.NewPostgresConnection(ctx, cfg.DB, cfg.App, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s.DB = db

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			s.Close()
			return nil, err
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.RedisClient = redisClient

	s.TxManager = database.NewTxManager(db)

	// Initialize repositories
	userRepo := repoImpl.NewUserRepository()
	doctorRepo := repoImpl.NewDoctorRepository()
	patientRepo := repoImpl.NewPatientRepository()
	workingHoursRepo := repoImpl.NewWorkingHoursRepository()
	appointmentRepo := repoImpl.NewAppointmentRepository()
	auditLogRepo := repoImpl.NewAuditLogRepository()
	s.UserRepo = userRepo

	catalog, err := service.LoadCatalog(ctx, s.TxManager.Conn(ctx), repoImpl.NewTimeSlotRepository(), repoImpl.NewAppointmentStatusRepository())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	s.Catalog = catalog
	log.Infof("Catalog loaded with %d time slots", len(catalog.TimeSlots()))

	// Initialize services
	if cfg.Booking.LockBackend == config.LockBackendRedis {
		s.Locker = service.NewRedisKeyLocker(redisClient, log, cfg.Booking.LockTTL, cfg.Booking.LockWait)
	} else {
		s.Locker = service.NewLocalKeyLocker(log)
	}
	log.Infof("Booking lock backend: %s", cfg.Booking.LockBackend)

	if redisClient != nil {
		s.Cache = service.NewRedisAvailabilityCache(redisClient, log, cfg.Booking.AvailabilityCacheTTL)
		s.TokenStore = service.NewRedisTokenStore(redisClient)
	} else {
		s.Cache = service.NewNoopAvailabilityCache()
		s.TokenStore = service.NewStatelessTokenStore()
	}

	s.JWTService = jwt.NewJWTService(cfg.JWT)
	auditService := service.NewAuditService(log, auditLogRepo)
	clk := clock.New()

	// Initialize usecases
	s.AuthUsecase = usecase.NewAuthUsecase(s.TxManager, log, userRepo, patientRepo, auditService, s.JWTService, s.TokenStore)
	s.DoctorUsecase = usecase.NewDoctorUsecase(s.TxManager, log, userRepo, doctorRepo, workingHoursRepo, appointmentRepo, catalog, s.Cache, s.TokenStore, auditService, clk)
	s.UserUsecase = usecase.NewUserUsecase(s.TxManager, log, userRepo, doctorRepo, s.Cache, s.TokenStore, auditService)
	s.WorkingHoursUsecase = usecase.NewWorkingHoursUsecase(s.TxManager, log, doctorRepo, patientRepo, workingHoursRepo, s.Locker, s.Cache, auditService)
	s.AvailabilityUsecase = usecase.NewAvailabilityUsecase(s.TxManager, log, workingHoursRepo, appointmentRepo, catalog, s.Cache)
	s.AppointmentUsecase = usecase.NewAppointmentUsecase(s.TxManager, log, appointmentRepo, doctorRepo, patientRepo, workingHoursRepo, catalog, s.Locker, s.Cache, auditService, clk)
	s.AuditLogUsecase = usecase.NewAuditLogUsecase(s.TxManager, log, auditLogRepo)

	return s, nil
}

// Close stops the lock cleanup worker and closes database and redis
func (s *Services) Close() {
	if s.Locker != nil {
		s.Locker.Stop()
	}

	if s.DB != nil {
		sqlDB, err := s.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if s.RedisClient != nil {
		s.RedisClient.Close()
	}
}
