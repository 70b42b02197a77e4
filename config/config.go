package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Booking BookingConfig
}

type AppConfig struct {
	Port           string
	Env            string
	LogLevel       string
	RequestTimeout time.Duration
	CORSOrigins    []string
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// Lock backends for BookingConfig.LockBackend
const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

type BookingConfig struct {
	LockBackend          string
	LockTTL              time.Duration
	LockWait             time.Duration
	AvailabilityCacheTTL time.Duration
}

// IsProduction reports whether the app runs with APP_ENV=production
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables always win
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		App: AppConfig{
			Port:           v.GetString("APP_PORT"),
			Env:            v.GetString("APP_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			RequestTimeout: parseDuration(v.GetString("REQUEST_TIMEOUT"), 15*time.Second),
			CORSOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  parseDuration(v.GetString("JWT_ACCESS_EXPIRY"), 15*time.Minute),
			RefreshExpiry: parseDuration(v.GetString("JWT_REFRESH_EXPIRY"), 7*24*time.Hour),
		},
		Booking: BookingConfig{
			LockBackend:          v.GetString("BOOKING_LOCK_BACKEND"),
			LockTTL:              parseDuration(v.GetString("BOOKING_LOCK_TTL"), 10*time.Second),
			LockWait:             parseDuration(v.GetString("BOOKING_LOCK_WAIT"), 5*time.Second),
			AvailabilityCacheTTL: parseDuration(v.GetString("AVAILABILITY_CACHE_TTL"), 30*time.Second),
		},
	}

	// The redis lock needs a redis connection
	if !config.Redis.Enabled {
		config.Booking.LockBackend = LockBackendLocal
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "clinic")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("BOOKING_LOCK_BACKEND", LockBackendLocal)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// splitList reads a comma separated value, dropping blank entries
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
