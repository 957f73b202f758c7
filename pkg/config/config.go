package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Availability  AvailabilityConfig
	Booking       BookingConfig
	Notifications NotificationsConfig
	RateLimit     RateLimitConfig
	School        SchoolConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AvailabilityConfig governs slot resolution and read caching.
// DefaultSlots is the fallback list used when a date has no explicit
// overrides and its weekday has no recurring pattern. WeekendDefaults
// decides whether that fallback also applies on Saturday/Sunday.
type AvailabilityConfig struct {
	DefaultSlots    []string
	WeekendDefaults bool
	CacheTTL        time.Duration
}

// BookingConfig tunes booking admission behaviour.
type BookingConfig struct {
	ReferencePrefix      string
	ReferenceMaxAttempts int
}

// NotificationsConfig controls the outbound email worker.
type NotificationsConfig struct {
	Enabled           bool
	FromAddress       string
	AdminEmail        string
	WorkerConcurrency int
	WorkerRetries     int
}

// RateLimitConfig defines the fixed-window limiter applied to public write endpoints.
type RateLimitConfig struct {
	Enabled     bool
	MaxRequests int
	Window      time.Duration
}

// SchoolConfig carries contact details rendered into notifications.
type SchoolConfig struct {
	Name  string
	Phone string
	Email string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Availability = AvailabilityConfig{
		DefaultSlots:    splitAndTrim(v.GetString("AVAILABILITY_DEFAULT_SLOTS")),
		WeekendDefaults: v.GetBool("AVAILABILITY_WEEKEND_DEFAULTS"),
		CacheTTL:        parseDuration(v.GetString("AVAILABILITY_CACHE_TTL"), 30*time.Second),
	}

	cfg.Booking = BookingConfig{
		ReferencePrefix:      v.GetString("BOOKING_REFERENCE_PREFIX"),
		ReferenceMaxAttempts: v.GetInt("BOOKING_REFERENCE_MAX_ATTEMPTS"),
	}

	cfg.Notifications = NotificationsConfig{
		Enabled:           v.GetBool("ENABLE_NOTIFICATIONS"),
		FromAddress:       v.GetString("NOTIFICATIONS_FROM_ADDRESS"),
		AdminEmail:        v.GetString("NOTIFICATIONS_ADMIN_EMAIL"),
		WorkerConcurrency: v.GetInt("NOTIFICATIONS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("NOTIFICATIONS_WORKER_RETRIES"),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:     v.GetBool("ENABLE_RATE_LIMIT"),
		MaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		Window:      parseDuration(v.GetString("RATE_LIMIT_WINDOW"), 15*time.Minute),
	}

	cfg.School = SchoolConfig{
		Name:  v.GetString("SCHOOL_NAME"),
		Phone: v.GetString("SCHOOL_PHONE"),
		Email: v.GetString("SCHOOL_EMAIL"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ecs_booking")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "ecs-booking-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AVAILABILITY_DEFAULT_SLOTS", "09:00,09:30,10:00,10:30,11:00,11:30,12:00,12:30,13:00,13:30,14:00,14:30,15:00,15:30,16:00")
	v.SetDefault("AVAILABILITY_WEEKEND_DEFAULTS", false)
	v.SetDefault("AVAILABILITY_CACHE_TTL", "30s")

	v.SetDefault("BOOKING_REFERENCE_PREFIX", "APP")
	v.SetDefault("BOOKING_REFERENCE_MAX_ATTEMPTS", 10)

	v.SetDefault("ENABLE_NOTIFICATIONS", true)
	v.SetDefault("NOTIFICATIONS_FROM_ADDRESS", "noreply@excels.edu.gh")
	v.SetDefault("NOTIFICATIONS_ADMIN_EMAIL", "info@excels.edu.gh")
	v.SetDefault("NOTIFICATIONS_WORKER_CONCURRENCY", 1)
	v.SetDefault("NOTIFICATIONS_WORKER_RETRIES", 3)

	v.SetDefault("ENABLE_RATE_LIMIT", true)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 5)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")

	v.SetDefault("SCHOOL_NAME", "Excel Community School")
	v.SetDefault("SCHOOL_PHONE", "0244671446 / 0242834986")
	v.SetDefault("SCHOOL_EMAIL", "info@excels.edu.gh")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
