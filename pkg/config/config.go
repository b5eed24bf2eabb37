package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Enrollment store drivers.
const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	Env         string
	ServiceName string
	Port        int
	APIPrefix   string

	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Remote      RemoteConfig
	Enrollments EnrollmentsConfig
}

// HTTPConfig bounds the inbound server.
type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
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

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RemoteConfig locates the services consulted by the enrollment orchestrator.
type RemoteConfig struct {
	StudentsBaseURL string
	CoursesBaseURL  string
	Timeout         time.Duration
}

// EnrollmentsConfig tunes the enrollments service.
type EnrollmentsConfig struct {
	Store         string
	LookupTimeout time.Duration
}

// Load reads configuration for the named service. defaultPort applies when PORT is unset.
func Load(serviceName string, defaultPort int) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v, serviceName, defaultPort)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.ServiceName = v.GetString("SERVICE_NAME")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.HTTP = HTTPConfig{
		ReadHeaderTimeout: parseDuration(v.GetString("HTTP_READ_HEADER_TIMEOUT"), 5*time.Second),
		ShutdownTimeout:   parseDuration(v.GetString("HTTP_SHUTDOWN_TIMEOUT"), 10*time.Second),
	}

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

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Remote = RemoteConfig{
		StudentsBaseURL: serviceURL(v.GetString("STUDENTS_SERVICE_URL"), v.GetString("STUDENTS_SERVICE_HOST"), v.GetInt("STUDENTS_SERVICE_PORT"), "students"),
		CoursesBaseURL:  serviceURL(v.GetString("COURSES_SERVICE_URL"), v.GetString("COURSES_SERVICE_HOST"), v.GetInt("COURSES_SERVICE_PORT"), "courses"),
		Timeout:         parseDuration(v.GetString("REMOTE_TIMEOUT"), 5*time.Second),
	}

	store := strings.ToLower(strings.TrimSpace(v.GetString("ENROLLMENTS_STORE")))
	if store != StorePostgres && store != StoreRedis {
		return nil, fmt.Errorf("unsupported ENROLLMENTS_STORE %q", store)
	}
	cfg.Enrollments = EnrollmentsConfig{
		Store:         store,
		LookupTimeout: parseDuration(v.GetString("ENROLLMENTS_LOOKUP_TIMEOUT"), 10*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, serviceName string, defaultPort int) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("SERVICE_NAME", serviceName)
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("HTTP_READ_HEADER_TIMEOUT", "5s")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", strings.ReplaceAll(serviceName, "-", "_"))
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STUDENTS_SERVICE_URL", "")
	v.SetDefault("STUDENTS_SERVICE_HOST", "localhost")
	v.SetDefault("STUDENTS_SERVICE_PORT", 7001)
	v.SetDefault("COURSES_SERVICE_URL", "")
	v.SetDefault("COURSES_SERVICE_HOST", "localhost")
	v.SetDefault("COURSES_SERVICE_PORT", 8080)
	v.SetDefault("REMOTE_TIMEOUT", "5s")

	v.SetDefault("ENROLLMENTS_STORE", StorePostgres)
	v.SetDefault("ENROLLMENTS_LOOKUP_TIMEOUT", "10s")
}

// serviceURL builds http://host:port/api/v1/<resource> unless an explicit URL is configured.
func serviceURL(explicit, host string, port int, resource string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return strings.TrimRight(explicit, "/")
	}
	return fmt.Sprintf("http://%s:%d/api/v1/%s", host, port, resource)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
