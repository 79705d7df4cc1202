package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Local store backends for the portal's enrollment flags.
const (
	LocalStoreMemory = "memory"
	LocalStoreFile   = "file"
	LocalStoreRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Cache    CacheConfig
	Portal   PortalConfig
	Exports  ExportsConfig
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
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig configures identity tokens. The store verifies them; the portal only
// signs with Secret from the development token command.
type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
	Enforce    bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs the store's course list cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// PortalConfig configures the front-end's view of the remote course store.
type PortalConfig struct {
	StoreURL          string
	AssignmentsURL    string
	RequestTimeout    time.Duration
	PageSize          int
	LocalStore        string
	LocalStorePath    string
	Token             string
	DefaultRole       string
	DefaultName       string
	DefaultRollNumber string
}

// ExportsConfig controls where progress report exports are written and how
// long the store's download links stay valid.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
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
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
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
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Enforce:    v.GetBool("ENFORCE_AUTH"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	pageSize := v.GetInt("PORTAL_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 8
	}
	cfg.Portal = PortalConfig{
		StoreURL:          strings.TrimRight(v.GetString("PORTAL_STORE_URL"), "/"),
		AssignmentsURL:    strings.TrimRight(v.GetString("PORTAL_ASSIGNMENTS_URL"), "/"),
		RequestTimeout:    parseDuration(v.GetString("PORTAL_REQUEST_TIMEOUT"), 15*time.Second),
		PageSize:          pageSize,
		LocalStore:        strings.ToLower(v.GetString("PORTAL_LOCAL_STORE")),
		LocalStorePath:    v.GetString("PORTAL_LOCAL_STORE_PATH"),
		Token:             v.GetString("PORTAL_TOKEN"),
		DefaultRole:       strings.ToLower(v.GetString("PORTAL_ROLE")),
		DefaultName:       v.GetString("PORTAL_NAME"),
		DefaultRollNumber: v.GetString("PORTAL_ROLL_NUMBER"),
	}
	if cfg.Portal.AssignmentsURL == "" {
		cfg.Portal.AssignmentsURL = cfg.Portal.StoreURL
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 30*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "course_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "course-portal")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("ENFORCE_AUTH", false)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("PORTAL_STORE_URL", "http://localhost:8080")
	v.SetDefault("PORTAL_ASSIGNMENTS_URL", "")
	v.SetDefault("PORTAL_REQUEST_TIMEOUT", "15s")
	v.SetDefault("PORTAL_PAGE_SIZE", 8)
	v.SetDefault("PORTAL_LOCAL_STORE", LocalStoreFile)
	v.SetDefault("PORTAL_LOCAL_STORE_PATH", "")
	v.SetDefault("PORTAL_TOKEN", "")
	v.SetDefault("PORTAL_ROLE", "student")
	v.SetDefault("PORTAL_NAME", "")
	v.SetDefault("PORTAL_ROLL_NUMBER", "")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "30m")
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
