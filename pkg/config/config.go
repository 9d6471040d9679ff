package config

import (
	"errors"
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

// devSessionSecret signs sessions outside production when SESSION_SECRET is unset.
const devSessionSecret = "dev_session_secret"

// Supported store backends.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

type Config struct {
	Env           string
	Port          int
	APIPrefix     string
	PublicBaseURL string
	Timezone      string

	Store     StoreConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Session   SessionConfig
	CORS      CORSConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Downloads DownloadConfig
}

// StoreConfig selects the backing store for directory and record lookups.
type StoreConfig struct {
	Driver  string
	Timeout time.Duration
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

// MongoConfig names the databases of the legacy document layout.
type MongoConfig struct {
	URI                string
	StudentsDB         string
	StudentsCollection string
	ValidationDB       string
	HallTicketsDB      string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig toggles caching of catalog listings.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// SessionConfig configures the signed session tokens issued at login.
type SessionConfig struct {
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

// RateLimitConfig bounds login attempts per client IP.
type RateLimitConfig struct {
	LoginPerMinute int
	LoginBurst     int
}

// DownloadConfig controls signed hall ticket links.
type DownloadConfig struct {
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// Location resolves the configured timezone used to decide "today".
func (c *Config) Location() *time.Location {
	if c == nil || c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.PublicBaseURL = strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/")
	cfg.Timezone = v.GetString("APP_TIMEZONE")

	cfg.Store = StoreConfig{
		Driver:  strings.ToLower(v.GetString("STORE_DRIVER")),
		Timeout: parseDuration(v.GetString("STORE_TIMEOUT"), 10*time.Second),
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
	}

	cfg.Mongo = MongoConfig{
		URI:                v.GetString("MONGO_URI"),
		StudentsDB:         v.GetString("MONGO_STUDENTS_DB"),
		StudentsCollection: v.GetString("MONGO_STUDENTS_COLLECTION"),
		ValidationDB:       v.GetString("MONGO_VALIDATION_DB"),
		HallTicketsDB:      v.GetString("MONGO_HALLTICKETS_DB"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.Session = SessionConfig{
		Secret:     v.GetString("SESSION_SECRET"),
		Expiration: parseDuration(v.GetString("SESSION_TTL"), 2*time.Hour),
		Issuer:     v.GetString("SESSION_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.RateLimit = RateLimitConfig{
		LoginPerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
		LoginBurst:     v.GetInt("LOGIN_RATE_BURST"),
	}

	cfg.Downloads = DownloadConfig{
		SignedURLSecret: v.GetString("DOWNLOAD_LINK_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("DOWNLOAD_LINK_TTL"), 15*time.Minute),
	}

	if cfg.Session.Secret == "" && cfg.Env != EnvProduction {
		cfg.Session.Secret = devSessionSecret
	}
	if cfg.Downloads.SignedURLSecret == "" {
		cfg.Downloads.SignedURLSecret = cfg.Session.Secret
	}

	if cfg.Store.Driver != StoreDriverPostgres && cfg.Store.Driver != StoreDriverMongo {
		return nil, errors.New("STORE_DRIVER must be postgres or mongo")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("APP_TIMEZONE", "Local")

	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("STORE_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hallticket_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_STUDENTS_DB", "StudentsDB")
	v.SetDefault("MONGO_STUDENTS_COLLECTION", "StudentsCollection")
	v.SetDefault("MONGO_VALIDATION_DB", "validationDB")
	v.SetDefault("MONGO_HALLTICKETS_DB", "HallTicketsDB")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("SESSION_ISSUER", "hallticket-portal")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("LOGIN_RATE_PER_MINUTE", 20)
	v.SetDefault("LOGIN_RATE_BURST", 5)

	v.SetDefault("DOWNLOAD_LINK_TTL", "15m")
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
