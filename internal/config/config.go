package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// GetListEnv splits a comma separated environment variable, dropping empty items.
func GetListEnv(key string) []string {
	raw := GetEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsProduction reports whether this configuration targets production.
func (c Config) IsProduction() bool { return c.Env == "production" }

type ServerConfig struct {
	Port           string
	AllowedOrigins string
	TrustedProxies []string
	PredictPerMin  int
}

type DatabaseConfig struct {
	// URL, when set, takes precedence over the discrete connection fields.
	URL             string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// ConnectionURL returns the postgres:// URL for the configured database.
func (c DatabaseConfig) ConnectionURL() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	GeoTTL   time.Duration
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool { return c.Host != "" }

// Addr is the host:port pair passed to the Redis client.
func (c RedisConfig) Addr() string { return net.JoinHostPort(c.Host, c.Port) }

type GeoIPConfig struct {
	CityDBPath      string
	AnonymousDBPath string
	LookupTimeout   time.Duration
}

type KafkaConfig struct {
	Brokers        []string
	AlertTopic     string
	PublishTimeout time.Duration
}

// Enabled reports whether at least one broker was configured.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

type AuthConfig struct {
	AdminJWTSecret string
	TokenTTL       time.Duration
}

// Config is the full application configuration assembled from the environment.
type Config struct {
	Env      string
	LogLevel string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	GeoIP    GeoIPConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
}

// Load reads every setting from the environment, applying defaults.
func Load() Config {
	return Config{
		Env:      GetEnv("ENV", "development"),
		LogLevel: GetEnv("LOG_LEVEL", ""),
		Server: ServerConfig{
			Port:           GetEnv("PORT", "5000"),
			AllowedOrigins: GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			TrustedProxies: GetListEnv("TRUSTED_PROXIES"),
			PredictPerMin:  GetIntEnv("PREDICT_RATE_LIMIT", 60),
		},
		Database: DatabaseConfig{
			URL:             GetEnv("DATABASE_URL", ""),
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetIntEnv("DB_PORT", 5432),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "fraudgen"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", ""),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
			GeoTTL:   time.Duration(GetIntEnv("GEO_TTL_HOURS", 24)) * time.Hour,
		},
		GeoIP: GeoIPConfig{
			CityDBPath:      GetEnv("GEOIP_CITY_DB", ""),
			AnonymousDBPath: GetEnv("GEOIP_ANONYMOUS_DB", ""),
			LookupTimeout:   GetDurationEnv("GEO_LOOKUP_TIMEOUT", 2*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:        GetListEnv("KAFKA_BROKERS"),
			AlertTopic:     GetEnv("KAFKA_ALERT_TOPIC", "fraud.alerts"),
			PublishTimeout: GetDurationEnv("KAFKA_PUBLISH_TIMEOUT", 3*time.Second),
		},
		Auth: AuthConfig{
			AdminJWTSecret: GetEnv("ADMIN_JWT_SECRET", ""),
			TokenTTL:       GetDurationEnv("ADMIN_TOKEN_TTL", 12*time.Hour),
		},
	}
}
