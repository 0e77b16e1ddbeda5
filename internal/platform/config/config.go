// Package config builds typed configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	platformstrings "gesclient/pkg/platform/strings"
)

// Config is the full process configuration.
type Config struct {
	Server    Server
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Kafka     KafkaConfig
	Seed      SeedConfig
	// CNILength is the number of digits a national id must carry.
	CNILength int
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	Version         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// IsDevelopment reports whether internal error details may be exposed.
func (s Server) IsDevelopment() bool {
	return s.Environment == "development"
}

// MongoConfig configures the document store connection.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// RedisConfig configures the optional Redis connection backing the rate limiter.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RateLimitConfig bounds requests per client IP per window.
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// AuditConfig tunes the asynchronous request audit publisher.
type AuditConfig struct {
	BufferSize       int
	WriteTimeout     time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

// KafkaConfig enables the audit mirror when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SeedConfig holds credentials for the seeded administrator.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// Load reads an optional .env file then builds the configuration.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("GESCLIENT_ADDR")
	if addr == "" {
		addr = ":" + getString("PORT", "3000")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = getString("DATABASE_URL", "mongodb://localhost:27017")
	}

	return Config{
		Server: Server{
			Addr:            addr,
			Environment:     getString("APP_ENV", "production"),
			Version:         getString("APP_VERSION", "1.0.0"),
			CORSOrigins:     getList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:4200"}),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Mongo: MongoConfig{
			URI:      mongoURI,
			Database: getString("MONGO_DATABASE", "gesclient"),
			Timeout:  getDuration("MONGO_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:  !getBool("RATE_LIMIT_DISABLED", false),
			Requests: getInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		},
		Audit: AuditConfig{
			BufferSize:       getInt("AUDIT_BUFFER_SIZE", 1024),
			WriteTimeout:     getDuration("AUDIT_WRITE_TIMEOUT", 5*time.Second),
			FailureThreshold: getInt("AUDIT_BREAKER_THRESHOLD", 5),
			Cooldown:         getDuration("AUDIT_BREAKER_COOLDOWN", 30*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: getList("KAFKA_BROKERS", nil),
			Topic:   getString("KAFKA_AUDIT_TOPIC", "gesclient.audit.logs"),
		},
		Seed: SeedConfig{
			AdminEmail:    getString("SEED_ADMIN_EMAIL", "admin@gesclient.com"),
			AdminPassword: getString("SEED_ADMIN_PASSWORD", "admin123"),
		},
		CNILength: getInt("CNI_LENGTH", 13),
	}
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return platformstrings.SplitList(v)
}
