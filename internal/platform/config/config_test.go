package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"GESCLIENT_ADDR", "PORT", "MONGO_URI", "DATABASE_URL", "APP_ENV", "KAFKA_BROKERS", "CNI_LENGTH", "REDIS_URL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "gesclient", cfg.Mongo.Database)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 5*time.Second, cfg.Audit.WriteTimeout)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 13, cfg.CNILength)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("GESCLIENT_ADDR", "")
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "development")
	t.Setenv("MONGO_URI", "")
	t.Setenv("DATABASE_URL", "mongodb://db:27017/gesclient")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("RATE_LIMIT_DISABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CORS_ORIGINS", "https://app.example.sn")
	t.Setenv("CNI_LENGTH", "17")
	t.Setenv("AUDIT_BUFFER_SIZE", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "mongodb://db:27017/gesclient", cfg.Mongo.URI)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"https://app.example.sn"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 17, cfg.CNILength)
	assert.Equal(t, 1024, cfg.Audit.BufferSize)
}
