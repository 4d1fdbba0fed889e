package config_test

import (
	"taskapp/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("EXTERNAL_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("APP_RATE_LIMITER_ENABLE", "true")

	cfg := config.Get()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "Java Web Application", cfg.App.Name)
	assert.True(t, cfg.App.RateLimiter.Enable)
	assert.Equal(t, 100, cfg.App.RateLimiter.MaxRequests)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.External.Kafka.Brokers)
	assert.Equal(t, "task-events", cfg.External.Kafka.Topic)
	assert.Equal(t, "postgres", cfg.DB.Postgres.Driver)

	assert.Same(t, cfg, config.Get(), "configuration is loaded once")
}
