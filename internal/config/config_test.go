package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  port: 5000
  env: production
database:
  driver: sqlite
  url: file::memory:
jwt:
  secret: from-file
razorpay:
  key_id: key
  key_secret: secret
abandonment:
  reminder_delay: 15
`

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CORS_ORIGINS", "https://skillup.dev")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"https://skillup.dev"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 15*time.Minute, cfg.ReminderDelay())
	assert.Equal(t, "INR", cfg.Razorpay.Currency, "defaults survive a partial file")
	assert.Equal(t, 30*time.Minute, cfg.OrderTTL())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.Database.DSN = "file::memory:"
	cfg.JWT.Secret = "s"
	assert.Error(t, cfg.Validate(), "razorpay keys are required")

	cfg.Razorpay.KeyID = "key"
	cfg.Razorpay.KeySecret = "secret"
	assert.NoError(t, cfg.Validate())
}
