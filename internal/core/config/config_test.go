package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestReadFileAndDefaults(t *testing.T) {
	p := writeConfig(t, `
app:
  http:
    port: 9090
jwt:
  secret: test-secret
db:
  driver: memory
redis:
  addr: localhost:6379
`)
	c, err := Read(p)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "0.0.0.0", c.App.HTTP.Host)
	assert.Equal(t, "memory", c.DB.Driver)
	assert.Equal(t, "test-secret", c.JWT.Secret)
	assert.Equal(t, 24*60, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, "localhost:6379", c.Redis.Addr)
	assert.Equal(t, 60, c.Redis.CatalogTTLSec)
	assert.Equal(t, "produce_market", c.Mongo.Database)
	assert.EqualValues(t, 300, c.Limits.MaxConcurrent)
}

func TestReadEnvOverride(t *testing.T) {
	p := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_DB_DRIVER", "postgres")
	t.Setenv("APP_DB_TX_PLACE_ORDER", "true")

	c, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.True(t, c.DB.TxPlaceOrder)
}

func TestReadRejectsBadConfig(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
	t.Run("missing secret", func(t *testing.T) {
		_, err := Read(writeConfig(t, "db:\n  driver: memory\n"))
		assert.ErrorContains(t, err, "jwt.secret")
	})
	t.Run("unknown driver", func(t *testing.T) {
		_, err := Read(writeConfig(t, "jwt:\n  secret: x\ndb:\n  driver: sqlite\n"))
		assert.ErrorContains(t, err, "db.driver")
	})
}
