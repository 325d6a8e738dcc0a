package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  name: minichat
  env: test
  seed: true
  http:
    host: 127.0.0.1
    port: 9090
    readtimeoutsec: 5
    writetimeoutsec: 10
    idletimeoutsec: 60
log:
  level: debug
  json: true
hash:
  cost: 12
db:
  driver: postgres
  dsn: "host=localhost user=test dbname=minichat"
  maxopenconns: 5
  automigrate: true
  loglevel: warn
redis:
  enable: true
  addr: 127.0.0.1:6379
  db: 2
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	c := Load(path)
	require.NotNil(t, c)

	assert.Equal(t, "minichat", c.App.Name)
	assert.True(t, c.App.Seed)
	assert.Equal(t, "127.0.0.1", c.App.HTTP.Host)
	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Log.JSON)
	assert.Equal(t, 12, c.Hash.Cost)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, 5, c.DB.MaxOpenConns)
	assert.True(t, c.Redis.Enable)
	assert.Equal(t, 2, c.Redis.DB)
}
