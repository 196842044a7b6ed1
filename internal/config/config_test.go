package config

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "ADBPILOT_ADB", "ADBPILOT_SERIAL", "ADBPILOT_REDIS_ADDR", "ADBPILOT_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "adb", cfg.ADB.Binary)
	assert.Equal(t, 30*time.Second, cfg.ADB.Timeout)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.False(t, cfg.Lock.Enabled)
	assert.Equal(t, "com.whatsapp/.Main", cfg.Profile.Component)
	assert.Equal(t, 2500*time.Millisecond, cfg.Profile.Delays.AppLaunch)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adbpilot.yaml")
	content := `
server:
  port: 8081
adb:
  serial: emulator-5554
  timeout: 10s
executor:
  step_gap: 500ms
profile:
  fallback: {x: 640, y: 1480}
  delays:
    app_launch: 4s
store:
  backend: sqlite
  path: /tmp/runs.db
lock:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "emulator-5554", cfg.ADB.Serial)
	assert.Equal(t, "adb", cfg.ADB.Binary, "unset keys keep defaults")
	assert.Equal(t, 10*time.Second, cfg.ADB.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Executor.StepGap)
	assert.Equal(t, 640, cfg.Profile.Fallback.X)
	assert.Equal(t, 4*time.Second, cfg.Profile.Delays.AppLaunch)
	assert.Equal(t, time.Second, cfg.Profile.Delays.SearchOpen)
	assert.Equal(t, StoreSQLite, cfg.Store.Backend)
	assert.True(t, cfg.Lock.Enabled)
	assert.Equal(t, StoreMemory, cfg.Lock.Backend)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":                "9000",
		"ADBPILOT_ADB":        "/opt/platform-tools/adb",
		"ADBPILOT_SERIAL":     "R58M123",
		"ADBPILOT_REDIS_ADDR": "redis:6379",
		"ADBPILOT_LOG_LEVEL":  "debug",
		"ADBPILOT_STORE_KEY":  "c2VjcmV0",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/opt/platform-tools/adb", cfg.ADB.Binary)
	assert.Equal(t, "R58M123", cfg.ADB.Serial)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "c2VjcmV0", cfg.Store.Encryption.Key)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == "PORT" {
			return "http", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "etcd"
	cfg.ADB.Timeout = 0
	cfg.Lock.Enabled = true
	cfg.Lock.Backend = "zookeeper"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store.backend "etcd"`)
	assert.Contains(t, err.Error(), "adb.timeout must be positive")
	assert.Contains(t, err.Error(), `unknown lock.backend "zookeeper"`)
}

func TestValidate_StoreProtection(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))

	cfg := Default()
	cfg.Store.Encryption.Key = key
	cfg.Store.Encryption.FallbackKeys = []string{key}
	cfg.Store.Redact = []string{`\d{8,}`}
	require.NoError(t, cfg.Validate())

	active, fallback, err := cfg.Store.Encryption.Keys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	assert.Len(t, fallback, 1)

	cfg.Store.Encryption.Key = base64.StdEncoding.EncodeToString([]byte("short"))
	cfg.Store.Encryption.FallbackKeys = nil
	cfg.Store.Redact = []string{"("}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key must decode to 32 bytes")
	assert.Contains(t, err.Error(), "invalid store.redact pattern")

	active, _, err = Default().Store.Encryption.Keys()
	assert.NoError(t, err)
	assert.Nil(t, active)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}
