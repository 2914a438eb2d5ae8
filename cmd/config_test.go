package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SignedURLTTL)
	assert.Equal(t, "jobtrack", cfg.JWTIssuer)
	assert.Equal(t, "uploads", cfg.StoragePrefix)
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg, err := parseConfig(envMap(map[string]string{
		"PORT":           "9000",
		"SESSION_STORE":  "Memory",
		"SESSION_TTL":    "30m",
		"SIGNED_URL_TTL": "90s",
		"DB_USER":        "app",
		"DB_NAME":        "jobtrack",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 90*time.Second, cfg.SignedURLTTL)
	assert.Contains(t, cfg.DSN(), "user=app")
	assert.Contains(t, cfg.DSN(), "dbname=jobtrack")
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := parseConfig(envMap(map[string]string{"SESSION_TTL": "soon"}))
	assert.Error(t, err)

	_, err = parseConfig(envMap(map[string]string{"SESSION_STORE": "postgres"}))
	assert.Error(t, err)
}

func TestParseConfig_SessionTTL(t *testing.T) {
	cfg, err := parseConfig(envMap(map[string]string{"SESSION_TTL": "0"}))
	require.NoError(t, err)
	assert.Zero(t, cfg.SessionTTL)
	assert.Equal(t, 2*time.Minute, cfg.SaveTimeout)

	_, err = parseConfig(envMap(map[string]string{"SESSION_TTL": "-5m"}))
	assert.Error(t, err)

	_, err = parseConfig(envMap(map[string]string{"SIGNED_URL_TTL": "-1s"}))
	assert.Error(t, err)

	_, err = parseConfig(envMap(map[string]string{"SAVE_TIMEOUT": "-1s"}))
	assert.Error(t, err)
}
