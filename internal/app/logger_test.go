package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{AppEnv: "production", LogFormat: "json"}, &buf)

	logger.Debug("hidden")
	logger.Info("view mounted", "variant", "solar")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "view mounted", entry["msg"])
	assert.Equal(t, "energydash", entry["service"])
	assert.Equal(t, "solar", entry["variant"])
}

func TestNewLoggerTextDebugInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&Config{AppEnv: "development"}, &buf).Debug("sweep")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "service=energydash")
}
