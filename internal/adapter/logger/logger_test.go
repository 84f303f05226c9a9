package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerAdapter_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "production", "info")

	l.Info("Bike created successfully", map[string]interface{}{
		"bike_id": "b1",
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Bike created successfully", entry["message"])
	assert.Equal(t, "b1", entry["bike_id"])
	assert.Equal(t, "production", entry["env"])
}

func TestLoggerAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "production", "warn")

	l.Debug("hidden", nil)
	l.Info("hidden", nil)
	assert.Zero(t, buf.Len())

	l.Warn("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerAdapter_DefaultLevelByEnv(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "development", "").Debug("dev debug", nil)
	assert.Contains(t, buf.String(), "dev debug")

	buf.Reset()
	New(&buf, "production", "").Debug("prod debug", nil)
	assert.Zero(t, buf.Len())
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Error("nothing", map[string]interface{}{"k": "v"})
	})
}
