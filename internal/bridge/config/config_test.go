package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ws://127.0.0.1:8000/ws", cfg.UpstreamWS)
	assert.Equal(t, ModePoll, cfg.Mode)
	assert.Equal(t, 30*time.Second, cfg.PollWindow)
	assert.Equal(t, time.Second, cfg.InitialBackoff)
	assert.Equal(t, 30*time.Second, cfg.MaxBackoff)
	assert.Equal(t, 1024, cfg.QueueCap)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BRIDGE_MODE", ModePush)
	t.Setenv("BRIDGE_SINK_URL", "http://127.0.0.1:5005")
	t.Setenv("BRIDGE_POLL_WINDOW", "5s")
	t.Setenv("BRIDGE_QUEUE_CAP", "16")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ModePush, cfg.Mode)
	assert.Equal(t, "http://127.0.0.1:5005", cfg.SinkURL)
	assert.Equal(t, 5*time.Second, cfg.PollWindow)
	assert.Equal(t, 16, cfg.QueueCap)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("BRIDGE_MODE", "fanout")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadBackoff(t *testing.T) {
	t.Setenv("BRIDGE_INITIAL_BACKOFF", "1m")
	t.Setenv("BRIDGE_MAX_BACKOFF", "5s")
	_, err := Load()
	assert.Error(t, err)
}
