package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// ModePush forwards every upstream event to the slave EA over HTTP.
	ModePush = "push"
	// ModePoll parks upstream events in the long-poll queue for GET /events.
	ModePoll = "poll"
)

// Config — slave bridge settings, all via BRIDGE_* env vars (.env supported).
type Config struct {
	UpstreamWS string // backend websocket, e.g. ws://127.0.0.1:8000/ws
	Mode       string // push | poll

	SinkURL        string // slave EA address for push mode
	ForwardTimeout time.Duration

	ListenAddr string // bridge-local HTTP (long-poll + health)
	PollWindow time.Duration
	QueueCap   int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	TelegramToken  string
	TelegramChatID int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BRIDGE")
	v.AutomaticEnv()

	v.SetDefault("upstream_ws", "ws://127.0.0.1:8000/ws")
	v.SetDefault("mode", ModePoll)
	v.SetDefault("sink_url", "http://127.0.0.1:5000")
	v.SetDefault("forward_timeout", "1s")
	v.SetDefault("listen_addr", "127.0.0.1:9000")
	v.SetDefault("poll_window", "30s")
	v.SetDefault("queue_cap", 1024)
	v.SetDefault("initial_backoff", "1s")
	v.SetDefault("max_backoff", "30s")

	cfg := &Config{
		UpstreamWS:     v.GetString("upstream_ws"),
		Mode:           v.GetString("mode"),
		SinkURL:        v.GetString("sink_url"),
		ForwardTimeout: v.GetDuration("forward_timeout"),
		ListenAddr:     v.GetString("listen_addr"),
		PollWindow:     v.GetDuration("poll_window"),
		QueueCap:       v.GetInt("queue_cap"),
		InitialBackoff: v.GetDuration("initial_backoff"),
		MaxBackoff:     v.GetDuration("max_backoff"),
		TelegramToken:  v.GetString("telegram_token"),
		TelegramChatID: v.GetInt64("telegram_chat_id"),
	}

	if cfg.Mode != ModePush && cfg.Mode != ModePoll {
		return nil, errors.Errorf("BRIDGE_MODE must be %q or %q, got %q", ModePush, ModePoll, cfg.Mode)
	}
	if cfg.QueueCap < 1 {
		return nil, errors.Errorf("BRIDGE_QUEUE_CAP must be positive, got %d", cfg.QueueCap)
	}
	if cfg.InitialBackoff <= 0 || cfg.MaxBackoff < cfg.InitialBackoff {
		return nil, errors.New("backoff config invalid: need 0 < initial <= max")
	}
	return cfg, nil
}
