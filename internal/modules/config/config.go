package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const configFilePathENV = "CONFIG_FILE"

// Config — backend settings. Defaults first, then the optional YAML file,
// then env overrides; nothing is hardcoded in the relay core.
type Config struct {
	Service struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"service"`

	// Сколько последних событий держим для опоздавших подписчиков.
	BufferCapacity int `yaml:"buffer_capacity"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Per-subscriber websocket write deadline. Env only: HUB_WRITE_TIMEOUT.
	HubWriteTimeout time.Duration `yaml:"-"`
}

// Addr is the listen address for the public HTTP/WS server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.Port)
}

func NewConfig() (*Config, error) {
	config := Config{
		BufferCapacity:  intFromEnv("BUFFER_CAPACITY", 2000),
		HubWriteTimeout: durationFromEnv("HUB_WRITE_TIMEOUT", "5s"),
	}
	config.Service.Port = 8000

	if name := os.Getenv(configFilePathENV); name != "" {
		file, err := os.Open("configs/" + name)
		if err != nil {
			return nil, errors.Wrap(err, "open config file")
		}
		defer func() {
			_ = file.Close()
		}()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return nil, errors.Wrap(err, "decode config file")
		}
	}

	if v := os.Getenv("SERVICE_HOST"); v != "" {
		config.Service.Host = v
	}
	config.Service.Port = intFromEnv("SERVICE_PORT", config.Service.Port)
	if v := os.Getenv("JAEGER_HOST"); v != "" {
		config.Jaeger.Host = v
	}
	config.Jaeger.Port = intFromEnv("JAEGER_PORT", config.Jaeger.Port)

	if config.BufferCapacity <= 0 {
		return nil, errors.Errorf("buffer_capacity must be positive, got %d", config.BufferCapacity)
	}
	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
