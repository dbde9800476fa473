package confs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the dashboard needs at start-up.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Pump   PumpConfig   `mapstructure:"pump"`
	MQTT   MQTTConfig   `mapstructure:"mqtt"`
	Plans  PlansConfig  `mapstructure:"plans"`
	Poll   PollConfig   `mapstructure:"poll"`
	Log    LogConfig    `mapstructure:"log"`
}

// APIConfig points at the irrigation backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"` // zero means no timeout
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// StoreConfig selects where the session record is persisted.
// Driver is "sqlite" (Path) or "postgres" (DSN).
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

// PumpConfig selects how manual watering commands are dispatched: "simulate" or "mqtt".
type PumpConfig struct {
	Mode string `mapstructure:"mode"`
}

type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

// PlansConfig locates the weekly irrigation plan fixtures (.yaml or .xlsx)
// and the economics lookup tables.
type PlansConfig struct {
	File          string `mapstructure:"file"`
	EconomicsFile string `mapstructure:"economics_file"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	// Significant-change thresholds for the activity feed.
	MoistureDelta    float64 `mapstructure:"moisture_delta"`
	TemperatureDelta float64 `mapstructure:"temperature_delta"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Dev   bool   `mapstructure:"dev"`
}

// GetDefaultConfig returns the configuration used when nothing overrides it.
func GetDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
		},
		Server: ServerConfig{
			Addr: "0.0.0.0:3536",
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "aquasmart.db",
		},
		Pump: PumpConfig{
			Mode: "simulate",
		},
		MQTT: MQTTConfig{
			Broker:      "tcp://localhost:1883",
			ClientID:    "aquasmart-dashboard",
			TopicPrefix: "aquasmart",
		},
		Plans: PlansConfig{
			File:          "configs/irrigation_plans.yaml",
			EconomicsFile: "configs/economics.yaml",
		},
		Poll: PollConfig{
			Interval:         time.Minute,
			MoistureDelta:    2,
			TemperatureDelta: 0.5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var envBindings = map[string]string{
	"api.base_url":           "API_BASE_URL",
	"api.timeout":            "API_TIMEOUT",
	"server.addr":            "SERVER_ADDR",
	"store.driver":           "STORE_DRIVER",
	"store.path":             "STORE_PATH",
	"store.dsn":              "STORE_DSN",
	"pump.mode":              "PUMP_MODE",
	"mqtt.broker":            "MQTT_BROKER",
	"mqtt.client_id":         "MQTT_CLIENT_ID",
	"mqtt.topic_prefix":      "MQTT_TOPIC_PREFIX",
	"mqtt.username":          "MQTT_USERNAME",
	"mqtt.password":          "MQTT_PASSWORD",
	"plans.file":             "PLANS_FILE",
	"plans.economics_file":   "ECONOMICS_FILE",
	"poll.interval":          "POLL_INTERVAL",
	"poll.moisture_delta":    "POLL_MOISTURE_DELTA",
	"poll.temperature_delta": "POLL_TEMPERATURE_DELTA",
	"log.level":              "LOG_LEVEL",
	"log.dev":                "LOG_DEV",
}

// LoadConfig loads environment variables from a .env file if present, then
// resolves defaults < config.yaml in path < environment.
func LoadConfig(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	// Load .env if it exists; a missing file is fine at runtime
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	def := GetDefaultConfig()
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.timeout", def.API.Timeout)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("store.driver", def.Store.Driver)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("store.dsn", def.Store.DSN)
	v.SetDefault("pump.mode", def.Pump.Mode)
	v.SetDefault("mqtt.broker", def.MQTT.Broker)
	v.SetDefault("mqtt.client_id", def.MQTT.ClientID)
	v.SetDefault("mqtt.topic_prefix", def.MQTT.TopicPrefix)
	v.SetDefault("mqtt.username", def.MQTT.Username)
	v.SetDefault("mqtt.password", def.MQTT.Password)
	v.SetDefault("plans.file", def.Plans.File)
	v.SetDefault("plans.economics_file", def.Plans.EconomicsFile)
	v.SetDefault("poll.interval", def.Poll.Interval)
	v.SetDefault("poll.moisture_delta", def.Poll.MoistureDelta)
	v.SetDefault("poll.temperature_delta", def.Poll.TemperatureDelta)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.dev", def.Log.Dev)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return &cfg, nil
}

// Watch re-reads config.yaml whenever it changes and hands the fresh config to fn.
// It is a no-op when no config file was found.
func Watch(path string, fn func(*Config, fsnotify.Event)) {
	v := viper.New()
	if _, err := load(v, path); err != nil || v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			return
		}
		fn(&cfg, e)
	})
	v.WatchConfig()
}
