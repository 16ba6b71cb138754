package config

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	mu sync.Mutex `yaml:"-"`

	Dealership   string `yaml:"dealership"`
	DatabasePath string `yaml:"database_path"`

	Web       WebConfig       `yaml:"web"`
	Messaging MessagingConfig `yaml:"messaging"`
}

// WebConfig defines the web server settings.
type WebConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	SessionSecret string `yaml:"session_secret"`
	PageSize      int    `yaml:"page_size"`
}

// MessagingConfig defines the notification backend.
type MessagingConfig struct {
	Enabled             bool          `yaml:"enabled"`
	Backend             string        `yaml:"backend"` // "mqtt" or "kafka"
	MQTT                MQTTConfig    `yaml:"mqtt"`
	Kafka               KafkaConfig   `yaml:"kafka"`
	EventsTopic         string        `yaml:"events_topic"`
	OutboxDrainInterval time.Duration `yaml:"outbox_drain_interval"`
}

// MQTTConfig defines MQTT broker settings.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"`
}

// KafkaConfig defines Kafka broker settings.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
}

// Defaults returns a Config with sane defaults.
func Defaults() *Config {
	return &Config{
		Dealership:   "central",
		DatabasePath: "recondeck.db",
		Web: WebConfig{
			Host:     "0.0.0.0",
			Port:     8082,
			PageSize: 15,
		},
		Messaging: MessagingConfig{
			Backend:             "mqtt",
			EventsTopic:         "recondeck/events",
			OutboxDrainInterval: 5 * time.Second,
			MQTT: MQTTConfig{
				Broker:   "localhost",
				Port:     1883,
				ClientID: "recondeck",
			},
		},
	}
}

// Load reads a YAML config file. If the file doesn't exist, defaults are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to a YAML file.
func (c *Config) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Lock acquires the config mutex for multi-step mutations.
func (c *Config) Lock() { c.mu.Lock() }

// Unlock releases the config mutex.
func (c *Config) Unlock() { c.mu.Unlock() }
