package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type WebConfig struct {
	Address string        `yaml:"address" env:"DASHBOARD_ADDRESS" env-default:"localhost:3000"`
	Timeout time.Duration `yaml:"timeout" env:"DASHBOARD_TIMEOUT" env-default:"10s"`
}

type ApiConfig struct {
	Address string        `yaml:"address" env:"ANALYZER_ADDRESS" env-default:"http://analyzer:28080"`
	Timeout time.Duration `yaml:"timeout" env:"ANALYZER_TIMEOUT" env-default:"30s"`
}

type BrokerConfig struct {
	Address      string        `yaml:"address" env:"BROKER_ADDRESS" env-default:"nats://nats:4222"`
	Subject      string        `yaml:"subject" env:"BROKER_SUBJECT" env-default:"reviews.analysis"`
	EventTimeout time.Duration `yaml:"event_timeout" env:"BROKER_EVENT_TIMEOUT" env-default:"30s"`
}

type Config struct {
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"DEBUG"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"REFRESH_INTERVAL" env-default:"5m"`

	Web    WebConfig    `yaml:"web_server"`
	Api    ApiConfig    `yaml:"api"`
	Broker BrokerConfig `yaml:"broker"`
}

func MustLoad(configPath string, cfg *Config) {
	if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}
}
