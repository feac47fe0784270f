package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Server struct {
	Port         int           `mapstructure:"port"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Oracle struct {
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type Kube struct {
	Kubeconfig string        `mapstructure:"kubeconfig"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type Agent struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

type Config struct {
	Server Server `mapstructure:"server"`
	Log    Log    `mapstructure:"log"`
	Oracle Oracle `mapstructure:"oracle"`
	Kube   Kube   `mapstructure:"kube"`
	Agent  Agent  `mapstructure:"agent"`
}

// Load reads config.yaml from the given path (or the working directory) with
// KQA_* environment overrides. A missing file falls back to defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.query_timeout", 5*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
	v.SetDefault("oracle.model", "gpt-4o")
	v.SetDefault("oracle.temperature", 0.1)
	v.SetDefault("oracle.timeout", 90*time.Second)
	v.SetDefault("kube.kubeconfig", "")
	v.SetDefault("kube.timeout", 30*time.Second)
	v.SetDefault("agent.max_attempts", 10)

	v.SetEnvPrefix("KQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Agent.MaxAttempts <= 0 {
		return Config{}, fmt.Errorf("agent.max_attempts must be positive, got %d", cfg.Agent.MaxAttempts)
	}
	return cfg, nil
}
