// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port         int    `yaml:"port"`
	SharedSecret string `yaml:"shared_secret"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
	File     string `yaml:"file"`     // optional rolling text log, mirrored to stdout
}

type AIConfig struct {
	Provider        string        `yaml:"provider"` // openai | gemini | none | "" (auto by key)
	OpenAIKey       string        `yaml:"openai_key"`
	GeminiKey       string        `yaml:"gemini_key"`
	GeminiURL       string        `yaml:"gemini_url"`
	Model           string        `yaml:"model"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	Timeout         time.Duration `yaml:"timeout"`
}

type HostingConfig struct {
	Token         string `yaml:"token"`
	Username      string `yaml:"username"`
	DefaultBranch string `yaml:"default_branch"`
}

type NotifyConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	Timeout      time.Duration `yaml:"timeout"`
}

type WorkerConfig struct {
	Count     int `yaml:"count"`
	QueueSize int `yaml:"queue_size"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	AI      AIConfig      `yaml:"ai"`
	Hosting HostingConfig `yaml:"hosting"`
	Notify  NotifyConfig  `yaml:"notify"`
	Worker  WorkerConfig  `yaml:"worker"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation: misconfiguration fails startup, never a request.
	if cfg.Server.SharedSecret == "" {
		return nil, errors.New("server.shared_secret is required")
	}
	if cfg.Hosting.Token == "" {
		return nil, errors.New("hosting.token is required")
	}
	if cfg.Hosting.Username == "" {
		return nil, errors.New("hosting.username is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.Provider == "" {
		switch {
		case cfg.AI.OpenAIKey != "":
			cfg.AI.Provider = "openai"
		case cfg.AI.GeminiKey != "":
			cfg.AI.Provider = "gemini"
		default:
			cfg.AI.Provider = "none"
		}
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 4000
	}
	if cfg.AI.Timeout <= 0 {
		cfg.AI.Timeout = 60 * time.Second
	}
	if cfg.Hosting.DefaultBranch == "" {
		cfg.Hosting.DefaultBranch = "main"
	}
	if cfg.Notify.MaxAttempts <= 0 {
		cfg.Notify.MaxAttempts = 5
	}
	if cfg.Notify.InitialDelay <= 0 {
		cfg.Notify.InitialDelay = time.Second
	}
	if cfg.Notify.Timeout <= 0 {
		cfg.Notify.Timeout = 30 * time.Second
	}
	if cfg.Worker.Count <= 0 {
		cfg.Worker.Count = 8
	}
	if cfg.Worker.QueueSize <= 0 {
		cfg.Worker.QueueSize = cfg.Worker.Count * 4
	}
}
