// Package config provides hierarchical configuration loading for fincompare.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the comparison agent service.
type Config struct {
	Server    Server    `yaml:"server"`
	OpenAI    OpenAI    `yaml:"openai"`
	Yahoo     Yahoo     `yaml:"yahoo"`
	Agent     Agent     `yaml:"agent"`
	Session   Session   `yaml:"session"`
	Logging   Logging   `yaml:"logging"`
	Breaker   Breaker   `yaml:"breaker"`
	Telemetry Telemetry `yaml:"telemetry"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// OpenAI holds chat-completion API configuration.
type OpenAI struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Yahoo holds market-data API configuration.
type Yahoo struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Agent holds conversation loop configuration.
type Agent struct {
	MaxToolRounds    int   `yaml:"max_tool_rounds"`    // Max model round-trips per turn (default: 8)
	MaxConcurrentLLM int64 `yaml:"max_concurrent_llm"` // Max in-flight model calls across requests (default: 16)
}

// Session holds conversation session store configuration.
type Session struct {
	MaxSessions int           `yaml:"max_sessions"` // Max live sessions before eviction (default: 1024)
	MaxHistory  int           `yaml:"max_history"`  // Max stored messages per session (default: 40)
	IdleTTL     time.Duration `yaml:"idle_ttl"`     // Session idle lifetime (default: 1h)
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Breaker holds circuit breaker configuration for outbound HTTP calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Telemetry holds OpenTelemetry configuration.
type Telemetry struct {
	Enabled bool `yaml:"enabled"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "5001",
			CORSOrigin: "*",
		},
		OpenAI: OpenAI{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: 60 * time.Second,
		},
		Yahoo: Yahoo{
			BaseURL: "https://query1.finance.yahoo.com",
			Timeout: 10 * time.Second,
		},
		Agent: Agent{
			MaxToolRounds:    8,
			MaxConcurrentLLM: 16,
		},
		Session: Session{
			MaxSessions: 1024,
			MaxHistory:  40,
			IdleTTL:     time.Hour,
		},
		Logging: Logging{
			Level:   "info",
			Service: "fincompare",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Telemetry: Telemetry{
			Enabled: false,
		},
	}
}
