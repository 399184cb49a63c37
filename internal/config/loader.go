package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "fincompare.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
// PORT, OPENAI_API_KEY and OPENAI_MODEL are honored without a prefix for
// compatibility with common deployment environments.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Port, "FINCOMPARE_PORT")
	setString(&cfg.Server.CORSOrigin, "FINCOMPARE_CORS_ORIGIN")

	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setDuration(&cfg.OpenAI.Timeout, "FINCOMPARE_OPENAI_TIMEOUT")

	setString(&cfg.Yahoo.BaseURL, "FINCOMPARE_YAHOO_URL")
	setDuration(&cfg.Yahoo.Timeout, "FINCOMPARE_YAHOO_TIMEOUT")

	setInt(&cfg.Agent.MaxToolRounds, "FINCOMPARE_MAX_TOOL_ROUNDS")
	setInt64(&cfg.Agent.MaxConcurrentLLM, "FINCOMPARE_MAX_CONCURRENT_LLM")

	setInt(&cfg.Session.MaxSessions, "FINCOMPARE_SESSION_MAX")
	setInt(&cfg.Session.MaxHistory, "FINCOMPARE_SESSION_MAX_HISTORY")
	setDuration(&cfg.Session.IdleTTL, "FINCOMPARE_SESSION_IDLE_TTL")

	setString(&cfg.Logging.Level, "FINCOMPARE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "FINCOMPARE_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "FINCOMPARE_LOG_ASYNC")

	setInt(&cfg.Breaker.MaxFailures, "FINCOMPARE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "FINCOMPARE_BREAKER_TIMEOUT")

	setBool(&cfg.Telemetry.Enabled, "FINCOMPARE_TELEMETRY_ENABLED")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.OpenAI.Model == "" {
		return errors.New("openai.model is required")
	}
	if cfg.Yahoo.BaseURL == "" {
		return errors.New("yahoo.base_url is required")
	}
	if cfg.Agent.MaxToolRounds < 1 {
		return errors.New("agent.max_tool_rounds must be >= 1")
	}
	if cfg.Agent.MaxConcurrentLLM < 1 {
		return errors.New("agent.max_concurrent_llm must be >= 1")
	}
	if cfg.Session.MaxSessions < 1 {
		return errors.New("session.max_sessions must be >= 1")
	}
	if cfg.Session.MaxHistory < 2 {
		return errors.New("session.max_history must be >= 2")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
