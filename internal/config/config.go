// Package config loads runtime configuration from defaults, an optional
// YAML file, and environment variables, in that precedence order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the sattva daemon.
type Config struct {
	DataDir      string        `yaml:"data_dir"`
	StorageQuota int64         `yaml:"storage_quota_bytes"`
	PollInterval time.Duration `yaml:"poll_interval"`

	GenAIBaseURL string        `yaml:"genai_base_url"`
	GenAIAPIKey  string        `yaml:"genai_api_key"`
	GenAIModel   string        `yaml:"genai_model"`
	GenAITimeout time.Duration `yaml:"genai_timeout"`
	GenAIRetries int           `yaml:"genai_retries"`

	ServerHost string `yaml:"server_host"`
	ServerPort int    `yaml:"server_port"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// EnvLookup resolves environment variables; injectable for tests.
type EnvLookup func(key string) (string, bool)

type loadOptions struct {
	envLookup EnvLookup
	filePath  string
	readFile  func(string) ([]byte, error)
}

// Option customizes Load.
type Option func(*loadOptions)

// WithEnvLookup overrides the environment source.
func WithEnvLookup(lookup EnvLookup) Option {
	return func(o *loadOptions) { o.envLookup = lookup }
}

// WithFile points Load at a YAML config file. A missing file is not an
// error; a malformed one is.
func WithFile(path string) Option {
	return func(o *loadOptions) { o.filePath = path }
}

// WithFileReader overrides file access, for tests.
func WithFileReader(read func(string) ([]byte, error)) Option {
	return func(o *loadOptions) { o.readFile = read }
}

// Load builds the configuration.
func Load(opts ...Option) (Config, error) {
	options := loadOptions{
		envLookup: os.LookupEnv,
		readFile:  os.ReadFile,
	}
	for _, opt := range opts {
		opt(&options)
	}

	cfg := Config{
		DataDir:      "~/.sattva",
		StorageQuota: 5 << 20,
		PollInterval: 5 * time.Second,
		GenAIBaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
		GenAIModel:   "gemini-2.5-flash",
		GenAITimeout: 60 * time.Second,
		GenAIRetries: 2,
		ServerHost:   "localhost",
		ServerPort:   8787,
		LogLevel:     "info",
		LogFormat:    "text",
	}

	if options.filePath != "" {
		data, err := options.readFile(options.filePath)
		switch {
		case os.IsNotExist(err):
			// optional
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	applyEnv(&cfg, options.envLookup)

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup EnvLookup) {
	if v, ok := lookup("SATTVA_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := lookup("SATTVA_STORAGE_QUOTA"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.StorageQuota = n
		}
	}
	if v, ok := lookup("SATTVA_POLL_INTERVAL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PollInterval = d
		}
	}
	if v, ok := lookup("SATTVA_GENAI_BASE_URL"); ok {
		cfg.GenAIBaseURL = v
	}
	if v, ok := lookup("SATTVA_GENAI_API_KEY"); ok {
		cfg.GenAIAPIKey = v
	}
	if v, ok := lookup("SATTVA_GENAI_MODEL"); ok {
		cfg.GenAIModel = v
	}
	if v, ok := lookup("SATTVA_SERVER_HOST"); ok {
		cfg.ServerHost = v
	}
	if v, ok := lookup("SATTVA_SERVER_PORT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ServerPort = n
		}
	}
	if v, ok := lookup("SATTVA_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("SATTVA_LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
}

// Addr returns the host:port the HTTP server binds.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}
