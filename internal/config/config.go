// Package config loads huntbench configuration from YAML, JSON, or JSON5
// files. Files may pull in shared fragments with $include; environment
// variables are expanded before parsing; unknown keys are rejected.
package config

import (
	"time"
)

// Config is the top-level huntbench configuration.
type Config struct {
	Log           LogConfig           `yaml:"log"`
	Data          DataConfig          `yaml:"data"`
	Translator    TranslatorConfig    `yaml:"translator"`
	Evaluation    EvaluationConfig    `yaml:"evaluation"`
	Report        ReportConfig        `yaml:"report"`
	Notify        NotifyConfig        `yaml:"notify"`
	Observability ObservabilityConfig `yaml:"observability"`
	Watch         WatchConfig         `yaml:"watch"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DataConfig names the event evidence to hunt over: a CSV path, an
// s3://bucket/key object, or a postgres:// DSN.
type DataConfig struct {
	Source   string         `yaml:"source"`
	Table    string         `yaml:"table"`
	S3       S3Config       `yaml:"s3"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

type PostgresConfig struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
}

type TranslatorConfig struct {
	Provider    string        `yaml:"provider"` // openai, anthropic, bedrock, google
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	MaxRetries  int           `yaml:"max_retries"`
	RetryDelay  time.Duration `yaml:"retry_delay"`

	// AWS settings for the bedrock provider.
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
}

type EvaluationConfig struct {
	// IdentityFields override the record-identity columns. Empty means the
	// CloudTrail defaults.
	IdentityFields []string `yaml:"identity_fields"`

	// SampleKeys caps missing/extra key samples per result.
	SampleKeys int `yaml:"sample_keys"`

	// QueryTimeout bounds one query execution. Zero means unbounded.
	QueryTimeout time.Duration `yaml:"query_timeout"`

	// Workers sets batch parallelism. Defaults to 1 (sequential).
	Workers int `yaml:"workers"`

	Weights WeightsConfig `yaml:"weights"`
}

// WeightsConfig blends precision, recall, and F1 into the overall score.
// All-zero means the built-in 0.3/0.3/0.4 split.
type WeightsConfig struct {
	Precision float64 `yaml:"precision"`
	Recall    float64 `yaml:"recall"`
	F1        float64 `yaml:"f1"`
}

type ReportConfig struct {
	OutputDir string   `yaml:"output_dir"`
	Formats   []string `yaml:"formats"` // json, markdown, console
	Iteration int      `yaml:"iteration"`

	// MinSuccessRate gates the evaluate command's exit code. Set negative
	// to disable the gate.
	MinSuccessRate float64 `yaml:"min_success_rate"`
}

type NotifyConfig struct {
	Slack SlackConfig `yaml:"slack"`
}

type SlackConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

type ObservabilityConfig struct {
	// MetricsListen is the Prometheus listen address for watch mode,
	// e.g. ":9090". Empty disables the listener.
	MetricsListen string `yaml:"metrics_listen"`

	// OTLPEndpoint enables trace export when set, e.g. "localhost:4317".
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
	Insecure     bool    `yaml:"insecure"`
	Environment  string  `yaml:"environment"`
}

type WatchConfig struct {
	// Debounce coalesces bursts of file events into one evaluation run.
	Debounce time.Duration `yaml:"debounce"`

	// Schedule adds time-based runs: "every 30m", "at 06:00", or a cron
	// expression. Empty means file events only.
	Schedule string `yaml:"schedule"`
}

// Load reads a configuration file, resolving $include fragments before the
// strict decode.
func Load(path string) (*Config, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decodeRaw(raw)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Translator.Provider == "" {
		cfg.Translator.Provider = "openai"
	}
	if cfg.Evaluation.Workers == 0 {
		cfg.Evaluation.Workers = 1
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "."
	}
	if len(cfg.Report.Formats) == 0 {
		cfg.Report.Formats = []string{"json", "markdown", "console"}
	}
	if cfg.Report.MinSuccessRate == 0 {
		cfg.Report.MinSuccessRate = 0.8
	}
	if cfg.Report.Iteration == 0 {
		cfg.Report.Iteration = 1
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 2 * time.Second
	}
}
