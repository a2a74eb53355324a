package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the exporter configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Kubernetes KubernetesConfig `yaml:"kubernetes"`
	Kubelet    KubeletConfig    `yaml:"kubelet"`
	RateLimits RateLimitsConfig `yaml:"rate_limits"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// KubernetesConfig represents the Kubernetes connection configuration
type KubernetesConfig struct {
	Mode           string `yaml:"mode"`
	KubeconfigPath string `yaml:"kubeconfig_path"`
}

// KubeletConfig represents the kubelet summary endpoint configuration
type KubeletConfig struct {
	Timeout     string `yaml:"timeout"`
	TokenFile   string `yaml:"token_file"`
	CAFile      string `yaml:"ca_file"`
	InsecureTLS bool   `yaml:"insecure_tls"`
}

// RateLimitsConfig represents the rate limits configuration
type RateLimitsConfig struct {
	ScrapesPerMinute int `yaml:"scrapes_per_minute"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads the configuration from environment variables and defaults
func Load() (*Config, error) {
	return loadWithDefaults("")
}

// LoadFromFile loads configuration from a YAML file, with environment variable overrides
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithDefaults(configPath)
}

func loadWithDefaults(configPath string) (*Config, error) {
	cfg := defaultConfig()

	if configPath != "" {
		fileConfig, err := loadFromYAMLFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configPath, err)
		}
		cfg = fileConfig
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: "0.0.0.0:9118",
		},
		Kubernetes: KubernetesConfig{
			Mode:           "incluster",
			KubeconfigPath: "",
		},
		Kubelet: KubeletConfig{
			Timeout:     "10s",
			TokenFile:   "",
			CAFile:      "",
			InsecureTLS: false,
		},
		RateLimits: RateLimitsConfig{
			ScrapesPerMinute: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// applyEnvOverrides layers environment variables over file/default values.
// Environment variables always take precedence.
func applyEnvOverrides(cfg *Config) {
	cfg.Server.Addr = getEnv("KSE_SERVER_ADDR", cfg.Server.Addr)
	cfg.Kubernetes.Mode = getEnv("KSE_KUBE_MODE", cfg.Kubernetes.Mode)
	cfg.Kubernetes.KubeconfigPath = getEnv("KUBECONFIG", cfg.Kubernetes.KubeconfigPath)
	cfg.Kubelet.Timeout = getEnv("KSE_KUBELET_TIMEOUT", cfg.Kubelet.Timeout)
	cfg.Kubelet.TokenFile = getEnv("KSE_KUBELET_TOKEN_FILE", cfg.Kubelet.TokenFile)
	cfg.Kubelet.CAFile = getEnv("KSE_KUBELET_CA_FILE", cfg.Kubelet.CAFile)
	cfg.Kubelet.InsecureTLS = getEnvBool("KSE_KUBELET_INSECURE_TLS", cfg.Kubelet.InsecureTLS)
	cfg.RateLimits.ScrapesPerMinute = getEnvInt("KSE_SCRAPES_PER_MINUTE", cfg.RateLimits.ScrapesPerMinute)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	if port := getEnv("PORT", ""); port != "" {
		cfg.Server.Addr = "0.0.0.0:" + port
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func loadFromYAMLFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.Kubernetes.Mode != "incluster" && c.Kubernetes.Mode != "kubeconfig" {
		return fmt.Errorf("kubernetes mode must be 'incluster' or 'kubeconfig'")
	}
	timeout, err := time.ParseDuration(c.Kubelet.Timeout)
	if err != nil {
		return fmt.Errorf("invalid kubelet timeout %q: %w", c.Kubelet.Timeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("kubelet timeout must be greater than zero")
	}
	if c.RateLimits.ScrapesPerMinute < 0 {
		return fmt.Errorf("scrapes per minute cannot be negative")
	}
	return nil
}

// KubeletTimeout returns the parsed kubelet request timeout.
// Validate must have been called first; an unparseable value falls back to 10s.
func (c *Config) KubeletTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.Kubelet.Timeout)
	if err != nil || timeout <= 0 {
		return 10 * time.Second
	}
	return timeout
}
