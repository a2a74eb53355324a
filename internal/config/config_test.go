package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Test default configuration
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:9118" {
		t.Errorf("Expected default server addr to be '0.0.0.0:9118', got '%s'", cfg.Server.Addr)
	}

	if cfg.Kubernetes.Mode != "incluster" {
		t.Errorf("Expected default kubernetes mode to be 'incluster', got '%s'", cfg.Kubernetes.Mode)
	}

	if cfg.Kubelet.Timeout != "10s" {
		t.Errorf("Expected default kubelet timeout to be '10s', got '%s'", cfg.Kubelet.Timeout)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("KSE_KUBE_MODE", "kubeconfig")
	os.Setenv("KSE_KUBELET_TIMEOUT", "3s")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("KSE_KUBE_MODE")
		os.Unsetenv("KSE_KUBELET_TIMEOUT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config with env vars: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:9090" {
		t.Errorf("Expected server addr to be '0.0.0.0:9090', got '%s'", cfg.Server.Addr)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level to be 'debug', got '%s'", cfg.Logging.Level)
	}

	if cfg.Kubernetes.Mode != "kubeconfig" {
		t.Errorf("Expected kubernetes mode to be 'kubeconfig', got '%s'", cfg.Kubernetes.Mode)
	}

	if cfg.Kubelet.Timeout != "3s" {
		t.Errorf("Expected kubelet timeout to be '3s', got '%s'", cfg.Kubelet.Timeout)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `server:
  addr: "127.0.0.1:9200"
kubernetes:
  mode: kubeconfig
kubelet:
  timeout: 5s
  insecure_tls: true
rate_limits:
  scrapes_per_minute: 30
logging:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9200" {
		t.Errorf("Expected server addr '127.0.0.1:9200', got '%s'", cfg.Server.Addr)
	}
	if cfg.Kubelet.Timeout != "5s" {
		t.Errorf("Expected kubelet timeout '5s', got '%s'", cfg.Kubelet.Timeout)
	}
	if !cfg.Kubelet.InsecureTLS {
		t.Error("Expected insecure_tls to be true")
	}
	if cfg.RateLimits.ScrapesPerMinute != 30 {
		t.Errorf("Expected scrapes_per_minute 30, got %d", cfg.RateLimits.ScrapesPerMinute)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected log level 'warn', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile("/non/existent/config.yaml")
	if err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:     ServerConfig{Addr: "0.0.0.0:9118"},
			Kubernetes: KubernetesConfig{Mode: "kubeconfig"},
			Kubelet:    KubeletConfig{Timeout: "10s"},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:      "valid config",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "empty server addr",
			mutate:    func(c *Config) { c.Server.Addr = "" },
			wantError: true,
		},
		{
			name:      "invalid kubernetes mode",
			mutate:    func(c *Config) { c.Kubernetes.Mode = "remote" },
			wantError: true,
		},
		{
			name:      "unparseable kubelet timeout",
			mutate:    func(c *Config) { c.Kubelet.Timeout = "soon" },
			wantError: true,
		},
		{
			name:      "zero kubelet timeout",
			mutate:    func(c *Config) { c.Kubelet.Timeout = "0s" },
			wantError: true,
		},
		{
			name:      "negative scrape rate",
			mutate:    func(c *Config) { c.RateLimits.ScrapesPerMinute = -1 },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestKubeletTimeout(t *testing.T) {
	cfg := Config{Kubelet: KubeletConfig{Timeout: "5s"}}
	if got := cfg.KubeletTimeout(); got != 5*time.Second {
		t.Errorf("Expected 5s, got %v", got)
	}

	cfg = Config{Kubelet: KubeletConfig{Timeout: "garbage"}}
	if got := cfg.KubeletTimeout(); got != 10*time.Second {
		t.Errorf("Expected fallback 10s, got %v", got)
	}
}
