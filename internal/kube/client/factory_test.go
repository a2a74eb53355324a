package client

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestNewFactory(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tests := []struct {
		name           string
		mode           ClientMode
		kubeconfigPath string
		expectError    bool
	}{
		{
			name:        "invalid mode",
			mode:        ClientMode("invalid"),
			expectError: true,
		},
		{
			name:           "kubeconfig mode with non-existent file",
			mode:           KubeconfigMode,
			kubeconfigPath: "/non/existent/kubeconfig",
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFactory(logger, tt.mode, tt.kubeconfigPath)
			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestBuildKubeconfigFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	kubeconfigPath := filepath.Join(tmpDir, "kubeconfig")

	kubeconfigContent := `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://example.com
  name: test-cluster
contexts:
- context:
    cluster: test-cluster
    user: test-user
  name: test-context
current-context: test-context
users:
- name: test-user
  user:
    token: test-token
`
	if err := os.WriteFile(kubeconfigPath, []byte(kubeconfigContent), 0o600); err != nil {
		t.Fatalf("Failed to write kubeconfig: %v", err)
	}

	config, err := buildKubeconfigFromPath(kubeconfigPath)
	if err != nil {
		t.Fatalf("Failed to build config: %v", err)
	}

	if config.Host != "https://example.com" {
		t.Errorf("Expected host 'https://example.com', got '%s'", config.Host)
	}
}

func TestBuildKubeconfigFromPath_Missing(t *testing.T) {
	_, err := buildKubeconfigFromPath("/non/existent/kubeconfig")
	if err == nil {
		t.Error("expected error for missing kubeconfig")
	}
}
