package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"k8s.io/client-go/rest"
)

// Options configures the authenticated kubelet summary fetch.
type Options struct {
	// Timeout bounds each summary request end to end.
	Timeout time.Duration
	// TokenFile overrides the bearer token file from the REST config.
	TokenFile string
	// CAFile overrides the trust anchor from the REST config.
	CAFile string
	// InsecureTLS disables certificate verification.
	InsecureTLS bool
}

// Fetcher retrieves kubelet summary stats through the API server's node proxy
type Fetcher struct {
	logger     *zap.Logger
	host       string
	httpClient *http.Client
}

// NewFetcher creates a new summary stats fetcher from a REST config.
// The config is copied before credential and trust-anchor overrides are
// applied, so the caller's config is never modified.
func NewFetcher(logger *zap.Logger, restConfig *rest.Config, opts Options) (*Fetcher, error) {
	configCopy := rest.CopyConfig(restConfig)

	if opts.TokenFile != "" {
		configCopy.BearerToken = ""
		configCopy.BearerTokenFile = opts.TokenFile
	}
	if opts.CAFile != "" {
		configCopy.TLSClientConfig.CAFile = opts.CAFile
		configCopy.TLSClientConfig.CAData = nil
	}
	if opts.InsecureTLS {
		configCopy.TLSClientConfig.Insecure = true
		configCopy.TLSClientConfig.CAFile = ""
		configCopy.TLSClientConfig.CAData = nil
		logger.Warn("Summary stats fetcher configured with insecure TLS - certificate verification disabled")
	}

	transport, err := rest.TransportFor(configCopy)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Fetcher{
		logger: logger,
		host:   configCopy.Host,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}, nil
}

// Fetch retrieves summary statistics from a specific node's kubelet.
// A failure of any kind is returned as an error for the caller to log and
// skip; it never represents a cycle-level problem.
func (f *Fetcher) Fetch(ctx context.Context, nodeName string) (*Summary, error) {
	if nodeName == "" {
		return nil, fmt.Errorf("node name cannot be empty")
	}

	url := fmt.Sprintf("%s/api/v1/nodes/%s/proxy/stats/summary", f.host, nodeName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request summary stats from node %s: %w", nodeName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		f.logger.Debug("Summary stats request failed",
			zap.String("node", nodeName),
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(body)),
		)
		return nil, fmt.Errorf("node %s returned status %d", nodeName, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from node %s: %w", nodeName, err)
	}

	var summary Summary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary stats from node %s: %w", nodeName, err)
	}

	f.logger.Debug("Summary stats received",
		zap.String("node", nodeName),
		zap.Int("podCount", len(summary.Pods)),
	)

	return &summary, nil
}
