package collector

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"

	"github.com/acme/kubelet-stats-exporter/internal/kube/nodes"
	"github.com/acme/kubelet-stats-exporter/internal/kube/stats"
	"github.com/acme/kubelet-stats-exporter/internal/metrics"
)

var (
	ephemeralStorageDesc = prometheus.NewDesc(
		"pod_ephemeral_storage_used_bytes",
		"Kubernetes pod ephemeral storage used in bytes",
		[]string{"node", "namespace", "pod"},
		nil,
	)
	podCPUDesc = prometheus.NewDesc(
		"pod_cpu_usage_cores",
		"Kubernetes pod cpu usage in cores",
		[]string{"node", "namespace", "pod"},
		nil,
	)
	containerCPUDesc = prometheus.NewDesc(
		"pod_container_cpu_usage_cores",
		"Kubernetes pod container cpu usage in cores",
		[]string{"node", "namespace", "pod", "container"},
		nil,
	)
)

// NodeLister supplies the point-in-time node snapshot for a cycle
type NodeLister interface {
	ListNodes(ctx context.Context) ([]corev1.Node, error)
}

// SummaryFetcher retrieves one node's kubelet summary stats
type SummaryFetcher interface {
	Fetch(ctx context.Context, nodeName string) (*stats.Summary, error)
}

// Collector scrapes kubelet summary stats from every Ready node and
// republishes pod and container usage as gauge series. It implements
// prometheus.Collector; each Collect call runs one full scrape cycle.
type Collector struct {
	logger  *zap.Logger
	nodes   NodeLister
	fetcher SummaryFetcher
}

// New creates a new kubelet stats collector
func New(logger *zap.Logger, nodeLister NodeLister, fetcher SummaryFetcher) *Collector {
	return &Collector{
		logger:  logger,
		nodes:   nodeLister,
		fetcher: fetcher,
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- ephemeralStorageDesc
	ch <- podCPUDesc
	ch <- containerCPUDesc
}

// Collect implements prometheus.Collector by running one scrape cycle and
// emitting the cycle's result as const metrics. The result is discarded
// afterwards; no state survives between cycles.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	result := c.Scrape(context.Background())

	for _, s := range result.EphemeralStorageBytes {
		ch <- prometheus.MustNewConstMetric(ephemeralStorageDesc, prometheus.GaugeValue,
			s.Value, s.Node, s.Namespace, s.Pod)
	}
	for _, s := range result.PodCPUCores {
		ch <- prometheus.MustNewConstMetric(podCPUDesc, prometheus.GaugeValue,
			s.Value, s.Node, s.Namespace, s.Pod)
	}
	for _, s := range result.ContainerCPUCores {
		ch <- prometheus.MustNewConstMetric(containerCPUDesc, prometheus.GaugeValue,
			s.Value, s.Node, s.Namespace, s.Pod, s.Container)
	}
}

// Scrape runs one full cycle: enumerate nodes, fan out one worker per
// Ready node, join, and merge the per-node contributions. A failed node
// contributes zero series and never aborts its siblings.
func (c *Collector) Scrape(ctx context.Context) *ScrapeResult {
	cycle := uuid.NewString()
	start := time.Now()

	result := NewScrapeResult()

	nodeList, err := c.nodes.ListNodes(ctx)
	if err != nil {
		c.logger.Warn("Failed to list nodes, emitting empty result",
			zap.String("cycle", cycle),
			zap.Error(err),
		)
		metrics.RecordNodeListError()
		metrics.ObserveScrapeCycle(time.Since(start), 0)
		return result
	}

	readyNodes := make([]string, 0, len(nodeList))
	for _, node := range nodeList {
		if !nodes.IsReady(node) {
			c.logger.Warn("Skipping node that is not in Ready status",
				zap.String("cycle", cycle),
				zap.String("node", node.Name),
			)
			continue
		}
		readyNodes = append(readyNodes, node.Name)
	}

	c.logger.Debug("Dispatching node scrapes",
		zap.String("cycle", cycle),
		zap.Int("readyNodes", len(readyNodes)),
		zap.Int("totalNodes", len(nodeList)),
	)

	// One worker per Ready node for this cycle only; the channel is sized
	// to the fan-out so workers never block after the join.
	results := make(chan nodeResult, len(readyNodes))
	var wg sync.WaitGroup
	for _, nodeName := range readyNodes {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			results <- c.scrapeNode(ctx, cycle, name)
		}(nodeName)
	}
	wg.Wait()
	close(results)

	for nr := range results {
		result.merge(nr)
	}

	metrics.ObserveScrapeCycle(time.Since(start), len(readyNodes))

	c.logger.Debug("Scrape cycle complete",
		zap.String("cycle", cycle),
		zap.Int("podSeries", len(result.PodCPUCores)),
		zap.Int("containerSeries", len(result.ContainerCPUCores)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result
}

// scrapeNode fetches and parses one node's summary stats. Failures are
// logged and yield an empty contribution.
func (c *Collector) scrapeNode(ctx context.Context, cycle, nodeName string) nodeResult {
	var nr nodeResult

	summary, err := c.fetcher.Fetch(ctx, nodeName)
	if err != nil {
		c.logger.Warn("Failed to fetch summary stats from node",
			zap.String("cycle", cycle),
			zap.String("node", nodeName),
			zap.Error(err),
		)
		metrics.RecordNodeScrapeError(nodeName)
		return nr
	}

	for _, pod := range summary.Pods {
		usage, err := parsePodStats(c.logger, pod)
		if err != nil {
			c.logger.Warn("Skipping unusable pod record",
				zap.String("cycle", cycle),
				zap.String("node", nodeName),
				zap.Error(err),
			)
			continue
		}

		nr.ephemeralStorageBytes = append(nr.ephemeralStorageBytes, PodSeries{
			Node:      nodeName,
			Namespace: usage.Namespace,
			Pod:       usage.Name,
			Value:     usage.EphemeralStorageUsedBytes,
		})
		nr.podCPUCores = append(nr.podCPUCores, PodSeries{
			Node:      nodeName,
			Namespace: usage.Namespace,
			Pod:       usage.Name,
			Value:     usage.CPUUsageCores,
		})
		for _, containerName := range sortedContainerNames(usage.ContainerCPUUsageCores) {
			nr.containerCPUCores = append(nr.containerCPUCores, ContainerSeries{
				Node:      nodeName,
				Namespace: usage.Namespace,
				Pod:       usage.Name,
				Container: containerName,
				Value:     usage.ContainerCPUUsageCores[containerName],
			})
		}
	}

	return nr
}
