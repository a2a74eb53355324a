package collector

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/acme/kubelet-stats-exporter/internal/kube/stats"
)

const nanoCoresPerCore = 1_000_000_000

// PodUsage is the normalized contribution of one pod record
type PodUsage struct {
	Name                      string
	Namespace                 string
	EphemeralStorageUsedBytes float64
	CPUUsageCores             float64
	ContainerCPUUsageCores    map[string]float64
}

// toCores converts kubelet nanocore figures to cores
func toCores(nanoCores uint64) float64 {
	return float64(nanoCores) / nanoCoresPerCore
}

// parsePodStats normalizes one raw pod record. Pod identity is required;
// usage fields are defaulted to zero independently of each other so one
// missing figure never suppresses its siblings.
func parsePodStats(logger *zap.Logger, pod stats.PodStats) (PodUsage, error) {
	name := pod.PodRef.Name
	namespace := pod.PodRef.Namespace
	if name == "" || namespace == "" {
		return PodUsage{}, fmt.Errorf("pod record missing name or namespace")
	}

	usage := PodUsage{
		Name:                   name,
		Namespace:              namespace,
		ContainerCPUUsageCores: map[string]float64{},
	}

	if pod.EphemeralStorage != nil && pod.EphemeralStorage.UsedBytes != nil {
		usage.EphemeralStorageUsedBytes = float64(*pod.EphemeralStorage.UsedBytes)
	} else {
		logger.Warn("Pod record missing ephemeral storage usedBytes, defaulting to 0",
			zap.String("namespace", namespace),
			zap.String("pod", name),
		)
	}

	if pod.CPU != nil && pod.CPU.UsageNanoCores != nil {
		usage.CPUUsageCores = toCores(*pod.CPU.UsageNanoCores)
	} else {
		logger.Warn("Pod record missing cpu usageNanoCores, defaulting to 0",
			zap.String("namespace", namespace),
			zap.String("pod", name),
		)
	}

	if len(pod.Containers) == 0 {
		logger.Warn("Pod record has no container stats",
			zap.String("namespace", namespace),
			zap.String("pod", name),
		)
		return usage, nil
	}

	for _, container := range pod.Containers {
		if container.Name == "" || container.CPU == nil || container.CPU.UsageNanoCores == nil {
			// No zero-entry fabrication for individual containers; a
			// container without a usable figure simply emits no series.
			logger.Debug("Skipping container stats without name or cpu usage",
				zap.String("namespace", namespace),
				zap.String("pod", name),
				zap.String("container", container.Name),
			)
			continue
		}
		usage.ContainerCPUUsageCores[container.Name] = toCores(*container.CPU.UsageNanoCores)
	}

	return usage, nil
}

// sortedContainerNames returns container names in a stable order for emission
func sortedContainerNames(containers map[string]float64) []string {
	names := make([]string, 0, len(containers))
	for name := range containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
