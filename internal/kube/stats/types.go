package stats

// Summary represents the kubelet summary stats response, reduced to the
// pod-level fields this exporter consumes.
type Summary struct {
	Pods []PodStats `json:"pods"`
}

// PodStats represents one per-pod record from the summary payload.
// Usage fields are pointers because the kubelet omits them for pods it
// has no figures for yet; absence must be distinguishable from zero.
type PodStats struct {
	PodRef           PodReference     `json:"podRef"`
	CPU              *CPUStats        `json:"cpu"`
	EphemeralStorage *FilesystemStats `json:"ephemeral-storage"`
	Containers       []ContainerStats `json:"containers"`
}

// PodReference identifies the pod a stats record belongs to
type PodReference struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

// CPUStats represents pod- or container-level CPU usage
type CPUStats struct {
	UsageNanoCores *uint64 `json:"usageNanoCores"`
}

// FilesystemStats represents ephemeral storage usage
type FilesystemStats struct {
	UsedBytes *uint64 `json:"usedBytes"`
}

// ContainerStats represents one per-container record inside a pod record
type ContainerStats struct {
	Name string    `json:"name"`
	CPU  *CPUStats `json:"cpu"`
}
