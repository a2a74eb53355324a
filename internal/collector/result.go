package collector

// PodSeries is one fully-labeled pod-level gauge sample
type PodSeries struct {
	Node      string
	Namespace string
	Pod       string
	Value     float64
}

// ContainerSeries is one fully-labeled container-level gauge sample
type ContainerSeries struct {
	Node      string
	Namespace string
	Pod       string
	Container string
	Value     float64
}

// ScrapeResult accumulates the output series of one scrape cycle.
// A fresh result is built per cycle and handed to the exposition layer;
// nothing is retained across cycles.
type ScrapeResult struct {
	EphemeralStorageBytes []PodSeries
	PodCPUCores           []PodSeries
	ContainerCPUCores     []ContainerSeries
}

// NewScrapeResult creates an empty result for one scrape cycle
func NewScrapeResult() *ScrapeResult {
	return &ScrapeResult{}
}

// merge folds one node's contribution into the cycle result.
// Workers produce disjoint label sets, so merging is pure append.
func (r *ScrapeResult) merge(other nodeResult) {
	r.EphemeralStorageBytes = append(r.EphemeralStorageBytes, other.ephemeralStorageBytes...)
	r.PodCPUCores = append(r.PodCPUCores, other.podCPUCores...)
	r.ContainerCPUCores = append(r.ContainerCPUCores, other.containerCPUCores...)
}

// nodeResult is one worker's contribution for a single node
type nodeResult struct {
	ephemeralStorageBytes []PodSeries
	podCPUCores           []PodSeries
	containerCPUCores     []ContainerSeries
}
