package nodes

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Lister enumerates cluster nodes for a scrape cycle
type Lister struct {
	logger     *zap.Logger
	kubeClient kubernetes.Interface
}

// NewLister creates a new node lister
func NewLister(logger *zap.Logger, kubeClient kubernetes.Interface) *Lister {
	return &Lister{
		logger:     logger,
		kubeClient: kubeClient,
	}
}

// ListNodes returns a point-in-time snapshot of all cluster nodes
func (l *Lister) ListNodes(ctx context.Context) ([]corev1.Node, error) {
	nodeList, err := l.kubeClient.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		l.logger.Error("Failed to list nodes", zap.Error(err))
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	l.logger.Debug("Retrieved node list", zap.Int("nodeCount", len(nodeList.Items)))

	return nodeList.Items, nil
}

// IsReady reports whether the node's condition list carries a Ready
// condition with status True.
func IsReady(node corev1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady {
			return condition.Status == corev1.ConditionTrue
		}
	}
	return false
}
