package providers

import (
	"github.com/samber/do/v2"

	"github.com/cinematch/cinematch-server/internal/metrics"
)

// ProvideMetrics provides the Prometheus collectors.
func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	return metrics.New(), nil
}
