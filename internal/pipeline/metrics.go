package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	bandDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bandfilter",
		Name:      "band_duration_seconds",
		Help:      "Time spent by a single worker filtering its band.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	})

	filterDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bandfilter",
		Name:      "filter_duration_seconds",
		Help:      "Time spent applying a filter to a whole image, including stitching.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"filter"})
)

// Collectors returns the pipeline metrics for registration
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{bandDuration, filterDuration}
}
