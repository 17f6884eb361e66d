package metrics

import (
	"context"
	"net/http"
	"net/http/pprof"

	"github.com/DMarby/bandfilter/internal/handler"
	"github.com/DMarby/bandfilter/internal/health"
	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// expvarMetrics maps the expvar metrics published by the service to prometheus descriptions
var expvarMetrics = map[string]*prometheus.Desc{
	"gauge_http_requests_in_flight": prometheus.NewDesc(
		"bandfilter_http_requests_in_flight", "Number of requests currently being served.", nil, nil,
	),
	"gauge_image_processor_queue_size": prometheus.NewDesc(
		"bandfilter_image_processor_queue_size", "Number of images waiting for or being filtered.", nil, nil,
	),
	"counter_labelmap_result_cache_lookups": prometheus.NewDesc(
		"bandfilter_cache_lookups", "Number of source image cache lookups, by result.", []string{"result"}, nil,
	),
	"counter_labelmap_filter_image_processor_processed_images": prometheus.NewDesc(
		"bandfilter_image_processor_processed_images", "Number of images filtered, by filter.", []string{"filter"}, nil,
	),
}

// NewRegistry returns a registry with the runtime, pipeline and request metrics registered
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewExpvarCollector(expvarMetrics),
	)
	registry.MustRegister(pipeline.Collectors()...)
	registry.MustRegister(handler.Collectors()...)

	return registry
}

// Router returns the handler for metrics, healthchecks and profiling
func Router(registry *prometheus.Registry, healthChecker *health.Checker) http.Handler {
	router := http.NewServeMux()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Handle("/health", handler.Health(healthChecker))

	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("/debug/pprof/profile", pprof.Profile)
	router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return router
}

// Serve starts an http server for metrics and healthchecks, and stops it when ctx is done
func Serve(ctx context.Context, log *logger.Logger, healthChecker *health.Checker, listenAddress string) {
	server := &http.Server{
		Addr:     listenAddress,
		Handler:  Router(NewRegistry(), healthChecker),
		ErrorLog: logger.NewHTTPErrorLog(log),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Infof("shutting down the metrics http server: %s", err)
		}
	}()

	log.Infof("metrics http server listening on %s", listenAddress)

	<-ctx.Done()

	if err := server.Close(); err != nil {
		log.Warnf("error shutting down metrics http server: %s", err)
	}
}
