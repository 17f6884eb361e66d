package main

import (
	"context"
	"flag"

	"github.com/DMarby/bandfilter/internal/api"
	"github.com/DMarby/bandfilter/internal/cmd"
	"github.com/DMarby/bandfilter/internal/hmac"
	"github.com/DMarby/bandfilter/internal/metrics"
	"github.com/DMarby/bandfilter/internal/pipeline"
	"github.com/DMarby/bandfilter/internal/tracing"

	fileDatabase "github.com/DMarby/bandfilter/internal/database/file"
	"github.com/DMarby/bandfilter/internal/health"
	"github.com/DMarby/bandfilter/internal/logger"

	"github.com/jamiealquiza/envy"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// Comandline flags
var (
	// Global
	listen          = flag.String("listen", ":8080", "listen address")
	metricsListen   = flag.String("metrics-listen", "127.0.0.1:8082", "metrics listen address")
	rootURL         = flag.String("root-url", "http://127.0.0.1:8080", "root url")
	imageServiceURL = flag.String("image-service-url", "http://127.0.0.1:8081", "image service url")
	loglevel        = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")

	// Filtering, must match the image service
	workers = flag.Int("workers", pipeline.DefaultWorkers, "number of bands the image service splits images into when a request doesn't specify one")

	// Database
	databaseFilePath = flag.String("database-file-path", "./test/fixtures/file/metadata.json", "path to the image catalog manifest")

	// HMAC
	hmacKey = flag.String("hmac-key", "", "hmac key to use for authentication between services")

	// Tracing
	traceSampleRatio = flag.Float64("trace-sample-ratio", 0.01, "fraction of requests to trace")
)

func main() {
	ctx := context.Background()

	// Parse environment variables
	envy.Parse("BANDFILTER_CATALOG")

	// Parse commandline flags
	flag.Parse()

	// Initialize the logger
	log := logger.New(*loglevel)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Infof))

	// Set up context for shutting down
	shutdownCtx, shutdown := context.WithCancel(ctx)
	defer shutdown()

	// Initialize tracing
	tracer, err := tracing.New(ctx, log, "bandfilter-catalog-service", *traceSampleRatio)
	if err != nil {
		log.Fatalf("error initializing tracing: %s", err)
	}
	defer tracer.Shutdown(ctx)

	hmac, err := hmac.New([]byte(*hmacKey))
	if err != nil {
		log.Fatalf("error initializing hmac: %s", err)
	}

	// Initialize the database
	database, err := fileDatabase.New(*databaseFilePath)
	if err != nil {
		log.Fatalf("error initializing database: %s", err)
	}
	defer database.Shutdown()

	// Initialize and start the health checker
	checkerCtx, checkerCancel := context.WithCancel(ctx)
	defer checkerCancel()

	checker := &health.Checker{
		Ctx:      checkerCtx,
		Database: database,
		Log:      log,
	}
	go checker.Run()

	// Start the metrics http server
	go metrics.Serve(shutdownCtx, log, checker, *metricsListen)

	// Start and listen on http
	api := &api.API{
		Database:        database,
		HealthChecker:   checker,
		Log:             log,
		Tracer:          tracer,
		RootURL:         *rootURL,
		ImageServiceURL: *imageServiceURL,
		HandlerTimeout:  cmd.HandlerTimeout,
		HMAC:            hmac,
		Workers:         *workers,
	}
	cmd.ListenAndServe(shutdownCtx, log, cmd.NewServer(log, *listen, api.Router()))
}
