package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/DMarby/bandfilter/internal/cache"
	"github.com/DMarby/bandfilter/internal/cache/memory"
	"github.com/DMarby/bandfilter/internal/cache/redis"
	"github.com/DMarby/bandfilter/internal/cmd"
	"github.com/DMarby/bandfilter/internal/database"
	fileDatabase "github.com/DMarby/bandfilter/internal/database/file"
	"github.com/DMarby/bandfilter/internal/health"
	"github.com/DMarby/bandfilter/internal/hmac"
	"github.com/DMarby/bandfilter/internal/image"
	"github.com/DMarby/bandfilter/internal/image/banded"
	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/metrics"
	"github.com/DMarby/bandfilter/internal/pipeline"
	"github.com/DMarby/bandfilter/internal/storage"
	fileStorage "github.com/DMarby/bandfilter/internal/storage/file"
	"github.com/DMarby/bandfilter/internal/storage/spaces"
	"github.com/DMarby/bandfilter/internal/tracing"

	api "github.com/DMarby/bandfilter/internal/imageapi"

	"github.com/jamiealquiza/envy"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// Comandline flags
var (
	// Global
	listen        = flag.String("listen", ":8081", "listen address")
	metricsListen = flag.String("metrics-listen", "127.0.0.1:8083", "metrics listen address")
	loglevel      = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")

	// Filtering
	workers      = flag.Int("workers", pipeline.DefaultWorkers, "number of bands each image is split into when a request doesn't specify one")
	queueWorkers = flag.Int("queue-workers", 3, "number of images filtered at once")

	// Catalog
	databaseFilePath = flag.String("database-file-path", "./test/fixtures/file/metadata.json", "path to the image catalog manifest")

	// Storage
	storageBackend = flag.String("storage", "file", "which storage backend to use (file, spaces)")

	// Storage - File
	storageFilePath = flag.String("storage-file-path", "./test/fixtures/file", "path to the file storage")

	// Storage - Spaces
	storageSpacesSpace          = flag.String("storage-spaces-space", "", "digitalocean space to use")
	storageSpacesPrefix         = flag.String("storage-spaces-prefix", "", "key prefix of the source images within the space")
	storageSpacesEndpoint       = flag.String("storage-spaces-endpoint", "", "spaces endpoint")
	storageSpacesAccessKey      = flag.String("storage-spaces-access-key", "", "spaces access key")
	storageSpacesSecretKey      = flag.String("storage-spaces-secret-key", "", "spaces secret key")
	storageSpacesForcePathStyle = flag.Bool("storage-spaces-force-path-style", false, "use path style addressing, for s3-compatible servers such as minio")

	// Cache
	cacheBackend = flag.String("cache", "memory", "which cache backend to use (memory, redis)")

	// Cache - Memory
	cacheMemoryMaxEntries = flag.Int("cache-memory-max-entries", 100, "maximum number of source images to keep in memory, 0 for no limit")

	// Cache - Redis
	cacheRedisAddress  = flag.String("cache-redis-address", "redis://127.0.0.1:6379", "redis address, may contain authentication details")
	cacheRedisPoolSize = flag.Int("cache-redis-pool-size", 10, "redis connection pool size")
	cacheRedisTTL      = flag.Duration("cache-redis-ttl", 24*time.Hour, "how long source images stay in redis, 0 to never expire")

	// Healthcheck
	healthCheckImageID = flag.String("health-check-image-id", "1", "image ID to request from the storage to check storage health")

	// HMAC
	hmacKey = flag.String("hmac-key", "", "hmac key to use for authentication between services")

	// Tracing
	traceSampleRatio = flag.Float64("trace-sample-ratio", 0.01, "fraction of requests to trace")
)

func main() {
	ctx := context.Background()

	// Parse environment variables
	envy.Parse("BANDFILTER")

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
	tracer, err := tracing.New(ctx, log, "bandfilter-image-service", *traceSampleRatio)
	if err != nil {
		log.Fatalf("error initializing tracing: %s", err)
	}
	defer tracer.Shutdown(ctx)

	hmac, err := hmac.New([]byte(*hmacKey))
	if err != nil {
		log.Fatalf("error initializing hmac: %s", err)
	}

	// Initialize the catalog, storage, cache
	database, storage, cache, err := setupBackends(ctx, tracer)
	if err != nil {
		log.Fatalf("error initializing backends: %s", err)
	}
	defer database.Shutdown()
	defer cache.Shutdown()

	// Initialize the image processor
	imageProcessorCtx, imageProcessorCancel := context.WithCancel(ctx)
	defer imageProcessorCancel()

	imageProcessor, err := banded.New(imageProcessorCtx, log, tracer, *queueWorkers, image.NewCache(tracer, cache, storage))
	if err != nil {
		log.Fatalf("error initializing image processor %s", err.Error())
	}

	// Initialize and start the health checker
	checkerCtx, checkerCancel := context.WithCancel(ctx)
	defer checkerCancel()

	checker := &health.Checker{
		Ctx:      checkerCtx,
		Storage:  storage,
		ImageID:  *healthCheckImageID,
		Database: database,
		Cache:    cache,
		Log:      log,
	}
	go checker.Run()

	// Start the metrics http server
	go metrics.Serve(shutdownCtx, log, checker, *metricsListen)

	// Start and listen on http
	api := &api.API{
		ImageProcessor: imageProcessor,
		Database:       database,
		HealthChecker:  checker,
		Log:            log,
		Tracer:         tracer,
		HandlerTimeout: cmd.HandlerTimeout,
		HMAC:           hmac,
		Workers:        *workers,
	}
	cmd.ListenAndServe(shutdownCtx, log, cmd.NewServer(log, *listen, api.Router()))
}

func setupBackends(ctx context.Context, tracer *tracing.Tracer) (database database.Provider, storage storage.Provider, cache cache.Provider, err error) {
	// Catalog
	database, err = fileDatabase.New(*databaseFilePath)
	if err != nil {
		return
	}

	// Storage
	switch *storageBackend {
	case "file":
		storage, err = fileStorage.New(*storageFilePath)
	case "spaces":
		storage, err = spaces.New(
			*storageSpacesSpace,
			*storageSpacesPrefix,
			*storageSpacesEndpoint,
			*storageSpacesAccessKey,
			*storageSpacesSecretKey,
			*storageSpacesForcePathStyle,
		)
	default:
		err = fmt.Errorf("invalid storage backend")
	}

	if err != nil {
		return
	}

	// Cache
	switch *cacheBackend {
	case "memory":
		cache = memory.New(*cacheMemoryMaxEntries)
	case "redis":
		cache, err = redis.New(ctx, tracer, *cacheRedisAddress, *cacheRedisPoolSize, *cacheRedisTTL)
	default:
		err = fmt.Errorf("invalid cache backend")
	}

	return
}
