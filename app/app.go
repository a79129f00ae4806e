package main

import (
	"flag"
	C "seqminer/config"
	H "seqminer/handler"
	"seqminer/metrics"
	mid "seqminer/middleware"
	"seqminer/store"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ./app --env=development --port=8090 --data_dir=/tmp/seqminer --redis_host=localhost --redis_port=6379
// Flags left unset fall back to SEQMINER_* environment variables and then to defaults.
func main() {
	config, err := C.LoadFromEnv()
	if err != nil {
		log.WithError(err).Fatal("Failed to read configuration.")
	}

	env := flag.String("env", config.Env, "")
	port := flag.Int("port", config.Port, "")
	dataDir := flag.String("data_dir", config.DataDir, "Local directory for datasets and runs.")

	cloudProvider := flag.String("cloud_provider", config.CloudProvider, "One of gcs, s3 or empty for disk only.")
	bucketName := flag.String("bucket_name", config.BucketName, "")
	awsRegion := flag.String("aws_region", config.AWSRegion, "")

	redisHost := flag.String("redis_host", config.RedisHost, "Empty disables the redis result cache.")
	redisPort := flag.Int("redis_port", config.RedisPort, "")

	resultCacheSize := flag.Int("result_cache_size", config.ResultCacheSize, "Runs kept in memory.")
	resultCacheExpirySecs := flag.Float64("result_cache_expiry_secs", config.ResultCacheExpirySecs, "")

	numRoutines := flag.Int("num_routines", config.NumRoutines, "Goroutines per mining run.")
	maxUploadBytes := flag.Int64("max_upload_bytes", config.MaxUploadBytes, "")
	maxRunSeconds := flag.Int("max_run_seconds", config.MaxRunSeconds, "")

	sentryDSN := flag.String("sentry_dsn", config.SentryDSN, "Sentry DSN")
	gcpProjectID := flag.String("gcp_project_id", config.GCPProjectID, "Project for stackdriver metrics.")
	gcpProjectLocation := flag.String("gcp_project_location", config.GCPProjectLocation, "")
	flag.Parse()

	config = &C.Configuration{
		AppName:               "seqminer_server",
		Env:                   *env,
		Port:                  *port,
		DataDir:               *dataDir,
		CloudProvider:         *cloudProvider,
		BucketName:            *bucketName,
		AWSRegion:             *awsRegion,
		RedisHost:             *redisHost,
		RedisPort:             *redisPort,
		ResultCacheSize:       *resultCacheSize,
		ResultCacheExpirySecs: *resultCacheExpirySecs,
		NumRoutines:           *numRoutines,
		MaxUploadBytes:        *maxUploadBytes,
		MaxRunSeconds:         *maxRunSeconds,
		SentryDSN:             *sentryDSN,
		GCPProjectID:          *gcpProjectID,
		GCPProjectLocation:    *gcpProjectLocation,
	}

	// Initialize configs and connections.
	err = C.Init(config)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize.")
		return
	}
	defer C.SafeFlushSentryHook()

	if exporter := metrics.InitMetrics(config.Env, config.AppName,
		config.GCPProjectID, config.GCPProjectLocation); exporter != nil {
		defer exporter.Flush()
	}

	services := C.GetServices()
	resultStore, err := store.New(config.ResultCacheSize, config.ResultCacheExpirySecs,
		services.DiskFileManager, services.CloudFileManager)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize result store.")
		return
	}

	if !C.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Root middleware for cors.
	r.Use(mid.CustomCors())
	r.Use(mid.RequestIdGenerator())
	r.Use(mid.Logger())
	r.Use(mid.Recovery())

	// Initialize routes.
	H.InitRoutes(r, resultStore, services.DiskFileManager)
	log.WithField("port", config.Port).Info("Starting seqminer server.")
	if err := r.Run(":" + strconv.Itoa(C.GetConfig().Port)); err != nil {
		log.WithError(err).Error("Server stopped.")
	}
}
