package config

import (
	"fmt"
	"seqminer/filestore"
	serviceDisk "seqminer/services/disk"
	serviceGCS "seqminer/services/gcstorage"
	serviceS3 "seqminer/services/s3"
	"strings"
	"time"

	"github.com/evalphobia/logrus_sentry"
	"github.com/gomodule/redigo/redis"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DEVELOPMENT = "development"

// Prefix of every environment variable read by LoadFromEnv.
const EnvPrefix = "SEQMINER"

const (
	CloudProviderNone = ""
	CloudProviderGCS  = "gcs"
	CloudProviderS3   = "s3"
)

type Configuration struct {
	AppName string `envconfig:"APP_NAME" default:"seqminer" json:"app_name"`
	Env     string `envconfig:"ENV" default:"development" json:"env"`
	Port    int    `envconfig:"PORT" default:"8090" json:"port"`

	// Local copy of datasets and runs.
	DataDir string `envconfig:"DATA_DIR" default:"/tmp/seqminer" json:"data_dir"`
	// Optional cloud copy. One of "", "gcs", "s3".
	CloudProvider string `envconfig:"CLOUD_PROVIDER" json:"cloud_provider"`
	BucketName    string `envconfig:"BUCKET_NAME" json:"bucket_name"`
	AWSRegion     string `envconfig:"AWS_REGION" default:"us-east-1" json:"aws_region"`

	// Redis result cache is disabled without a host.
	RedisHost string `envconfig:"REDIS_HOST" json:"redis_host"`
	RedisPort int    `envconfig:"REDIS_PORT" default:"6379" json:"redis_port"`

	ResultCacheSize       int     `envconfig:"RESULT_CACHE_SIZE" default:"128" json:"result_cache_size"`
	ResultCacheExpirySecs float64 `envconfig:"RESULT_CACHE_EXPIRY_SECS" default:"86400" json:"result_cache_expiry_secs"`

	// Mining limits applied to API requests.
	NumRoutines    int   `envconfig:"NUM_ROUTINES" default:"1" json:"num_routines"`
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"67108864" json:"max_upload_bytes"`
	MaxRunSeconds  int   `envconfig:"MAX_RUN_SECONDS" default:"300" json:"max_run_seconds"`

	SentryDSN          string `envconfig:"SENTRY_DSN" json:"-"`
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID" json:"gcp_project_id"`
	GCPProjectLocation string `envconfig:"GCP_PROJECT_LOCATION" json:"gcp_project_location"`
}

type Services struct {
	Redis            *redis.Pool
	DiskFileManager  *serviceDisk.DiskDriver
	CloudFileManager filestore.FileManager
	SentryHook       *logrus_sentry.SentryHook
}

var configuration *Configuration
var services *Services

// LoadFromEnv reads SEQMINER_* environment variables over the defaults.
func LoadFromEnv() (*Configuration, error) {
	var config Configuration
	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}
	return &config, nil
}

func initLogging(config *Configuration) {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})
	if config.Env == DEVELOPMENT {
		log.SetLevel(log.DebugLevel)
	}
}

func initSentryHook(config *Configuration) *logrus_sentry.SentryHook {
	if config.SentryDSN == "" {
		return nil
	}
	hook, err := logrus_sentry.NewAsyncWithTagsSentryHook(config.SentryDSN,
		map[string]string{"app": config.AppName, "env": config.Env},
		[]log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel})
	if err != nil {
		log.WithError(err).Error("Failed to initialize sentry hook.")
		return nil
	}
	hook.Timeout = 5 * time.Second
	hook.StacktraceConfiguration.Enable = true
	log.AddHook(hook)
	log.Info("Sentry hook initialized.")
	return hook
}

func newRedisPool(host string, port int) *redis.Pool {
	address := fmt.Sprintf("%s:%d", host, port)
	return &redis.Pool{
		MaxIdle:     50,
		MaxActive:   300,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", address)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

func newCloudFileManager(config *Configuration) (filestore.FileManager, error) {
	switch strings.ToLower(config.CloudProvider) {
	case CloudProviderNone:
		return nil, nil
	case CloudProviderGCS:
		if config.BucketName == "" {
			return nil, errors.New("bucket name required for gcs")
		}
		gcsDriver, err := serviceGCS.New(config.BucketName)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create gcs client")
		}
		return gcsDriver, nil
	case CloudProviderS3:
		if config.BucketName == "" {
			return nil, errors.New("bucket name required for s3")
		}
		return serviceS3.New(config.BucketName, config.AWSRegion), nil
	}
	return nil, errors.Errorf("unknown cloud provider %q", config.CloudProvider)
}

func initServices(config *Configuration) error {
	cloudFileManager, err := newCloudFileManager(config)
	if err != nil {
		log.WithError(err).Error("Failed to initialize cloud file manager.")
		return err
	}

	services = &Services{
		DiskFileManager:  serviceDisk.New(config.DataDir),
		CloudFileManager: cloudFileManager,
	}
	if cloudFileManager != nil {
		log.WithField("bucket", cloudFileManager.GetBucketName()).Info("Cloud file manager initialized.")
	}

	if config.RedisHost != "" {
		services.Redis = newRedisPool(config.RedisHost, config.RedisPort)
		log.WithField("host", config.RedisHost).Info("Redis pool initialized.")
	}
	return nil
}

// Init sets up logging and services for config. A second call replaces the
// previous configuration.
func Init(config *Configuration) error {
	if config == nil {
		return errors.New("nil configuration")
	}
	configuration = config
	initLogging(config)

	if err := initServices(config); err != nil {
		return err
	}
	services.SentryHook = initSentryHook(config)
	return nil
}

// InitConf sets the configuration without creating services. Used by
// scripts and tests that only need the mining options.
func InitConf(config *Configuration) {
	configuration = config
	initLogging(config)
}

func GetConfig() *Configuration {
	return configuration
}

func GetServices() *Services {
	return services
}

func IsDevelopment() bool {
	return configuration == nil || configuration.Env == DEVELOPMENT
}

func IsCacheEnabled() bool {
	return services != nil && services.Redis != nil
}

// GetCacheRedisConnection expects IsCacheEnabled. Callers close the
// connection.
func GetCacheRedisConnection() redis.Conn {
	return services.Redis.Get()
}

// SafeFlushSentryHook waits for pending error reports.
func SafeFlushSentryHook() {
	if services != nil && services.SentryHook != nil {
		services.SentryHook.Flush()
	}
}
