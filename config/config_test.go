package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("SEQMINER_PORT", "9001")
	os.Setenv("SEQMINER_CLOUD_PROVIDER", "s3")
	os.Setenv("SEQMINER_BUCKET_NAME", "runs")
	defer os.Unsetenv("SEQMINER_PORT")
	defer os.Unsetenv("SEQMINER_CLOUD_PROVIDER")
	defer os.Unsetenv("SEQMINER_BUCKET_NAME")

	config, err := LoadFromEnv()
	assert.Nil(t, err)
	assert.Equal(t, 9001, config.Port)
	assert.Equal(t, DEVELOPMENT, config.Env)
	assert.Equal(t, "/tmp/seqminer", config.DataDir)
	assert.Equal(t, CloudProviderS3, config.CloudProvider)
	assert.Equal(t, "runs", config.BucketName)
	assert.Equal(t, 128, config.ResultCacheSize)
	assert.Equal(t, float64(86400), config.ResultCacheExpirySecs)
	assert.Equal(t, int64(64<<20), config.MaxUploadBytes)
}

func TestLoadFromEnvInvalidValue(t *testing.T) {
	os.Setenv("SEQMINER_PORT", "not-a-port")
	defer os.Unsetenv("SEQMINER_PORT")

	_, err := LoadFromEnv()
	assert.NotNil(t, err)
}

func TestInit(t *testing.T) {
	err := Init(&Configuration{Env: DEVELOPMENT, DataDir: "/tmp/seqminer-config-test"})
	assert.Nil(t, err)
	assert.True(t, IsDevelopment())
	assert.False(t, IsCacheEnabled())
	assert.Nil(t, GetServices().CloudFileManager)
	assert.Equal(t, "/tmp/seqminer-config-test", GetServices().DiskFileManager.GetBucketName())

	err = Init(&Configuration{Env: DEVELOPMENT, CloudProvider: "azure"})
	assert.NotNil(t, err)
	err = Init(&Configuration{Env: DEVELOPMENT, CloudProvider: CloudProviderGCS})
	assert.NotNil(t, err)

	err = Init(&Configuration{Env: "production", RedisHost: "localhost", RedisPort: 6379})
	assert.Nil(t, err)
	assert.False(t, IsDevelopment())
	assert.True(t, IsCacheEnabled())
	SafeFlushSentryHook()
}
