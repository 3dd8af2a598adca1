package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadTestConfig(t *testing.T) {
	assert := require.New(t)

	cfg, err := Load("test")
	assert.NoError(err)
	assert.Equal("8081", cfg.GetPort())
	assert.Equal("./.sitesearch_test/meta.db", cfg.GetKVDBPath())
	assert.Equal("https://docs.example.com/", cfg.GetBaseURL())
	assert.Equal("html", cfg.GetFileExtension())
	assert.True(cfg.GetFilterStopWords())
	assert.Equal(time.Minute, cfg.GetMaxBuildTime())
	assert.Equal("./.sitesearch_test/jssearch.index.js", cfg.GetOutputPath())
	assert.Equal("jssearch", cfg.GetNamespace())
	assert.Equal("debug", cfg.GetLogLevel())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	assert := require.New(t)
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_URL", "/docs/")
	t.Setenv("FILTER_STOP_WORDS", "false")

	cfg, err := Load("test")
	assert.NoError(err)
	assert.Equal("9090", cfg.GetPort())
	assert.Equal("/docs/", cfg.GetBaseURL())
	assert.False(cfg.GetFilterStopWords())
}

func TestEnvSelectsConfigFile(t *testing.T) {
	assert := require.New(t)
	t.Setenv("ENV", "test")

	cfg, err := Load("")
	assert.NoError(err)
	assert.Equal("8081", cfg.GetPort())
}

func TestDefaultsWithoutConfigFile(t *testing.T) {
	assert := require.New(t)

	cfg, err := Load("missing")
	assert.NoError(err)
	assert.Equal(defaultPort, cfg.GetPort())
	assert.Equal(defaultBaseURL, cfg.GetBaseURL())
	assert.Equal(defaultFileExtension, cfg.GetFileExtension())
	assert.Equal(defaultNamespace, cfg.GetNamespace())
	assert.Equal(defaultMaxBuildTime, cfg.GetMaxBuildTime())
	assert.True(cfg.GetFilterStopWords())
	assert.Empty(cfg.GetRootPath())
}
