package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort          = "8080"
	defaultKVDBPath      = "./.sitesearch/meta.db"
	defaultOutputPath    = "./jssearch.index.js"
	defaultNamespace     = "jssearch"
	defaultBaseURL       = "./"
	defaultFileExtension = "html"
	defaultLogLevel      = "info"
	defaultMaxBuildTime  = 2 * time.Hour
)

type Config struct {
	config *viper.Viper
}

func Load(env string) (*Config, error) {

	if len(env) == 0 {
		if env = os.Getenv(keyEnv); len(env) == 0 {
			env = envLocal
		}
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()
	setDefaults(viperConfig)

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("database.kvdb_path", defaultKVDBPath)
	v.SetDefault("indexer.base_url", defaultBaseURL)
	v.SetDefault("indexer.extension", defaultFileExtension)
	v.SetDefault("indexer.filter_stop_words", true)
	v.SetDefault("indexer.max_build_time", defaultMaxBuildTime)
	v.SetDefault("export.output_path", defaultOutputPath)
	v.SetDefault("export.namespace", defaultNamespace)
	v.SetDefault("log.level", defaultLogLevel)
}

// getString prefers the environment variable over the config file key.
func (c *Config) getString(envKey string, fileKey string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(fileKey)
	}

	return value
}

func (c *Config) GetPort() string {
	return c.getString("PORT", "server.port")
}

func (c *Config) GetKVDBPath() string {
	return c.getString("KVDB_PATH", "database.kvdb_path")
}

// GetRootPath is the directory indexed when no directory is given explicitly.
func (c *Config) GetRootPath() string {
	return c.getString("ROOT_PATH", "indexer.root_path")
}

func (c *Config) GetBaseURL() string {
	return c.getString("BASE_URL", "indexer.base_url")
}

func (c *Config) GetFileExtension() string {
	return c.getString("FILE_EXTENSION", "indexer.extension")
}

func (c *Config) GetExcludeFolders() []string {
	return c.config.GetStringSlice("indexer.exclude_folders")
}

func (c *Config) GetFilterStopWords() bool {
	if c.config.IsSet("FILTER_STOP_WORDS") {
		return c.config.GetBool("FILTER_STOP_WORDS")
	}
	return c.config.GetBool("indexer.filter_stop_words")
}

func (c *Config) GetMaxBuildTime() time.Duration {
	return c.config.GetDuration("indexer.max_build_time")
}

func (c *Config) GetOutputPath() string {
	return c.getString("OUTPUT_PATH", "export.output_path")
}

func (c *Config) GetNamespace() string {
	return c.getString("EXPORT_NAMESPACE", "export.namespace")
}

func (c *Config) GetLogLevel() string {
	return c.getString("LOG_LEVEL", "log.level")
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
