package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort       = "8080"
	defaultMaxResults = 100
)

type Config struct {
	config *viper.Viper
}

// Load reads config/config.<env>.yaml from the project root and lets
// environment variables override it. env falls back to $ENV, then "local".
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

	viperConfig.SetDefault("server.port", defaultPort)
	viperConfig.SetDefault("search.max_results", defaultMaxResults)
	viperConfig.SetDefault("codec.enum_policy", "strict")
	viperConfig.SetDefault("log.level", "info")

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	return c.getString("PORT", "server.port")
}

func (c *Config) GetStoragePath() string {
	return c.getString("STORAGE_PATH", "database.storage_path")
}

// GetKVDBPath is relative to the storage path unless absolute.
func (c *Config) GetKVDBPath() string {
	return c.inStorage(c.getString("KVDB_PATH", "database.kvdb_path"))
}

// GetIndexPath is relative to the storage path unless absolute.
func (c *Config) GetIndexPath() string {
	return c.inStorage(c.getString("INDEX_PATH", "database.index_path"))
}

func (c *Config) GetLogLevel() string {
	return c.getString("LOG_LEVEL", "log.level")
}

// GetEnumPolicy is "strict" or "lenient" and applies when stored search
// results are decoded.
func (c *Config) GetEnumPolicy() string {
	return c.getString("ENUM_POLICY", "codec.enum_policy")
}

func (c *Config) GetMaxResults() int {
	maxResults := c.config.GetInt("MAX_RESULTS")
	if maxResults == 0 {
		maxResults = c.config.GetInt("search.max_results")
	}

	return maxResults
}

func (c *Config) getString(envKey string, fileKey string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(fileKey)
	}

	return value
}

func (c *Config) inStorage(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(c.GetStoragePath(), path)
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
