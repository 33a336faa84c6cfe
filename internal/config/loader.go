package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/beehiiv-mcp"
	projectConfigDir = ".beehiiv-mcp"
	configFileName   = "config.yaml"
	dotEnvFileName   = ".env"
)

// LoadConfig loads the configuration by layering default, user and project
// settings, then the .env file and the process environment.
func LoadConfig() (Config, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. User-specific configuration
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// Log this error but don't fail; user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		config, err = mergeFileIfPresent(config, userConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
	}

	// 3. Project-specific configuration
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		config, err = mergeFileIfPresent(config, projectConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
	}

	return applyEnvironment(config)
}

// LoadConfigFromPath loads a single configuration file on top of the defaults,
// then applies the .env file and the process environment. Unlike LoadConfig
// the file must exist.
func LoadConfigFromPath(path string) (Config, error) {
	fileConfig, err := loadConfigFromFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return applyEnvironment(mergeConfigs(GetDefaultConfig(), fileConfig))
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

var getDotEnvPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, dotEnvFileName), nil
}

func mergeFileIfPresent(base Config, path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return Config{}, err
	}
	return mergeConfigs(base, overlay), nil
}

// loadConfigFromFile loads a Config from a YAML file, expanding ${VAR} and
// ${VAR:-default} references first.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	expanded := os.Expand(string(data), expandEnv)
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

func expandEnv(name string) string {
	key, fallback, hasDefault := strings.Cut(name, ":-")
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	if hasDefault {
		return fallback
	}
	return ""
}

// mergeConfigs merges 'overlay' config into 'base' config.
// Non-zero overlay fields win.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.Beehiiv.APIKey != "" {
		merged.Beehiiv.APIKey = overlay.Beehiiv.APIKey
	}
	if overlay.Beehiiv.BaseURL != "" {
		merged.Beehiiv.BaseURL = overlay.Beehiiv.BaseURL
	}
	if overlay.Beehiiv.DefaultPublicationID != "" {
		merged.Beehiiv.DefaultPublicationID = overlay.Beehiiv.DefaultPublicationID
	}

	if overlay.Server.Name != "" {
		merged.Server.Name = overlay.Server.Name
	}
	if overlay.Server.Transport != "" {
		merged.Server.Transport = overlay.Server.Transport
	}
	if overlay.Server.Host != "" {
		merged.Server.Host = overlay.Server.Host
	}
	if overlay.Server.Port != 0 {
		merged.Server.Port = overlay.Server.Port
	}

	return merged
}

// applyEnvironment loads the optional .env file (never overriding variables
// already set in the process) and then lets the environment override the
// file layers.
func applyEnvironment(config Config) (Config, error) {
	dotEnvPath, err := getDotEnvPath()
	if err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error loading %s: %w", dotEnvPath, err)
		}
	}

	if v := os.Getenv(EnvAPIKey); v != "" {
		config.Beehiiv.APIKey = v
	}
	if v := os.Getenv(EnvPublicationID); v != "" {
		config.Beehiiv.DefaultPublicationID = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		config.Beehiiv.BaseURL = v
	}
	return config, nil
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
