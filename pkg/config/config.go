package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path"

	"gopkg.in/yaml.v2"

	"github.com/go-delve/memlayout/pkg/logflags"
)

const (
	configDir  string = ".memlayout"
	configFile string = "config.yml"
)

// Config defines all configuration options available to be set through the
// config file. None of them affect the report, they only provide defaults
// for the logging flags.
type Config struct {
	// LogOutput is the default value of --log-output. Setting it enables
	// logging as if --log was passed.
	LogOutput string `yaml:"log-output"`
	// LogDest is the default value of --log-dest.
	LogDest string `yaml:"log-dest"`
}

// LoadResult records where the configuration was read from and how loading
// went. Configuration is loaded before logging is set up, so the outcome is
// logged later by calling Log.
type LoadResult struct {
	Path  string
	Found bool
	Err   error
}

// Log writes the outcome of loading the configuration to the config logger.
// Errors are always logged.
func (r LoadResult) Log(c *Config) {
	logger := logflags.ConfigLogger().WithField("path", r.Path)
	switch {
	case r.Err != nil:
		logger.WithError(r.Err).Error("configuration ignored")
	case !r.Found || c == nil:
		logger.Debug("no configuration file")
	default:
		logger.Debugf("loaded configuration %+v", *c)
	}
}

// LoadConfig attempts to populate a Config object from the config.yml file
// in the user's configuration directory. A missing or unreadable file
// results in an empty configuration and nothing is ever written to disk.
func LoadConfig() (*Config, LoadResult) {
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return &Config{}, LoadResult{Err: fmt.Errorf("unable to get config file path: %w", err)}
	}
	return LoadConfigFrom(fullConfigFile)
}

// LoadConfigFrom reads the configuration stored at path. If path does not
// exist an empty configuration is returned and the result is not Found.
func LoadConfigFrom(path string) (*Config, LoadResult) {
	res := LoadResult{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			res.Err = fmt.Errorf("unable to read config data: %w", err)
		}
		return &Config{}, res
	}
	res.Found = true

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		res.Err = fmt.Errorf("unable to decode config file: %w", err)
		return &Config{}, res
	}
	return &c, res
}

// GetConfigFilePath gets the full path to the given config file name.
func GetConfigFilePath(file string) (string, error) {
	userHomeDir := "."
	usr, err := user.Current()
	if err == nil {
		userHomeDir = usr.HomeDir
	}
	return path.Join(userHomeDir, configDir, file), nil
}
