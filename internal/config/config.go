// Package config loads drop's runtime configuration from layered sources:
// system and user config files, then environment variables, each layer
// overriding the one before it.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dropsrv/drop/internal/fsutil"
	"github.com/dropsrv/drop/log"
)

var configLogger = log.WithContext("pkg", "config")

// envPrefix is prepended to every configuration key to form its
// environment variable name, e.g. "dir" -> "DROP_DIR".
const envPrefix = "DROP_"

// Config is the plain value struct the bootstrap hands to the core and the
// HTTP adapter.
type Config struct {
	Dir      string        `yaml:"dir"`
	HTTPAddr string        `yaml:"http_addr"`
	HTTPPort uint16        `yaml:"http_port"`
	Timeout  time.Duration `yaml:"-"`

	// TimeoutSeconds is the wire representation of Timeout; config files
	// and env vars both speak in whole seconds.
	TimeoutSeconds int `yaml:"timeout"`
}

// Default returns drop's out-of-the-box configuration.
func Default() Config {
	return Config{
		Dir:            "./drop",
		HTTPAddr:       "127.0.0.1",
		HTTPPort:       8080,
		TimeoutSeconds: 15,
		Timeout:        15 * time.Second,
	}
}

// searchPaths returns the config file locations in ascending precedence
// (later entries win).
func searchPaths() []string {
	paths := []string{"/etc/drop/config"}
	home, err := fsutil.HomeDir()
	if err != nil {
		configLogger.Debug("could not resolve home directory", "err", err)
		return paths
	}
	paths = append(paths,
		filepath.Join(home, ".config", "drop", "config"),
		filepath.Join(home, ".drop", "config"),
	)
	return paths
}

// Load builds a Config starting from Default, layering in any config files
// found on disk (ascending precedence) and finally DROP_-prefixed
// environment variables. Missing files are not errors.
func Load() (Config, error) {
	cfg := Default()

	for _, path := range searchPaths() {
		exists, err := fsutil.PathExists(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "stat config file %q", path)
		}
		if !exists {
			continue
		}
		if err := mergeFile(&cfg, path); err != nil {
			return cfg, errors.Wrapf(err, "load config file %q", path)
		}
		configLogger.Debug("merged config file", "path", path)
	}

	if err := mergeEnv(&cfg); err != nil {
		return cfg, errors.Wrap(err, "load config from environment")
	}

	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var onDisk Config
	if err := yaml.Unmarshal(data, &onDisk); err != nil {
		return err
	}
	applyIfSet(cfg, onDisk)
	return nil
}

// applyIfSet copies every field of onDisk that carries a non-zero value
// over cfg, leaving fields the file didn't mention untouched.
func applyIfSet(cfg *Config, onDisk Config) {
	if onDisk.Dir != "" {
		cfg.Dir = onDisk.Dir
	}
	if onDisk.HTTPAddr != "" {
		cfg.HTTPAddr = onDisk.HTTPAddr
	}
	if onDisk.HTTPPort != 0 {
		cfg.HTTPPort = onDisk.HTTPPort
	}
	if onDisk.TimeoutSeconds != 0 {
		cfg.TimeoutSeconds = onDisk.TimeoutSeconds
	}
}

func mergeEnv(cfg *Config) error {
	if v, ok := lookupEnv("dir"); ok {
		cfg.Dir = v
	}
	if v, ok := lookupEnv("http_addr"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := lookupEnv("http_port"); ok {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return errors.Wrapf(err, "parse %s%s", envPrefix, "HTTP_PORT")
		}
		cfg.HTTPPort = uint16(port)
	}
	if v, ok := lookupEnv("timeout"); ok {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s%s", envPrefix, "TIMEOUT")
		}
		cfg.TimeoutSeconds = seconds
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(envPrefix + strings.ToUpper(key))
}
