package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config selects where and how user data is stored.
type Config interface {
	BasePath() string
	Backend() string
	CacheSize() uint64
	LogLevel() string
}

const (
	defaultPath      = "~/.anchor"
	defaultCacheSize = 1024 * 1024 // 1MB
)

// LoadConfig reads .anchor.yaml from ANCHOR_CONFIG_PATH or the working
// directory, with ANCHOR_* environment variables taking precedence.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", defaultPath)
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("cache", defaultCacheSize)
	v.SetDefault("log.level", "warn")
	v.SetConfigName(".anchor") // .yaml is implicit
	v.SetEnvPrefix("ANCHOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("ANCHOR_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{
		Path:    path,
		Kind:    v.GetString("backend"),
		Cache:   uint64(v.GetInt64("cache")),
		Logging: v.GetString("log.level"),
	}, nil
}

type fileConfig struct {
	Path    string `json:"path"`
	Kind    string `json:"backend"`
	Cache   uint64 `json:"cache"`
	Logging string `json:"logLevel"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Backend() string {
	return f.Kind
}

func (f *fileConfig) CacheSize() uint64 {
	return f.Cache
}

func (f *fileConfig) LogLevel() string {
	return f.Logging
}
