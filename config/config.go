// Package config loads splice settings from a YAML file, SPLICE_*
// environment variables and built-in defaults, in increasing order of
// precedence: defaults, file, environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/dhamidi/splice/merge"
)

var (
	ErrInvalidJobs    = errors.New("batch jobs must be positive")
	ErrInvalidPattern = errors.New("batch pattern must not be empty")
)

const (
	// FileName is the config file looked up in the working directory and
	// the home directory when no explicit path is given.
	FileName  = ".splice"
	EnvPrefix = "SPLICE"

	DefaultPattern = "*.java"
)

type Config struct {
	Merge merge.Policy `mapstructure:"merge"`
	Log   LogConfig    `mapstructure:"log"`
	Batch BatchConfig  `mapstructure:"batch"`
}

type LogConfig struct {
	// Verbosity is handed to commonlog.Configure.
	Verbosity int    `mapstructure:"verbosity"`
	Path      string `mapstructure:"path"`
}

type BatchConfig struct {
	Jobs    int    `mapstructure:"jobs"`
	Out     string `mapstructure:"out"`
	Pattern string `mapstructure:"pattern"`
}

// Load reads the config file at path, or searches for .splice.yaml when
// path is empty. A missing file in the search locations is not an error;
// a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration Load produces with no file and no
// environment.
func Default() *Config {
	d := merge.DefaultPolicy()
	return &Config{
		Merge: d,
		Batch: BatchConfig{Jobs: runtime.NumCPU(), Pattern: DefaultPattern},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("merge.imports", string(d.Merge.Imports))
	v.SetDefault("merge.modifiers", string(d.Merge.Modifiers))
	v.SetDefault("merge.parameters", string(d.Merge.Parameters))

	v.SetDefault("log.verbosity", d.Log.Verbosity)
	v.SetDefault("log.path", d.Log.Path)

	v.SetDefault("batch.jobs", d.Batch.Jobs)
	v.SetDefault("batch.out", d.Batch.Out)
	v.SetDefault("batch.pattern", d.Batch.Pattern)
}

func (c *Config) Validate() error {
	if err := c.Merge.Validate(); err != nil {
		return err
	}
	if c.Batch.Jobs <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidJobs, c.Batch.Jobs)
	}
	if c.Batch.Pattern == "" {
		return ErrInvalidPattern
	}
	return nil
}

// LogPath is the commonlog output path, nil meaning stderr.
func (c *Config) LogPath() *string {
	if c.Log.Path == "" {
		return nil
	}
	return &c.Log.Path
}
