// Package config loads hop settings from the global config file,
// environment variables, and built-in defaults, in that precedence order
// (env beats file, file beats default).
package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/hop/internal/errors"
	"github.com/spf13/viper"
)

const (
	// GlobalConfigDir is the directory for global config, relative to $HOME.
	GlobalConfigDir = ".config/hop"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// DefaultEnvironment is used when no environment is configured or flagged.
	DefaultEnvironment = "prod"
	// DefaultCacheDirName is the role cache directory, relative to $HOME.
	DefaultCacheDirName = ".cache/hop"
)

// Settings holds the resolved configuration for a single invocation.
type Settings struct {
	// Environment is the default deployment environment tag value.
	Environment string `mapstructure:"environment"`
	// Region overrides the AWS region from the SDK's default chain.
	Region string `mapstructure:"region"`
	// CacheDir is where per-environment role cache files live.
	CacheDir string `mapstructure:"cache_dir"`
	// SSHBinary is the preferred remote-login client: "ssh" or "mssh".
	// Empty means auto-detect. Bound to the EC2_SSH_BINARY env var.
	SSHBinary string `mapstructure:"ssh_binary"`
}

// Path returns the global config file path, or empty if the home
// directory cannot be determined.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// DefaultCacheDir returns the default role cache directory.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultCacheDirName
	}
	return filepath.Join(home, DefaultCacheDirName)
}

// Load reads settings from the global config file (if present) and the
// environment. A missing config file is not an error; defaults apply.
func Load() (*Settings, error) {
	return LoadFrom(Path())
}

// LoadFrom reads settings from an explicit config file path.
// An empty path or a missing file yields defaults plus environment overrides.
func LoadFrom(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("environment", DefaultEnvironment)
	v.SetDefault("cache_dir", DefaultCacheDir())
	v.SetDefault("region", "")
	v.SetDefault("ssh_binary", "")

	// EC2_SSH_BINARY is the legacy override knob and keeps working as-is.
	if err := v.BindEnv("ssh_binary", "EC2_SSH_BINARY"); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to bind EC2_SSH_BINARY",
			"This shouldn't happen - please report this bug!")
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Failed to read config file "+path,
					"Check the file is valid YAML, or run 'hop init --force' to regenerate it")
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to parse config file "+path,
			"Check the field types, or run 'hop init --force' to regenerate it")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks field values that have a closed set of accepted inputs.
func (s *Settings) Validate() error {
	switch s.SSHBinary {
	case "", "ssh", "mssh":
	default:
		return errors.New(errors.ErrConfig,
			"Invalid ssh_binary value: "+s.SSHBinary,
			"Accepted values are 'ssh' or 'mssh' (set in config or EC2_SSH_BINARY)")
	}
	if s.Environment == "" {
		return errors.New(errors.ErrConfig,
			"Environment cannot be empty",
			"Set 'environment' in the config file or pass --env")
	}
	return nil
}
