package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/hop/internal/errors"
	"gopkg.in/yaml.v3"
)

// fileSettings mirrors Settings with yaml tags for writing the config file.
// Kept separate so mapstructure and yaml field naming can't drift apart
// silently: TestWriteDefaultRoundTrips covers the pairing.
type fileSettings struct {
	Environment string `yaml:"environment"`
	Region      string `yaml:"region,omitempty"`
	CacheDir    string `yaml:"cache_dir"`
	SSHBinary   string `yaml:"ssh_binary,omitempty"`
}

const fileHeader = `# hop configuration
# environment: default Environment tag value for 'hop ec2'
# region:      AWS region override (empty uses the SDK default chain)
# cache_dir:   where per-environment role caches are written
# ssh_binary:  preferred remote-login client, 'ssh' or 'mssh' (empty auto-detects)
`

// WriteDefault writes a default config file to path. Refuses to overwrite
// an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if path == "" {
		return errors.New(errors.ErrConfig,
			"Cannot determine config file path",
			"Check that your home directory is set")
	}

	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			"Config file already exists: "+path,
			"Use --force to overwrite it")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory",
			"Check permissions on "+filepath.Dir(path))
	}

	defaults := fileSettings{
		Environment: DefaultEnvironment,
		CacheDir:    DefaultCacheDir(),
	}

	body, err := yaml.Marshal(defaults)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to render default config",
			"This shouldn't happen - please report this bug!")
	}

	data := append([]byte(fileHeader), body...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file "+path,
			"Check directory permissions")
	}
	return nil
}
