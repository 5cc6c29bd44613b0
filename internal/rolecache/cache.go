// Package rolecache persists the per-environment role list to disk so
// repeat invocations skip the provider round-trip. One flat file per
// environment, one role per line, rewritten wholesale. Nothing expires
// it; the operator deletes the file to force a refresh.
//
// Concurrent invocations for the same environment can race on the file.
// The write is a plain create+truncate, so the worst case is a redundant
// query or a torn read of a partial list. Accepted: runs are short,
// interactive, and human-supervised.
package rolecache

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/hop/internal/errors"
	"github.com/rileyhilliard/hop/internal/logger"
)

// fileSuffix is appended to the environment name to form the cache file name.
const fileSuffix = ".roles"

// Cache reads and writes role lists under a fixed directory.
type Cache struct {
	dir string
	log logger.Logger
}

// New creates a cache rooted at dir.
func New(dir string) *Cache {
	return &Cache{dir: dir, log: logger.NewEnvLogger("[rolecache]")}
}

// SetLogger replaces the cache's logger. Useful for tests.
func (c *Cache) SetLogger(l logger.Logger) {
	c.log = l
}

// Path returns the cache file path for an environment.
func (c *Cache) Path(env string) string {
	return filepath.Join(c.dir, env+fileSuffix)
}

// Load reads the cached roles for an environment. ok is false when no
// cache file exists. An existing file always counts as a hit, even when
// empty: an environment with no roles caches that fact too.
func (c *Cache) Load(env string) (roles []string, ok bool, err error) {
	data, err := os.ReadFile(c.Path(env))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read role cache for "+env,
			"Check permissions on "+c.Path(env))
	}

	roles = []string{}
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			roles = append(roles, line)
		}
	}
	return roles, true, nil
}

// Save writes the role list for an environment, replacing any previous
// file. An empty list writes an empty file.
func (c *Cache) Save(env string, roles []string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create cache directory "+c.dir,
			"Check permissions, or point cache_dir somewhere writable")
	}

	var b strings.Builder
	for _, role := range roles {
		b.WriteString(role)
		b.WriteString("\n")
	}

	if err := os.WriteFile(c.Path(env), []byte(b.String()), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write role cache for "+env,
			"Check permissions on "+c.dir)
	}
	return nil
}

// GetOrFetch returns the cached roles for an environment, calling fetch
// and writing the result only on a miss. fetch is expected to return an
// already sorted, deduplicated list; it is written verbatim.
func (c *Cache) GetOrFetch(env string, fetch func() ([]string, error)) ([]string, error) {
	if roles, ok, err := c.Load(env); err != nil {
		return nil, err
	} else if ok {
		c.log.Debug("cache hit for %s (%d roles)", env, len(roles))
		return roles, nil
	}

	c.log.Debug("cache miss for %s, querying provider", env)
	roles, err := fetch()
	if err != nil {
		return nil, err
	}

	if err := c.Save(env, roles); err != nil {
		return nil, err
	}
	return roles, nil
}
