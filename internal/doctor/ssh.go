package doctor

import (
	"os"
	"path/filepath"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"

	"github.com/rileyhilliard/hop/internal/util"
)

// SSHKeyCheck looks for a parseable public key in the operator's ssh
// directory. ssh may still work via an agent, so absence is a warning.
type SSHKeyCheck struct {
	// Dir is the ssh directory; empty means ~/.ssh.
	Dir string
}

func (c *SSHKeyCheck) Name() string { return "ssh key" }

func (c *SSHKeyCheck) Run() CheckResult {
	result := CheckResult{Name: c.Name()}

	dir := c.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			result.Status = StatusWarn
			result.Message = "cannot locate home directory"
			return result
		}
		dir = filepath.Join(home, ".ssh")
	}

	pubs, _ := filepath.Glob(filepath.Join(dir, "*.pub"))
	for _, pub := range pubs {
		data, err := os.ReadFile(pub)
		if err != nil {
			continue
		}
		if _, _, _, _, err := ssh.ParseAuthorizedKey(data); err == nil {
			result.Status = StatusPass
			result.Message = filepath.Base(pub)
			return result
		}
	}

	result.Status = StatusWarn
	result.Message = "no parseable public key in " + dir
	result.Suggestion = "Generate one with ssh-keygen, or rely on an ssh agent"
	return result
}

// SSHConfigCheck parses the operator's ssh config. A broken config makes
// every ssh handoff fail in confusing ways, so it's worth surfacing here.
type SSHConfigCheck struct {
	// Path is the config file; empty means ~/.ssh/config.
	Path string
}

func (c *SSHConfigCheck) Name() string { return "ssh config" }

func (c *SSHConfigCheck) Run() CheckResult {
	result := CheckResult{Name: c.Name()}

	path := c.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			result.Status = StatusWarn
			result.Message = "cannot locate home directory"
			return result
		}
		path = filepath.Join(home, ".ssh", "config")
	}

	f, err := os.Open(path)
	if err != nil {
		result.Status = StatusPass
		result.Message = "no ssh config (defaults apply)"
		return result
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		result.Status = StatusWarn
		result.Message = "failed to parse " + path
		result.Suggestion = "Fix the syntax error; ssh itself will reject this file too"
		return result
	}

	result.Status = StatusPass
	result.Message = path + " (" + util.JoinOrDefault(patterns(cfg), "no hosts") + ")"
	return result
}

// patterns collects the host patterns defined in an ssh config.
func patterns(cfg *ssh_config.Config) []string {
	var out []string
	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			if s := pattern.String(); s != "*" {
				out = append(out, s)
			}
		}
	}
	return out
}
