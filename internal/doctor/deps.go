package doctor

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/hop/internal/aws"
	"github.com/rileyhilliard/hop/internal/dispatch"
)

// BinaryCheck verifies a remote-login client is installed.
type BinaryCheck struct {
	Binary   string
	Required bool
	Probe    dispatch.Probe
}

func (c *BinaryCheck) Name() string { return c.Binary }

func (c *BinaryCheck) Run() CheckResult {
	result := CheckResult{Name: c.Name()}

	path, err := c.Probe.LookPath(c.Binary)
	if err == nil {
		result.Status = StatusPass
		result.Message = "found at " + path
		return result
	}

	if c.Required {
		result.Status = StatusFail
		result.Message = c.Binary + " not found in PATH"
		result.Suggestion = "Install the OpenSSH client"
	} else {
		result.Status = StatusWarn
		result.Message = c.Binary + " not found in PATH (optional)"
		result.Suggestion = "Install ec2-instance-connect-cli for session-manager access"
	}
	return result
}

// CredentialsCheck performs the one-time STS identity verification.
type CredentialsCheck struct {
	STS aws.STSAPI
}

func (c *CredentialsCheck) Name() string { return "aws credentials" }

func (c *CredentialsCheck) Run() CheckResult {
	result := CheckResult{Name: c.Name()}

	identity, err := aws.VerifyCredentials(context.Background(), c.STS)
	if err != nil {
		result.Status = StatusFail
		result.Message = "credential check failed"
		result.Suggestion = "Refresh your session ('aws sso login') or check AWS_PROFILE"
		return result
	}

	result.Status = StatusPass
	result.Message = identity.String()
	return result
}

// CacheDirCheck verifies the role cache directory can be written.
type CacheDirCheck struct {
	Dir string
}

func (c *CacheDirCheck) Name() string { return "cache directory" }

func (c *CacheDirCheck) Run() CheckResult {
	result := CheckResult{Name: c.Name()}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		result.Status = StatusFail
		result.Message = "cannot create " + c.Dir
		result.Suggestion = "Point cache_dir somewhere writable"
		return result
	}

	probe := filepath.Join(c.Dir, ".doctor-probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		result.Status = StatusFail
		result.Message = c.Dir + " is not writable"
		result.Suggestion = "Fix permissions or point cache_dir somewhere writable"
		return result
	}
	os.Remove(probe) //nolint:errcheck // Probe cleanup, error not actionable

	result.Status = StatusPass
	result.Message = c.Dir
	return result
}
