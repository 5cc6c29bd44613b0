package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awstesting "github.com/rileyhilliard/hop/internal/aws/testing"
)

type fakeProbe struct {
	installed map[string]bool
}

func (p fakeProbe) LookPath(name string) (string, error) {
	if p.installed[name] {
		return "/usr/bin/" + name, nil
	}
	return "", fmt.Errorf("not found")
}

func TestBinaryCheckFound(t *testing.T) {
	check := &BinaryCheck{Binary: "ssh", Required: true, Probe: fakeProbe{installed: map[string]bool{"ssh": true}}}

	result := check.Run()
	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "/usr/bin/ssh")
}

func TestBinaryCheckRequiredMissing(t *testing.T) {
	check := &BinaryCheck{Binary: "ssh", Required: true, Probe: fakeProbe{}}

	result := check.Run()
	assert.Equal(t, StatusFail, result.Status)
	assert.NotEmpty(t, result.Suggestion)
}

func TestBinaryCheckOptionalMissing(t *testing.T) {
	check := &BinaryCheck{Binary: "mssh", Required: false, Probe: fakeProbe{}}

	result := check.Run()
	assert.Equal(t, StatusWarn, result.Status)
}

func TestCredentialsCheck(t *testing.T) {
	check := &CredentialsCheck{STS: &awstesting.FakeSTS{
		Account: "123456789012",
		ARN:     "arn:aws:iam::123456789012:user/operator",
	}}

	result := check.Run()
	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "123456789012")
}

func TestCredentialsCheckFailure(t *testing.T) {
	check := &CredentialsCheck{STS: &awstesting.FakeSTS{Err: fmt.Errorf("no credentials")}}

	result := check.Run()
	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Suggestion, "aws sso login")
}

func TestCacheDirCheck(t *testing.T) {
	check := &CacheDirCheck{Dir: filepath.Join(t.TempDir(), "hop")}

	result := check.Run()
	assert.Equal(t, StatusPass, result.Status)
}

func TestSSHKeyCheckFindsKey(t *testing.T) {
	dir := t.TempDir()
	// A real-format ed25519 public key.
	key := "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIGJq0Y0hDLYDo6Pn0rXVLr3heRSMDIXgPV1FIKBsBBBB operator@laptop\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id_ed25519.pub"), []byte(key), 0o644))

	check := &SSHKeyCheck{Dir: dir}
	result := check.Run()
	assert.Equal(t, StatusPass, result.Status)
	assert.Equal(t, "id_ed25519.pub", result.Message)
}

func TestSSHKeyCheckNoKeys(t *testing.T) {
	check := &SSHKeyCheck{Dir: t.TempDir()}

	result := check.Run()
	assert.Equal(t, StatusWarn, result.Status)
}

func TestSSHKeyCheckIgnoresGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pub"), []byte("not a key"), 0o644))

	check := &SSHKeyCheck{Dir: dir}
	result := check.Run()
	assert.Equal(t, StatusWarn, result.Status)
}

func TestSSHConfigCheckMissingFileIsFine(t *testing.T) {
	check := &SSHConfigCheck{Path: filepath.Join(t.TempDir(), "config")}

	result := check.Run()
	assert.Equal(t, StatusPass, result.Status)
}

func TestSSHConfigCheckParsesHosts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	content := `
Host bastion
  HostName 10.0.0.1
  User deploy

Host worker-*
  User ec2-user
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	check := &SSHConfigCheck{Path: path}
	result := check.Run()
	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "bastion")
	assert.Contains(t, result.Message, "worker-*")
}

func TestRunAllAndAnyFailed(t *testing.T) {
	checks := []Check{
		&BinaryCheck{Binary: "ssh", Required: true, Probe: fakeProbe{installed: map[string]bool{"ssh": true}}},
		&BinaryCheck{Binary: "mssh", Required: false, Probe: fakeProbe{}},
	}

	results := RunAll(checks)
	require.Len(t, results, 2)
	assert.False(t, AnyFailed(results), "warnings are not failures")

	checks = append(checks, &BinaryCheck{Binary: "ssh", Required: true, Probe: fakeProbe{}})
	assert.True(t, AnyFailed(RunAll(checks)))
}

func TestStaticCheckReportsPrebuiltResult(t *testing.T) {
	check := &StaticCheck{Result: CheckResult{
		Name:    "aws credentials",
		Status:  StatusFail,
		Message: "failed to load AWS configuration",
	}}

	assert.Equal(t, "aws credentials", check.Name())

	results := RunAll([]Check{check})
	require.Len(t, results, 1)
	assert.Equal(t, StatusFail, results[0].Status)
	assert.True(t, AnyFailed(results))
}

func TestCheckStatusString(t *testing.T) {
	assert.Equal(t, "pass", StatusPass.String())
	assert.Equal(t, "warn", StatusWarn.String())
	assert.Equal(t, "fail", StatusFail.String())
}
