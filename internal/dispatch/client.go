// Package dispatch hands a resolved target off to a remote-login client.
// It never speaks the remote protocol itself: host keys, agents, and
// session-manager plumbing all belong to the client binary it execs.
package dispatch

import (
	"os/exec"

	"github.com/rileyhilliard/hop/internal/errors"
)

// ClientKind identifies which remote-login client to use.
type ClientKind int

const (
	// ClientSSH is the standard OpenSSH client.
	ClientSSH ClientKind = iota
	// ClientMSSH is the EC2 Instance Connect client, which reaches
	// instances through the session-manager path by instance ID.
	ClientMSSH
)

// Binary names for each client kind.
const (
	binarySSH  = "ssh"
	binaryMSSH = "mssh"
)

// String returns the client's binary name.
func (k ClientKind) String() string {
	if k == ClientMSSH {
		return binaryMSSH
	}
	return binarySSH
}

// ParseClientKind maps a user-supplied name to a ClientKind.
func ParseClientKind(name string) (ClientKind, error) {
	switch name {
	case binarySSH:
		return ClientSSH, nil
	case binaryMSSH:
		return ClientMSSH, nil
	default:
		return ClientSSH, errors.New(errors.ErrConfig,
			"Unknown remote-login client: "+name,
			"Accepted values are 'ssh' or 'mssh'")
	}
}

// Probe checks the local system for installed binaries. Resolved once per
// invocation; tests substitute a fake to pin the outcome.
type Probe interface {
	// LookPath reports the path of a binary if installed.
	LookPath(name string) (string, error)
}

// systemProbe consults the real PATH.
type systemProbe struct{}

func (systemProbe) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// SystemProbe returns a Probe backed by the process PATH.
func SystemProbe() Probe {
	return systemProbe{}
}

// Choose picks the remote-login client. Priority, strictly in order:
//
//  1. explicit per-invocation flag ("ssh" or "mssh")
//  2. configured preference (config file or EC2_SSH_BINARY)
//  3. mssh, when installed
//  4. ssh
func Choose(explicit, preferred string, probe Probe) (ClientKind, error) {
	if explicit != "" {
		return ParseClientKind(explicit)
	}
	if preferred != "" {
		return ParseClientKind(preferred)
	}
	if _, err := probe.LookPath(binaryMSSH); err == nil {
		return ClientMSSH, nil
	}
	return ClientSSH, nil
}
