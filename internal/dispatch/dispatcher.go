package dispatch

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/kevinburke/ssh_config"

	"github.com/rileyhilliard/hop/internal/errors"
	"github.com/rileyhilliard/hop/internal/logger"
)

// Target is a fully resolved connection endpoint.
type Target struct {
	// Address is the instance's private IP.
	Address string
	// User is the login account. Empty means "let the client decide"
	// (ssh falls back to ssh_config / the local user).
	User string
	// InstanceID is the EC2 instance ID, required for mssh.
	InstanceID string
}

// Runner executes a command interactively with the operator's terminal
// attached. Substituted in tests to capture the handoff without spawning
// anything.
type Runner interface {
	Run(name string, args ...string) error
}

// execRunner spawns the client with the process's stdio.
type execRunner struct{}

func (execRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Dispatcher formats and executes the remote-login handoff.
type Dispatcher struct {
	Probe  Probe
	Runner Runner
	Out    io.Writer
	Log    logger.Logger

	// LookupUser resolves a login account from the operator's ssh config
	// when the pipeline didn't infer one. Defaults to ~/.ssh/config.
	LookupUser func(host string) string
}

// NewDispatcher creates a dispatcher wired to the real system.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		Probe:      SystemProbe(),
		Runner:     execRunner{},
		Out:        os.Stdout,
		Log:        logger.NewEnvLogger("[dispatch]"),
		LookupUser: sshConfigUser,
	}
}

// Connect prints the resolved endpoint and, unless showOnly is set, execs
// the chosen client interactively. The client owns everything from here:
// keys, host verification, the session itself.
func (d *Dispatcher) Connect(target Target, kind ClientKind, showOnly bool) error {
	fmt.Fprintf(d.Out, "Host: %s\n", target.Address)

	if showOnly {
		if target.User != "" {
			fmt.Fprintf(d.Out, "User: %s\n", target.User)
		}
		return nil
	}

	name, args, err := d.command(target, kind)
	if err != nil {
		return err
	}

	if _, err := d.Probe.LookPath(name); err != nil {
		return errors.WrapWithCode(err, errors.ErrDeps,
			name+" is not installed",
			installHint(kind))
	}

	d.Log.Debug("exec %s %v", name, args)
	if err := d.Runner.Run(name, args...); err != nil {
		// A non-zero remote exit isn't hop's failure to report, but a
		// client that couldn't start is.
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrDispatch,
			"Failed to start "+name,
			"Check the client works on its own: "+name+" <target>")
	}
	return nil
}

// command builds the argv for the chosen client.
func (d *Dispatcher) command(target Target, kind ClientKind) (string, []string, error) {
	switch kind {
	case ClientMSSH:
		if target.InstanceID == "" {
			return "", nil, errors.New(errors.ErrDispatch,
				"mssh needs an instance ID, and none was resolved",
				"Use the standard ssh client for this target")
		}
		dest := target.InstanceID
		if target.User != "" {
			dest = target.User + "@" + dest
		}
		return binaryMSSH, []string{dest}, nil

	default:
		user := target.User
		if user == "" && d.LookupUser != nil {
			user = d.LookupUser(target.Address)
		}
		args := []string{}
		if user != "" {
			args = append(args, "-l", user)
		}
		args = append(args, target.Address)
		return binarySSH, args, nil
	}
}

func installHint(kind ClientKind) string {
	if kind == ClientMSSH {
		return "Install ec2-instance-connect-cli (pip install ec2instanceconnectcli), or use --ssh"
	}
	return "Install the OpenSSH client"
}

// sshConfigUser reads the User directive for a host from the operator's
// ssh config. ssh_config.Get already handles missing files and returns
// "" when no Host block matches, so there is nothing to error on.
func sshConfigUser(host string) string {
	user, err := ssh_config.GetStrict(host, "User")
	if err != nil {
		return ""
	}
	return user
}
