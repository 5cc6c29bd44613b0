package cli

import (
	"context"

	"github.com/rileyhilliard/hop/internal/aws"
	"github.com/rileyhilliard/hop/internal/config"
	"github.com/rileyhilliard/hop/internal/dispatch"
	"github.com/rileyhilliard/hop/internal/errors"
	"github.com/rileyhilliard/hop/internal/logger"
	"github.com/rileyhilliard/hop/internal/resolve"
	"github.com/rileyhilliard/hop/internal/rolecache"
	"github.com/rileyhilliard/hop/internal/ui"
)

// pipelineDeps is everything a pipeline run needs beyond its own flags.
// Built once up front so dependency and credential problems surface
// before the first menu, not after the operator has picked three things.
type pipelineDeps struct {
	settings *config.Settings
	clients  *aws.Clients
	probe    dispatch.Probe
	session  *resolve.Session
}

// setupPipeline loads config, verifies the ssh client and AWS
// credentials, and builds a resolution session for env.
func setupPipeline(ctx context.Context, env string) (*pipelineDeps, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	if env == "" {
		env = settings.Environment
	}

	probe := dispatch.SystemProbe()
	if _, err := probe.LookPath("ssh"); err != nil {
		return nil, errors.New(errors.ErrDeps,
			"ssh client not found in PATH",
			"Install OpenSSH (usually the openssh-client package)")
	}

	clients, err := aws.NewClients(ctx, settings.Region)
	if err != nil {
		return nil, err
	}
	if _, err := aws.VerifyCredentials(ctx, clients.STS); err != nil {
		return nil, err
	}

	log := logger.Default()
	cache := rolecache.New(settings.CacheDir)
	cache.SetLogger(log)

	return &pipelineDeps{
		settings: settings,
		clients:  clients,
		probe:    probe,
		session: &resolve.Session{
			Env:      env,
			EC2:      clients.EC2,
			ECS:      clients.ECS,
			Selector: &ui.RowPicker{},
			Cache:    cache,
			Log:      log,
			Spin:     ui.Spin,
		},
	}, nil
}

// connect picks a client and hands the target off. explicit is a
// flag-forced client name, empty when the operator didn't insist.
func (p *pipelineDeps) connect(target *resolve.Target, explicit string, showOnly bool) error {
	kind, err := dispatch.Choose(explicit, p.settings.SSHBinary, p.probe)
	if err != nil {
		return err
	}
	return dispatch.NewDispatcher().Connect(*target, kind, showOnly)
}
