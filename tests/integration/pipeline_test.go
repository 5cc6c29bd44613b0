package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awstesting "github.com/rileyhilliard/hop/internal/aws/testing"
	"github.com/rileyhilliard/hop/internal/dispatch"
	"github.com/rileyhilliard/hop/internal/errors"
	"github.com/rileyhilliard/hop/internal/logger"
	pickertesting "github.com/rileyhilliard/hop/internal/picker/testing"
	"github.com/rileyhilliard/hop/internal/resolve"
	"github.com/rileyhilliard/hop/internal/rolecache"
)

// =============================================================================
// Headless dispatch doubles
// =============================================================================

// recordRunner captures the client handoff instead of spawning one.
type recordRunner struct {
	name string
	args []string
	runs int
}

func (r *recordRunner) Run(name string, args ...string) error {
	r.name = name
	r.args = args
	r.runs++
	return nil
}

// probeWith resolves only the named binaries.
type probeWith []string

func (p probeWith) LookPath(name string) (string, error) {
	for _, b := range p {
		if b == name {
			return "/usr/bin/" + name, nil
		}
	}
	return "", fmt.Errorf("%s: executable file not found in $PATH", name)
}

func newDispatcher(runner *recordRunner, probe dispatch.Probe, out *bytes.Buffer) *dispatch.Dispatcher {
	return &dispatch.Dispatcher{
		Probe:      probe,
		Runner:     runner,
		Out:        out,
		Log:        logger.Noop(),
		LookupUser: func(string) string { return "" },
	}
}

// =============================================================================
// EC2 pipeline: role menu -> instance menu -> ssh handoff
// =============================================================================

func TestEC2PipelineEndToEnd(t *testing.T) {
	ec2Fake := &awstesting.FakeEC2{
		Instances: []ec2types.Instance{
			awstesting.NewInstance("i-web1", "web-1", "prod", "web", "10.0.0.1", "ami-1"),
			awstesting.NewInstance("i-web2", "web-2", "prod", "web", "10.0.0.2", "ami-1"),
			awstesting.NewInstance("i-db1", "db-1", "prod", "db", "10.0.0.3", "ami-2"),
		},
	}
	selector := pickertesting.NewFakeSelector().
		Choose(resolve.PromptRole, "web").
		ChooseIndex(resolve.PromptInstance, 1)
	cacheDir := t.TempDir()

	session := &resolve.Session{
		Env:      "prod",
		EC2:      ec2Fake,
		Selector: selector,
		Cache:    rolecache.New(cacheDir),
		Log:      logger.Noop(),
	}

	target, ok, err := session.EC2Target(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.2", target.Address)
	assert.Equal(t, "i-web2", target.InstanceID)
	assert.Empty(t, target.User)

	// The role list got cached for next time.
	data, err := os.ReadFile(filepath.Join(cacheDir, "prod.roles"))
	require.NoError(t, err)
	assert.Equal(t, "db\nweb\n", string(data))

	// Hand off to ssh: mssh missing, so auto-detect falls back.
	runner := &recordRunner{}
	var out bytes.Buffer
	kind, err := dispatch.Choose("", "", probeWith{"ssh"})
	require.NoError(t, err)
	require.Equal(t, dispatch.ClientSSH, kind)

	err = newDispatcher(runner, probeWith{"ssh"}, &out).Connect(*target, kind, false)
	require.NoError(t, err)
	assert.Equal(t, "ssh", runner.name)
	assert.Equal(t, []string{"10.0.0.2"}, runner.args)
	assert.Contains(t, out.String(), "Host: 10.0.0.2\n")
}

func TestEC2PipelineShowOnlySkipsDispatch(t *testing.T) {
	ec2Fake := &awstesting.FakeEC2{
		Instances: []ec2types.Instance{
			awstesting.NewInstance("i-web1", "web-1", "prod", "web", "10.0.0.1", "ami-1"),
		},
	}
	selector := pickertesting.NewFakeSelector().
		Choose(resolve.PromptRole, "web").
		ChooseIndex(resolve.PromptInstance, 0)

	session := &resolve.Session{
		Env:      "prod",
		EC2:      ec2Fake,
		Selector: selector,
		Cache:    rolecache.New(t.TempDir()),
		Log:      logger.Noop(),
	}

	target, ok, err := session.EC2Target(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	runner := &recordRunner{}
	var out bytes.Buffer
	err = newDispatcher(runner, probeWith{"ssh"}, &out).Connect(*target, dispatch.ClientSSH, true)
	require.NoError(t, err)
	assert.Zero(t, runner.runs)
	assert.Contains(t, out.String(), "Host: 10.0.0.1\n")
}

func TestEC2PipelineCancelDispatchesNothing(t *testing.T) {
	ec2Fake := &awstesting.FakeEC2{
		Instances: []ec2types.Instance{
			awstesting.NewInstance("i-web1", "web-1", "prod", "web", "10.0.0.1", "ami-1"),
		},
	}
	selector := pickertesting.NewFakeSelector().Cancel(resolve.PromptRole)

	session := &resolve.Session{
		Env:      "prod",
		EC2:      ec2Fake,
		Selector: selector,
		Cache:    rolecache.New(t.TempDir()),
		Log:      logger.Noop(),
	}

	target, ok, err := session.EC2Target(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, target)
}

func TestEC2PipelineSecondRunHitsCache(t *testing.T) {
	ec2Fake := &awstesting.FakeEC2{
		Instances: []ec2types.Instance{
			awstesting.NewInstance("i-web1", "web-1", "prod", "web", "10.0.0.1", "ami-1"),
		},
	}
	cacheDir := t.TempDir()

	run := func() {
		selector := pickertesting.NewFakeSelector().
			Choose(resolve.PromptRole, "web").
			ChooseIndex(resolve.PromptInstance, 0)
		session := &resolve.Session{
			Env:      "prod",
			EC2:      ec2Fake,
			Selector: selector,
			Cache:    rolecache.New(cacheDir),
			Log:      logger.Noop(),
		}
		_, ok, err := session.EC2Target(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
	}

	run()
	callsAfterFirst := ec2Fake.DescribeInstancesCalls
	run()

	// The second run only queried for the chosen role's instances, not
	// for the role enumeration.
	assert.Equal(t, callsAfterFirst+1, ec2Fake.DescribeInstancesCalls)
}

// =============================================================================
// ECS pipeline: cluster -> service -> task -> host join -> mssh handoff
// =============================================================================

func newECSFixtures() (*awstesting.FakeECS, *awstesting.FakeEC2) {
	const (
		clusterARN = "arn:aws:ecs:us-east-1:123456789012:cluster/prod-main"
		serviceARN = "arn:aws:ecs:us-east-1:123456789012:service/prod-main/checkout"
		taskARN    = "arn:aws:ecs:us-east-1:123456789012:task/prod-main/abc123def4567890"
		ciARN      = "arn:aws:ecs:us-east-1:123456789012:container-instance/prod-main/ci-1"
	)

	ecsFake := &awstesting.FakeECS{
		ClusterARNs: []string{clusterARN},
		Services:    map[string][]string{clusterARN: {serviceARN}},
		Tasks: []awstesting.FakeTask{
			{
				Task: ecstypes.Task{
					TaskArn:              awssdk.String(taskARN),
					LastStatus:           awssdk.String("RUNNING"),
					StartedAt:            awssdk.Time(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
					ContainerInstanceArn: awssdk.String(ciARN),
				},
				ClusterARN:    clusterARN,
				ServiceName:   "checkout",
				DesiredStatus: "RUNNING",
			},
		},
		ContainerInstances: map[string]string{ciARN: "i-ecshost"},
	}
	ec2Fake := &awstesting.FakeEC2{
		Instances: []ec2types.Instance{
			awstesting.NewInstance("i-ecshost", "ecs-host-1", "prod", "ecs", "10.0.8.8", "ami-ubuntu"),
		},
		Images: []ec2types.Image{
			{ImageId: awssdk.String("ami-ubuntu"), Name: awssdk.String("ubuntu-jammy-ecs-optimized")},
		},
	}
	return ecsFake, ec2Fake
}

func TestECSPipelineEndToEnd(t *testing.T) {
	ecsFake, ec2Fake := newECSFixtures()
	selector := pickertesting.NewFakeSelector().
		ChooseIndex(resolve.PromptCluster, 0).
		ChooseIndex(resolve.PromptService, 0).
		ChooseIndex(resolve.PromptTask, 0)

	session := &resolve.Session{
		EC2:      ec2Fake,
		ECS:      ecsFake,
		Selector: selector,
		Log:      logger.Noop(),
	}

	target, ok, err := session.ECSTarget(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10.0.8.8", target.Address)
	assert.Equal(t, "i-ecshost", target.InstanceID)
	assert.Equal(t, "ubuntu", target.User)

	// mssh installed: auto-detect picks it and addresses by instance ID.
	probe := probeWith{"ssh", "mssh"}
	kind, err := dispatch.Choose("", "", probe)
	require.NoError(t, err)
	require.Equal(t, dispatch.ClientMSSH, kind)

	runner := &recordRunner{}
	var out bytes.Buffer
	err = newDispatcher(runner, probe, &out).Connect(*target, kind, false)
	require.NoError(t, err)
	assert.Equal(t, "mssh", runner.name)
	assert.Equal(t, []string{"ubuntu@i-ecshost"}, runner.args)
	assert.Contains(t, out.String(), "Host: 10.0.8.8\n")
}

func TestECSPipelineExplicitSSHBeatsInstalledMSSH(t *testing.T) {
	ecsFake, ec2Fake := newECSFixtures()
	selector := pickertesting.NewFakeSelector().
		ChooseIndex(resolve.PromptCluster, 0).
		ChooseIndex(resolve.PromptService, 0).
		ChooseIndex(resolve.PromptTask, 0)

	session := &resolve.Session{
		EC2:      ec2Fake,
		ECS:      ecsFake,
		Selector: selector,
		Log:      logger.Noop(),
	}

	target, ok, err := session.ECSTarget(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	probe := probeWith{"ssh", "mssh"}
	kind, err := dispatch.Choose("ssh", "mssh", probe)
	require.NoError(t, err)
	require.Equal(t, dispatch.ClientSSH, kind)

	runner := &recordRunner{}
	var out bytes.Buffer
	err = newDispatcher(runner, probe, &out).Connect(*target, kind, false)
	require.NoError(t, err)
	assert.Equal(t, "ssh", runner.name)
	assert.Equal(t, []string{"-l", "ubuntu", "10.0.8.8"}, runner.args)
}

func TestECSPipelineJustShowPrintsUser(t *testing.T) {
	ecsFake, ec2Fake := newECSFixtures()
	selector := pickertesting.NewFakeSelector().
		ChooseIndex(resolve.PromptCluster, 0).
		ChooseIndex(resolve.PromptService, 0).
		ChooseIndex(resolve.PromptTask, 0)

	session := &resolve.Session{
		EC2:      ec2Fake,
		ECS:      ecsFake,
		Selector: selector,
		Log:      logger.Noop(),
	}

	target, ok, err := session.ECSTarget(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	runner := &recordRunner{}
	var out bytes.Buffer
	err = newDispatcher(runner, probeWith{"ssh"}, &out).Connect(*target, dispatch.ClientSSH, true)
	require.NoError(t, err)
	assert.Zero(t, runner.runs)
	assert.Contains(t, out.String(), "Host: 10.0.8.8\n")
	assert.Contains(t, out.String(), "User: ubuntu\n")
}

func TestECSPipelineNoClustersEndsQuietly(t *testing.T) {
	session := &resolve.Session{
		EC2:      &awstesting.FakeEC2{},
		ECS:      &awstesting.FakeECS{},
		Selector: pickertesting.NewFakeSelector(),
		Log:      logger.Noop(),
	}

	target, ok, err := session.ECSTarget(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, target)
}

func TestECSPipelineMSSHWithoutBinaryFails(t *testing.T) {
	ecsFake, ec2Fake := newECSFixtures()
	selector := pickertesting.NewFakeSelector().
		ChooseIndex(resolve.PromptCluster, 0).
		ChooseIndex(resolve.PromptService, 0).
		ChooseIndex(resolve.PromptTask, 0)

	session := &resolve.Session{
		EC2:      ec2Fake,
		ECS:      ecsFake,
		Selector: selector,
		Log:      logger.Noop(),
	}

	target, ok, err := session.ECSTarget(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	runner := &recordRunner{}
	var out bytes.Buffer
	err = newDispatcher(runner, probeWith{"ssh"}, &out).Connect(*target, dispatch.ClientMSSH, false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDeps))
	assert.Zero(t, runner.runs)
}
