package inventory

import (
	"context"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awstesting "github.com/rileyhilliard/hop/internal/aws/testing"
)

const (
	clusterARN = "arn:aws:ecs:us-east-1:123456789012:cluster/prod-main"
	ciARN      = "arn:aws:ecs:us-east-1:123456789012:container-instance/prod-main/ci-1"
)

func taskFixture(id, service, status string, ts time.Time, containerInstance string) awstesting.FakeTask {
	arn := "arn:aws:ecs:us-east-1:123456789012:task/prod-main/" + id

	task := ecstypes.Task{
		TaskArn:    awssdk.String(arn),
		LastStatus: awssdk.String(status),
	}
	if status == "STOPPED" {
		task.StoppedAt = awssdk.Time(ts)
	} else {
		task.StartedAt = awssdk.Time(ts)
	}
	if containerInstance != "" {
		task.ContainerInstanceArn = awssdk.String(containerInstance)
	}

	return awstesting.FakeTask{
		Task:          task,
		ClusterARN:    clusterARN,
		ServiceName:   service,
		DesiredStatus: status,
	}
}

func TestListClustersShortensNames(t *testing.T) {
	fake := &awstesting.FakeECS{
		ClusterARNs: []string{
			clusterARN,
			"arn:aws:ecs:us-east-1:123456789012:cluster/prod-batch",
		},
	}

	clusters, err := ListClusters(context.Background(), fake)
	require.NoError(t, err)

	require.Len(t, clusters, 2)
	assert.Equal(t, "prod-main", clusters[0].Name)
	assert.Equal(t, clusterARN, clusters[0].ARN)
	assert.Equal(t, "prod-batch", clusters[1].Name)
}

func TestListServices(t *testing.T) {
	fake := &awstesting.FakeECS{
		Services: map[string][]string{
			clusterARN: {
				"arn:aws:ecs:us-east-1:123456789012:service/prod-main/checkout",
				"arn:aws:ecs:us-east-1:123456789012:service/prod-main/search",
			},
		},
	}

	services, err := ListServices(context.Background(), fake, clusterARN)
	require.NoError(t, err)

	require.Len(t, services, 2)
	assert.Equal(t, "checkout", services[0].Name)
	assert.Equal(t, "search", services[1].Name)
}

func TestListTasksMergesAndSortsDescending(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	fake := &awstesting.FakeECS{
		Tasks: []awstesting.FakeTask{
			taskFixture("aaa111", "checkout", "RUNNING", base.Add(-2*time.Hour), ciARN),
			taskFixture("bbb222", "checkout", "STOPPED", base.Add(-1*time.Hour), ""),
			taskFixture("ccc333", "checkout", "RUNNING", base, ciARN),
			taskFixture("ddd444", "checkout", "STOPPED", base.Add(-3*time.Hour), ""),
		},
	}

	tasks, err := ListTasks(context.Background(), fake, clusterARN, "checkout")
	require.NoError(t, err)

	require.Len(t, tasks, 4)
	// Newest first, regardless of which status list a task came from.
	assert.Equal(t, "ccc333", tasks[0].ID)
	assert.Equal(t, "bbb222", tasks[1].ID)
	assert.Equal(t, "aaa111", tasks[2].ID)
	assert.Equal(t, "ddd444", tasks[3].ID)

	assert.Equal(t, "RUNNING", tasks[0].Status)
	assert.Equal(t, "STOPPED", tasks[1].Status)
}

func TestListTasksStoppedFirstWhenNewest(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	fake := &awstesting.FakeECS{
		Tasks: []awstesting.FakeTask{
			taskFixture("run111", "search", "RUNNING", base.Add(-time.Minute), ciARN),
			taskFixture("stop22", "search", "STOPPED", base, ""),
		},
	}

	tasks, err := ListTasks(context.Background(), fake, clusterARN, "search")
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	assert.Equal(t, "stop22", tasks[0].ID)
	assert.Equal(t, "STOPPED", tasks[0].Status)
}

func TestListTasksFiltersByService(t *testing.T) {
	base := time.Now()

	fake := &awstesting.FakeECS{
		Tasks: []awstesting.FakeTask{
			taskFixture("aaa111", "checkout", "RUNNING", base, ciARN),
			taskFixture("bbb222", "search", "RUNNING", base, ciARN),
		},
	}

	tasks, err := ListTasks(context.Background(), fake, clusterARN, "search")
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	assert.Equal(t, "bbb222", tasks[0].ID)
}

func TestResolveTaskHost(t *testing.T) {
	ecsFake := &awstesting.FakeECS{
		ContainerInstances: map[string]string{ciARN: "i-host1"},
	}
	ec2Fake := &awstesting.FakeEC2{
		Instances: []ec2types.Instance{
			awstesting.NewInstance("i-host1", "ecs-host-1", "prod", "ecs", "10.0.5.5", "ami-ubuntu"),
		},
		Images: []ec2types.Image{
			{ImageId: awssdk.String("ami-ubuntu"), Name: awssdk.String("ubuntu/images/hvm-ssd/ubuntu-jammy-22.04")},
		},
	}

	task := Task{ID: "aaa111", ContainerInstanceARN: ciARN}

	host, err := ResolveTaskHost(context.Background(), ecsFake, ec2Fake, clusterARN, task)
	require.NoError(t, err)

	assert.Equal(t, "10.0.5.5", host.Instance.PrivateIP)
	assert.Equal(t, "i-host1", host.Instance.ID)
	assert.Equal(t, LoginUserUbuntu, host.LoginUser)
}

func TestResolveTaskHostNoContainerInstance(t *testing.T) {
	task := Task{ID: "stopped1"}

	_, err := ResolveTaskHost(context.Background(), &awstesting.FakeECS{}, &awstesting.FakeEC2{}, clusterARN, task)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveTaskHostUnknownContainerInstance(t *testing.T) {
	task := Task{ID: "aaa111", ContainerInstanceARN: ciARN}

	_, err := ResolveTaskHost(context.Background(), &awstesting.FakeECS{}, &awstesting.FakeEC2{}, clusterARN, task)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveTaskHostInstanceGone(t *testing.T) {
	ecsFake := &awstesting.FakeECS{
		ContainerInstances: map[string]string{ciARN: "i-gone"},
	}
	task := Task{ID: "aaa111", ContainerInstanceARN: ciARN}

	_, err := ResolveTaskHost(context.Background(), ecsFake, &awstesting.FakeEC2{}, clusterARN, task)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFlattenTaskTimestampFallbacks(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	task := flattenTask(ecstypes.Task{
		TaskArn:    awssdk.String("arn:aws:ecs:us-east-1:123456789012:task/prod-main/neverran"),
		LastStatus: awssdk.String("STOPPED"),
		CreatedAt:  awssdk.Time(created),
	})

	assert.Equal(t, "neverran", task.ID)
	assert.Equal(t, created, task.Timestamp)
}
