package inventory

import (
	"context"
	"sort"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"github.com/rileyhilliard/hop/internal/aws"
	"github.com/rileyhilliard/hop/internal/errors"
	"github.com/rileyhilliard/hop/internal/util"
)

// describeTasksMax is the DescribeTasks batch limit.
const describeTasksMax = 100

// ListClusters returns every ECS cluster in the account, with short names
// derived from the ARNs.
func ListClusters(ctx context.Context, api aws.ECSAPI) ([]Cluster, error) {
	var clusters []Cluster

	paginator := ecs.NewListClustersPaginator(api, &ecs.ListClustersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrQuery,
				"Failed to list ECS clusters",
				"Check AWS permissions for ecs:ListClusters")
		}
		for _, arn := range page.ClusterArns {
			clusters = append(clusters, Cluster{ARN: arn, Name: util.ShortARN(arn)})
		}
	}

	return clusters, nil
}

// ListServices returns the services registered in a cluster.
func ListServices(ctx context.Context, api aws.ECSAPI, clusterARN string) ([]Service, error) {
	var services []Service

	paginator := ecs.NewListServicesPaginator(api, &ecs.ListServicesInput{
		Cluster: awssdk.String(clusterARN),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrQuery,
				"Failed to list services in cluster "+util.ShortARN(clusterARN),
				"Check AWS permissions for ecs:ListServices")
		}
		for _, arn := range page.ServiceArns {
			services = append(services, Service{ARN: arn, Name: util.ShortARN(arn)})
		}
	}

	return services, nil
}

// ListTasks merges a service's RUNNING and STOPPED tasks into one list
// sorted by timestamp descending, so the most recently started or stopped
// task comes first regardless of which status list it originated from.
func ListTasks(ctx context.Context, api aws.ECSAPI, clusterARN, serviceName string) ([]Task, error) {
	var tasks []Task

	for _, status := range []ecstypes.DesiredStatus{ecstypes.DesiredStatusRunning, ecstypes.DesiredStatusStopped} {
		batch, err := listTasksByStatus(ctx, api, clusterARN, serviceName, status)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, batch...)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Timestamp.After(tasks[j].Timestamp)
	})
	return tasks, nil
}

func listTasksByStatus(ctx context.Context, api aws.ECSAPI, clusterARN, serviceName string, status ecstypes.DesiredStatus) ([]Task, error) {
	var arns []string

	paginator := ecs.NewListTasksPaginator(api, &ecs.ListTasksInput{
		Cluster:       awssdk.String(clusterARN),
		ServiceName:   awssdk.String(serviceName),
		DesiredStatus: status,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrQuery,
				"Failed to list "+string(status)+" tasks for "+serviceName,
				"Check AWS permissions for ecs:ListTasks")
		}
		arns = append(arns, page.TaskArns...)
	}

	var tasks []Task
	for start := 0; start < len(arns); start += describeTasksMax {
		end := min(start+describeTasksMax, len(arns))

		out, err := api.DescribeTasks(ctx, &ecs.DescribeTasksInput{
			Cluster: awssdk.String(clusterARN),
			Tasks:   arns[start:end],
		})
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrQuery,
				"Failed to describe tasks for "+serviceName,
				"Check AWS permissions for ecs:DescribeTasks")
		}
		for _, t := range out.Tasks {
			tasks = append(tasks, flattenTask(t))
		}
	}

	return tasks, nil
}

func flattenTask(t ecstypes.Task) Task {
	arn := awssdk.ToString(t.TaskArn)

	task := Task{
		ARN:                  arn,
		ID:                   util.ShortARN(arn),
		Status:               awssdk.ToString(t.LastStatus),
		ContainerInstanceARN: awssdk.ToString(t.ContainerInstanceArn),
	}

	// Running tasks carry a start time, stopped ones a stop time. Fall back
	// to creation so a task that never started still sorts somewhere sane.
	switch {
	case t.StoppedAt != nil:
		task.Timestamp = *t.StoppedAt
	case t.StartedAt != nil:
		task.Timestamp = *t.StartedAt
	case t.CreatedAt != nil:
		task.Timestamp = *t.CreatedAt
	}

	return task
}

// ResolveTaskHost walks task -> container instance -> EC2 instance -> image
// to find where a task runs and which account to log in as. Any hop that
// comes back empty returns ErrNotFound, which halts the pipeline.
func ResolveTaskHost(ctx context.Context, ecsAPI aws.ECSAPI, ec2API aws.EC2API, clusterARN string, task Task) (*TaskHost, error) {
	if task.ContainerInstanceARN == "" {
		return nil, ErrNotFound
	}

	out, err := ecsAPI.DescribeContainerInstances(ctx, &ecs.DescribeContainerInstancesInput{
		Cluster:            awssdk.String(clusterARN),
		ContainerInstances: []string{task.ContainerInstanceARN},
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrQuery,
			"Failed to describe container instance for task "+task.ID,
			"Check AWS permissions for ecs:DescribeContainerInstances")
	}
	if len(out.ContainerInstances) == 0 {
		return nil, ErrNotFound
	}

	instanceID := awssdk.ToString(out.ContainerInstances[0].Ec2InstanceId)
	if instanceID == "" {
		return nil, ErrNotFound
	}

	instance, err := DescribeInstance(ctx, ec2API, instanceID)
	if err != nil {
		return nil, err
	}
	if instance.PrivateIP == "" {
		return nil, ErrNotFound
	}

	user, err := loginUserForImage(ctx, ec2API, instance.ImageID)
	if err != nil {
		return nil, err
	}

	return &TaskHost{Instance: *instance, LoginUser: user}, nil
}
