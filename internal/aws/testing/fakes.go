// Package testing provides in-memory fakes for the provider APIs so the
// resolution pipeline can be exercised without AWS access.
package testing

import (
	"context"
	"strings"
	"sync"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/rileyhilliard/hop/internal/util"
)

// FakeEC2 implements aws.EC2API against an in-memory instance list.
// DescribeInstances honors the filter subset hop actually sends:
// instance-state-name, instance-id, and tag:<key>.
type FakeEC2 struct {
	mu        sync.Mutex
	Instances []ec2types.Instance
	Images    []ec2types.Image
	Err       error

	// Call tracking for assertions
	DescribeInstancesCalls int
	DescribeImagesCalls    int
}

// NewInstance builds a running instance fixture with the tags hop filters on.
func NewInstance(id, name, env, role, privateIP, imageID string) ec2types.Instance {
	return ec2types.Instance{
		InstanceId:       awssdk.String(id),
		PrivateIpAddress: awssdk.String(privateIP),
		ImageId:          awssdk.String(imageID),
		State:            &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning},
		Tags: []ec2types.Tag{
			{Key: awssdk.String("Name"), Value: awssdk.String(name)},
			{Key: awssdk.String("Environment"), Value: awssdk.String(env)},
			{Key: awssdk.String("Role"), Value: awssdk.String(role)},
		},
	}
}

func (f *FakeEC2) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DescribeInstancesCalls++

	if f.Err != nil {
		return nil, f.Err
	}

	var matched []ec2types.Instance
	for _, inst := range f.Instances {
		if instanceMatches(inst, params) {
			matched = append(matched, inst)
		}
	}

	out := &ec2.DescribeInstancesOutput{}
	if len(matched) > 0 {
		out.Reservations = []ec2types.Reservation{{Instances: matched}}
	}
	return out, nil
}

func (f *FakeEC2) DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DescribeImagesCalls++

	if f.Err != nil {
		return nil, f.Err
	}

	out := &ec2.DescribeImagesOutput{}
	for _, img := range f.Images {
		for _, want := range params.ImageIds {
			if awssdk.ToString(img.ImageId) == want {
				out.Images = append(out.Images, img)
			}
		}
	}
	return out, nil
}

func instanceMatches(inst ec2types.Instance, params *ec2.DescribeInstancesInput) bool {
	if len(params.InstanceIds) > 0 {
		found := false
		for _, id := range params.InstanceIds {
			if awssdk.ToString(inst.InstanceId) == id {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	for _, filter := range params.Filters {
		if !filterMatches(inst, filter) {
			return false
		}
	}
	return true
}

func filterMatches(inst ec2types.Instance, filter ec2types.Filter) bool {
	name := awssdk.ToString(filter.Name)

	var actual string
	switch {
	case name == "instance-state-name":
		if inst.State != nil {
			actual = string(inst.State.Name)
		}
	case name == "instance-id":
		actual = awssdk.ToString(inst.InstanceId)
	case strings.HasPrefix(name, "tag:"):
		key := strings.TrimPrefix(name, "tag:")
		for _, tag := range inst.Tags {
			if awssdk.ToString(tag.Key) == key {
				actual = awssdk.ToString(tag.Value)
			}
		}
	default:
		return false
	}

	for _, want := range filter.Values {
		if actual == want {
			return true
		}
	}
	return false
}

// FakeTask pairs an ECS task fixture with the list keys ListTasks filters on.
type FakeTask struct {
	Task          ecstypes.Task
	ClusterARN    string
	ServiceName   string
	DesiredStatus string
}

// FakeECS implements aws.ECSAPI over a static cluster/service/task tree.
type FakeECS struct {
	mu          sync.Mutex
	ClusterARNs []string
	// Services maps cluster ARN to service ARNs.
	Services map[string][]string
	Tasks    []FakeTask
	// ContainerInstances maps container-instance ARN to EC2 instance ID.
	ContainerInstances map[string]string
	Err                error

	ListTasksCalls     int
	DescribeTasksCalls int
}

func (f *FakeECS) ListClusters(ctx context.Context, params *ecs.ListClustersInput, optFns ...func(*ecs.Options)) (*ecs.ListClustersOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return &ecs.ListClustersOutput{ClusterArns: f.ClusterARNs}, nil
}

func (f *FakeECS) ListServices(ctx context.Context, params *ecs.ListServicesInput, optFns ...func(*ecs.Options)) (*ecs.ListServicesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return &ecs.ListServicesOutput{ServiceArns: f.Services[awssdk.ToString(params.Cluster)]}, nil
}

func (f *FakeECS) ListTasks(ctx context.Context, params *ecs.ListTasksInput, optFns ...func(*ecs.Options)) (*ecs.ListTasksOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListTasksCalls++
	if f.Err != nil {
		return nil, f.Err
	}

	out := &ecs.ListTasksOutput{}
	for _, t := range f.Tasks {
		if t.ClusterARN != awssdk.ToString(params.Cluster) {
			continue
		}
		if params.ServiceName != nil && t.ServiceName != util.ShortARN(awssdk.ToString(params.ServiceName)) {
			continue
		}
		if t.DesiredStatus != string(params.DesiredStatus) {
			continue
		}
		out.TaskArns = append(out.TaskArns, awssdk.ToString(t.Task.TaskArn))
	}
	return out, nil
}

func (f *FakeECS) DescribeTasks(ctx context.Context, params *ecs.DescribeTasksInput, optFns ...func(*ecs.Options)) (*ecs.DescribeTasksOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DescribeTasksCalls++
	if f.Err != nil {
		return nil, f.Err
	}

	out := &ecs.DescribeTasksOutput{}
	for _, t := range f.Tasks {
		for _, want := range params.Tasks {
			if awssdk.ToString(t.Task.TaskArn) == want {
				out.Tasks = append(out.Tasks, t.Task)
			}
		}
	}
	return out, nil
}

func (f *FakeECS) DescribeContainerInstances(ctx context.Context, params *ecs.DescribeContainerInstancesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeContainerInstancesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	out := &ecs.DescribeContainerInstancesOutput{}
	for _, arn := range params.ContainerInstances {
		if instanceID, ok := f.ContainerInstances[arn]; ok {
			out.ContainerInstances = append(out.ContainerInstances, ecstypes.ContainerInstance{
				ContainerInstanceArn: awssdk.String(arn),
				Ec2InstanceId:        awssdk.String(instanceID),
			})
		}
	}
	return out, nil
}

// FakeSTS implements aws.STSAPI with a canned identity.
type FakeSTS struct {
	Account string
	ARN     string
	UserID  string
	Err     error

	Calls int
}

func (f *FakeSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return &sts.GetCallerIdentityOutput{
		Account: awssdk.String(f.Account),
		Arn:     awssdk.String(f.ARN),
		UserId:  awssdk.String(f.UserID),
	}, nil
}
