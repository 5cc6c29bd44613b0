// Package aws constructs provider clients from the default credential
// chain and defines the narrow API surfaces the rest of hop depends on.
// Pipelines take these interfaces rather than concrete SDK clients so
// they can run headlessly against fakes in tests.
package aws

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/rileyhilliard/hop/internal/errors"
)

// EC2API is the slice of the EC2 service hop uses: tag-filtered instance
// listing and image description. *ec2.Client satisfies it, and it also
// satisfies ec2.DescribeInstancesAPIClient so SDK paginators accept it.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
}

// ECSAPI is the slice of the ECS service hop uses for the
// cluster/service/task hierarchy and the container-instance join.
type ECSAPI interface {
	ListClusters(ctx context.Context, params *ecs.ListClustersInput, optFns ...func(*ecs.Options)) (*ecs.ListClustersOutput, error)
	ListServices(ctx context.Context, params *ecs.ListServicesInput, optFns ...func(*ecs.Options)) (*ecs.ListServicesOutput, error)
	ListTasks(ctx context.Context, params *ecs.ListTasksInput, optFns ...func(*ecs.Options)) (*ecs.ListTasksOutput, error)
	DescribeTasks(ctx context.Context, params *ecs.DescribeTasksInput, optFns ...func(*ecs.Options)) (*ecs.DescribeTasksOutput, error)
	DescribeContainerInstances(ctx context.Context, params *ecs.DescribeContainerInstancesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeContainerInstancesOutput, error)
}

// STSAPI covers the one-time credential verification call.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Clients bundles the provider APIs a pipeline run needs.
type Clients struct {
	EC2 EC2API
	ECS ECSAPI
	STS STSAPI
}

// NewClients builds SDK clients from the default credential chain
// (env vars, shared config, SSO, instance metadata). region, when
// non-empty, overrides whatever the chain resolves.
func NewClients(ctx context.Context, region string) (*Clients, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCreds,
			"Failed to load AWS configuration",
			"Check your AWS_PROFILE / shared config, or run 'aws configure'")
	}

	return &Clients{
		EC2: ec2.NewFromConfig(cfg),
		ECS: ecs.NewFromConfig(cfg),
		STS: sts.NewFromConfig(cfg),
	}, nil
}
