package inventory

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/rileyhilliard/hop/internal/aws"
	"github.com/rileyhilliard/hop/internal/errors"
	"github.com/rileyhilliard/hop/internal/util"
)

// ListRoles returns the distinct Role tag values across running instances
// in the given environment, deduplicated and sorted. An environment with
// no running instances yields an empty (non-nil) slice.
func ListRoles(ctx context.Context, api aws.EC2API, env string) ([]string, error) {
	var roles []string

	err := forEachInstance(ctx, api, runningFilters(env), func(inst ec2types.Instance) {
		if role := tagValue(inst.Tags, TagRole); role != "" {
			roles = append(roles, role)
		}
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrQuery,
			"Failed to list roles for environment "+env,
			"Check AWS permissions for ec2:DescribeInstances")
	}

	return util.SortUnique(roles), nil
}

// ListInstances returns the running instances matching both the environment
// and role tags, in provider order. The selector handles ordering via its
// own match ranking; this stage does not sort.
func ListInstances(ctx context.Context, api aws.EC2API, env, role string) ([]Instance, error) {
	filters := append(runningFilters(env), ec2types.Filter{
		Name:   awssdk.String("tag:" + TagRole),
		Values: []string{role},
	})

	var instances []Instance
	err := forEachInstance(ctx, api, filters, func(inst ec2types.Instance) {
		instances = append(instances, flatten(inst))
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrQuery,
			"Failed to list instances for role "+role,
			"Check AWS permissions for ec2:DescribeInstances")
	}

	return instances, nil
}

// DescribeInstance fetches a single instance by ID.
// Returns ErrNotFound when the ID no longer resolves.
func DescribeInstance(ctx context.Context, api aws.EC2API, instanceID string) (*Instance, error) {
	out, err := api.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrQuery,
			"Failed to describe instance "+instanceID,
			"Check AWS permissions for ec2:DescribeInstances")
	}

	for _, res := range out.Reservations {
		for _, inst := range res.Instances {
			flat := flatten(inst)
			return &flat, nil
		}
	}
	return nil, ErrNotFound
}

// forEachInstance pages through DescribeInstances and calls fn for every
// instance in provider order.
func forEachInstance(ctx context.Context, api aws.EC2API, filters []ec2types.Filter, fn func(ec2types.Instance)) error {
	paginator := ec2.NewDescribeInstancesPaginator(api, &ec2.DescribeInstancesInput{
		Filters: filters,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, res := range page.Reservations {
			for _, inst := range res.Instances {
				fn(inst)
			}
		}
	}
	return nil
}

func runningFilters(env string) []ec2types.Filter {
	return []ec2types.Filter{
		{
			Name:   awssdk.String("instance-state-name"),
			Values: []string{string(ec2types.InstanceStateNameRunning)},
		},
		{
			Name:   awssdk.String("tag:" + TagEnvironment),
			Values: []string{env},
		},
	}
}

func flatten(inst ec2types.Instance) Instance {
	return Instance{
		ID:        awssdk.ToString(inst.InstanceId),
		Name:      tagValue(inst.Tags, TagName),
		PrivateIP: awssdk.ToString(inst.PrivateIpAddress),
		ImageID:   awssdk.ToString(inst.ImageId),
	}
}

func tagValue(tags []ec2types.Tag, key string) string {
	for _, tag := range tags {
		if awssdk.ToString(tag.Key) == key {
			return awssdk.ToString(tag.Value)
		}
	}
	return ""
}
