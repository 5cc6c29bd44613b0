package inventory

import (
	"context"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/rileyhilliard/hop/internal/aws"
	"github.com/rileyhilliard/hop/internal/errors"
)

// Login accounts by OS family. Best-effort: hop can't know how an AMI was
// customized, it only recognizes the stock conventions.
const (
	LoginUserUbuntu  = "ubuntu"
	LoginUserDefault = "ec2-user"

	ubuntuMarker = "ubuntu"
)

// loginUserForImage describes the image and infers the login account from
// its name and tags. An image that can't be described (deregistered AMIs
// are common on older instances) falls back to the default account rather
// than failing the pipeline.
func loginUserForImage(ctx context.Context, api aws.EC2API, imageID string) (string, error) {
	if imageID == "" {
		return LoginUserDefault, nil
	}

	out, err := api.DescribeImages(ctx, &ec2.DescribeImagesInput{
		ImageIds: []string{imageID},
	})
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrQuery,
			"Failed to describe image "+imageID,
			"Check AWS permissions for ec2:DescribeImages")
	}
	if len(out.Images) == 0 {
		return LoginUserDefault, nil
	}

	return LoginUserForImage(out.Images[0]), nil
}

// LoginUserForImage inspects an image's name and tag values for a
// case-insensitive OS family marker. "ubuntu" anywhere means the stock
// login account is ubuntu; everything else gets the default.
func LoginUserForImage(img ec2types.Image) string {
	if containsUbuntu(awssdk.ToString(img.Name)) {
		return LoginUserUbuntu
	}
	for _, tag := range img.Tags {
		if containsUbuntu(awssdk.ToString(tag.Value)) {
			return LoginUserUbuntu
		}
	}
	return LoginUserDefault
}

func containsUbuntu(s string) bool {
	return strings.Contains(strings.ToLower(s), ubuntuMarker)
}
