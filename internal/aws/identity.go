package aws

import (
	"context"
	stderrors "errors"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/rileyhilliard/hop/internal/errors"
)

// Identity describes the caller according to STS.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

func (i Identity) String() string {
	return fmt.Sprintf("%s (account %s)", i.ARN, i.Account)
}

// VerifyCredentials performs the single GetCallerIdentity check that runs
// before any inventory query. A failure here means the credential chain is
// broken and the whole pipeline stops.
func VerifyCredentials(ctx context.Context, api STSAPI) (*Identity, error) {
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		var apiErr smithy.APIError
		if stderrors.As(err, &apiErr) {
			return nil, errors.WrapWithCode(err, errors.ErrCreds,
				fmt.Sprintf("AWS rejected your credentials (%s)", apiErr.ErrorCode()),
				"Refresh your session ('aws sso login') or check AWS_PROFILE")
		}
		return nil, errors.WrapWithCode(err, errors.ErrCreds,
			"Couldn't verify AWS credentials",
			"Check your network connection and AWS configuration")
	}

	return &Identity{
		Account: awssdk.ToString(out.Account),
		ARN:     awssdk.ToString(out.Arn),
		UserID:  awssdk.ToString(out.UserId),
	}, nil
}
