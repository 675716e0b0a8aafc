package providers

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/pkg/provider"
)

// STSClientAPI is the subset of the STS client used to verify credentials.
type STSClientAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Identity is the principal the AWS credentials belong to.
type Identity struct {
	Account string
	Arn     string
	UserID  string
}

// IdentityChecker verifies that AWS credentials are usable.
type IdentityChecker struct {
	opts   AWSOptions
	client STSClientAPI
}

// IdentityOption configures an IdentityChecker.
type IdentityOption func(*IdentityChecker)

// WithSTSClient sets a custom STS client (for testing)
func WithSTSClient(client STSClientAPI) IdentityOption {
	return func(c *IdentityChecker) {
		c.client = client
	}
}

// NewIdentityChecker creates a checker using opts for region, endpoint and
// static credentials.
func NewIdentityChecker(opts AWSOptions, options ...IdentityOption) *IdentityChecker {
	c := &IdentityChecker{opts: opts}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Check calls sts:GetCallerIdentity.
func (c *IdentityChecker) Check(ctx context.Context) (Identity, error) {
	if c.client == nil {
		cfg, err := LoadAWSConfig(ctx, c.opts)
		if err != nil {
			return Identity{}, dserrors.UserError{
				Message:    "Failed to configure AWS STS client",
				Details:    err.Error(),
				Suggestion: "Check your AWS profile and region settings",
				Err:        provider.AuthError{Provider: "aws", Message: err.Error()},
			}
		}
		c.client = sts.NewFromConfig(cfg)
	}

	out, err := c.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, dserrors.UserError{
			Message:    "Failed to validate AWS credentials",
			Details:    err.Error(),
			Suggestion: getSTSErrorSuggestion(err),
			Err:        provider.AuthError{Provider: "aws", Message: err.Error()},
		}
	}

	return Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

func getSTSErrorSuggestion(err error) string {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "ExpiredToken"):
		return "Your session has expired. Refresh your credentials (e.g. aws sso login)"
	case strings.Contains(errStr, "InvalidClientTokenId"), strings.Contains(errStr, "SignatureDoesNotMatch"):
		return "The access key is not valid. Check AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY"
	case strings.Contains(errStr, "RegionDisabled"):
		return "The specified region is disabled for your account"
	case strings.Contains(errStr, "no EC2 IMDS role found"), strings.Contains(errStr, "failed to retrieve credentials"):
		return "No AWS credentials found. Configure a profile or set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY"
	default:
		return "Check AWS credentials and permissions to call sts:GetCallerIdentity"
	}
}
