package eks

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awseks "github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/smithy-go"

	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
	"github.com/pankaj-dahiya-devops/flightctl/internal/providers/aws/common"
)

// DefaultResolver implements Resolver using the AWS SDK v2. The SDK
// configuration for each call is loaded from the named profile, so SSO
// profiles work as long as `aws sso login` has been run.
type DefaultResolver struct {
	provider  common.AWSClientProvider
	newClient clientFactory
}

// NewDefaultResolver returns a Resolver backed by the real EKS API.
func NewDefaultResolver(provider common.AWSClientProvider) *DefaultResolver {
	return &DefaultResolver{provider: provider, newClient: newSDKClient}
}

// GetManagedCluster implements Resolver.
func (r *DefaultResolver) GetManagedCluster(ctx context.Context, profile, region, clusterName string) (*models.ManagedCluster, error) {
	cfg, err := r.provider.LoadConfig(ctx, profile, region)
	if err != nil {
		return nil, models.NewCloudQueryError("load AWS config for", clusterName, err)
	}
	return resolveWithClient(ctx, r.newClient(cfg), region, clusterName)
}

// resolveWithClient is the testable core: it accepts an injectable eksAPIClient.
func resolveWithClient(ctx context.Context, client eksAPIClient, region, clusterName string) (*models.ManagedCluster, error) {
	out, err := client.DescribeCluster(ctx, &awseks.DescribeClusterInput{
		Name: aws.String(clusterName),
	})
	if err != nil {
		return nil, models.NewCloudQueryError("describe EKS", clusterName, describeAPIError(err))
	}
	if out == nil || out.Cluster == nil {
		return nil, models.NewCloudQueryError("describe EKS", clusterName, errors.New("empty response"))
	}

	endpoint := aws.ToString(out.Cluster.Endpoint)
	if endpoint == "" {
		return nil, models.NewCloudQueryError("describe EKS", clusterName, errors.New("cluster has no endpoint"))
	}

	var ca string
	if out.Cluster.CertificateAuthority != nil {
		ca = aws.ToString(out.Cluster.CertificateAuthority.Data)
	}
	if ca == "" {
		return nil, models.NewCloudQueryError("describe EKS", clusterName, errors.New("cluster has no certificate authority data"))
	}

	return &models.ManagedCluster{
		Name:                 clusterName,
		Region:               region,
		Endpoint:             endpoint,
		CertificateAuthority: ca,
	}, nil
}

// describeAPIError prefixes err with the AWS error code when the SDK
// reports one, so expired SSO sessions and missing clusters are easy to
// tell apart in the CLI output.
func describeAPIError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", apiErr.ErrorCode(), err)
	}
	return err
}
