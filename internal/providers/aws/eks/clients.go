package eks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awseks "github.com/aws/aws-sdk-go-v2/service/eks"
)

// eksAPIClient is the subset of EKS API operations used by the resolver.
// Using a narrow interface instead of the full SDK client makes unit testing
// trivial: create a struct that satisfies the interface and return canned data.
type eksAPIClient interface {
	DescribeCluster(
		ctx context.Context,
		params *awseks.DescribeClusterInput,
		optFns ...func(*awseks.Options),
	) (*awseks.DescribeClusterOutput, error)
}

// clientFactory builds an eksAPIClient from a region-scoped aws.Config.
type clientFactory func(cfg aws.Config) eksAPIClient

func newSDKClient(cfg aws.Config) eksAPIClient {
	return awseks.NewFromConfig(cfg)
}
