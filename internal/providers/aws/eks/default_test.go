package eks

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awseks "github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pankaj-dahiya-devops/flightctl/internal/models"
	"github.com/pankaj-dahiya-devops/flightctl/internal/providers/aws/common"
)

type fakeEKSClient struct {
	out   *awseks.DescribeClusterOutput
	err   error
	calls []string
}

func (f *fakeEKSClient) DescribeCluster(_ context.Context, params *awseks.DescribeClusterInput, _ ...func(*awseks.Options)) (*awseks.DescribeClusterOutput, error) {
	f.calls = append(f.calls, aws.ToString(params.Name))
	return f.out, f.err
}

type fakeProvider struct {
	profile, region string
	err             error
}

func (f *fakeProvider) LoadConfig(_ context.Context, profile, region string) (aws.Config, error) {
	f.profile, f.region = profile, region
	if f.err != nil {
		return aws.Config{}, f.err
	}
	return aws.Config{Region: region}, nil
}

func (f *fakeProvider) LoadProfile(context.Context, string) (*common.ProfileConfig, error) {
	return nil, errors.New("not used")
}

func clusterOutput(endpoint, ca string) *awseks.DescribeClusterOutput {
	c := &ekstypes.Cluster{Endpoint: aws.String(endpoint)}
	if ca != "" {
		c.CertificateAuthority = &ekstypes.Certificate{Data: aws.String(ca)}
	}
	return &awseks.DescribeClusterOutput{Cluster: c}
}

func TestResolveWithClient_Success(t *testing.T) {
	client := &fakeEKSClient{out: clusterOutput("https://ABC.gr7.us-east-1.eks.amazonaws.com", "Y2EtZGF0YQ==")}

	mc, err := resolveWithClient(context.Background(), client, "us-east-1", "prod")
	require.NoError(t, err)

	assert.Equal(t, []string{"prod"}, client.calls)
	assert.Equal(t, &models.ManagedCluster{
		Name:                 "prod",
		Region:               "us-east-1",
		Endpoint:             "https://ABC.gr7.us-east-1.eks.amazonaws.com",
		CertificateAuthority: "Y2EtZGF0YQ==",
	}, mc)
}

func TestResolveWithClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeEKSClient
		wantErr string
	}{
		{
			name:    "api error",
			client:  &fakeEKSClient{err: &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "No cluster found"}},
			wantErr: "ResourceNotFoundException",
		},
		{
			name:    "nil cluster",
			client:  &fakeEKSClient{out: &awseks.DescribeClusterOutput{}},
			wantErr: "empty response",
		},
		{
			name:    "missing endpoint",
			client:  &fakeEKSClient{out: clusterOutput("", "Y2E=")},
			wantErr: "no endpoint",
		},
		{
			name:    "missing certificate",
			client:  &fakeEKSClient{out: clusterOutput("https://example", "")},
			wantErr: "no certificate authority",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolveWithClient(context.Background(), tc.client, "us-east-1", "prod")
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrCloudQuery)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Contains(t, err.Error(), `cluster "prod"`)
		})
	}
}

func TestDefaultResolver_UsesProfileAndRegion(t *testing.T) {
	provider := &fakeProvider{}
	client := &fakeEKSClient{out: clusterOutput("https://example", "Y2E=")}
	r := &DefaultResolver{
		provider: provider,
		newClient: func(cfg aws.Config) eksAPIClient {
			assert.Equal(t, "eu-central-1", cfg.Region)
			return client
		},
	}

	mc, err := r.GetManagedCluster(context.Background(), "admin", "eu-central-1", "staging")
	require.NoError(t, err)

	assert.Equal(t, "admin", provider.profile)
	assert.Equal(t, "eu-central-1", provider.region)
	assert.Equal(t, "https://example", mc.Endpoint)
	assert.Equal(t, []string{"staging"}, client.calls)
}

func TestDefaultResolver_ConfigFailure(t *testing.T) {
	r := &DefaultResolver{
		provider: &fakeProvider{err: errors.New("sso token expired")},
		newClient: func(aws.Config) eksAPIClient {
			t.Fatal("client must not be built when config loading fails")
			return nil
		},
	}

	_, err := r.GetManagedCluster(context.Background(), "admin", "us-east-1", "prod")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrCloudQuery)
	assert.Contains(t, err.Error(), "sso token expired")
}
