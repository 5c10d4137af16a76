package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ProfileConfig is a resolved AWS profile with its SDK configuration and
// initialised service clients.
type ProfileConfig struct {
	// ProfileName is the name from ~/.aws/config or "default".
	ProfileName string

	// AccountID is the resolved AWS account ID for this profile (via STS).
	AccountID string

	// Region is the home region for this profile configuration.
	Region string

	// Config is the fully loaded AWS SDK v2 configuration.
	Config aws.Config

	// Clients holds initialised service clients scoped to Region.
	Clients *ClientSet
}

// AWSClientProvider loads AWS configurations for named profiles.
// It is the sole entry point for AWS credential and region management across
// the provider layer.
//
// Implementations must use the AWS SDK v2 only. Never call the aws CLI.
type AWSClientProvider interface {
	// LoadConfig returns the SDK configuration for profile pinned to region.
	// It performs no API calls. Empty values select the SDK defaults.
	LoadConfig(ctx context.Context, profile, region string) (aws.Config, error)

	// LoadProfile returns a ProfileConfig for the named profile, including
	// the account ID resolved through STS. Pass an empty string to load the
	// default profile.
	LoadProfile(ctx context.Context, profile string) (*ProfileConfig, error)
}
