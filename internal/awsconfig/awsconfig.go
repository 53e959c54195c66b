// Package awsconfig loads the aws configuration shared by the SQS, SNS and S3 clients.
package awsconfig

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Params overrides the default aws configuration, empty values keep the defaults.
type Params struct {
	Region string
	// Endpoint replaces the service endpoints, used with localstack.
	Endpoint string
	// AccessKey and SecretKey set static credentials.
	AccessKey string
	SecretKey string
}

// Load returns the default aws configuration with the given overrides.
func Load(ctx context.Context, p Params) (aws.Config, error) {
	opts := make([]func(*config.LoadOptions) error, 0, 3)
	if p.Region != "" {
		opts = append(opts, config.WithRegion(p.Region))
	}
	if p.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(p.Endpoint))
	}
	if p.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(p.AccessKey, p.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading aws config: %w", err)
	}

	return cfg, nil
}
