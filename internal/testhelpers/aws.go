// Package testhelpers starts the containers used by the integration tests.
package testhelpers

import (
	"context"
	"fmt"
	"net"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"

	"github.com/x4b1/mqbackup/broker"
)

const (
	localStackRegion = "eu-west-1"
	localStackKey    = "test"
)

// LocalStackContainer is a localstack instance serving SQS, SNS and S3, with the aws
// config pointing to it.
type LocalStackContainer struct {
	Config   aws.Config
	Endpoint string

	*localstack.LocalStackContainer
}

// CreateLocalStackContainer starts localstack and returns its instance.
func CreateLocalStackContainer(ctx context.Context) (*LocalStackContainer, error) {
	lsContainer, err := localstack.RunContainer(ctx,
		testcontainers.WithImage("localstack/localstack:3.0.2"),
		testcontainers.CustomizeRequest(testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Env: map[string]string{"SERVICES": "sqs,sns,s3"},
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("starting localstack: %w", err)
	}

	host, err := lsContainer.Host(ctx)
	if err != nil {
		return nil, err
	}

	port, err := lsContainer.MappedPort(ctx, nat.Port("4566/tcp"))
	if err != nil {
		return nil, err
	}

	endpoint := "http://" + net.JoinHostPort(host, port.Port())

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(localStackRegion),
		config.WithBaseEndpoint(endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(localStackKey, localStackKey, "")),
	)
	if err != nil {
		return nil, err
	}

	return &LocalStackContainer{
		Config:              awsCfg,
		Endpoint:            endpoint,
		LocalStackContainer: lsContainer,
	}, nil
}

// BrokerConfig returns the configuration to open the given AWS driver against the container.
func (c *LocalStackContainer) BrokerConfig(driver string) broker.Config {
	return broker.Config{
		Driver:   driver,
		Endpoint: c.Endpoint,
		VHost:    localStackRegion,
		User:     localStackKey,
		Password: localStackKey,
	}
}
