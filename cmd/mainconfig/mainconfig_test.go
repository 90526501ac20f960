package mainconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/swasthyasathi/internal/config"
)

func TestLoadAWSConfigStaticCredentials(t *testing.T) {
	cfg := &appconfig.Config{
		AWSRegion:          "ap-south-1",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "secret",
	}
	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", awsCfg.Region)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", creds.AccessKeyID)
	assert.Nil(t, awsCfg.EndpointResolverWithOptions)
}

func TestEndpointResolverOverridesStorageServices(t *testing.T) {
	resolver := endpointResolver("http://localhost:4566", "ap-south-1")

	for _, service := range []string{s3.ServiceID, dynamodb.ServiceID} {
		ep, err := resolver.ResolveEndpoint(service, "ap-south-1")
		require.NoError(t, err, service)
		assert.Equal(t, "http://localhost:4566", ep.URL)
		assert.Equal(t, "ap-south-1", ep.SigningRegion)
	}

	_, err := resolver.ResolveEndpoint("SQS", "ap-south-1")
	var notFound *aws.EndpointNotFoundError
	assert.True(t, errors.As(err, &notFound))
}
