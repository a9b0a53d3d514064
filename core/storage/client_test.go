package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"relation-manager/core/storage"
	"relation-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EmptyEndpoint", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{Endpoint: "https://"})
		assert.Error(t, err)
		assert.Nil(t, client)
	})
}

func TestConfigFallbacks(t *testing.T) {
	var cfg storage.Config
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 10, cfg.Retention())

	cfg = storage.Config{TimeoutSeconds: 5, Keep: 3}
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, 3, cfg.Retention())
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "snapshots").Return(true, nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "snapshots", ""))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "snapshots").Return(false, nil)
		client.On("MakeBucket", ctx, "snapshots", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "snapshots", "eu-west-1"))
		client.AssertExpectations(t)
	})

	t.Run("Unreachable", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "snapshots").Return(false, errors.New("dial tcp: refused"))

		err := storage.EnsureBucket(ctx, client, "snapshots", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "refused")
	})
}
