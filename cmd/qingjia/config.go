package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"qingjia/internal/storage"
	"qingjia/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

func loadConfig(prefix string) (*types.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c := new(types.Config)
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.ServerPort == 0 {
		c.ServerPort = 23456
	}

	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 10
	}

	if c.StorageEndpoint == "" && c.StorageRegion != "" {
		c.StorageEndpoint = storage.DefaultEndpoint(c.StorageRegion)
	}

	if c.StoragePublicBaseURL == "" && c.StorageBucket != "" && c.StorageRegion != "" {
		c.StoragePublicBaseURL = storage.DefaultPublicBaseURL(c.StorageBucket, c.StorageRegion)
	}

	return c, nil
}

func newLogger(c *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if c.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func loadAWSConfig(ctx context.Context, c *types.Config) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(c.StorageRegion),
	}

	if c.StorageSecretID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.StorageSecretID, c.StorageSecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return awsConfig, nil
}

func newPhotoStorage(ctx context.Context, c *types.Config) (*storage.PhotoStorage, error) {
	if c.StorageRegion == "" || c.StorageBucket == "" {
		return nil, fmt.Errorf("set COS_REGION and COS_BUCKET")
	}

	awsConfig, err := loadAWSConfig(ctx, c)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsConfig, storage.ClientOptions(c.StorageEndpoint))

	return storage.NewPhotoStorage(client, c.StorageBucket, c.StoragePublicBaseURL), nil
}
