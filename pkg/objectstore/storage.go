// Package objectstore writes inquiry snapshots to S3-compatible storage.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/salvex/salvex-api/pkg/logger"
	"github.com/salvex/salvex-api/pkg/metrics"
	"go.uber.org/zap"
)

const jsonContentType = "application/json"

// PutObjectAPI is the part of *s3.Client the storage client calls
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config describes the bucket and credentials
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
}

// StorageClient uploads objects to a single bucket
type StorageClient struct {
	api        PutObjectAPI
	bucketName string
}

// NewStorageClient creates an S3 client with static credentials. A custom
// endpoint (MinIO, R2, Yandex) switches to path-style addressing.
func NewStorageClient(cfg Config) *StorageClient {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	logger.Info("Object storage client initialized",
		zap.String("bucket", cfg.BucketName),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", region),
	)

	return NewStorageClientWithAPI(s3.New(opts), cfg.BucketName)
}

// NewStorageClientWithAPI wraps an existing S3 API, mainly for tests
func NewStorageClientWithAPI(api PutObjectAPI, bucketName string) *StorageClient {
	return &StorageClient{api: api, bucketName: bucketName}
}

// PutJSON uploads body under key with a JSON content type
func (s *StorageClient) PutJSON(ctx context.Context, key string, body []byte) error {
	start := time.Now()
	operation := "putJSON"

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(jsonContentType),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall(ctx, "object_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall(ctx, "object_storage", operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(body)),
	)

	return nil
}

// Bucket returns the target bucket name
func (s *StorageClient) Bucket() string {
	return s.bucketName
}
