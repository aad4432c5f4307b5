package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/kendall-kelly/ganges-support-api/config"
)

// S3API is the subset of the S3 client used for attachments
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Service stores attachments in an S3 bucket
type S3Service struct {
	client S3API
	bucket string
	region string
}

// NewS3Service creates the S3 client from the configured AWS credentials
func NewS3Service(ctx context.Context, cfg *appConfig.Config) (*S3Service, error) {
	// Load AWS configuration with explicit options
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.UsePathStyle = false
	})

	return NewS3ServiceWithClient(client, cfg.AWSS3Bucket, cfg.AWSRegion), nil
}

// NewS3ServiceWithClient wraps an existing client
func NewS3ServiceWithClient(client S3API, bucket, region string) *S3Service {
	return &S3Service{client: client, bucket: bucket, region: region}
}

// Upload puts the file into the bucket and returns its object URL
func (s *S3Service) Upload(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	objectKey := attachmentPrefix + key

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(content))),
		// Note: ACL is not set here - bucket policy should grant read access
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	slog.DebugContext(ctx, "uploaded attachment to S3", "bucket", s.bucket, "key", objectKey)
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, objectKey), nil
}
