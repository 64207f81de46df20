package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Additional-Code/funerarias/internal/config"
)

// S3 implements Store on an S3-compatible backend (AWS S3, MinIO or the
// BaaS storage gateway). Each named bucket maps to an S3 bucket.
type S3 struct {
	client  *s3.Client
	region  string
	baseURL string
}

// NewS3 creates an S3-backed store from configuration.
func NewS3(ctx context.Context, cfg config.Storage, optFns ...func(*s3.Options)) (*S3, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)...)

	base := cfg.PublicBaseURL
	if base == "" && cfg.Endpoint != "" {
		if u, err := url.Parse(cfg.Endpoint); err == nil {
			base = u.String()
		}
	}
	return &S3{client: client, region: region, baseURL: base}, nil
}

// Upload puts body under bucket/key and returns its public URL.
func (s *S3) Upload(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (Object, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return Object{}, fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	return Object{Bucket: bucket, Key: key, URL: s.PublicURL(bucket, key), ContentType: contentType, Size: size}, nil
}

// Delete removes bucket/key.
func (s *S3) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PublicURL resolves the public address of bucket/key.
func (s *S3) PublicURL(bucket, key string) string {
	if s.baseURL != "" {
		return joinURL(s.baseURL, bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, key)
}
