package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/triplog/triplog-backend/config"
)

// FileStorage provides an abstraction over the object storage backend
// holding published trip images.
type FileStorage interface {
	Save(ctx context.Context, key, contentType string, reader io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	// KeyFromURL inverts PublicURL. ok is false for URLs outside the bucket.
	KeyFromURL(url string) (key string, ok bool)
}

// S3FileStorage stores trip images in an S3-compatible bucket and exposes
// them through a public base URL.
type S3FileStorage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3FileStorage builds the storage client from config. Static
// credentials win when configured; otherwise the default AWS chain
// (env, shared config, instance role) is used.
func NewS3FileStorage(ctx context.Context, cfg config.StorageConfig) (*S3FileStorage, error) {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		opts.BaseEndpoint = &endpoint
	}

	if cfg.AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		opts.Credentials = awsCfg.Credentials
	}

	return &S3FileStorage{
		client:        s3.New(opts),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// validateKey rejects storage keys containing path traversal segments.
func validateKey(key string) error {
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return fmt.Errorf("path traversal detected in storage key")
		}
	}
	return nil
}

func (s *S3FileStorage) Save(ctx context.Context, key, contentType string, reader io.Reader) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        reader,
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("s3 put object failed: %w", err)
	}
	return nil
}

func (s *S3FileStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("s3 delete object failed: %w", err)
	}
	return nil
}

// PublicURL returns the browser-facing URL for an uploaded object.
func (s *S3FileStorage) PublicURL(key string) string {
	return s.publicBaseURL + "/" + key
}

func (s *S3FileStorage) KeyFromURL(url string) (string, bool) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
