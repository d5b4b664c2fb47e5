package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of the S3 client the store needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store writes exported pages to an S3 bucket, optionally below a key prefix.
type Store struct {
	client       PutObjectAPI
	bucket       string
	prefix       string
	cacheControl string
	logger       *slog.Logger
}

type Option func(*Store)

func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.Trim(prefix, "/")
	}
}

func WithCacheControl(value string) Option {
	return func(s *Store) {
		s.cacheControl = value
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func NewStore(client PutObjectAPI, bucket string, opts ...Option) *Store {
	s := &Store{
		client: client,
		bucket: bucket,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreFromEnv builds the client from the default AWS configuration chain.
func NewStoreFromEnv(ctx context.Context, bucket string, opts ...Option) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewStore(s3.NewFromConfig(cfg), bucket, opts...), nil
}

func (s *Store) Location() string {
	if s.prefix == "" {
		return "s3://" + s.bucket
	}
	return "s3://" + s.bucket + "/" + s.prefix
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	objectKey := s.objectKey(key)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}
	if s.cacheControl != "" {
		input.CacheControl = aws.String(s.cacheControl)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("failed to upload page", "bucket", s.bucket, "key", objectKey, "error", err)
		return fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	s.logger.Debug("uploaded page", "bucket", s.bucket, "key", objectKey, "bytes", len(data))
	return nil
}

func (s *Store) objectKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}
