package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config selects the bucket and, for S3-compatible services such as MinIO or R2, the endpoint
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	PublicURL string
}

type S3Store struct {
	client    s3API
	bucket    string
	region    string
	publicURL string
	logger    zerolog.Logger
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg.Bucket, awsCfg.Region, cfg.PublicURL), nil
}

func newS3Store(client s3API, bucket, region, publicURL string) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    bucket,
		region:    region,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    log.With().Str("storeName", "s3").Str("bucket", bucket).Logger(),
	}
}

func (s *S3Store) Put(ctx context.Context, namespace string, asset Asset) (string, error) {
	key := newReference(namespace, asset.Extension)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(asset.Data),
		ContentType:   aws.String(asset.ContentType),
		ContentLength: aws.Int64(int64(len(asset.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("put s3 object %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(asset.Data)).Msg("stored asset")
	return key, nil
}

// Delete is idempotent: S3 reports success for keys that do not exist
func (s *S3Store) Delete(ctx context.Context, reference string) error {
	key, err := cleanReference(reference)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete s3 object %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Msg("deleted asset")
	return nil
}

func (s *S3Store) URL(reference string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + strings.TrimPrefix(reference, "/")
	}
	if s.region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, strings.TrimPrefix(reference, "/"))
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, strings.TrimPrefix(reference, "/"))
}
