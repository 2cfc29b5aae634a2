package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinioConfig holds MinIO connection details.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicBaseURL overrides the endpoint when building public URLs (CDN, reverse proxy).
	PublicBaseURL string
}

// MinioStore stores objects in MinIO or any S3 compatible server.
type MinioStore struct {
	client     *minio.Client
	publicBase string
	log        zerolog.Logger
}

const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// NewMinioStore connects to MinIO and makes sure every bucket exists and is publicly readable.
func NewMinioStore(ctx context.Context, cfg MinioConfig, buckets []string, log zerolog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	log = log.With().Str("component", "minio").Logger()
	for _, bucket := range buckets {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
		}
		if exists {
			log.Debug().Str("bucket", bucket).Msg("bucket already present")
			continue
		}
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		if err := client.SetBucketPolicy(ctx, bucket, fmt.Sprintf(publicReadPolicy, bucket)); err != nil {
			return nil, fmt.Errorf("failed to set public policy on bucket %s: %w", bucket, err)
		}
		log.Info().Str("bucket", bucket).Msg("bucket created")
	}

	base := cfg.PublicBaseURL
	if base == "" {
		base = client.EndpointURL().String()
	}
	log.Info().Str("endpoint", cfg.Endpoint).Msg("connected to MinIO")

	return &MinioStore{client: client, publicBase: strings.TrimRight(base, "/"), log: log}, nil
}

// Upload implements ObjectStore.
func (s *MinioStore) Upload(ctx context.Context, bucket, path string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, path, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// PublicURL implements ObjectStore.
func (s *MinioStore) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, bucket, path)
}
