package minio

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/config"
)

// MinioClient wraps the MinIO client with scan-image specific functionality.
// Scan rows store the object key; the dashboard resolves it to a short-lived
// presigned URL at read time.
type MinioClient struct {
	client *minio.Client
	bucket string
}

const presignTTL = 15 * time.Minute

// NewMinioClient initializes a new MinIO client with the provided configuration
func NewMinioClient(cfg config.MinioConfig) (*MinioClient, error) {
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mc := &MinioClient{client: minioClient, bucket: cfg.Bucket}

	exists, err := minioClient.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO server: %w", err)
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		log.Printf("Bucket '%s' created", cfg.Bucket)
	}

	log.Printf("Successfully connected to MinIO at %s", cfg.Endpoint)
	return mc, nil
}

// PresignedScanImageURL resolves a stored object key to a presigned GET URL.
// Keys that are already absolute URLs (external storage) pass through as-is.
func (mc *MinioClient) PresignedScanImageURL(ctx context.Context, objectKey string) (string, error) {
	if strings.HasPrefix(objectKey, "http://") || strings.HasPrefix(objectKey, "https://") {
		return objectKey, nil
	}

	u, err := mc.client.PresignedGetObject(ctx, mc.bucket, objectKey, presignTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", objectKey, err)
	}
	return u.String(), nil
}
