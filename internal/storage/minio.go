package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nutrisight/nutrisight-go/internal/config"
)

// ImageStore archives uploaded label images in an S3-compatible bucket.
// Archival is best-effort: scan analysis never fails because storage is down.
type ImageStore struct {
	client *minio.Client
	bucket string
	useSSL bool
}

func NewImageStore(cfg *config.Config) (*ImageStore, error) {
	if cfg.MinioEndpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store := &ImageStore{client: client, bucket: cfg.MinioBucket, useSSL: cfg.MinioUseSSL}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		slog.Info("created image bucket", "bucket", cfg.MinioBucket)
	}

	return store, nil
}

// Archive uploads an image and returns its object URL. Object names are
// namespaced per user so history endpoints can be audited per account.
func (s *ImageStore) Archive(ctx context.Context, userID uuid.UUID, image []byte, mimeType string) (string, error) {
	ext := "jpg"
	switch mimeType {
	case "image/png":
		ext = "png"
	case "image/webp":
		ext = "webp"
	}

	objectName := fmt.Sprintf("%s/%s.%s", userID.String(), uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(image), int64(len(image)), minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, objectName), nil
}
