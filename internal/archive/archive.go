// Package archive uploads snapshot files to S3-compatible object storage.
package archive

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// defaultRegion avoids a bucket location lookup before every upload.
const defaultRegion = "us-east-1"

// S3Archiver copies snapshot files into a bucket, keyed by file name.
type S3Archiver struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ contract.Archiver = &S3Archiver{} // Compile-time check

// NewS3Archiver returns an archiver for the configured endpoint and bucket.
func NewS3Archiver(cfg *contract.Config) (*S3Archiver, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3Secure,
		Region: defaultRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return &S3Archiver{client: client, bucket: cfg.S3Bucket, prefix: "snapshots/"}, nil
}

// Archive uploads the file at path.
func (a *S3Archiver) Archive(ctx context.Context, path string) error {
	key := a.prefix + filepath.Base(path)
	_, err := a.client.FPutObject(ctx, a.bucket, key, path, minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return fmt.Errorf("s3 put object %s: %w", key, err)
	}
	return nil
}
