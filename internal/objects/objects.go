// Package objects archives uploaded contract PDFs in MinIO/S3. The analysis
// workflow receives the file through the relay; the object copy exists so
// the original document can be re-downloaded or re-analyzed later.
package objects

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gu00col/ross-sub000/internal/config"
)

type Uploader struct {
	client *minio.Client
	bucket string
}

func New(cfg config.ObjectsConfig) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return &Uploader{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the configured bucket if it does not exist yet.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

// PutContract stores the PDF under a key derived from the contract ID and
// returns that key.
func (u *Uploader) PutContract(ctx context.Context, contractID string, r io.Reader, size int64) (string, error) {
	key := ObjectKey(contractID)
	_, err := u.client.PutObject(ctx, u.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

// ObjectKey returns the bucket key for a contract's PDF.
func ObjectKey(contractID string) string {
	return "contracts/" + contractID + ".pdf"
}
