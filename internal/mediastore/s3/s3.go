// Package s3 stores media in an S3-compatible bucket via the MinIO client.
// Objects are keyed <ownerID>/<nanos><ext> so per-user listing and cleanup
// stay cheap.
package s3

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/keepsakehq/keepsake/server/internal/model"
)

type S3MediaStore struct {
	client *minio.Client
	bucket string
}

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewS3MediaStore(ctx context.Context, opts Options) (*S3MediaStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return &S3MediaStore{client: client, bucket: opts.Bucket}, nil
}

func (s *S3MediaStore) Save(ctx context.Context, ownerID, mimeType string, r io.Reader) (string, error) {
	key := fmt.Sprintf("%d%s", time.Now().UnixNano(), mimeTypeToExt(mimeType))
	_, err := s.client.PutObject(ctx, s.bucket, path.Join(ownerID, key), r, -1,
		minio.PutObjectOptions{ContentType: mimeType})
	if err != nil {
		return "", fmt.Errorf("failed to store object: %w", err)
	}
	return key, nil
}

func (s *S3MediaStore) Get(ctx context.Context, ownerID, storageKey string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path.Join(ownerID, storageKey), minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch object: %w", err)
	}
	// GetObject is lazy; Stat surfaces missing keys.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", fmt.Errorf("media: %w", model.ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to stat object: %w", err)
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = extToMimeType(storageKey)
	}
	return obj, contentType, nil
}

// PresignPut hands out a direct-upload URL valid for 15 minutes.
func (s *S3MediaStore) PresignPut(ctx context.Context, ownerID, mimeType string) (string, string, error) {
	key := fmt.Sprintf("%d%s", time.Now().UnixNano(), mimeTypeToExt(mimeType))
	u, err := s.client.PresignedPutObject(ctx, s.bucket, path.Join(ownerID, key), 15*time.Minute)
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return u.String(), key, nil
}

func (s *S3MediaStore) Delete(ctx context.Context, ownerID, storageKey string) error {
	err := s.client.RemoveObject(ctx, s.bucket, path.Join(ownerID, storageKey), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func mimeTypeToExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	case "text/plain":
		return ".txt"
	default:
		return ".jpg"
	}
}

func extToMimeType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	default:
		return "image/jpeg"
	}
}
