// Package archive keeps a copy of raw uploaded documents in object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/reansql/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

type Archiver interface {
	// Archive stores data under key and returns the stored object location.
	Archive(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// New returns a MinIO archiver, or a no-op one when no endpoint is configured.
func New(cfg *config.Config) (Archiver, error) {
	if cfg.Archive.Endpoint == "" {
		log.Info().Msg("Document archive disabled")
		return NoopArchiver{}, nil
	}
	return NewMinioArchiver(cfg.Archive)
}

type MinioArchiver struct {
	client *minio.Client
	bucket string
}

func NewMinioArchiver(cfg config.Archive) (*MinioArchiver, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioArchiver{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (a *MinioArchiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", a.bucket, err)
	}
	log.Info().Str("bucket", a.bucket).Msg("Created archive bucket")
	return nil
}

func (a *MinioArchiver) Archive(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return a.bucket + "/" + key, nil
}

// Prepare creates the bucket of archivers that need one. A failure is logged
// and reported as false; it never stops the caller.
func Prepare(ctx context.Context, a Archiver) bool {
	b, ok := a.(interface{ EnsureBucket(context.Context) error })
	if !ok {
		return true
	}
	if err := b.EnsureBucket(ctx); err != nil {
		log.Warn().Err(err).Msg("Archive bucket unavailable, uploads will not be archived")
		return false
	}
	return true
}

type NoopArchiver struct{}

func (NoopArchiver) Archive(context.Context, string, []byte, string) (string, error) {
	return "", nil
}

// ObjectKey builds a collision free key for an upload.
func ObjectKey(sourceLabel, fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "document"
	}
	label := strings.Trim(strings.ReplaceAll(sourceLabel, "/", "-"), " ")
	if label == "" {
		label = "unlabeled"
	}
	return path.Join("uploads", label, uuid.NewString()+"-"+base)
}
