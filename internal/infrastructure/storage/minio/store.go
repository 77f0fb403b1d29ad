// Package minio stores raw uploaded document payloads.  The database keeps
// extracted text; the original bytes live in object storage under the
// storage path recorded on the document row.
package minio

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/domain/document"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

const connectTimeout = 10 * time.Second

// api is the subset of the MinIO SDK the store uses; narrowed for tests.
type api interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (*minio.Object, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

// Store implements document.ObjectStore on MinIO.
type Store struct {
	client api
	bucket string
	logger logging.Logger
}

var _ document.ObjectStore = (*Store)(nil)

// NewStore connects to MinIO and ensures the document bucket exists.
func NewStore(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "minio endpoint not configured")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "lexatlas-documents"
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeObjectStorageFailed, "failed to create minio client")
	}

	s := &Store{client: client, bucket: cfg.Bucket, logger: log}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := s.ensureBucket(connectCtx); err != nil {
		return nil, err
	}

	log.Info("minio connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
	)
	return s, nil
}

// newStoreWithAPI is used by tests.
func newStoreWithAPI(client api, bucket string, log logging.Logger) *Store {
	return &Store{client: client, bucket: bucket, logger: log}
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeObjectStorageFailed, "failed to check bucket")
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeObjectStorageFailed, "failed to create bucket")
	}
	s.logger.Info("bucket created", logging.String("bucket", s.bucket))
	return nil
}

// Put uploads an object and returns its storage path.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if key == "" {
		return "", errors.New(errors.ErrCodeValidation, "object key must not be empty")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeObjectStorageFailed, "failed to upload object")
	}

	s.logger.Debug("object stored",
		logging.String("key", key),
		logging.Int64("size", info.Size),
	)
	return s.bucket + "/" + key, nil
}

// Get streams an object back.  The caller closes the reader.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeObjectStorageFailed, "failed to fetch object")
	}
	// GetObject is lazy; a Stat forces the first request so missing keys
	// surface here instead of on first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, errors.New(errors.ErrCodeNotFound, "object not found: "+key)
		}
		return nil, errors.Wrap(err, errors.ErrCodeObjectStorageFailed, "failed to stat object")
	}
	return obj, nil
}

// Remove deletes an object.  Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeObjectStorageFailed, "failed to remove object")
	}
	return nil
}
