package minio

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/pkg/errors"
)

// ErrObjectNotFound is returned when the requested object key does not exist.
var ErrObjectNotFound = errors.New(errors.CodeNotFound, "object not found")

// TextStore persists raw document text in object storage. Analysis records
// carry only the object key, so large submissions never land in Postgres.
type TextStore interface {
	// Put stores text under a key derived from hash and returns that key.
	Put(ctx context.Context, hash, text string) (string, error)
	// Get returns the text stored under key, or ErrObjectNotFound.
	Get(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

type minioTextStore struct {
	client *Client
	logger logging.Logger
}

// NewTextStore returns a TextStore backed by the client's bucket.
func NewTextStore(client *Client, logger logging.Logger) TextStore {
	return &minioTextStore{client: client, logger: logger}
}

// ObjectKey maps a document hash to its object key. Exported so callers
// can derive keys without a round trip.
func ObjectKey(hash string) string {
	return "documents/" + hash + ".txt"
}

func (s *minioTextStore) Put(ctx context.Context, hash, text string) (string, error) {
	key := ObjectKey(hash)
	_, err := s.client.api.PutObject(ctx, s.client.bucket, key,
		strings.NewReader(text), int64(len(text)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeStorageError, "store document text")
	}
	s.logger.Debug("stored document text",
		logging.String("key", key), logging.Int("bytes", len(text)))
	return key, nil
}

func (s *minioTextStore) Get(ctx context.Context, key string) (string, error) {
	obj, err := s.client.api.GetObject(ctx, s.client.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeStorageError, "open document text")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", ErrObjectNotFound
		}
		return "", errors.Wrap(err, errors.CodeStorageError, "read document text")
	}
	return string(data), nil
}

func (s *minioTextStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.api.StatObject(ctx, s.client.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.CodeStorageError, "stat document text")
	}
	return true, nil
}

func (s *minioTextStore) Delete(ctx context.Context, key string) error {
	err := s.client.api.RemoveObject(ctx, s.client.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "delete document text")
	}
	return nil
}
