package objectstorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/futig/tutor-backend/internal/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key  string
	Size int64
}

// Connector stores objects in a single MinIO (S3-compatible) bucket.
type Connector struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewConnector(cfg config.ObjectStorageConfig, logger *zap.Logger) (*Connector, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Connector{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

func (c *Connector) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}

	if !exists {
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		c.logger.Info("object storage bucket created", zap.String("bucket", c.bucket))
	}

	return nil
}

func (c *Connector) Put(ctx context.Context, key string, data []byte) error {
	_, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	ctxzap.Debug(ctx, "object stored", zap.String("key", key), zap.Int("size", len(data)))
	return nil
}

// Get returns ErrObjectNotFound when the key does not exist.
func (c *Connector) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.wrapError(key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, c.wrapError(key, err)
	}

	return data, nil
}

func (c *Connector) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects under %s: %w", prefix, obj.Err)
		}
		objects = append(objects, ObjectInfo{Key: obj.Key, Size: obj.Size})
	}

	return objects, nil
}

// DeletePrefix removes every object whose key starts with prefix.
func (c *Connector) DeletePrefix(ctx context.Context, prefix string) error {
	objects := c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true})

	for rErr := range c.client.RemoveObjects(ctx, c.bucket, objects, minio.RemoveObjectsOptions{}) {
		if rErr.Err != nil {
			return fmt.Errorf("delete object %s: %w", rErr.ObjectName, rErr.Err)
		}
	}

	ctxzap.Debug(ctx, "objects deleted", zap.String("prefix", prefix))
	return nil
}

func (c *Connector) wrapError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return fmt.Errorf("get object %s: %w", key, err)
}
