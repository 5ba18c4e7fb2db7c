package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// MinioConfig captures the settings for an S3-compatible cover bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// minPartSize is the smallest multipart chunk S3 accepts.
const minPartSize = 5 << 20

// Minio stores covers as objects in one bucket.
type Minio struct {
	client *minio.Client
	bucket string
}

// NewMinio connects to the endpoint and makes sure the bucket exists.
func NewMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &Minio{client: client, bucket: cfg.Bucket}, nil
}

func (m *Minio) Save(ctx context.Context, name string, r io.Reader, _ int64) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}

	contentType, body, err := sniff(r)
	if err != nil {
		return 0, err
	}
	// The declared size is not trusted; streaming with an unknown length
	// lets the caller see how many bytes really arrived.
	info, err := m.client.PutObject(ctx, m.bucket, name, body, -1, minio.PutObjectOptions{
		ContentType: contentType,
		PartSize:    minPartSize,
	})
	if err != nil {
		return 0, fmt.Errorf("minio put: %w", err)
	}
	return info.Size, nil
}

func (m *Minio) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if checkName(name) != nil {
		return nil, "", domain.ErrCoverNotFound
	}

	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("minio get: %w", err)
	}
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).StatusCode == http.StatusNotFound {
			return nil, "", domain.ErrCoverNotFound
		}
		return nil, "", fmt.Errorf("minio stat: %w", err)
	}
	return obj, stat.ContentType, nil
}

func (m *Minio) Remove(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove: %w", err)
	}
	return nil
}

// Ping reports whether the bucket is reachable.
func (m *Minio) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}
